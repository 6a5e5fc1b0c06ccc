package request

// RegisterRequest is the request body for registering a guest
type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// FriendRequest is the request body for attaching a plus-one
type FriendRequest struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// CapacityRequest is the request body for changing max_slots
type CapacityRequest struct {
	MaxSlots *int `json:"max_slots"`
}

// EventRequest is the request body for announcing the event.
// All three fields are replaced; omitted fields become empty.
type EventRequest struct {
	Place string `json:"place"`
	Time  string `json:"time"`
	Price string `json:"price"`
}

// PriceRequest is the request body for the legacy top-level price
type PriceRequest struct {
	Price string `json:"price"`
}

// PolicyRequest is the request body for the unregister policy
type PolicyRequest struct {
	UnregisterAllowed *bool `json:"unregister_allowed"`
}

// FriendsRequest is the request body for plus-one settings.
// Omitted fields are left unchanged.
type FriendsRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
	Limit   *int  `json:"limit,omitempty"`
}

// BanRequest is the request body for adding a blacklist entry
type BanRequest struct {
	Entry string `json:"entry"`
	// Resolve also bans the identity last seen with a handle entry
	Resolve bool `json:"resolve,omitempty"`
}
