package model

// RegisterOutcome classifies the result of a registration attempt
type RegisterOutcome string

const (
	RegisterSuccess           RegisterOutcome = "success"
	RegisterAlreadyRegistered RegisterOutcome = "already_registered"
	RegisterBlacklisted       RegisterOutcome = "blacklisted"
	RegisterFull              RegisterOutcome = "full"
)

// FriendOutcome classifies the result of attaching a plus-one
type FriendOutcome string

const (
	FriendAdded         FriendOutcome = "added"
	FriendNotRegistered FriendOutcome = "not_registered" // silent no-op
	FriendsDisabled     FriendOutcome = "disabled"
	FriendLimitReached  FriendOutcome = "limit_reached"
)
