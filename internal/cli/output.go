package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return NewOutputTo(format, os.Stdout)
}

// NewOutputTo creates a new Output formatter writing to w
func NewOutputTo(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Guest:
		o.printGuest(v)
	case GuestList:
		o.printGuestList(v)
	case RegisterResult:
		o.printRegisterResult(v)
	case FriendResult:
		o.printf("Friend: %s\n", v.Outcome)
	case CancelResult:
		o.printCancelResult(v)
	case Slots:
		o.printSlots(v)
	case Event:
		o.printEvent(v)
	case Price:
		o.printf("Price: %s\n", v.Price)
	case Policy:
		o.printf("Self-unregister allowed: %s\n", yesNo(v.UnregisterAllowed))
	case FriendSettings:
		o.printf("Friends enabled: %s\n", yesNo(v.Enabled))
		o.printf("Limit per guest: %d\n", v.Limit)
	case Blacklist:
		o.printBlacklist(v)
	case BanResult:
		o.printBanResult(v)
	case BanCheck:
		o.printf("Banned: %s\n", yesNo(v.Banned))
	case KnownUser:
		o.printf("@%s -> %d\n", v.Handle, v.ID)
	case Stats:
		o.printStats(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Friend response type (matches API)
type Friend struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// Guest response type
type Guest struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	QRToken      string    `json:"qr_token"`
	Friends      []Friend  `json:"friends"`
}

// GuestList response type
type GuestList struct {
	Guests []Guest `json:"guests"`
}

// RegisterResult response type
type RegisterResult struct {
	Outcome string `json:"outcome"`
	Guest   *Guest `json:"guest,omitempty"`
}

// FriendResult response type
type FriendResult struct {
	Outcome string `json:"outcome"`
}

// CancelResult response type
type CancelResult struct {
	Removed bool `json:"removed"`
}

// Slots response type
type Slots struct {
	Current     int  `json:"current"`
	Max         int  `json:"max"`
	Free        int  `json:"free"`
	HasCapacity bool `json:"has_capacity"`
}

// Event response type
type Event struct {
	Place     string `json:"place"`
	Time      string `json:"time"`
	Price     string `json:"price"`
	Announced bool   `json:"announced"`
	FreeSlots int    `json:"free_slots"`
}

// Price response type
type Price struct {
	Price string `json:"price"`
}

// Policy response type
type Policy struct {
	UnregisterAllowed bool `json:"unregister_allowed"`
}

// FriendSettings response type
type FriendSettings struct {
	Enabled bool `json:"enabled"`
	Limit   int  `json:"limit"`
}

// BanEntry response type
type BanEntry struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Blacklist response type
type Blacklist struct {
	Entries []BanEntry `json:"entries"`
}

// BanResult response type
type BanResult struct {
	Entry      BanEntry `json:"entry"`
	ResolvedID *int64   `json:"resolved_id,omitempty"`
}

// BanCheck response type
type BanCheck struct {
	Banned bool `json:"banned"`
}

// KnownUser response type
type KnownUser struct {
	Handle string `json:"handle"`
	ID     int64  `json:"id"`
}

// Stats response type
type Stats struct {
	Registered        int  `json:"registered"`
	Friends           int  `json:"friends"`
	MaxSlots          int  `json:"max_slots"`
	FreeSlots         int  `json:"free_slots"`
	Banned            int  `json:"banned"`
	UnregisterAllowed bool `json:"unregister_allowed"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func guestLabel(g Guest) string {
	if g.Username != "" {
		return fmt.Sprintf("%s (@%s, %d)", g.Name, g.Username, g.ID)
	}
	return fmt.Sprintf("%s (%d)", g.Name, g.ID)
}

func (o *Output) printGuest(g Guest) {
	o.printf("Guest: %s\n", guestLabel(g))
	o.printf("Registered: %s\n", g.RegisteredAt.Format(time.RFC3339))
	o.printf("QR token: %s\n", g.QRToken)
	if len(g.Friends) > 0 {
		o.printf("Friends (%d):\n", len(g.Friends))
		for _, f := range g.Friends {
			o.printFriend(f)
		}
	}
}

func (o *Output) printFriend(f Friend) {
	if f.Username != "" {
		o.printf("  + %s (@%s)\n", f.Name, f.Username)
	} else {
		o.printf("  + %s\n", f.Name)
	}
}

func (o *Output) printGuestList(l GuestList) {
	friends := 0
	for _, g := range l.Guests {
		friends += len(g.Friends)
	}
	o.printf("Guests (%d, plus %d friends):\n", len(l.Guests), friends)
	for i, g := range l.Guests {
		o.printf("%3d. %s\n", i+1, guestLabel(g))
		for _, f := range g.Friends {
			o.printf("  ")
			o.printFriend(f)
		}
	}
}

func (o *Output) printRegisterResult(r RegisterResult) {
	o.printf("Registration: %s\n", r.Outcome)
	if r.Guest != nil {
		o.printf("QR token: %s\n", r.Guest.QRToken)
	}
}

func (o *Output) printCancelResult(c CancelResult) {
	if c.Removed {
		o.printf("Registration cancelled\n")
	} else {
		o.printf("Not registered\n")
	}
}

func (o *Output) printSlots(s Slots) {
	o.printf("Slots: %d/%d (%d free)\n", s.Current, s.Max, s.Free)
}

func (o *Output) printEvent(e Event) {
	if !e.Announced {
		o.printf("Event not announced yet\n")
	} else {
		o.printf("Place: %s\n", e.Place)
		o.printf("Time: %s\n", e.Time)
		o.printf("Price: %s\n", e.Price)
	}
	o.printf("Free slots: %d\n", e.FreeSlots)
}

func (o *Output) printBlacklist(b Blacklist) {
	if len(b.Entries) == 0 {
		o.printf("Blacklist is empty\n")
		return
	}
	values := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		values[i] = banLabel(e)
	}
	o.printf("Blacklist (%d): %s\n", len(values), strings.Join(values, ", "))
}

func banLabel(e BanEntry) string {
	if e.Kind == "handle" {
		return "@" + e.Value
	}
	return e.Value
}

func (o *Output) printBanResult(b BanResult) {
	o.printf("Banned: %s\n", banLabel(b.Entry))
	if b.ResolvedID != nil {
		o.printf("Also banned identity: %d\n", *b.ResolvedID)
	}
}

func (o *Output) printStats(s Stats) {
	o.printf("Registered: %d\n", s.Registered)
	o.printf("Friends: %d\n", s.Friends)
	o.printf("Slots: %d max, %d free\n", s.MaxSlots, s.FreeSlots)
	o.printf("Blacklisted: %d\n", s.Banned)
	o.printf("Self-unregister allowed: %s\n", yesNo(s.UnregisterAllowed))
}
