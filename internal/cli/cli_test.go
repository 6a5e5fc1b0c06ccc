package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/guestlist/internal/api"
	"github.com/mcoot/guestlist/internal/api/middleware"
	"github.com/mcoot/guestlist/internal/factory"
	"github.com/mcoot/guestlist/internal/testutil"
)

const testToken = "admin-token"

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	hash, err := middleware.HashToken(testToken, bcrypt.MinCost)
	require.NoError(t, err)

	app := factory.NewTestApp()
	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		Registry:       app.Registry,
		Blacklist:      app.Blacklist,
		Event:          app.Event,
		Policy:         app.Policy,
		AdminTokenHash: hash,
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes guestctl with args against srv and returns stdout
func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--server", srv.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestHealthCommand(t *testing.T) {
	srv := newTestAPI(t)

	out, err := run(t, srv, "health")
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", out)
}

func TestRegisterAndList(t *testing.T) {
	srv := newTestAPI(t)

	out, err := run(t, srv, "guest", "register", "42", "Ann", "--username", "@Ann")
	require.NoError(t, err)
	assert.Contains(t, out, "Registration: success")
	assert.Contains(t, out, "QR token: token-1")

	out, err = run(t, srv, "guest", "register", "42", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Registration: already_registered\n", out)

	_, err = run(t, srv, "guest", "list")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)

	out, err = run(t, srv, "--token", testToken, "guest", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Guests (1, plus 0 friends):")
	assert.Contains(t, out, "Ann (@Ann, 42)")
}

func TestJSONOutput(t *testing.T) {
	srv := newTestAPI(t)

	out, err := run(t, srv, "-o", "json", "slots", "get")
	require.NoError(t, err)

	var slots Slots
	require.NoError(t, json.Unmarshal([]byte(out), &slots))
	assert.Equal(t, Slots{Current: 0, Max: 50, Free: 50, HasCapacity: true}, slots)

	_, err = run(t, srv, "-o", "yaml", "slots", "get")
	assert.Error(t, err)
}

func TestAdminCommands(t *testing.T) {
	srv := newTestAPI(t)
	admin := func(args ...string) string {
		t.Helper()
		out, err := run(t, srv, append([]string{"--token", testToken}, args...)...)
		require.NoError(t, err, args)
		return out
	}

	assert.Equal(t, "Slots: 0/3 (3 free)\n", admin("slots", "set", "3"))
	assert.Contains(t, admin("event", "set", "Loft", "Fri 20:00", "300"), "Place: Loft")
	assert.Equal(t, "Price: 120\n", admin("price", "set", "120"))
	assert.Equal(t, "Self-unregister allowed: no\n", admin("policy", "set", "false"))
	assert.Equal(t, "Friends enabled: yes\nLimit per guest: 2\n", admin("friends", "set", "--limit", "2"))

	admin("guest", "register", "7", "Eve", "--username", "eve")
	assert.Equal(t, "@eve -> 7\n", admin("known", "eve"))
	assert.Equal(t, "Banned: @eve\nAlso banned identity: 7\n", admin("blacklist", "add", "@eve", "--resolve"))
	assert.Equal(t, "Blacklist (2): @eve, 7\n", admin("blacklist", "list"))
	assert.Equal(t, "Banned: yes\n", admin("blacklist", "check", "--id", "7"))
	assert.Equal(t, "Ban lifted\n", admin("blacklist", "remove", "7"))
	assert.Equal(t, "Banned: no\n", admin("blacklist", "check", "--id", "7"))

	stats := admin("stats")
	assert.Contains(t, stats, "Registered: 1\n")
	assert.Contains(t, stats, "Blacklisted: 1\n")

	_, err := run(t, srv, "--token", testToken, "guest", "clear")
	assert.Error(t, err)
	assert.Equal(t, "Guest list cleared\n", admin("guest", "clear", "--yes"))
}

func TestOutputText(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputTo("text", &buf)

	out.Print(Event{FreeSlots: 4})
	assert.Equal(t, "Event not announced yet\nFree slots: 4\n", buf.String())

	buf.Reset()
	out.Print(Blacklist{})
	assert.Equal(t, "Blacklist is empty\n", buf.String())

	buf.Reset()
	out.Print(CancelResult{Removed: true})
	assert.Equal(t, "Registration cancelled\n", buf.String())

	buf.Reset()
	out.Print(GuestList{Guests: []Guest{{ID: 1, Name: "A", Friends: []Friend{{Name: "F", Username: "f"}}}}})
	assert.Equal(t, "Guests (1, plus 1 friends):\n  1. A (1)\n    + F (@f)\n", buf.String())
}

func TestOutputJSONMessage(t *testing.T) {
	var buf bytes.Buffer
	NewOutputTo("json", &buf).PrintMessage("done")
	assert.JSONEq(t, `{"message":"done"}`, buf.String())
}

func TestHashTokenCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hash-token", "secret", "--cost", "4"})
	require.NoError(t, cmd.Execute())

	hash := bytes.TrimSpace(out.Bytes())
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("secret")))
}
