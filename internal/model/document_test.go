package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestListPreservesKeyOrder(t *testing.T) {
	input := `{"900":{"name":"Z","username":"","registered_at":"2024-01-01T00:00:00Z","qr_token":"a","friends":[]},` +
		`"5":{"name":"A","username":"a","registered_at":"2024-01-01T00:00:00Z","qr_token":"b","friends":[{"name":"F","username":""}]}}`

	var list GuestList
	require.NoError(t, json.Unmarshal([]byte(input), &list))

	entries := list.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Identity(900), entries[0].ID)
	assert.Equal(t, Identity(5), entries[1].ID)
	assert.Equal(t, 1, list.FriendCount())

	out, err := json.Marshal(list)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestGuestListBackfillsMissingFriends(t *testing.T) {
	var list GuestList
	require.NoError(t, json.Unmarshal([]byte(`{"1":{"name":"A"}}`), &list))

	g := list.Get(1)
	require.NotNil(t, g)
	assert.NotNil(t, g.Friends)
	assert.Empty(t, g.Friends)
}

func TestGuestListRejectsNonNumericKey(t *testing.T) {
	var list GuestList
	err := json.Unmarshal([]byte(`{"abc":{"name":"A"}}`), &list)
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestGuestListAddRemove(t *testing.T) {
	var list GuestList
	assert.True(t, list.Add(1, &Guest{Name: "A"}))
	assert.True(t, list.Add(2, &Guest{Name: "B"}))
	assert.False(t, list.Add(1, &Guest{Name: "again"}))
	assert.Equal(t, "A", list.Get(1).Name)

	assert.True(t, list.Remove(1))
	assert.False(t, list.Remove(1))
	assert.Equal(t, 1, list.Len())
	assert.Nil(t, list.Get(1))

	out, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2":{"name":"B","username":"","registered_at":"0001-01-01T00:00:00Z","qr_token":"","friends":null}}`, string(out))
}

func TestEmptyGuestListMarshalsAsObject(t *testing.T) {
	var list GuestList
	out, err := json.Marshal(list)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestBlacklistMixedJSON(t *testing.T) {
	var bl Blacklist
	require.NoError(t, json.Unmarshal([]byte(`[12, "Bob", "@bob", 12, "alice"]`), &bl))

	assert.Equal(t, []BanEntry{BanID(12), BanHandle("bob"), BanHandle("alice")}, bl.Entries())

	out, err := json.Marshal(bl)
	require.NoError(t, err)
	assert.Equal(t, `[12,"bob","alice"]`, string(out))
}

func TestBlacklistRejectsOtherTypes(t *testing.T) {
	var bl Blacklist
	assert.Error(t, json.Unmarshal([]byte(`[true]`), &bl))
	assert.Error(t, json.Unmarshal([]byte(`[""]`), &bl))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &bl))
}

func TestEmptyBlacklistMarshalsAsArray(t *testing.T) {
	var bl Blacklist
	out, err := json.Marshal(bl)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestBlacklistIsBanned(t *testing.T) {
	var bl Blacklist
	bl.Add(BanID(1))
	bl.Add(BanHandle("@Eve"))

	assert.True(t, bl.IsBanned(1, ""))
	assert.True(t, bl.IsBanned(2, "EVE"))
	assert.False(t, bl.IsBanned(2, "adam"))

	assert.True(t, bl.Remove(BanHandle("eve")))
	assert.False(t, bl.IsBanned(2, "eve"))
	assert.False(t, bl.Remove(BanHandle("eve")))
}

func TestLegacyPrice(t *testing.T) {
	cases := []struct {
		raw  string
		text string
	}{
		{`0`, "0"},
		{`250`, "250"},
		{`12.5`, "12.5"},
		{`"free"`, "free"},
		{`"300"`, "300"},
	}
	for _, tc := range cases {
		var p LegacyPrice
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &p), tc.raw)
		assert.Equal(t, tc.text, p.String(), tc.raw)

		out, err := json.Marshal(p)
		require.NoError(t, err)
		assert.Equal(t, tc.raw, string(out), "price should be preserved verbatim")
	}

	var p LegacyPrice
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &p))
}

func TestNewLegacyPrice(t *testing.T) {
	out, _ := json.Marshal(NewLegacyPrice("100"))
	assert.Equal(t, "100", string(out))

	out, _ = json.Marshal(NewLegacyPrice("100 UAH"))
	assert.Equal(t, `"100 UAH"`, string(out))

	out, _ = json.Marshal(NewLegacyPrice("NaN"))
	assert.Equal(t, `"NaN"`, string(out))
}

func TestDocumentCapacity(t *testing.T) {
	doc := NewDocument()
	doc.MaxSlots = 1
	assert.True(t, doc.HasCapacity())

	doc.RegisteredUsers.Add(1, &Guest{Name: "A"})
	assert.False(t, doc.HasCapacity())
	assert.Equal(t, 0, doc.FreeSlots())

	doc.MaxSlots = 0
	assert.Equal(t, -1, doc.FreeSlots())
}

func TestRecordKnown(t *testing.T) {
	doc := NewDocument()

	assert.False(t, doc.RecordKnown(1, ""))
	assert.True(t, doc.RecordKnown(1, "@Ann"))
	assert.False(t, doc.RecordKnown(1, "ANN"))
	assert.True(t, doc.RecordKnown(2, "ann"))

	id, ok := doc.ResolveHandle("@ANN")
	assert.True(t, ok)
	assert.Equal(t, Identity(2), id)
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "bob", NormalizeHandle("  @Bob "))
	assert.Equal(t, "", NormalizeHandle("@"))
	assert.Equal(t, "Bob", CleanHandle(" @Bob"))
}
