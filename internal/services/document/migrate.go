package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcoot/guestlist/internal/dependencies/random"
	"github.com/mcoot/guestlist/internal/model"
)

// rawDocument is the untyped top level of a persisted document
type rawDocument map[string]json.RawMessage

// migration upgrades a raw document by one schema version.
// It reports whether it changed anything beyond the version number.
type migration func(raw rawDocument, tokens random.Random) (bool, error)

// migrations[i] upgrades from version i to i+1
var migrations = []migration{
	migrateLegacyLayout,
	migrateFriendsFlag,
}

func init() {
	if len(migrations) != model.CurrentSchemaVersion {
		panic(fmt.Sprintf("document: %d migrations registered for schema version %d", len(migrations), model.CurrentSchemaVersion))
	}
}

// schemaVersion reads schema_version, treating an absent field as 0
func (raw rawDocument) schemaVersion() (int, error) {
	v, ok := raw["schema_version"]
	if !ok {
		return 0, nil
	}
	var version int
	if err := json.Unmarshal(v, &version); err != nil {
		return 0, fmt.Errorf("schema_version: %w", err)
	}
	return version, nil
}

func (raw rawDocument) setDefault(key string, value string) bool {
	if _, ok := raw[key]; ok {
		return false
	}
	raw[key] = json.RawMessage(value)
	return true
}

func (raw rawDocument) rename(from, to string) bool {
	v, ok := raw[from]
	if !ok {
		return false
	}
	delete(raw, from)
	if _, exists := raw[to]; exists {
		return true
	}
	raw[to] = v
	return true
}

// migrate runs every migration the document is missing and stamps the current version
func migrate(raw rawDocument, tokens random.Random) (from int, changed bool, err error) {
	from, err = raw.schemaVersion()
	if err != nil {
		return 0, false, err
	}
	if from > model.CurrentSchemaVersion {
		return from, false, fmt.Errorf("schema version %d is newer than supported version %d", from, model.CurrentSchemaVersion)
	}
	if from < 0 {
		return from, false, fmt.Errorf("schema version %d is invalid", from)
	}

	for v := from; v < model.CurrentSchemaVersion; v++ {
		if _, err := migrations[v](raw, tokens); err != nil {
			return from, false, fmt.Errorf("migrating schema %d to %d: %w", v, v+1, err)
		}
		changed = true
	}
	raw["schema_version"] = json.RawMessage(fmt.Sprint(model.CurrentSchemaVersion))
	return from, changed, nil
}

// migrateLegacyLayout brings an unversioned document up to version 1: backfills
// missing fields, renames event_info and allow_unregister, normalizes blacklist
// handles and known_users keys, and gives older guests a QR token and friends list.
func migrateLegacyLayout(raw rawDocument, tokens random.Random) (bool, error) {
	changed := false

	changed = raw.setDefault("max_slots", fmt.Sprint(model.DefaultMaxSlots)) || changed
	changed = raw.setDefault("price", "0") || changed

	changed = raw.rename("event_info", "event") || changed
	changed = raw.setDefault("event", `{"place":"","time":"","price":""}`) || changed

	changed = raw.rename("allow_unregister", "unregister_allowed") || changed
	changed = raw.setDefault("unregister_allowed", "true") || changed

	changed = raw.setDefault("registered_users", "{}") || changed
	changed = raw.setDefault("blacklist", "[]") || changed
	changed = raw.setDefault("known_users", "{}") || changed
	changed = raw.setDefault("max_friends_per_user", "0") || changed

	c, err := normalizeBlacklist(raw)
	if err != nil {
		return false, err
	}
	changed = c || changed

	c, err = normalizeKnownUsers(raw)
	if err != nil {
		return false, err
	}
	changed = c || changed

	c, err = normalizeRegistrationTimes(raw)
	if err != nil {
		return false, err
	}
	changed = c || changed

	c, err = backfillGuests(raw, tokens)
	if err != nil {
		return false, err
	}
	return c || changed, nil
}

// migrateFriendsFlag derives the explicit friends_enabled flag from the limit
func migrateFriendsFlag(raw rawDocument, _ random.Random) (bool, error) {
	if _, ok := raw["friends_enabled"]; ok {
		return false, nil
	}
	var limit int
	if v, ok := raw["max_friends_per_user"]; ok {
		if err := json.Unmarshal(v, &limit); err != nil {
			return false, fmt.Errorf("max_friends_per_user: %w", err)
		}
	}
	raw["friends_enabled"] = json.RawMessage(fmt.Sprint(limit > 0))
	return true, nil
}

func normalizeBlacklist(raw rawDocument) (bool, error) {
	var entries []model.BanEntry
	if err := json.Unmarshal(raw["blacklist"], &entries); err != nil {
		return false, fmt.Errorf("blacklist: %w", err)
	}
	var bl model.Blacklist
	for _, e := range entries {
		bl.Add(e)
	}
	normalized, err := json.Marshal(bl)
	if err != nil {
		return false, err
	}
	if compactEqual(raw["blacklist"], normalized) {
		return false, nil
	}
	raw["blacklist"] = normalized
	return true, nil
}

func normalizeKnownUsers(raw rawDocument) (bool, error) {
	var known map[string]model.Identity
	if err := json.Unmarshal(raw["known_users"], &known); err != nil {
		return false, fmt.Errorf("known_users: %w", err)
	}
	changed := known == nil
	lowered := make(map[string]model.Identity, len(known))
	for handle, id := range known {
		h := model.NormalizeHandle(handle)
		if h != handle {
			changed = true
		}
		if h != "" {
			lowered[h] = id
		}
	}
	if !changed {
		return false, nil
	}
	data, err := json.Marshal(lowered)
	if err != nil {
		return false, err
	}
	raw["known_users"] = data
	return true, nil
}

// legacyTimeLayouts are the zone-less forms written by Python's isoformat()
var legacyTimeLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// parseLegacyTime accepts RFC 3339 and the naive ISO-8601 layouts, reading
// the latter in local time
func parseLegacyTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("registered_at %q is not an ISO-8601 timestamp", s)
}

// normalizeRegistrationTimes rewrites every guest's registered_at as RFC 3339,
// keeping guest order. Only unversioned documents go through here; later
// versions must already hold RFC 3339.
func normalizeRegistrationTimes(raw rawDocument) (bool, error) {
	fields, err := orderedFields(raw["registered_users"])
	if err != nil {
		return false, fmt.Errorf("registered_users: %w", err)
	}
	changed := false
	for i, f := range fields {
		var guest map[string]json.RawMessage
		if err := json.Unmarshal(f.value, &guest); err != nil {
			return false, fmt.Errorf("registered_users[%s]: %w", f.key, err)
		}
		var stamp *string
		if v, ok := guest["registered_at"]; ok {
			if err := json.Unmarshal(v, &stamp); err != nil {
				return false, fmt.Errorf("registered_users[%s]: registered_at: %w", f.key, err)
			}
		}
		if stamp == nil {
			continue
		}
		t, err := parseLegacyTime(*stamp)
		if err != nil {
			return false, fmt.Errorf("registered_users[%s]: %w", f.key, err)
		}
		normalized := t.Format(time.RFC3339Nano)
		if normalized == *stamp {
			continue
		}
		guest["registered_at"], _ = json.Marshal(normalized)
		if fields[i].value, err = json.Marshal(guest); err != nil {
			return false, err
		}
		changed = true
	}
	if !changed {
		return false, nil
	}
	raw["registered_users"] = encodeFields(fields)
	return true, nil
}

type rawField struct {
	key   string
	value json.RawMessage
}

// orderedFields splits a JSON object into its members in document order
func orderedFields(data json.RawMessage) ([]rawField, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var fields []rawField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, rawField{key: key, value: value})
	}
	return fields, nil
}

func encodeFields(fields []rawField) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(f.key)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func backfillGuests(raw rawDocument, tokens random.Random) (bool, error) {
	var guests model.GuestList
	if err := json.Unmarshal(raw["registered_users"], &guests); err != nil {
		return false, fmt.Errorf("registered_users: %w", err)
	}
	changed := false
	for _, entry := range guests.Entries() {
		g := guests.Get(entry.ID)
		if g.QRToken == "" {
			g.QRToken = tokens.Token()
			changed = true
		}
		if clean := model.CleanHandle(g.Username); clean != g.Username {
			g.Username = clean
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	data, err := json.Marshal(guests)
	if err != nil {
		return false, err
	}
	raw["registered_users"] = data
	return true, nil
}

func compactEqual(a, b []byte) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
