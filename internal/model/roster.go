package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RosterEntry pairs an activity with its name, which is its unique key.
type RosterEntry struct {
	Name     string
	Activity Activity
}

// Roster is the complete set of activities returned by one fetch, kept in the
// order the API listed them.
type Roster struct {
	entries []RosterEntry
}

// NewRoster builds a roster from entries in the given order.
func NewRoster(entries ...RosterEntry) Roster {
	var r Roster
	for _, e := range entries {
		r.put(e.Name, e.Activity)
	}
	return r
}

// Len returns the number of activities.
func (r Roster) Len() int { return len(r.entries) }

// Entries returns the activities in roster order.
func (r Roster) Entries() []RosterEntry {
	out := make([]RosterEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns the activity names in roster order.
func (r Roster) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Get looks up an activity by name.
func (r Roster) Get(name string) (Activity, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e.Activity, true
		}
	}
	return Activity{}, false
}

// put keeps the first position of a repeated name and its latest value,
// which is how a JSON object with duplicate keys reads in a browser.
func (r *Roster) put(name string, a Activity) {
	for i := range r.entries {
		if r.entries[i].Name == name {
			r.entries[i].Activity = a
			return
		}
	}
	r.entries = append(r.entries, RosterEntry{Name: name, Activity: a})
}

// UnmarshalJSON decodes a JSON object of name → activity, preserving key order.
func (r *Roster) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("roster: expected JSON object, got %v", tok)
	}

	var out Roster
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("roster: %w", err)
		}
		name, _ := tok.(string)

		var a Activity
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("roster: activity %q: %w", name, err)
		}
		out.put(name, a)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("roster: %w", err)
	}

	*r = out
	return nil
}

// MarshalJSON encodes the roster as a JSON object in roster order.
func (r Roster) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Activity)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
