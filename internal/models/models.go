package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ID is a server-assigned, opaque identity. Backends hand out either numeric or string
// identifiers, so both JSON forms are accepted.
type ID string

func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the ID has not been assigned yet.
func (id ID) IsZero() bool {
	return id == ""
}

// IDFromInt returns the ID for a numeric identifier.
func IDFromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// numeric reports whether the ID is the canonical text of an integer, so that encoding it as a
// JSON number and decoding it again yields the same ID.
func (id ID) numeric() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
