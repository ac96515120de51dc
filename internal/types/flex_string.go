package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString is a string that can be unmarshaled from a JSON string or number.
// Remote systems answer with either for their record ids.
type FlexString string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if _, err := strconv.ParseFloat(n.String(), 64); err == nil {
			*f = FlexString(n.String())
			return nil
		}
	}

	return fmt.Errorf("FlexString: unexpected type, expected string or number")
}

// MarshalJSON always writes a JSON string.
func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// String returns the value, empty for a nil pointer.
func (f *FlexString) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}
