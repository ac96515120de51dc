package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FlexUint64 is a uint64 that can be unmarshaled from a JSON number, a whole
// float such as 2500.0, or a numeric string. Form editors send all three.
type FlexUint64 uint64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexUint64) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	// Try unmarshaling as a number first
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexUint64(n)
		return nil
	}

	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		if fl < 0 || fl != math.Trunc(fl) || fl > math.MaxUint64 {
			return fmt.Errorf("FlexUint64: %v is not a non-negative integer", fl)
		}
		*f = FlexUint64(fl)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		val, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("FlexUint64: invalid uint64 string %q: %w", s, err)
		}
		*f = FlexUint64(val)
		return nil
	}

	return fmt.Errorf("FlexUint64: unexpected type, expected number or string")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexUint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(f))
}

// Uint64 converts FlexUint64 back to uint64.
func (f FlexUint64) Uint64() uint64 {
	return uint64(f)
}

// Milliseconds reads the value as a millisecond duration
func (f FlexUint64) Milliseconds() time.Duration {
	return time.Duration(f) * time.Millisecond
}
