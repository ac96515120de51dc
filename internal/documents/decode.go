package documents

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap"
)

// Decode merges raw onto a fresh default. Fields missing from raw keep their
// default values, so absent and older partial documents both read cleanly.
// A field of the wrong type is skipped and the rest of the document kept.
// Unparseable input yields the default.
func Decode[T any](raw json.RawMessage, def func() T, log *zap.Logger) T {
	v := def()
	if len(raw) == 0 {
		return v
	}

	if !json.Valid(raw) {
		log.Warn("malformed document replaced with default")
		return v
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn("document fields ignored", zap.Error(err))
	}
	return v
}

// decodeList decodes a JSON array one element at a time. An element with a
// mistyped field keeps the fields that did decode. An element that is not an
// object is dropped. The list is returned together with the first error, so
// lenient readers keep the data and strict parsers still reject it.
// A null or non-array input returns a nil list.
func decodeList[T any](data []byte) ([]T, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	if raws == nil {
		return nil, nil
	}

	out := make([]T, 0, len(raws))
	var first error
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			if first == nil {
				first = err
			}
			if !isObject(raw) {
				continue
			}
		}
		out = append(out, v)
	}
	return out, first
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
