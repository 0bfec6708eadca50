package wire

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// jsonEntry is the bridge JSON form of one dictionary entry.
//
// The length field mirrors the phone bridge convention: 4 for integers, the
// string length plus terminator for strings, and the raw byte count for byte
// strings. It is written for bridge compatibility and ignored on decode.
type jsonEntry struct {
	Key    uint32          `json:"key"`
	Type   string          `json:"type"`
	Length int             `json:"length"`
	Value  json.RawMessage `json:"value"`
}

// Encode serializes a dictionary to its JSON wire form.
// Entries are written in insertion order.
func Encode(d *Dictionary) ([]byte, error) {
	entries := make([]jsonEntry, 0, len(d.entries))
	for _, e := range d.entries {
		je := jsonEntry{Key: e.key, Type: e.value.Type.String()}
		var err error
		switch e.value.Type {
		case ValueInt32:
			je.Length = 4
			je.Value, err = json.Marshal(e.value.Int)
		case ValueString:
			je.Length = len(e.value.Str) + 1
			je.Value, err = json.Marshal(e.value.Str)
		case ValueBytes:
			je.Length = len(e.value.Bytes)
			je.Value, err = json.Marshal(base64.StdEncoding.EncodeToString(e.value.Bytes))
		default:
			err = fmt.Errorf("entry %d: unknown value type %d", e.key, e.value.Type)
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, je)
	}
	return json.Marshal(entries)
}

// Decode parses the JSON wire form into a dictionary.
// Malformed input of any shape returns an error; Decode never panics.
// Callers treat a decode failure as "drop the message, do not respond".
func Decode(raw []byte) (*Dictionary, error) {
	var entries []jsonEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("malformed dictionary payload: %w", err)
	}

	d := NewDictionary()
	for i, je := range entries {
		switch je.Type {
		case "int":
			var v int32
			if err := json.Unmarshal(je.Value, &v); err != nil {
				return nil, fmt.Errorf("entry %d (key %d): bad integer value: %w", i, je.Key, err)
			}
			d.AddInt32(je.Key, v)
		case "string":
			var v string
			if err := json.Unmarshal(je.Value, &v); err != nil {
				return nil, fmt.Errorf("entry %d (key %d): bad string value: %w", i, je.Key, err)
			}
			d.AddString(je.Key, v)
		case "bytes":
			var enc string
			if err := json.Unmarshal(je.Value, &enc); err != nil {
				return nil, fmt.Errorf("entry %d (key %d): bad byte value: %w", i, je.Key, err)
			}
			v, err := base64.StdEncoding.DecodeString(enc)
			if err != nil {
				return nil, fmt.Errorf("entry %d (key %d): bad base64: %w", i, je.Key, err)
			}
			d.AddBytes(je.Key, v)
		default:
			return nil, fmt.Errorf("entry %d (key %d): unknown value type %q", i, je.Key, je.Type)
		}
	}
	return d, nil
}
