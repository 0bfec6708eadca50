package wire

import "bytes"

// ValueType identifies the type of a dictionary entry value.
type ValueType uint8

const (
	// ValueInt32 is a 32-bit signed integer value.
	ValueInt32 ValueType = iota

	// ValueString is a UTF-8 string value.
	ValueString

	// ValueBytes is a raw byte string value.
	ValueBytes
)

// String returns the value type name.
func (t ValueType) String() string {
	switch t {
	case ValueInt32:
		return "int"
	case ValueString:
		return "string"
	case ValueBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Value is one typed dictionary value.
type Value struct {
	Type  ValueType
	Int   int32
	Str   string
	Bytes []byte
}

type entry struct {
	key   uint32
	value Value
}

// Dictionary is the Dash wire payload: a mapping from integer key to typed
// value. Keys are unique; re-adding a key replaces its value in place.
// Insertion order is preserved for encoding but carries no protocol meaning.
//
// The zero value is an empty dictionary ready for use. A Dictionary is not
// safe for concurrent mutation.
type Dictionary struct {
	entries []entry
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{}
}

func (d *Dictionary) set(key uint32, v Value) {
	for i := range d.entries {
		if d.entries[i].key == key {
			d.entries[i].value = v
			return
		}
	}
	d.entries = append(d.entries, entry{key: key, value: v})
}

// AddInt32 sets key to a 32-bit integer value.
func (d *Dictionary) AddInt32(key uint32, v int32) {
	d.set(key, Value{Type: ValueInt32, Int: v})
}

// AddString sets key to a string value.
func (d *Dictionary) AddString(key uint32, v string) {
	d.set(key, Value{Type: ValueString, Str: v})
}

// AddBytes sets key to a byte string value. The slice is stored as-is.
func (d *Dictionary) AddBytes(key uint32, v []byte) {
	d.set(key, Value{Type: ValueBytes, Bytes: v})
}

// Get returns the value stored under key.
func (d *Dictionary) Get(key uint32) (Value, bool) {
	for i := range d.entries {
		if d.entries[i].key == key {
			return d.entries[i].value, true
		}
	}
	return Value{}, false
}

// Int32 returns the integer value stored under key.
// The second return is false if the key is absent or not an integer.
func (d *Dictionary) Int32(key uint32) (int32, bool) {
	v, ok := d.Get(key)
	if !ok || v.Type != ValueInt32 {
		return 0, false
	}
	return v.Int, true
}

// String returns the string value stored under key.
// The second return is false if the key is absent or not a string.
func (d *Dictionary) String(key uint32) (string, bool) {
	v, ok := d.Get(key)
	if !ok || v.Type != ValueString {
		return "", false
	}
	return v.Str, true
}

// BytesValue returns the byte string stored under key.
// The second return is false if the key is absent or not a byte string.
func (d *Dictionary) BytesValue(key uint32) ([]byte, bool) {
	v, ok := d.Get(key)
	if !ok || v.Type != ValueBytes {
		return nil, false
	}
	return v.Bytes, true
}

// Has reports whether key is present, regardless of value type.
func (d *Dictionary) Has(key uint32) bool {
	_, ok := d.Get(key)
	return ok
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []uint32 {
	keys := make([]uint32, len(d.entries))
	for i := range d.entries {
		keys[i] = d.entries[i].key
	}
	return keys
}

// Equal reports whether two dictionaries contain the same set of key/value
// pairs. Insertion order is not significant.
func (d *Dictionary) Equal(other *Dictionary) bool {
	if d.Len() != other.Len() {
		return false
	}
	for _, e := range d.entries {
		v, ok := other.Get(e.key)
		if !ok || !valueEqual(e.value, v) {
			return false
		}
	}
	return true
}

func valueEqual(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case ValueInt32:
		return a.Int == b.Int
	case ValueString:
		return a.Str == b.Str
	case ValueBytes:
		return bytes.Equal(a.Bytes, b.Bytes)
	default:
		return false
	}
}
