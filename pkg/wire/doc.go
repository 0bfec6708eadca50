// Package wire defines the dictionary wire format for the Dash protocol.
//
// Dash messages are dictionaries: small sets of integer-keyed, typed values
// exchanged between a watchapp and the phone host. The textual wire form is
// the JSON array produced by the phone bridge, one object per entry:
//
//	[{"key":24784,"type":"int","length":4,"value":0}, ...]
//
// Entry values are one of three types: 32-bit signed integer, UTF-8 string,
// or raw byte string (base64 in the JSON form).
//
// # Key Namespaces
//
// Every integer key the protocol emits belongs to exactly one of five
// namespaces: request types, app-level keys, data types, feature
// types/states, and error codes. The constants in this package are wire
// values and must not change. KeyName resolves any key to its symbolic name.
package wire
