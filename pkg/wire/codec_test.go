package wire

import (
	"testing"
)

func TestDictionaryRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Dictionary
	}{
		{
			name: "get data request",
			build: func() *Dictionary {
				d := NewDictionary()
				d.AddInt32(AppKeyUsesDashAPI, 0)
				d.AddString(AppKeyLibraryVersion, "1.7")
				d.AddString(AppKeyAppName, "Watchface")
				d.AddInt32(RequestTypeGetData, 0)
				d.AddInt32(AppKeyDataType, int32(DataTypeBatteryPercent))
				return d
			},
		},
		{
			name: "set feature request",
			build: func() *Dictionary {
				d := NewDictionary()
				d.AddInt32(AppKeyUsesDashAPI, 0)
				d.AddString(AppKeyLibraryVersion, "1.7")
				d.AddInt32(RequestTypeSetFeature, 0)
				d.AddInt32(AppKeyFeatureType, int32(FeatureTypeWifi))
				d.AddInt32(AppKeyFeatureState, int32(FeatureStateOn))
				return d
			},
		},
		{
			name: "response with string value",
			build: func() *Dictionary {
				d := NewDictionary()
				d.AddInt32(RequestTypeError, 0)
				d.AddInt32(AppKeyErrorCode, int32(ErrorCodeSuccess))
				d.AddInt32(RequestTypeGetData, 0)
				d.AddInt32(AppKeyDataType, int32(DataTypeWifiNetworkName))
				d.AddString(AppKeyDataValue, "HomeNetwork")
				return d
			},
		},
		{
			name: "byte string entry",
			build: func() *Dictionary {
				d := NewDictionary()
				d.AddBytes(AppKeyDataValue, []byte{0x00, 0x01, 0xFE, 0xFF})
				return d
			},
		},
		{
			name: "negative integer",
			build: func() *Dictionary {
				d := NewDictionary()
				d.AddInt32(AppKeyDataValue, -42)
				return d
			},
		},
		{
			name: "empty dictionary",
			build: func() *Dictionary {
				return NewDictionary()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.build()

			data, err := Encode(d)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			decoded, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if !d.Equal(decoded) {
				t.Errorf("round trip mismatch: sent %v, got %v", d.Keys(), decoded.Keys())
			}
		})
	}
}

func TestDecodePreservesOrder(t *testing.T) {
	d := NewDictionary()
	d.AddInt32(RequestTypeGetFeature, 0)
	d.AddInt32(AppKeyFeatureType, int32(FeatureTypeRinger))
	d.AddString(AppKeyLibraryVersion, "1.7")

	data, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := d.Keys()
	got := decoded.Keys()
	if len(want) != len(got) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("key %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "hello there"},
		{name: "json object", raw: `{"key":1}`},
		{name: "json number", raw: "42"},
		{name: "entry not object", raw: `[42]`},
		{name: "unknown type", raw: `[{"key":1,"type":"float","length":4,"value":1.5}]`},
		{name: "string value for int", raw: `[{"key":1,"type":"int","length":4,"value":"nope"}]`},
		{name: "bad base64", raw: `[{"key":1,"type":"bytes","length":2,"value":"!!"}]`},
		{name: "truncated", raw: `[{"key":1,"type":"int"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.raw)); err == nil {
				t.Errorf("expected error for %q", tt.raw)
			}
		})
	}
}

func TestDictionaryReplaceInPlace(t *testing.T) {
	d := NewDictionary()
	d.AddInt32(AppKeyDataValue, 1)
	d.AddString(AppKeyAppName, "First")
	d.AddInt32(AppKeyDataValue, 2)

	if d.Len() != 2 {
		t.Fatalf("expected 2 entries after replace, got %d", d.Len())
	}
	if v, ok := d.Int32(AppKeyDataValue); !ok || v != 2 {
		t.Errorf("expected replaced value 2, got %d (ok=%v)", v, ok)
	}

	// Replacement can change the value type
	d.AddString(AppKeyDataValue, "now a string")
	if _, ok := d.Int32(AppKeyDataValue); ok {
		t.Error("integer accessor should miss after type change")
	}
	if v, ok := d.String(AppKeyDataValue); !ok || v != "now a string" {
		t.Errorf("expected string value, got %q (ok=%v)", v, ok)
	}
}

func TestDictionaryTypedAccessors(t *testing.T) {
	d := NewDictionary()
	d.AddInt32(AppKeyErrorCode, int32(ErrorCodeNoPermissions))
	d.AddString(AppKeyAppName, "Dashboard")

	if _, ok := d.String(AppKeyErrorCode); ok {
		t.Error("String should not match an integer entry")
	}
	if _, ok := d.Int32(AppKeyAppName); ok {
		t.Error("Int32 should not match a string entry")
	}
	if _, ok := d.Int32(AppKeyDataValue); ok {
		t.Error("Int32 should miss an absent key")
	}
	if !d.Has(AppKeyAppName) || d.Has(AppKeyDataValue) {
		t.Error("Has mismatch")
	}
}
