package types

import "testing"

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"Sunroof", "Bluetooth"}

	value, err := list.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var decoded StringList
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != "Sunroof" || decoded[1] != "Bluetooth" {
		t.Fatalf("unexpected decoded list %v", decoded)
	}
}

func TestStringListScanNilYieldsEmpty(t *testing.T) {
	var decoded StringList
	if err := decoded.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if decoded == nil || len(decoded) != 0 {
		t.Fatalf("expected empty list, got %v", decoded)
	}
}

func TestStringListNilValueStoresEmptyArray(t *testing.T) {
	var list StringList
	value, err := list.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != "[]" {
		t.Fatalf("expected [] literal, got %v", value)
	}
}
