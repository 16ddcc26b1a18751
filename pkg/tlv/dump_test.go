package tlv

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDump_Primitive(t *testing.T) {
	// Tag 50 (Application Label), value "VISA"
	data := Hex("50 04 56495341")

	got, err := Dump(data)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	want := `50: 56495341 ("VISA")`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Dump mismatch (-want +got):\n%s", diff)
	}
}

func TestDump_Nested(t *testing.T) {
	// 6F (FCI Template) wrapping 84 (DF Name) and 88 (SFI)
	data := Hex("6F 0A", "84 05 48656C6C6F", "88 01 01")

	got, err := Dump(data)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	want := "6F:\n" +
		"  84: 48656C6C6F (\"Hello\")\n" +
		"  88: 01"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Dump mismatch (-want +got):\n%s", diff)
	}
}

func TestDump_Invalid(t *testing.T) {
	// Length byte claims more data than present
	if _, err := Dump(Hex("50 10 AA")); err == nil {
		t.Error("Expected error for truncated TLV, got nil")
	}
}
