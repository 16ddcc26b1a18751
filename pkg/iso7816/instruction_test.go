package iso7816

import (
	"strings"
	"testing"
)

func TestNewInstruction(t *testing.T) {
	tests := []struct {
		name    string
		ins     InsCode
		wantErr bool
		bertlv  bool
	}{
		{"SELECT", INS_SELECT, false, false},
		{"READ BINARY", INS_READ_BINARY, false, false},
		{"READ BINARY BER-TLV", INS_READ_BINARY_BER, false, true},
		{"GET DATA BER-TLV", INS_GET_DATA_BER, false, true},
		{"Reserved 6X", InsCode(0x62), true, false},
		{"Reserved 9X", InsCode(0x90), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, err := NewInstruction(tt.ins)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewInstruction(0x%02X) error = %v, wantErr %v", byte(tt.ins), err, tt.wantErr)
			}
			if !tt.wantErr && ins.IsBERTLV != tt.bertlv {
				t.Errorf("IsBERTLV = %v, want %v", ins.IsBERTLV, tt.bertlv)
			}
		})
	}
}

func TestInsCode_String(t *testing.T) {
	if got := INS_SELECT.String(); got != "SELECT" {
		t.Errorf("INS_SELECT.String() = %q, want \"SELECT\"", got)
	}
	if got := InsCode(0x42).String(); got != "INS(0x42)" {
		t.Errorf("Unknown code String() = %q, want \"INS(0x42)\"", got)
	}
}

func TestInstruction_Verbose(t *testing.T) {
	ins, err := NewInstruction(INS_READ_RECORD_BER)
	if err != nil {
		t.Fatalf("NewInstruction failed: %v", err)
	}

	got := ins.Verbose()
	for _, part := range []string{"0xB3", "READ RECORD", "BER-TLV"} {
		if !strings.Contains(got, part) {
			t.Errorf("Verbose() = %q; want containing %q", got, part)
		}
	}
}
