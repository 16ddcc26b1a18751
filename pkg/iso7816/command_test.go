package iso7816

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustCommand(t *testing.T, cla, ins, p1, p2 byte, lc, le int) *Command {
	t.Helper()
	cmd, err := NewCommand(cla, ins, p1, p2, lc, le)
	if err != nil {
		t.Fatalf("NewCommand(lc=%d, le=%d) failed: %v", lc, le, err)
	}
	return cmd
}

func TestCommand_Encoding(t *testing.T) {
	tests := []struct {
		name     string
		lc, le   int
		data     string // hex, written into the data window
		expected string // hex
	}{
		{
			name:     "Case 1: Header only",
			expected: "00A40102",
		},
		{
			name:     "Case 2 Short: Le only",
			le:       10,
			expected: "00A401020A",
		},
		{
			name: "Case 2 Short: Le=256 encodes as 00",
			le:   MaxShortLe,
			// Le=00 means 256 in Short mode
			expected: "00A4010200",
		},
		{
			name:     "Case 3 Short: Data only",
			lc:       2,
			data:     "A000",
			expected: "00A4010202A000",
		},
		{
			name:     "Case 4 Short: Data and Le",
			lc:       1,
			le:       10,
			data:     "01",
			expected: "00A40102" + "0101" + "0A",
		},
		{
			name: "Case 3 Extended: Lc > 255",
			lc:   300,
			// Lc Extended: 00 (marker) + 012C (300) + zero-filled data
			expected: "00A40102" + "00012C" + strings.Repeat("00", 300),
		},
		{
			name: "Case 2 Extended: Le=65536 encodes as 0000",
			le:   MaxExtendedLe,
			// Lc absent: Le carries the 00 marker + 0000 for 65536
			expected: "00A40102" + "000000",
		},
		{
			name:     "Case 2 Extended: large Le",
			le:       0x1234,
			expected: "00A40102" + "001234",
		},
		{
			name: "Case 4 Extended: Lc short-range but Le forces extended",
			lc:   2,
			le:   0x0300,
			data: "CAFE",
			// Lc gets the 3-byte form, Le the 2-byte form without marker
			expected: "00A40102" + "000002CAFE" + "0300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := mustCommand(t, 0x00, 0xA4, 0x01, 0x02, tt.lc, tt.le)

			if tt.data != "" {
				raw, err := hex.DecodeString(tt.data)
				if err != nil {
					t.Fatalf("bad test vector: %v", err)
				}
				copy(cmd.Data(), raw)
			}

			got := strings.ToUpper(hex.EncodeToString(cmd.Bytes()))
			want := strings.ToUpper(tt.expected)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Encoding mismatch (-want +got):\n%s", diff)
			}

			if cmd.Size() != len(cmd.Bytes()) {
				t.Errorf("Size() = %d, want %d", cmd.Size(), len(cmd.Bytes()))
			}
			if cmd.DataSize() != tt.lc {
				t.Errorf("DataSize() = %d, want %d", cmd.DataSize(), tt.lc)
			}
			if cmd.Le() != tt.le {
				t.Errorf("Le() = %d, want %d", cmd.Le(), tt.le)
			}
		})
	}
}

func TestCommand_SelectExample(t *testing.T) {
	// SELECT by file ID for 3F00 with maximum short Le.
	cmd := mustCommand(t, 0x00, 0xA4, 0x04, 0x00, 2, MaxShortLe)
	copy(cmd.Data(), []byte{0x3F, 0x00})

	want := []byte{0x00, 0xA4, 0x04, 0x00, 0x02, 0x3F, 0x00, 0x00}
	if diff := cmp.Diff(want, cmd.Bytes()); diff != "" {
		t.Errorf("SELECT encoding mismatch (-want +got):\n%s", diff)
	}
}

func TestCommand_DataWindow(t *testing.T) {
	t.Run("Empty range at tail when Lc=0", func(t *testing.T) {
		cmd := NewHeaderCommand(0x80, 0x10, 0x00, 0x00)

		if cmd.Size() != 4 {
			t.Fatalf("Size() = %d, want 4", cmd.Size())
		}
		begin, end := cmd.DataBounds()
		if begin != 4 || end != 4 {
			t.Errorf("DataBounds() = (%d, %d), want (4, 4)", begin, end)
		}
		if len(cmd.Data()) != 0 {
			t.Errorf("Data() length = %d, want 0", len(cmd.Data()))
		}
	})

	t.Run("Short form data starts at offset 5", func(t *testing.T) {
		cmd := mustCommand(t, 0x00, 0xD6, 0x00, 0x00, 8, 0)

		begin, end := cmd.DataBounds()
		if begin != 5 || end != 13 {
			t.Errorf("DataBounds() = (%d, %d), want (5, 13)", begin, end)
		}
	})

	t.Run("Extended form data starts at offset 7", func(t *testing.T) {
		cmd := mustCommand(t, 0x00, 0xD6, 0x00, 0x00, 300, 0)

		begin, end := cmd.DataBounds()
		if begin != 7 || end != 307 {
			t.Errorf("DataBounds() = (%d, %d), want (7, 307)", begin, end)
		}
	})

	t.Run("Round-trip through the window", func(t *testing.T) {
		cmd := mustCommand(t, 0x00, 0xD6, 0x00, 0x00, 4, 0)

		payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
		copy(cmd.Data(), payload)

		if !bytes.Equal(cmd.Data(), payload) {
			t.Errorf("Data() = %X, want %X", cmd.Data(), payload)
		}
		begin, end := cmd.DataBounds()
		if !bytes.Equal(cmd.Bytes()[begin:end], payload) {
			t.Errorf("Bytes()[%d:%d] = %X, want %X", begin, end, cmd.Bytes()[begin:end], payload)
		}
	})

	t.Run("Window capacity is clipped", func(t *testing.T) {
		cmd := mustCommand(t, 0x00, 0xD6, 0x00, 0x00, 4, 1)

		data := cmd.Data()
		if cap(data) != 4 {
			t.Errorf("cap(Data()) = %d, want 4: an append must not reach the Le field", cap(data))
		}
	})
}

func TestCommand_SetData(t *testing.T) {
	cmd := mustCommand(t, 0x00, 0xA4, 0x04, 0x00, 2, 0)

	if err := cmd.SetData([]byte{0x3F, 0x00}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}
	if !bytes.Equal(cmd.Data(), []byte{0x3F, 0x00}) {
		t.Errorf("Data() = %X, want 3F00", cmd.Data())
	}

	if err := cmd.SetData([]byte{0x01}); err == nil {
		t.Error("Expected error for payload shorter than Lc, got nil")
	}
}

func TestNewCommand_RangeChecks(t *testing.T) {
	tests := []struct {
		name   string
		lc, le int
	}{
		{"Lc negative", -1, 0},
		{"Lc above extended max", MaxExtendedLc + 1, 0},
		{"Le negative", 0, -1},
		{"Le above extended max", 0, MaxExtendedLe + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCommand(0x00, 0xA4, 0x00, 0x00, tt.lc, tt.le); err == nil {
				t.Errorf("NewCommand(lc=%d, le=%d) should have failed", tt.lc, tt.le)
			}
		})
	}

	t.Run("Boundary values accepted", func(t *testing.T) {
		mustCommand(t, 0x00, 0xA4, 0x00, 0x00, MaxExtendedLc, MaxExtendedLe)
	})
}

func TestCommand_String(t *testing.T) {
	cmd := mustCommand(t, 0x00, 0xA4, 0x04, 0x00, 2, 256)
	got := cmd.String()

	for _, part := range []string{"CLA: 00", "INS: A4", "Lc: 2", "Le: 256"} {
		if !strings.Contains(got, part) {
			t.Errorf("String() = %q; want containing %q", got, part)
		}
	}
}
