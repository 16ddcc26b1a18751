package iso7816

import (
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

// mockCard replays a canned reply and records what was transmitted.
type mockCard struct {
	reply    []byte
	err      error
	received []byte
}

func (m *mockCard) Transmit(cmd []byte) ([]byte, error) {
	m.received = cmd
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

func TestExchanger_Exchange(t *testing.T) {
	card := &mockCard{reply: []byte{0xCA, 0xFE, 0x90, 0x00}}
	ex := NewExchanger(card, WithLogger(zaptest.NewLogger(t)))

	cmd, err := NewCommand(0x00, 0xB0, 0x00, 0x00, 0, MaxShortLe)
	if err != nil {
		t.Fatalf("NewCommand failed: %v", err)
	}

	resp, err := ex.Exchange(cmd)
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}

	if !bytes.Equal(card.received, []byte{0x00, 0xB0, 0x00, 0x00, 0x00}) {
		t.Errorf("Transmitted %X, want 00B0000000", card.received)
	}
	if resp.Status() != SW_NO_ERROR {
		t.Errorf("Status() = %04X, want 9000", uint16(resp.Status()))
	}
	if !bytes.Equal(resp.Data(), []byte{0xCA, 0xFE}) {
		t.Errorf("Data() = %X, want CAFE", resp.Data())
	}
}

func TestExchanger_TransmitError(t *testing.T) {
	transportErr := errors.New("reader unplugged")
	ex := NewExchanger(&mockCard{err: transportErr})

	_, err := ex.Exchange(NewHeaderCommand(0x00, 0x10, 0x00, 0x00))
	if !errors.Is(err, transportErr) {
		t.Errorf("Exchange error = %v, want wrapped %v", err, transportErr)
	}
}

func TestExchanger_ShortReply(t *testing.T) {
	ex := NewExchanger(&mockCard{reply: []byte{0x90}})

	if _, err := ex.Exchange(NewHeaderCommand(0x00, 0x10, 0x00, 0x00)); err == nil {
		t.Error("Expected error for a reply shorter than the status word, got nil")
	}
}
