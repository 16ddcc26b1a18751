package iso7816

import (
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"
)

// EXCHANGE BOUNDARY:
// The framing layer never performs I/O itself. The Transmitter interface is
// the contract with the transport collaborator (PC/SC, HID, a simulator):
// it takes a fully framed command buffer and returns the raw received byte
// sequence. The Exchanger glues the two sides together: it frames exactly
// one command, performs exactly one transmit and wraps the reply into a
// Response view. Protocol continuation ('61 XX' retrieval, '6C XX'
// re-issue) is left to the caller, which has RemainingBytes and Status to
// drive it.

// Transmitter abstracts the physical card connection.
// *scard.Card satisfies it directly.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Exchanger sends framed commands over a Transmitter and returns response
// views. It holds no protocol state; it is safe for use from a single
// goroutine per underlying card connection.
type Exchanger struct {
	card Transmitter
	log  *zap.Logger
}

// Option configures an Exchanger.
type Option func(*Exchanger)

// WithLogger attaches a structured logger to the exchange path.
// Command and response bytes are logged at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(e *Exchanger) {
		e.log = log
	}
}

// NewExchanger creates an Exchanger over the given transport.
func NewExchanger(card Transmitter, opts ...Option) *Exchanger {
	e := &Exchanger{
		card: card,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Exchange transmits one framed command and returns the view over the raw
// reply. A reply shorter than the two status bytes is a transport-level
// failure and is reported as an error, so every returned view satisfies OK.
func (e *Exchanger) Exchange(cmd *Command) (Response, error) {
	raw := cmd.Bytes()

	e.log.Debug("transmitting command",
		zap.String("apdu", hex.EncodeToString(raw)),
		zap.Int("lc", cmd.DataSize()),
		zap.Int("le", cmd.Le()),
	)

	reply, err := e.card.Transmit(raw)
	if err != nil {
		return nil, fmt.Errorf("transmission failed: %w", err)
	}

	resp := Response(reply)
	if !resp.OK() {
		return nil, fmt.Errorf("response too short: %d byte(s), need at least %d", len(reply), statusSize)
	}

	e.log.Debug("received response",
		zap.String("apdu", hex.EncodeToString(reply)),
		zap.String("status", fmt.Sprintf("%04X", uint16(resp.Status()))),
		zap.Int("payload", resp.DataSize()),
	)

	return resp, nil
}
