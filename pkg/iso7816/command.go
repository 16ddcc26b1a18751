package iso7816

import (
	"fmt"
)

// Command APDU framing according to ISO/IEC 7816-3 and 7816-4.
//
// A command consists of a mandatory Header (4 bytes) and an optional Body:
//
//   - CLA (Class): Security, Chaining, Logical Channel.
//   - INS (Instruction): The specific command to execute.
//   - P1, P2 (Parameters): Command modifiers.
//   - Lc (Length Command): Number of bytes in the data field.
//   - Data: The command payload.
//   - Le (Length Expected): Maximum number of bytes expected in the response.
//
// ENCODING CASES (ISO 7816-3):
//   - Case 1: No Data, No Response (Header only).
//   - Case 2: No Data, Response Expected (Header + Le).
//   - Case 3: Data Present, No Response (Header + Lc + Data).
//   - Case 4: Data Present, Response Expected (Header + Lc + Data + Le).
//
// LENGTH MODES:
//   - Short: Lc/Le encoded on 1 byte (max 255/256, Le 256 encoded as 00).
//   - Extended: Lc encoded as 00 + 2 bytes big-endian, Le as 2 bytes
//     big-endian (max 65535/65536, Le 65536 encoded as 0000). When Le is
//     extended and no Lc field precedes it, Le carries the 00 marker itself.
//
// Extended mode is selected for the whole command if Lc > 255 or Le > 256;
// the two length fields never mix modes.

// APDU limits according to ISO 7816-3.
const (
	headerSize = 4
	statusSize = 2

	// MaxShortLc is the maximum data length (Nc) encodable in Short mode.
	MaxShortLc = 255

	// MaxShortLe is the maximum expected response length (Ne) encodable in
	// Short mode. In Short mode, 0x00 encodes 256.
	MaxShortLe = 256

	// MaxExtendedLc is the limit for Lc in Extended mode (16-bit unsigned).
	MaxExtendedLc = 65535

	// MaxExtendedLe is the maximum Ne encodable in Extended mode.
	// In Extended mode, 0x0000 encodes 65536.
	MaxExtendedLe = 65536
)

// Command is a fully framed command APDU (C-APDU).
//
// The buffer is sized and laid out once at construction: header, optional
// Lc field, zero-filled data field, optional Le field. The data field is
// filled in place through Data after construction; the header and length
// fields are never written again. Once the data field is filled the whole
// buffer is treated as read-only and handed to the transport as-is.
type Command struct {
	buf       []byte
	dataBegin int
	dataEnd   int
	le        int
}

// NewHeaderCommand frames a Case 1 command: header only, no data field,
// no response expected. Equivalent to NewCommand with Lc = 0 and Le = 0,
// which cannot fail.
func NewHeaderCommand(cla, ins, p1, p2 byte) *Command {
	c, _ := NewCommand(cla, ins, p1, p2, 0, 0)
	return c
}

// NewCommand frames a command APDU for the given header bytes, data field
// length (Lc) and expected response length (Le). The data field is left
// zero-filled; the caller writes the payload through Data.
//
// Lc outside [0, 65535] or Le outside [0, 65536] is not representable on
// the wire and is rejected.
func NewCommand(cla, ins, p1, p2 byte, lc, le int) (*Command, error) {
	if lc < 0 || lc > MaxExtendedLc {
		return nil, fmt.Errorf("Lc %d out of range [0, %d]", lc, MaxExtendedLc)
	}
	if le < 0 || le > MaxExtendedLe {
		return nil, fmt.Errorf("Le %d out of range [0, %d]", le, MaxExtendedLe)
	}

	extended := lc > MaxShortLc || le > MaxShortLe

	lcSize := 0
	if lc > 0 {
		if extended {
			lcSize = 3 // 00 marker + 2 bytes big-endian
		} else {
			lcSize = 1
		}
	}

	leSize := 0
	if le > 0 {
		switch {
		case !extended:
			leSize = 1
		case lc > 0:
			leSize = 2
		default:
			leSize = 3 // Case 2 Extended: Le carries the 00 marker itself
		}
	}

	c := &Command{
		buf: make([]byte, headerSize+lcSize+lc+leSize),
		le:  le,
	}

	// All cases have the header.
	c.buf[0] = cla
	c.buf[1] = ins
	c.buf[2] = p1
	c.buf[3] = p2

	cursor := headerSize

	// Cases 3 & 4 send data.
	if lc > 0 {
		if extended {
			c.buf[cursor] = 0x00
			c.buf[cursor+1] = byte(lc >> 8)
			cursor += 2
		}
		c.buf[cursor] = byte(lc)
		cursor++

		c.dataBegin = cursor
		cursor += lc
		c.dataEnd = cursor
	} else {
		// Empty data range at the tail of the buffer.
		c.dataBegin = len(c.buf)
		c.dataEnd = len(c.buf)
	}

	// Cases 2 & 4 expect data back. The buffer is already zeroed, so the
	// maximum sentinels (256 Short, 65536 Extended) need no explicit write.
	if le > 0 {
		if extended {
			if lc == 0 {
				c.buf[cursor] = 0x00
				cursor++
			}
			if le != MaxExtendedLe {
				c.buf[cursor] = byte(le >> 8)
				c.buf[cursor+1] = byte(le)
			}
		} else if le != MaxShortLe {
			c.buf[cursor] = byte(le)
		}
	}

	return c, nil
}

// Bytes returns the framed command for transmission. The returned slice
// aliases the command's backing buffer; it is not a copy.
func (c *Command) Bytes() []byte {
	return c.buf
}

// Data returns the writable data field window. The slice aliases the
// command buffer between the Lc and Le fields and stays valid for the
// command's lifetime; its capacity is clipped so an append cannot reach
// the Le field. Empty when Lc = 0.
func (c *Command) Data() []byte {
	return c.buf[c.dataBegin:c.dataEnd:c.dataEnd]
}

// SetData copies payload into the data field. The payload must match the
// Lc the command was framed with.
func (c *Command) SetData(payload []byte) error {
	if len(payload) != c.DataSize() {
		return fmt.Errorf("payload length %d does not match Lc %d", len(payload), c.DataSize())
	}
	copy(c.Data(), payload)
	return nil
}

// Size returns the total encoded length of the command.
func (c *Command) Size() int {
	return len(c.buf)
}

// DataSize returns the length of the data field (Lc).
func (c *Command) DataSize() int {
	return c.dataEnd - c.dataBegin
}

// DataBounds returns the offsets of the data field within Bytes.
// When Lc = 0 both bounds equal the buffer length.
func (c *Command) DataBounds() (begin, end int) {
	return c.dataBegin, c.dataEnd
}

// Le returns the expected response length the command was framed with.
func (c *Command) Le() int {
	return c.le
}

// String returns a readable representation of the command meta-data.
func (c *Command) String() string {
	return fmt.Sprintf("CLA: %02X, INS: %02X | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.buf[0], c.buf[1], c.buf[2], c.buf[3], c.DataSize(), c.le)
}
