/*
Package iso7816 implements the APDU (Application Protocol Data Unit) framing layer of ISO/IEC 7816-4.

The package produces and consumes byte sequences only; it performs no I/O. Two leaf types carry the whole logic:

  - Command frames an outbound command: four-byte header (CLA, INS, P1, P2), the Lc/Le length fields with their short/extended form rules, and a zero-filled data field the caller writes in place after construction.
  - Response is a zero-copy view over a received byte sequence exposing the trailing status word, the payload bounds, and the status classification (warning, execution error, checking error).

# Framing a command

A command is sized once at construction. The data field is filled through the writable window afterwards, then the buffer is read-only:

	cmd, err := iso7816.NewCommand(0x00, 0xA4, 0x04, 0x00, len(aid), iso7816.MaxShortLe)
	if err != nil {
	    log.Fatal(err)
	}
	copy(cmd.Data(), aid)
	// cmd.Bytes() is ready for the transport

# Reading a response

Every response ends with a 2-byte Status Word (SW):

  - 0x9000: Success (OK).
  - 0x61XX: Success, XX more response bytes are available.
  - 0x62XX-0x63XX: Warning.
  - 0x64XX-0x6FXX: Execution or checking error.

	resp := iso7816.Response(raw)
	if !resp.OK() {
	    // fewer than 2 bytes, nothing to classify
	}
	if resp.IsError() {
	    fmt.Println(resp.Status().Verbose())
	}
	payload := resp.Data()

The view aliases the caller's bytes and must not outlive them.

# Transport boundary

The Transmitter interface is the only expectation placed on the transport collaborator. The Exchanger pairs one framed command with one raw reply and guards the minimum-length precondition once, at the boundary.
*/
package iso7816
