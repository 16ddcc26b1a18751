package iso7816

// Response is a read-only view over one received response APDU (R-APDU).
//
// The view aliases the caller's byte sequence; it never copies and never
// mutates it, and it must not outlive the backing data. Layout:
//
//	[payload bytes...][SW1][SW2]
//
// Every accessor except OK requires the two trailing status bytes; calling
// one on a shorter sequence panics on the slice bounds check, so callers
// check OK first.
type Response []byte

// OK reports whether the sequence is long enough to carry a status word.
func (r Response) OK() bool {
	return len(r) >= statusSize
}

// SW1 returns the first status byte (command processing status).
func (r Response) SW1() byte {
	return r[len(r)-2]
}

// SW2 returns the second status byte (command processing qualification).
func (r Response) SW2() byte {
	return r[len(r)-1]
}

// Status returns the combined 16-bit status word.
func (r Response) Status() StatusWord {
	return NewStatusWord(r.SW1(), r.SW2())
}

// RemainingBytes returns the number of extra response bytes the card holds
// when the status is '61 XX' (process completed, response available), and
// 0 for any other status.
func (r Response) RemainingBytes() int {
	if r.SW1() == sw1BytesAvailable {
		return int(r.SW2())
	}
	return 0
}

// IsWarning reports a warning status (SW1 62 or 63).
func (r Response) IsWarning() bool {
	return r.Status().IsWarning()
}

// IsExecutionError reports an execution error status (SW1 64 to 66).
func (r Response) IsExecutionError() bool {
	return r.Status().IsExecutionError()
}

// IsCheckingError reports a checking error status (SW1 67 to 6F).
func (r Response) IsCheckingError() bool {
	return r.Status().IsCheckingError()
}

// IsError reports an execution or checking error status.
func (r Response) IsError() bool {
	return r.Status().IsError()
}

// Data returns the payload, excluding the trailing status word. The slice
// aliases the backing sequence.
func (r Response) Data() []byte {
	return r[:len(r)-statusSize]
}

// DataSize returns the payload length.
func (r Response) DataSize() int {
	return len(r) - statusSize
}
