package iso7816

import (
	"fmt"

	"github.com/rsashka/sci2c/pkg/bits"
)

// Status Word classification according to ISO/IEC 7816-4.
//
// SW1 partitions the status space:
//
//	90 00        Normal processing.
//	61 XX        Normal processing, XX more response bytes available.
//	62, 63       Warning (NV memory unchanged / changed).
//	64 .. 66     Execution error.
//	67 .. 6F     Checking error.
//
// A few ranges are dynamic and carry contextual information in SW2:
//
//	'61 XX': number of extra bytes available for retrieval (GET RESPONSE).
//	'6C XX': wrong length, XX is the correct Le for the command.
//	'62 XX' / '64 XX' with XX in [02, 80]: triggering by the card, XX is
//	         the number of bytes involved.
//	'63 CX': counter management, the lower nibble is a counter value
//	         (e.g. remaining PIN retries).

// SW1 range boundaries.
const (
	sw1BytesAvailable      = 0x61
	sw1WarnNVUnchanged     = 0x62
	sw1WarnNVChanged       = 0x63
	sw1FirstExecutionError = 0x64
	sw1LastExecutionError  = 0x66
	sw1FirstCheckingError  = 0x67
	sw1LastCheckingError   = 0x6F
	sw1WrongLength         = 0x6C
)

// StatusWord represents the two-byte status response (SW1-SW2) returned by
// the smart card.
type StatusWord uint16

// NewStatusWord creates a StatusWord instance from two separate bytes.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

// SW1 returns the first byte (high byte) of the status word.
func (sw StatusWord) SW1() byte {
	return byte(sw >> 8)
}

// SW2 returns the second byte (low byte) of the status word.
func (sw StatusWord) SW2() byte {
	return byte(sw)
}

// IsSuccess returns true if the command was processed successfully (9000)
// or if response data is available (61XX).
func (sw StatusWord) IsSuccess() bool {
	return sw == SW_NO_ERROR || sw.SW1() == sw1BytesAvailable
}

// IsWarning returns true if the status indicates a warning (62XX or 63XX).
func (sw StatusWord) IsWarning() bool {
	sw1 := sw.SW1()
	return sw1 == sw1WarnNVUnchanged || sw1 == sw1WarnNVChanged
}

// IsExecutionError returns true for the execution error range (64XX to 66XX).
func (sw StatusWord) IsExecutionError() bool {
	sw1 := sw.SW1()
	return sw1 >= sw1FirstExecutionError && sw1 <= sw1LastExecutionError
}

// IsCheckingError returns true for the checking error range (67XX to 6FXX).
func (sw StatusWord) IsCheckingError() bool {
	sw1 := sw.SW1()
	return sw1 >= sw1FirstCheckingError && sw1 <= sw1LastCheckingError
}

// IsError returns true for any execution or checking error (64XX to 6FXX).
func (sw StatusWord) IsError() bool {
	return sw.IsExecutionError() || sw.IsCheckingError()
}

// IsTriggeringByCard checks if the status indicates a "Triggering by the
// card" event ('62 XX' or '64 XX' with XX in [02, 80]).
func (sw StatusWord) IsTriggeringByCard() bool {
	sw2 := sw.SW2()
	if sw2 < 0x02 || sw2 > 0x80 {
		return false
	}
	sw1 := sw.SW1()
	return sw1 == sw1WarnNVUnchanged || sw1 == sw1FirstExecutionError
}

// IsCounter checks if the status indicates a non-volatile memory change
// counter ('63 CX').
func (sw StatusWord) IsCounter() bool {
	if sw.SW1() != sw1WarnNVChanged {
		return false
	}
	// Upper nibble of SW2 must be 0xC
	return bits.GetRange(sw.SW2(), 8, 5) == 0x0C
}

// Verbose returns a human-readable description of the status word.
// Dynamic ISO ranges take precedence over the static code table.
func (sw StatusWord) Verbose() string {
	sw1 := sw.SW1()
	sw2 := sw.SW2()

	if sw.IsTriggeringByCard() {
		action := "Warning (Triggering)"
		if sw1 == sw1FirstExecutionError {
			action = "Error/Abort (Triggering)"
		}
		return fmt.Sprintf("%s: Card expects query of %d bytes", action, sw2)
	}

	if sw.IsCounter() {
		return fmt.Sprintf("Warning: State changed, counter = %d", bits.GetRange(sw2, 4, 1))
	}

	if sw1 == sw1BytesAvailable {
		return fmt.Sprintf("Process completed, %d bytes available", sw2)
	}

	if sw1 == sw1WrongLength {
		return fmt.Sprintf("Wrong length, correct Le is %d", sw2)
	}

	if desc, known := swDescriptions[sw]; known {
		return fmt.Sprintf("[%04X] %s", uint16(sw), desc)
	}

	return fmt.Sprintf("[%04X] %s", uint16(sw), sw.genericCategoryDescription())
}

// genericCategoryDescription provides a fallback description based on SW1.
func (sw StatusWord) genericCategoryDescription() string {
	switch sw.SW1() {
	case 0x62:
		return "Warning: NV memory unchanged"
	case 0x63:
		return "Warning: NV memory changed"
	case 0x64:
		return "Execution Error: NV memory unchanged"
	case 0x65:
		return "Execution Error: NV memory changed"
	case 0x66:
		return "Execution Error: Security issue"
	case 0x67:
		return "Checking Error: Wrong length"
	case 0x68:
		return "Checking Error: Function not supported"
	case 0x69:
		return "Checking Error: Command not allowed"
	case 0x6A:
		return "Checking Error: Wrong parameters"
	default:
		return "Unknown Status"
	}
}

// Standard Status Word codes defined in ISO/IEC 7816-4.
const (
	SW_NO_ERROR StatusWord = 0x9000

	SW_WARN_NO_INFO              StatusWord = 0x6200
	SW_WARN_TRIGGERING_BY_CARD   StatusWord = 0x6202
	SW_WARN_DATA_CORRUPTED       StatusWord = 0x6281
	SW_WARN_EOF_REACHED          StatusWord = 0x6282
	SW_WARN_FILE_DEACTIVATED     StatusWord = 0x6283
	SW_WARN_FCI_BAD_FORMAT       StatusWord = 0x6284
	SW_WARN_TERMINATION_STATE    StatusWord = 0x6285
	SW_WARN_NO_INPUT_FROM_SENSOR StatusWord = 0x6286

	SW_WARN_NV_CHANGED_NO_INFO StatusWord = 0x6300
	SW_WARN_FILE_FILLED        StatusWord = 0x6381
	SW_WARN_COUNTER_0          StatusWord = 0x63C0

	SW_ERR_EXEC_NO_INFO            StatusWord = 0x6400
	SW_ERR_EXEC_IMMEDIATE_RESPONSE StatusWord = 0x6401
	SW_ERR_EXEC_TRIGGERING_BY_CARD StatusWord = 0x6402

	SW_ERR_NV_CHANGED_NO_INFO StatusWord = 0x6500
	SW_ERR_MEMORY_FAILURE     StatusWord = 0x6581
	SW_ERR_SECURITY_ISSUE     StatusWord = 0x6600

	SW_ERR_WRONG_LENGTH              StatusWord = 0x6700
	SW_ERR_CHECKING_NO_INFO          StatusWord = 0x6800
	SW_ERR_LOGICAL_CHANNEL_NOT_SUPP  StatusWord = 0x6881
	SW_ERR_SECURE_MESSAGING_NOT_SUPP StatusWord = 0x6882
	SW_ERR_LAST_COMMAND_EXPECTED     StatusWord = 0x6883
	SW_ERR_CHAINING_NOT_SUPP         StatusWord = 0x6884

	SW_ERR_CMD_NOT_ALLOWED_NO_INFO StatusWord = 0x6900
	SW_ERR_CMD_INCOMPATIBLE_FILE   StatusWord = 0x6981
	SW_ERR_SECURITY_STATUS_NOT_SAT StatusWord = 0x6982
	SW_ERR_AUTH_METHOD_BLOCKED     StatusWord = 0x6983
	SW_ERR_REF_DATA_NOT_USABLE     StatusWord = 0x6984
	SW_ERR_COND_OF_USE_NOT_SAT     StatusWord = 0x6985
	SW_ERR_CMD_NOT_ALLOWED_NO_EF   StatusWord = 0x6986
	SW_ERR_SM_OBJ_MISSING          StatusWord = 0x6987
	SW_ERR_SM_OBJ_INCORRECT        StatusWord = 0x6988

	SW_ERR_WRONG_PARAMS_NO_INFO   StatusWord = 0x6A00
	SW_ERR_INCORRECT_PARAMS_DATA  StatusWord = 0x6A80
	SW_ERR_FUNC_NOT_SUPPORTED     StatusWord = 0x6A81
	SW_ERR_FILE_NOT_FOUND         StatusWord = 0x6A82
	SW_ERR_RECORD_NOT_FOUND       StatusWord = 0x6A83
	SW_ERR_NOT_ENOUGH_MEMORY      StatusWord = 0x6A84
	SW_ERR_NC_INCONSISTENT_TLV    StatusWord = 0x6A85
	SW_ERR_INCORRECT_PARAMS_P1P2  StatusWord = 0x6A86
	SW_ERR_NC_INCONSISTENT_P1P2   StatusWord = 0x6A87
	SW_ERR_REF_DATA_NOT_FOUND     StatusWord = 0x6A88
	SW_ERR_FILE_ALREADY_EXISTS    StatusWord = 0x6A89
	SW_ERR_DF_NAME_ALREADY_EXISTS StatusWord = 0x6A8A

	SW_ERR_WRONG_P1P2        StatusWord = 0x6B00
	SW_ERR_INS_INVALID       StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPPORTED StatusWord = 0x6E00
	SW_ERR_UNKNOWN           StatusWord = 0x6F00
)

// swDescriptions maps the static codes to their ISO 7816-4 meaning.
var swDescriptions = map[StatusWord]string{
	SW_NO_ERROR: "Normal processing",

	SW_WARN_NO_INFO:              "Warning: No information given",
	SW_WARN_DATA_CORRUPTED:       "Warning: Part of returned data may be corrupted",
	SW_WARN_EOF_REACHED:          "Warning: End of file reached before reading Ne bytes",
	SW_WARN_FILE_DEACTIVATED:     "Warning: Selected file deactivated",
	SW_WARN_FCI_BAD_FORMAT:       "Warning: File control information badly formatted",
	SW_WARN_TERMINATION_STATE:    "Warning: Selected file in termination state",
	SW_WARN_NO_INPUT_FROM_SENSOR: "Warning: No input data available from a sensor on the card",

	SW_WARN_NV_CHANGED_NO_INFO: "Warning: NV memory changed, no information given",
	SW_WARN_FILE_FILLED:        "Warning: File filled up by the last write",

	SW_ERR_EXEC_NO_INFO:            "Execution Error: No information given",
	SW_ERR_EXEC_IMMEDIATE_RESPONSE: "Execution Error: Immediate response required by the card",

	SW_ERR_NV_CHANGED_NO_INFO: "Execution Error: NV memory changed, no information given",
	SW_ERR_MEMORY_FAILURE:     "Execution Error: Memory failure",
	SW_ERR_SECURITY_ISSUE:     "Execution Error: Security-related issue",

	SW_ERR_WRONG_LENGTH:              "Checking Error: Wrong length, no further indication",
	SW_ERR_CHECKING_NO_INFO:          "Checking Error: Function in CLA not supported",
	SW_ERR_LOGICAL_CHANNEL_NOT_SUPP:  "Checking Error: Logical channel not supported",
	SW_ERR_SECURE_MESSAGING_NOT_SUPP: "Checking Error: Secure messaging not supported",
	SW_ERR_LAST_COMMAND_EXPECTED:     "Checking Error: Last command of the chain expected",
	SW_ERR_CHAINING_NOT_SUPP:         "Checking Error: Command chaining not supported",

	SW_ERR_CMD_NOT_ALLOWED_NO_INFO: "Checking Error: Command not allowed",
	SW_ERR_CMD_INCOMPATIBLE_FILE:   "Checking Error: Command incompatible with file structure",
	SW_ERR_SECURITY_STATUS_NOT_SAT: "Checking Error: Security status not satisfied",
	SW_ERR_AUTH_METHOD_BLOCKED:     "Checking Error: Authentication method blocked",
	SW_ERR_REF_DATA_NOT_USABLE:     "Checking Error: Reference data not usable",
	SW_ERR_COND_OF_USE_NOT_SAT:     "Checking Error: Conditions of use not satisfied",
	SW_ERR_CMD_NOT_ALLOWED_NO_EF:   "Checking Error: Command not allowed, no current EF",
	SW_ERR_SM_OBJ_MISSING:          "Checking Error: Expected secure messaging objects missing",
	SW_ERR_SM_OBJ_INCORRECT:        "Checking Error: Incorrect secure messaging objects",

	SW_ERR_WRONG_PARAMS_NO_INFO:   "Checking Error: Wrong parameters P1-P2",
	SW_ERR_INCORRECT_PARAMS_DATA:  "Checking Error: Incorrect parameters in the command data field",
	SW_ERR_FUNC_NOT_SUPPORTED:     "Checking Error: Function not supported",
	SW_ERR_FILE_NOT_FOUND:         "Checking Error: File or application not found",
	SW_ERR_RECORD_NOT_FOUND:       "Checking Error: Record not found",
	SW_ERR_NOT_ENOUGH_MEMORY:      "Checking Error: Not enough memory space in the file",
	SW_ERR_NC_INCONSISTENT_TLV:    "Checking Error: Nc inconsistent with TLV structure",
	SW_ERR_INCORRECT_PARAMS_P1P2:  "Checking Error: Incorrect parameters P1-P2",
	SW_ERR_NC_INCONSISTENT_P1P2:   "Checking Error: Nc inconsistent with parameters P1-P2",
	SW_ERR_REF_DATA_NOT_FOUND:     "Checking Error: Referenced data not found",
	SW_ERR_FILE_ALREADY_EXISTS:    "Checking Error: File already exists",
	SW_ERR_DF_NAME_ALREADY_EXISTS: "Checking Error: DF name already exists",

	SW_ERR_WRONG_P1P2:        "Checking Error: Wrong parameters P1-P2",
	SW_ERR_INS_INVALID:       "Checking Error: Instruction code not supported or invalid",
	SW_ERR_CLA_NOT_SUPPORTED: "Checking Error: Class not supported",
	SW_ERR_UNKNOWN:           "Checking Error: No precise diagnosis",
}
