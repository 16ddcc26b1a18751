// Package tlv renders BER-TLV (Basic Encoding Rules - Tag-Length-Value)
// encoded data as human-readable text for diagnostics.
package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/moov-io/bertlv"
)

// Dump decodes data as BER-TLV and renders the tag tree, one tag per line,
// constructed templates indented below their tag. Primitive values are
// shown as upper-case hex, with a quoted gloss when the value is printable
// ASCII.
func Dump(data []byte) (string, error) {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return "", fmt.Errorf("bertlv decode failed: %w", err)
	}

	var sb strings.Builder
	writePackets(&sb, packets, 0)
	return strings.TrimRight(sb.String(), "\n"), nil
}

func writePackets(sb *strings.Builder, packets []bertlv.TLV, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, p := range packets {
		tag := strings.ToUpper(p.Tag)

		if len(p.TLVs) > 0 {
			fmt.Fprintf(sb, "%s%s:\n", indent, tag)
			writePackets(sb, p.TLVs, depth+1)
			continue
		}

		fmt.Fprintf(sb, "%s%s: %s\n", indent, tag, formatValue(p.Value))
	}
}

func formatValue(value []byte) string {
	if len(value) == 0 {
		return "(empty)"
	}

	hexStr := strings.ToUpper(hex.EncodeToString(value))
	if isPrintableASCII(value) {
		return fmt.Sprintf("%s (%q)", hexStr, string(value))
	}
	return hexStr
}

func isPrintableASCII(data []byte) bool {
	for _, b := range data {
		if b < 32 || b > 126 {
			return false
		}
	}
	return true
}
