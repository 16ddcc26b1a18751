// Command sci2c is a generic APDU send tool: it frames one command from the
// command line, transmits it over the first PC/SC reader and reports the
// classified response. It knows nothing about specific card applications;
// every byte of the command comes from the flags.
//
// Example (SELECT the Master File):
//
//	sci2c -ins A4 -data "3F 00" -le 256 -tlv
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ebfe/scard"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rsashka/sci2c/pkg/iso7816"
	"github.com/rsashka/sci2c/pkg/tlv"
)

func main() {
	var (
		claFlag  = flag.String("cla", "00", "class byte (hex)")
		insFlag  = flag.String("ins", "", "instruction byte (hex, required)")
		p1Flag   = flag.String("p1", "00", "parameter 1 (hex)")
		p2Flag   = flag.String("p2", "00", "parameter 2 (hex)")
		dataFlag = flag.String("data", "", "command data field (hex, spaces allowed)")
		leFlag   = flag.Int("le", 0, "expected response length (0 = none, 256/65536 = maximum)")
		tlvFlag  = flag.Bool("tlv", false, "render the response payload as a BER-TLV tree")
	)
	flag.Parse()

	log := newLogger()
	defer func() {
		_ = log.Sync()
	}()

	if *insFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	cla := parseByteFlag(log, "cla", *claFlag)
	ins := parseByteFlag(log, "ins", *insFlag)
	p1 := parseByteFlag(log, "p1", *p1Flag)
	p2 := parseByteFlag(log, "p2", *p2Flag)

	data, err := hex.DecodeString(strings.ReplaceAll(*dataFlag, " ", ""))
	if err != nil {
		log.Fatal("invalid -data value", zap.String("data", *dataFlag), zap.Error(err))
	}

	// --- 1. Frame the command ---
	cmd, err := iso7816.NewCommand(cla, ins, p1, p2, len(data), *leFlag)
	if err != nil {
		log.Fatal("failed to frame command", zap.Error(err))
	}
	copy(cmd.Data(), data)

	fmt.Printf(">> Command: %s\n", cmd)
	describeHeader(cla, ins)

	// --- 2. Hardware setup ---
	ctx, card := connectToCard(log)

	defer func() {
		if err := ctx.Release(); err != nil {
			log.Warn("failed to release context", zap.Error(err))
		}
	}()

	defer func() {
		if err := card.Disconnect(scard.LeaveCard); err != nil {
			log.Warn("failed to disconnect card", zap.Error(err))
		}
	}()

	// --- 3. Exchange ---
	exchanger := iso7816.NewExchanger(card, iso7816.WithLogger(log))

	resp, err := exchanger.Exchange(cmd)
	if err != nil {
		log.Fatal("exchange failed", zap.Error(err))
	}

	report(resp, *tlvFlag)
}

// newLogger builds a development logger tuned by SCI2C_LOG_LEVEL
// (debug, info, warn, error; defaults to info).
func newLogger() *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	switch strings.ToLower(os.Getenv("SCI2C_LOG_LEVEL")) {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err := config.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func parseByteFlag(log *zap.Logger, name, value string) byte {
	v, err := strconv.ParseUint(strings.TrimPrefix(value, "0x"), 16, 8)
	if err != nil {
		log.Fatal("invalid flag value, expected a hex byte",
			zap.String("flag", name),
			zap.String("value", value),
		)
	}
	return byte(v)
}

// connectToCard handles the PC/SC context establishment and reader connection.
func connectToCard(log *zap.Logger) (*scard.Context, *scard.Card) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		log.Fatal("error establishing context", zap.Error(err))
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		if relErr := ctx.Release(); relErr != nil {
			log.Warn("failed to release context during error handling", zap.Error(relErr))
		}
		log.Fatal("no smart card reader found", zap.Error(err))
	}

	log.Info("using reader", zap.String("reader", readers[0]))

	// Force T=0 or T=1 to avoid "Parameter Incorrect" errors (Error 57)
	card, err := ctx.Connect(readers[0], scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		if relErr := ctx.Release(); relErr != nil {
			log.Warn("failed to release context during error handling", zap.Error(relErr))
		}
		log.Fatal("error connecting to card", zap.Error(err))
	}

	return ctx, card
}

// describeHeader prints the decoded CLA and INS structure when they parse.
func describeHeader(cla, ins byte) {
	if cls, err := iso7816.NewClass(cla); err == nil {
		fmt.Println(cls.Verbose())
	}
	if instruction, err := iso7816.NewInstruction(iso7816.InsCode(ins)); err == nil {
		fmt.Println(instruction.Verbose())
	}
}

// report prints the classified response.
func report(resp iso7816.Response, dumpTLV bool) {
	fmt.Printf("<< Status: %s\n", resp.Status().Verbose())

	switch {
	case resp.IsWarning():
		fmt.Println("<< Classification: Warning")
	case resp.IsExecutionError():
		fmt.Println("<< Classification: Execution Error")
	case resp.IsCheckingError():
		fmt.Println("<< Classification: Checking Error")
	}

	if n := resp.RemainingBytes(); n > 0 {
		fmt.Printf("<< %d more byte(s) available via GET RESPONSE\n", n)
	}

	if resp.DataSize() == 0 {
		return
	}

	fmt.Printf("<< Payload (%d bytes): %X\n", resp.DataSize(), resp.Data())

	if dumpTLV {
		if tree, err := tlv.Dump(resp.Data()); err == nil {
			fmt.Println(tree)
		} else {
			fmt.Printf("   (payload is not valid BER-TLV: %v)\n", err)
		}
	}
}
