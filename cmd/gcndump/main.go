// Command gcndump is a thin driver over package dispatch: it reads
// either assembly lines (mnemonic + operands + modifiers) or raw hex
// instruction words, and prints the other side of the codec. It exists
// to exercise the full arch -> isa -> operand -> modifier -> encoding
// -> dispatch pipeline from one callable path, the way the teacher's
// main.go exercises parser -> loader -> vm from a single command line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/config"
	"github.com/lookbusy1344/gcnasm/dispatch"
)

var Version = "dev"

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		disasm      = flag.Bool("disasm", false, "Disassemble hex words instead of assembling text")
		device      = flag.String("device", "gfx900", "Target device name (see devices.toml) or GCN revision, e.g. GCN1.2")
		verbose     = flag.Bool("verbose", false, "Log codec warnings (truncated fields, ...) to stderr")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("gcndump %s\n", Version)
		os.Exit(0)
	}

	a, err := resolveArch(*device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gcndump: %v\n", err)
		os.Exit(1)
	}

	var log *zap.Logger
	if *verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "gcndump: logger: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync() //nolint:errcheck
	}

	var in *os.File
	switch flag.NArg() {
	case 0:
		in = os.Stdin
	case 1:
		in, err = os.Open(flag.Arg(0)) // #nosec G304 -- user-specified input path
		if err != nil {
			fmt.Fprintf(os.Stderr, "gcndump: %v\n", err)
			os.Exit(1)
		}
		defer in.Close()
	default:
		fmt.Fprintln(os.Stderr, "usage: gcndump [flags] [file]")
		os.Exit(1)
	}

	if *disasm {
		err = runDisassemble(in, a)
	} else {
		err = runAssemble(in, a, log)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gcndump: %v\n", err)
		os.Exit(1)
	}
}

// resolveArch accepts either a device name from the config table
// ("gfx900") or a bare GCN revision string ("GCN1.2").
func resolveArch(device string) (arch.Arch, error) {
	table, err := config.Load()
	if err != nil {
		return 0, fmt.Errorf("loading device table: %w", err)
	}
	if a, ok := table.Resolve(device); ok {
		return a, nil
	}
	for _, a := range arch.All() {
		if strings.EqualFold(a.String(), device) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown device or architecture %q", device)
}

// runAssemble reads one instruction per line ("mnemonic op0, op1 ...",
// with any modifiers after a "--" separator) and prints its encoded
// words in hex, one instruction per output line.
func runAssemble(in *os.File, a arch.Arch, log *zap.Logger) error {
	scanner := bufio.NewScanner(in)
	var pc uint32
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		mnemonic, operands, modifierText := splitLine(line)
		res, err := dispatch.Assemble(mnemonic, operands, modifierText, a, pc, log)
		if err != nil {
			return fmt.Errorf("%q: %w", line, err)
		}
		words := make([]string, len(res.Words))
		for i, w := range res.Words {
			words[i] = fmt.Sprintf("%08x", w)
		}
		fmt.Println(strings.Join(words, " "))
		pc += uint32(4 * len(res.Words))
	}
	return scanner.Err()
}

// runDisassemble reads one instruction's worth of space-separated hex
// words per line and prints the decoded text.
func runDisassemble(in *os.File, a arch.Arch) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.Fields(line)
		words := make([]uint32, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseUint(strings.TrimPrefix(f, "0x"), 16, 32)
			if err != nil {
				return fmt.Errorf("%q: %w", line, err)
			}
			words[i] = uint32(v)
		}
		res, _, err := dispatch.Disassemble(words, a)
		if err != nil {
			return fmt.Errorf("%q: %w", line, err)
		}
		fmt.Println(res.Text)
	}
	return scanner.Err()
}

// splitLine breaks "mnemonic op0, op1 -- modifier0 modifier1" into its
// mnemonic, comma-separated operand list, and trailing modifier text.
// The "--" separator is gcndump's own line format, not part of the
// encoded instruction; it exists so this thin driver doesn't have to
// guess where operand text ends and modifier keywords begin.
func splitLine(line string) (mnemonic string, operands []string, modifierText string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, ""
	}
	mnemonic = fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(line, mnemonic))
	operandPart, modifierText, _ := strings.Cut(rest, "--")
	modifierText = strings.TrimSpace(modifierText)
	for _, op := range strings.Split(operandPart, ",") {
		op = strings.TrimSpace(op)
		if op != "" {
			operands = append(operands, op)
		}
	}
	return mnemonic, operands, modifierText
}
