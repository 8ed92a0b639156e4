// Command bytebridge validates schemas, generates Go and Java codecs and
// encodes or decodes values from the command line.
package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/gen"
	"github.com/wippyai/bytebridge/schema"
)

const usage = `Usage: bytebridge [-v] <command> [flags] [args]

Commands:
  gen          generate Go and Java codecs (reads bytebridge.yaml by default)
  check        validate schema files
  fingerprint  print the schema fingerprint
  inspect      show types and their minimum wire width (-i for interactive)
  encode       encode a YAML value
  decode       decode bytes to YAML

Run "bytebridge <command> -h" for command flags.
`

// errUsage marks errors that should print usage and exit with status 2.
var errUsage = stderrors.New("usage")

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *zap.Logger
	tty    bool // stdout is a terminal
}

func main() {
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		tty:    term.IsTerminal(int(os.Stdout.Fd())),
	}
	os.Exit(a.run(os.Args[1:]))
}

func (a *app) run(args []string) int {
	fs := pflag.NewFlagSet("bytebridge", pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.SetInterspersed(false)
	fs.Usage = func() { fmt.Fprint(a.stderr, usage) }
	verbose := fs.BoolP("verbose", "v", false, "log generator activity to stderr")
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprint(a.stderr, usage)
		return 2
	}

	a.log = zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: create logger: %v\n", err)
			return 1
		}
		a.log = l
		defer func() { _ = l.Sync() }()
	}
	gen.SetLogger(a.log)
	defer gen.SetLogger(nil)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	var err error
	switch cmd {
	case "gen":
		err = a.runGen(rest)
	case "check":
		err = a.runCheck(rest)
	case "fingerprint":
		err = a.runFingerprint(rest)
	case "inspect":
		err = a.runInspect(rest)
	case "encode":
		err = a.runEncode(rest)
	case "decode":
		err = a.runDecode(rest)
	case "help":
		fmt.Fprint(a.stdout, usage)
		return 0
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, pflag.ErrHelp):
		return 0
	case stderrors.Is(err, errUsage):
		fmt.Fprintf(a.stderr, "%v\n", err)
		return 2
	}
	a.log.Debug("command failed", zap.String("command", cmd), zap.Error(err))
	a.printError(err)
	return 1
}

// printError writes one line per error; schema validation reports every
// problem at once.
func (a *app) printError(err error) {
	var list errors.List
	if stderrors.As(err, &list) {
		for _, e := range list {
			fmt.Fprintf(a.stderr, "Error: %v\n", e)
		}
		return
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
}

func (a *app) flagSet(name, args string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: bytebridge %s [flags] %s\n\nFlags:\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// loadSchemas merges schema files the same way a generation config does.
func loadSchemas(paths []string) (*schema.Schema, error) {
	if len(paths) == 0 {
		return nil, usageError("at least one schema file is required")
	}
	cfg := &gen.Config{Schemas: paths}
	return cfg.LoadSchemas()
}

func (a *app) runCheck(args []string) error {
	fs := a.flagSet("check", "<schema.yaml>...")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := loadSchemas(fs.Args())
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "ok: %d types in package %q\n", len(s.Types), s.Package)
	return nil
}

func (a *app) runFingerprint(args []string) error {
	fs := a.flagSet("fingerprint", "<schema.yaml>...")
	expect := fs.String("expect", "", "fail unless the fingerprint equals this hex value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := loadSchemas(fs.Args())
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	fp, err := s.Fingerprint()
	if err != nil {
		return err
	}
	if *expect != "" {
		want, err := schema.ParseFingerprint(strings.TrimSpace(*expect))
		if err != nil {
			return err
		}
		if want != fp {
			return errors.New(errors.PhaseValidate, errors.KindSchemaMismatch).
				Value(fp.String()).
				Detail("fingerprint %s, expected %s", fp, want).
				Build()
		}
	}
	fmt.Fprintln(a.stdout, fp)
	return nil
}
