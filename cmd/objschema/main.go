package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/objschema"
	"github.com/reoring/objschema/crd"
	"github.com/reoring/objschema/internal/logging"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `objschema CLI

Usage:
  objschema seal     [flags] [FILE]
  objschema unseal   [flags] [FILE]
  objschema merge    -with OTHER [flags] [FILE]
  objschema pick     -keys a,b [flags] [FILE]
  objschema omit     -keys a,b [flags] [FILE]
  objschema require  [-keys a,b] [flags] [FILE]
  objschema optional [-keys a,b] [flags] [FILE]
  objschema pipe     -step STEP [-step STEP ...] [flags] [FILE]

Steps: seal, unseal, merge=FILE, pick=a,b, omit=a,b, require[=a,b], optional[=a,b]

Notes:
  - FILE defaults to stdin.
  - require and optional without -keys apply to every declared property.`)
}

// options holds the flags shared by every subcommand.
type options struct {
	format    string
	outFormat string
	indent    bool
	out       string
	crdKind   string
	crdName   string
	strict    bool
	verbose   bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.format, "format", "auto", "input format: auto, json or yaml")
	fs.StringVar(&o.outFormat, "out-format", "", "output format: json or yaml (default: input format)")
	fs.BoolVar(&o.indent, "indent", false, "indent JSON output")
	fs.StringVar(&o.out, "o", "", "output filename (default: stdout)")
	fs.StringVar(&o.crdKind, "crd-kind", "", "read the schema of the CustomResourceDefinition with this kind")
	fs.StringVar(&o.crdName, "crd-name", "", "read the schema of the CustomResourceDefinition with this metadata.name")
	fs.BoolVar(&o.strict, "strict", false, "fail on duplicate keys instead of warning")
	fs.BoolVar(&o.verbose, "v", false, "enable verbose logs")
}

func (o *options) parseOpt() objschema.ParseOpt {
	sev := objschema.Warn
	if o.strict {
		sev = objschema.Error
	}
	return objschema.ParseOpt{Strictness: objschema.Strictness{OnDuplicateKey: sev}}
}

// stepList collects repeated -step flags.
type stepList []string

func (s *stepList) String() string { return strings.Join(*s, " ") }

func (s *stepList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logging.SetLogger(logging.New(stderr))
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	sub := args[0]
	fs := flag.NewFlagSet(sub, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	opts.register(fs)

	var keysCSV, with string
	var steps stepList
	switch sub {
	case "seal", "unseal":
	case "pick", "omit", "require", "optional":
		fs.StringVar(&keysCSV, "keys", "", "comma-separated property names")
	case "merge":
		fs.StringVar(&with, "with", "", "schema file merged on top of the input")
	case "pipe":
		fs.Var(&steps, "step", "transform step (repeatable)")
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "objschema: unknown command %q\n\n", sub)
		usage(stderr)
		return exitUsage
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "objschema: at most one input file may be given")
		return exitUsage
	}
	if err := opts.validate(); err != nil {
		fmt.Fprintf(stderr, "objschema: %v\n", err)
		return exitUsage
	}
	if opts.verbose {
		logging.SetLogLevel(slog.LevelDebug)
	}
	log := logging.Logger()

	var chain []objschema.Step
	var err error
	switch sub {
	case "seal":
		chain = []objschema.Step{objschema.Seal()}
	case "unseal":
		chain = []objschema.Step{objschema.Unseal()}
	case "merge":
		if with == "" {
			fmt.Fprintln(stderr, "objschema: merge requires -with")
			return exitUsage
		}
		chain, err = parseSteps([]string{"merge=" + with}, opts)
	case "pick", "omit":
		if keysCSV == "" && !flagSet(fs, "keys") {
			fmt.Fprintf(stderr, "objschema: %s requires -keys\n", sub)
			return exitUsage
		}
		chain, err = parseSteps([]string{sub + "=" + keysCSV}, opts)
	case "require", "optional":
		step := sub
		if flagSet(fs, "keys") {
			step += "=" + keysCSV
		}
		chain, err = parseSteps([]string{step}, opts)
	case "pipe":
		if len(steps) == 0 {
			fmt.Fprintln(stderr, "objschema: pipe requires at least one -step")
			return exitUsage
		}
		chain, err = parseSteps(steps, opts)
	}
	if err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "objschema: %v\n", err)
			return exitUsage
		}
		return fail(stderr, err)
	}

	path := fs.Arg(0)
	data, err := readInput(path, stdin)
	if err != nil {
		return fail(stderr, err)
	}
	format := detectFormat(opts.format, path, data)
	log.Debug("loaded input", "path", path, "format", format, "bytes", len(data))

	schema, err := loadSchema(data, format, opts)
	if err != nil {
		return fail(stderr, err)
	}
	result, err := objschema.Pipe(schema, chain...)
	if err != nil {
		return fail(stderr, err)
	}
	log.Debug("applied transforms", "command", sub, "steps", len(chain))

	outFormat := opts.outFormat
	if outFormat == "" {
		outFormat = format
	}
	b, err := encode(result, outFormat, opts.indent)
	if err != nil {
		return fail(stderr, err)
	}
	if opts.out == "" {
		_, err = stdout.Write(b)
	} else {
		err = writeFile(opts.out, b)
	}
	if err != nil {
		return fail(stderr, err)
	}
	return exitOK
}

func (o *options) validate() error {
	switch o.format {
	case "auto", "json", "yaml":
	default:
		return fmt.Errorf("invalid -format %q (want auto, json or yaml)", o.format)
	}
	switch o.outFormat {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("invalid -out-format %q (want json or yaml)", o.outFormat)
	}
	if o.crdKind != "" && o.crdName != "" {
		return errors.New("-crd-kind and -crd-name are mutually exclusive")
	}
	return nil
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// parseSteps turns pipe step specs into transform steps. merge steps load
// their schema file eagerly so that a missing file fails before any output.
func parseSteps(specs []string, opts options) ([]objschema.Step, error) {
	out := make([]objschema.Step, 0, len(specs))
	for _, spec := range specs {
		name, arg, hasArg := strings.Cut(spec, "=")
		switch name {
		case "seal", "unseal":
			if hasArg {
				return nil, usageError{fmt.Sprintf("step %q takes no argument", name)}
			}
			if name == "seal" {
				out = append(out, objschema.Seal())
			} else {
				out = append(out, objschema.Unseal())
			}
		case "merge":
			if arg == "" {
				return nil, usageError{"step merge requires a file: merge=FILE"}
			}
			data, err := os.ReadFile(arg)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", arg, err)
			}
			other, err := loadSchema(data, detectFormat("auto", arg, data), options{strict: opts.strict})
			if err != nil {
				return nil, fmt.Errorf("%s: %w", arg, err)
			}
			out = append(out, objschema.Merge(other))
		case "pick":
			out = append(out, objschema.Pick(splitCSV(arg)...))
		case "omit":
			out = append(out, objschema.Omit(splitCSV(arg)...))
		case "require":
			if hasArg {
				out = append(out, objschema.Require(splitCSV(arg)...))
			} else {
				out = append(out, objschema.RequireAll())
			}
		case "optional":
			if hasArg {
				out = append(out, objschema.Optional(splitCSV(arg)...))
			} else {
				out = append(out, objschema.OptionalAll())
			}
		default:
			return nil, usageError{fmt.Sprintf("unknown step %q", spec)}
		}
	}
	return out, nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// detectFormat resolves "auto" by file extension, then by the first
// non-space byte of the input.
func detectFormat(format, path string, data []byte) string {
	if format != "auto" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "json"
	}
	return "yaml"
}

func loadSchema(data []byte, format string, opts options) (*objschema.Object, error) {
	switch {
	case opts.crdKind != "":
		return crd.FindByKind(data, opts.crdKind, opts.parseOpt())
	case opts.crdName != "":
		return crd.FindByName(data, opts.crdName, opts.parseOpt())
	case format == "json":
		return objschema.ParseJSONObject(data, opts.parseOpt())
	default:
		return objschema.ParseYAMLObject(data, opts.parseOpt())
	}
}

func encode(o *objschema.Object, format string, indent bool) ([]byte, error) {
	if format == "yaml" {
		return objschema.EncodeYAML(o)
	}
	var b []byte
	var err error
	if indent {
		b, err = objschema.EncodeJSONIndent(o, "", "  ")
	} else {
		b, err = objschema.EncodeJSON(o)
	}
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeFile(path string, b []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "objschema: %v\n", err)
	if iss, ok := objschema.AsIssues(err); ok {
		for _, it := range iss {
			logging.Logger().Debug("issue", "code", it.Code, "path", it.Path, "message", it.Message)
		}
	}
	return exitFailure
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
