package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/skema"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "skema CLI\n\nUsage:\n  skema fmt [-in json|yaml] [-out json|yaml] [-sort] [-indent S] [-max-depth N] [-strict] [-v] FILE|-\n  skema check [-in json|yaml] [-max-depth N] [-strict] [-v] FILE|-\n  skema inspect [-in json|yaml] FILE|-\n\nNotes:\n  - FILE \"-\" reads standard input.\n  - The input format defaults to yaml for .yaml/.yml files and json otherwise.")
}

// run executes one subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "fmt":
		return fmtCmd(args[1:], stdin, stdout, stderr)
	case "check":
		return checkCmd(args[1:], stdin, stdout, stderr)
	case "inspect":
		return inspectCmd(args[1:], stdin, stdout, stderr)
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return 0
	}
	usage(stderr)
	return 2
}

// common holds the flags shared by the subcommands.
type common struct {
	in       string
	maxDepth int
	strict   bool
	verbose  bool
	stderr   io.Writer
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.in, "in", "", "input format: json or yaml (default: from file extension)")
	fs.IntVar(&c.maxDepth, "max-depth", skema.DefaultMaxDepth, "maximum nesting depth (<0 disables)")
	fs.BoolVar(&c.strict, "strict", false, "reject duplicate keys instead of keeping the last value")
	fs.BoolVar(&c.verbose, "v", false, "enable verbose logs")
}

func (c *common) logf(format string, a ...any) {
	if c.verbose {
		fmt.Fprintf(c.stderr, format+"\n", a...)
	}
}

func (c *common) decodeOpt() skema.DecodeOpt {
	opt := skema.DecodeOpt{MaxDepth: c.maxDepth}
	if c.strict {
		opt.Strictness.OnDuplicateKey = skema.Error
	} else {
		opt.Strictness.OnDuplicateKey = skema.Warn
		opt.Warnings = func(is skema.Issue) {
			c.logf("warning: %s at %s: %s", is.Code, is.Path, is.Message)
		}
	}
	return opt
}

// load reads the single positional argument and decodes it.
func (c *common) load(fs *flag.FlagSet, stdin io.Reader) (skema.Schema, string, error) {
	if fs.NArg() != 1 {
		return nil, "", errors.New("expected exactly one FILE argument")
	}
	name := fs.Arg(0)
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, "", err
	}
	format := c.in
	if format == "" {
		format = formatFor(name)
	}
	c.logf("%s: read %d bytes as %s (max-depth=%d strict=%t)", name, len(data), format, c.maxDepth, c.strict)
	switch format {
	case "json":
		s, err := skema.DecodeWith(data, c.decodeOpt())
		return s, format, err
	case "yaml":
		s, err := skema.DecodeYAML(data, c.decodeOpt())
		return s, format, err
	}
	return nil, "", fmt.Errorf("unknown input format %q", format)
}

func formatFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func fmtCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("fmt", stderr)
	c := &common{stderr: stderr}
	c.register(fs)
	var out, indent string
	var sorted bool
	fs.StringVar(&out, "out", "", "output format: json or yaml (default: same as input)")
	fs.BoolVar(&sorted, "sort", false, "sort object keys")
	fs.StringVar(&indent, "indent", "  ", "indentation; empty for compact JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	s, format, err := c.load(fs, stdin)
	if err != nil {
		return report(stderr, err)
	}
	if out == "" {
		out = format
	}
	opt := skema.EncodeOpt{Indent: indent}
	if sorted {
		opt.Mode = skema.EncodeCanonical
	}
	c.logf("fmt: %s -> %s (mode=%s)", format, out, opt.Mode)
	var b []byte
	switch out {
	case "json":
		b, err = skema.EncodeWith(s, opt)
		b = append(b, '\n')
	case "yaml":
		b, err = skema.EncodeYAML(s, opt)
	default:
		err = fmt.Errorf("unknown output format %q", out)
	}
	if err != nil {
		return report(stderr, err)
	}
	if _, err := stdout.Write(b); err != nil {
		return report(stderr, err)
	}
	return 0
}

func checkCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("check", stderr)
	c := &common{stderr: stderr}
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	s, _, err := c.load(fs, stdin)
	if err != nil {
		return report(stderr, err)
	}
	fmt.Fprintf(stdout, "ok: %s\n", s.Variant())
	return 0
}

func inspectCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("inspect", stderr)
	c := &common{stderr: stderr}
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	s, _, err := c.load(fs, stdin)
	if err != nil {
		return report(stderr, err)
	}
	printTree(stdout, "", s, 0)
	return 0
}

// report prints err, one line per issue when it carries Issues.
func report(w io.Writer, err error) int {
	iss, ok := skema.AsIssues(err)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return 1
	}
	for _, it := range iss {
		fmt.Fprintf(w, "%s at %s: %s\n", it.Code, it.Path, it.Message)
		if it.Hint != "" {
			fmt.Fprintf(w, "  hint: %s\n", it.Hint)
		}
	}
	return 1
}
