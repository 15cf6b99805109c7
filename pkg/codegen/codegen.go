// Package codegen turns a cleaning history into a standalone script.
//
// The generated script reproduces the pipeline outside databroom: it reads
// the input file, defines one function per operation used, calls them in
// history order with every parameter spelled out, and writes the result.
// Two targets are supported:
//
//   - Python, using pandas
//   - R, using base R plus stringi, readxl, writexl and jsonlite as needed
//
// Helper definitions are emitted once each, in order of first use, after
// the private helpers they depend on. Function signatures carry the same
// defaults as the operation registry.
package codegen

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/databroom/databroom/pkg/buildinfo"
	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	pkgio "github.com/databroom/databroom/pkg/io"
	"github.com/databroom/databroom/pkg/ops"
)

// Lang is a code generation target.
type Lang string

const (
	Python Lang = "python"
	R      Lang = "r"
)

// Langs lists the supported targets.
var Langs = []Lang{Python, R}

// ParseLang accepts "python", "py" and "r" in any case.
func ParseLang(s string) (Lang, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "python", "py":
		return Python, nil
	case "r":
		return R, nil
	}
	return "", errors.New(errors.ErrCodeInvalidLanguage,
		"unsupported language %q (supported: python, py, r)", s)
}

// LangForPath infers the target from a script file extension.
func LangForPath(path string) (Lang, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return Python, true
	case ".r":
		return R, true
	}
	return "", false
}

// Extension returns the conventional script extension.
func (l Lang) Extension() string {
	if l == R {
		return ".R"
	}
	return ".py"
}

// Options configures [Generate].
type Options struct {
	Lang Lang

	// Input is the data file the script reads. Required.
	Input string

	// Output is the file the script writes. Empty skips the write.
	Output string

	// Registry resolves operation parameters. Nil means ops.Default().
	Registry *ops.Registry
}

// dialect renders the language-specific parts of a script.
type dialect interface {
	preamble() []string
	shared(name string) (string, bool)
	helper(name string) (deps []string, body string, ok bool)
	define(op *ops.Operation, body string) (string, error)
	call(op *ops.Operation, p ops.Params) (string, error)
	read(path string, f pkgio.Format) string
	write(path string, f pkgio.Format) string
}

func dialectFor(l Lang) (dialect, error) {
	switch l {
	case Python:
		return python{}, nil
	case R:
		return rlang{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidLanguage, "unsupported language %q", l)
}

type step struct {
	op     *ops.Operation
	params ops.Params
	record history.Record
}

// Generate writes a script reproducing records to w.
func Generate(w io.Writer, opts Options, records []history.Record) error {
	d, err := dialectFor(opts.Lang)
	if err != nil {
		return err
	}
	if opts.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "generated code needs an input file")
	}
	inFormat, err := pkgio.DetectFormat(opts.Input)
	if err != nil {
		return err
	}
	var outFormat pkgio.Format
	if opts.Output != "" {
		if outFormat, err = pkgio.DetectFormat(opts.Output); err != nil {
			return err
		}
	}
	reg := opts.Registry
	if reg == nil {
		reg = ops.Default()
	}

	steps := make([]step, 0, len(records))
	for _, rec := range records {
		op, ok := reg.Lookup(rec.Name)
		if !ok {
			return errors.New(errors.ErrCodeUnknownOperation, "operation %q is not available", rec.Name)
		}
		params, err := op.Bind(rec.CallArgs())
		if err != nil {
			return fmt.Errorf("%s: %w", rec.Name, err)
		}
		steps = append(steps, step{op: op, params: params, record: rec})
	}

	defs, err := definitions(d, steps)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Generated by %s\n", buildinfo.Short())
	fmt.Fprintf(bw, "# Reproduces %d cleaning step(s) applied to %s\n", len(steps), filepath.Base(opts.Input))
	for i, s := range steps {
		fmt.Fprintf(bw, "#   %d. %s\n", i+1, s.record)
	}
	bw.WriteString("\n")
	for _, line := range d.preamble() {
		bw.WriteString(line + "\n")
	}
	for _, def := range defs {
		bw.WriteString("\n\n" + def)
	}
	bw.WriteString("\n\n")

	bw.WriteString(d.read(opts.Input, inFormat) + "\n")
	for _, s := range steps {
		line, err := d.call(s.op, s.params)
		if err != nil {
			return err
		}
		bw.WriteString(line + "\n")
	}
	if opts.Output != "" {
		bw.WriteString(d.write(opts.Output, outFormat) + "\n")
	}
	return bw.Flush()
}

// definitions collects helper sources in first-use order, dependencies
// first, each exactly once.
func definitions(d dialect, steps []step) ([]string, error) {
	var defs []string
	emitted := map[string]bool{}

	var addShared func(name string) error
	addShared = func(name string) error {
		if emitted[name] {
			return nil
		}
		src, ok := d.shared(name)
		if !ok {
			return errors.New(errors.ErrCodeInternal, "missing helper %q", name)
		}
		emitted[name] = true
		defs = append(defs, src)
		return nil
	}

	for _, s := range steps {
		name := s.op.Name
		if emitted[name] {
			continue
		}
		deps, body, ok := d.helper(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnsupported, "no code generator for operation %q", name)
		}
		for _, dep := range deps {
			if err := addShared(dep); err != nil {
				return nil, err
			}
		}
		def, err := d.define(s.op, body)
		if err != nil {
			return nil, err
		}
		emitted[name] = true
		defs = append(defs, def)
	}
	return defs, nil
}

// WriteFile generates a script into path, creating or truncating it.
func WriteFile(path string, opts Options, records []history.Record) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := Generate(f, opts, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// args renders every bound parameter of op in declaration order.
func args(op *ops.Operation, p ops.Params, lit func(any) (string, error), sep string) ([]string, error) {
	out := make([]string, 0, len(op.Params))
	for _, param := range op.Params {
		v, _ := p.Value(param.Name)
		s, err := lit(v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", op.Name, param.Name, err)
		}
		out = append(out, param.Name+sep+s)
	}
	return out, nil
}
