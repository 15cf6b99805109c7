// Package recipe saves cleaning histories as replayable files.
//
// A recipe is an ordered list of operation calls. It is written as TOML or
// YAML, chosen by file extension:
//
//	version = 1
//
//	[[steps]]
//	operation = "clean_all"
//
//	[steps.params]
//	snakecase_vals = false
//
//	[[steps]]
//	operation = "rename_column"
//	args = ["ciudad", "city"]
//
// Replaying a recipe saved from a history reproduces the same table.
package recipe

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	"github.com/databroom/databroom/pkg/ops"
)

// CurrentVersion is the recipe format version written by Save.
const CurrentVersion = 1

// Format is a recipe file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Recipe is an ordered list of steps.
type Recipe struct {
	Version int    `toml:"version" yaml:"version"`
	Source  string `toml:"source,omitempty" yaml:"source,omitempty"`
	Steps   []Step `toml:"steps" yaml:"steps"`
}

// Step is one operation call.
type Step struct {
	Operation  string         `toml:"operation" yaml:"operation"`
	Positional []any          `toml:"args,omitempty" yaml:"args,omitempty"`
	Params     map[string]any `toml:"params,omitempty" yaml:"params,omitempty"`
}

// Args returns the step's arguments in invocation form.
func (s Step) Args() history.Args {
	return history.Args{
		Positional: slices.Clone(s.Positional),
		Keyword:    maps.Clone(s.Params),
	}
}

// FromHistory builds a recipe that replays records.
func FromHistory(records []history.Record) *Recipe {
	r := &Recipe{Version: CurrentVersion, Steps: make([]Step, 0, len(records))}
	for _, rec := range records {
		s := Step{Operation: rec.Name}
		if len(rec.Args) > 0 {
			s.Positional = slices.Clone(rec.Args)
		}
		if len(rec.Kwargs) > 0 {
			s.Params = maps.Clone(rec.Kwargs)
		}
		r.Steps = append(r.Steps, s)
	}
	return r
}

// Validate checks the version and that every step names a known operation
// with arguments it accepts.
func (r *Recipe) Validate(reg *ops.Registry) error {
	if r.Version > CurrentVersion {
		return errors.New(errors.ErrCodeInvalidRecipe,
			"recipe version %d is newer than supported version %d", r.Version, CurrentVersion)
	}
	for i, s := range r.Steps {
		op, ok := reg.Lookup(s.Operation)
		if !ok {
			return errors.New(errors.ErrCodeUnknownOperation,
				"step %d: operation %q is not available", i+1, s.Operation)
		}
		if _, err := op.Bind(s.Args()); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s.Operation, err)
		}
	}
	return nil
}

// DetectFormat returns the encoding implied by the extension of path.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported recipe format %q (supported: .toml, .yaml, .yml)", filepath.Ext(path))
}

// Load reads and decodes the recipe at path.
func Load(path string) (*Recipe, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "recipe %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a recipe of the given format from r. Unknown keys are
// rejected.
func Decode(r io.Reader, format Format) (*Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "read recipe")
	}

	var rec Recipe
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &rec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode toml recipe")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidRecipe, "unknown recipe keys: %v", undecoded)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&rec); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode yaml recipe")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported recipe format %q", format)
	}

	if rec.Version == 0 {
		rec.Version = CurrentVersion
	}
	for i, s := range rec.Steps {
		if s.Operation == "" {
			return nil, errors.New(errors.ErrCodeInvalidRecipe, "step %d has no operation", i+1)
		}
	}
	return &rec, nil
}

// Encode writes r to w in the given format.
func Encode(w io.Writer, format Format, r *Recipe) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported recipe format %q", format)
}

// Save writes r to path, choosing the format from the extension.
func Save(path string, r *Recipe) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, format, r); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode recipe")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
