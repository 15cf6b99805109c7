package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/databroom/databroom/pkg/codegen"
	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	pkgio "github.com/databroom/databroom/pkg/io"
)

// DefaultLang is the code generation target when none is given.
const DefaultLang = codegen.Python

// Step is one operation call to apply.
type Step struct {
	Operation string
	Args      history.Args
}

// Options configures a [Runner] run.
type Options struct {
	// Input is the data file to clean. Required.
	Input string

	// Sheet selects the workbook sheet for xlsx input.
	Sheet string

	// Output is where the cleaned table is written. Empty skips writing.
	Output string

	// Code is where the generated script is written. Empty skips it.
	Code string

	// Lang is the script language ("python", "py" or "r"). When empty it is
	// inferred from the Code extension, falling back to DefaultLang.
	Lang string

	// Steps are applied in order.
	Steps []Step

	// Refresh bypasses the table cache on read.
	Refresh bool

	// Logger receives progress messages. Defaults to a discarding logger.
	Logger *log.Logger

	lang      codegen.Lang
	validated bool
}

// Result holds the outcome of a run.
type Result struct {
	// Pipeline holds the final table and the applied history.
	Pipeline *Pipeline

	// Stats contains shapes and timings.
	Stats Stats

	// CacheHit reports whether the input table came from the cache.
	CacheHit bool
}

// Stats contains execution statistics.
type Stats struct {
	InputRows  int
	InputCols  int
	OutputRows int
	OutputCols int
	Operations int
	LoadTime   time.Duration
	CleanTime  time.Duration
	WriteTime  time.Duration
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if _, err := pkgio.DetectFormat(o.Input); err != nil {
		return err
	}
	if o.Output != "" {
		if err := errors.ValidateOutputPath(o.Output); err != nil {
			return err
		}
		if _, err := pkgio.DetectFormat(o.Output); err != nil {
			return err
		}
	}
	if o.Code != "" {
		if err := errors.ValidateOutputPath(o.Code); err != nil {
			return err
		}
	}
	if err := o.resolveLang(); err != nil {
		return err
	}
	for i, s := range o.Steps {
		if s.Operation == "" {
			return errors.New(errors.ErrCodeInvalidArgument, "step %d has no operation", i+1)
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) resolveLang() error {
	if o.Lang != "" {
		l, err := codegen.ParseLang(o.Lang)
		if err != nil {
			return err
		}
		o.lang = l
		return nil
	}
	if l, ok := codegen.LangForPath(o.Code); ok {
		o.lang = l
		return nil
	}
	o.lang = DefaultLang
	return nil
}

// CodeLang returns the resolved script language. Valid after
// ValidateAndSetDefaults.
func (o *Options) CodeLang() codegen.Lang {
	return o.lang
}
