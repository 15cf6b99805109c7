package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/databroom/databroom/internal/config"
	"github.com/databroom/databroom/pkg/codegen"
	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	pkgio "github.com/databroom/databroom/pkg/io"
	"github.com/databroom/databroom/pkg/ops"
	"github.com/databroom/databroom/pkg/pipeline"
	"github.com/databroom/databroom/pkg/recipe"
)

// cleanOpts holds the fixed command-line flags for the clean command.
// Operation and parameter flags are derived from the registry.
type cleanOpts struct {
	output     string // cleaned data file
	code       string // generated script file
	lang       string // script language: python, py, r
	recipe     string // recipe replayed before flag operations
	saveRecipe string // where to save the applied history as a recipe
	sheet      string // workbook sheet for xlsx input
	info       bool   // print a column summary before and after cleaning
	quiet      bool   // suppress progress and result output
	noCache    bool   // bypass the table cache entirely
	refresh    bool   // re-read the input even when cached
}

// cleanCommand creates the clean command.
func (c *CLI) cleanCommand() *cobra.Command {
	var opts cleanOpts
	opFlags := newOperationFlags(c.Registry)

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Apply cleaning operations to a data file",
		Long: `Apply cleaning operations to a CSV, TSV, Excel or JSON file.

Every operation in the catalog has a flag of the same name. Selected
operations run in catalog order (see 'databroom list'); a recipe given with
--recipe runs before them. Parameter flags apply to every selected operation
that declares the parameter.

The cleaned table is written with --output-file, and a Python or R script
that reproduces the cleaning is written with --output-code. Without either,
a preview of the cleaned table is printed.`,
		Example: `  databroom clean data.csv --clean-all -o clean.csv
  databroom clean survey.xlsx --remove-empty-rows --promote-headers --row-index 2 -c clean.R
  databroom clean data.csv --clean-columns --no-snakecase --empty-threshold 0.5
  databroom clean data.csv --rename-column "Nombre=name" --save-recipe steps.toml
  databroom clean other.csv --recipe steps.toml -o other_clean.json`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			exts := make([]string, 0, len(pkgio.Formats))
			for _, f := range pkgio.Formats {
				exts = append(exts, string(f))
			}
			return exts, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd.Flags(), cfg, &opts)
			steps, err := opFlags.steps(cmd.Flags(), configDefaults(cfg))
			if err != nil {
				return err
			}
			return c.runClean(cmd.Context(), args[0], opts, steps)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output-file", "o", "", "write the cleaned data to this file (.csv, .tsv, .xlsx, .json)")
	cmd.Flags().StringVarP(&opts.code, "output-code", "c", "", "write the generated cleaning script to this file")
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "script language: python (default), r")
	cmd.Flags().StringVar(&opts.recipe, "recipe", "", "replay the steps of a recipe file (.toml, .yaml)")
	cmd.Flags().StringVar(&opts.saveRecipe, "save-recipe", "", "save the applied steps as a recipe file (.toml, .yaml)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "sheet to read from an Excel workbook (default: first sheet)")
	cmd.Flags().BoolVar(&opts.info, "info", false, "print a column summary before and after cleaning")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print errors")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the table cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-read the input even if it is cached")

	opFlags.register(cmd.Flags())

	return cmd
}

// applyConfig fills the flags the user did not set from the config file.
func applyConfig(fs *pflag.FlagSet, cfg config.Config, opts *cleanOpts) {
	if _, ok := codegen.LangForPath(opts.code); !ok && !fs.Changed("lang") {
		opts.lang = cfg.Lang
	}
	if !fs.Changed("no-cache") {
		opts.noCache = cfg.NoCache
	}
	if !fs.Changed("quiet") {
		opts.quiet = cfg.Quiet
	}
	if !fs.Changed("info") {
		opts.info = cfg.Info
	}
}

// configDefaults returns parameter values the config file overrides.
func configDefaults(cfg config.Config) map[string]any {
	if cfg.EmptyThreshold == ops.DefaultEmptyThreshold {
		return nil
	}
	return map[string]any{
		"empty_threshold": cfg.EmptyThreshold,
		"threshold":       cfg.EmptyThreshold,
	}
}

// runClean loads, cleans and writes, then reports the result.
func (c *CLI) runClean(ctx context.Context, input string, opts cleanOpts, flagSteps []pipeline.Step) error {
	if opts.quiet {
		c.SetLogLevel(log.ErrorLevel)
	}
	ctx = withLogger(ctx, c.Logger)

	steps, source, err := c.recipeSteps(opts.recipe)
	if err != nil {
		return err
	}
	if source != "" && source != filepath.Base(input) && !opts.quiet {
		printWarning("Recipe was recorded on %s", source)
	}
	steps = append(steps, flagSteps...)
	if len(steps) == 0 && !opts.info {
		return errors.New(errors.ErrCodeInvalidArgument,
			"no cleaning operations specified; use --help to see the available operations")
	}
	if opts.saveRecipe != "" {
		if _, err := recipe.DetectFormat(opts.saveRecipe); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{
		Input:   input,
		Sheet:   opts.sheet,
		Output:  opts.output,
		Code:    opts.code,
		Lang:    opts.lang,
		Steps:   steps,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	}

	var spinner *Spinner
	if !opts.quiet {
		spinner = newSpinner(ctx, fmt.Sprintf("Cleaning %s...", filepath.Base(input)))
		spinner.Start()
	}
	prog := newProgress(loggerFromContext(ctx))

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Cleaning failed")
		}
		return err
	}
	if spinner != nil {
		spinner.Stop()
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Cleaned %s", filepath.Base(input)))

	p := result.Pipeline
	if opts.saveRecipe != "" {
		rec := recipe.FromHistory(p.History())
		rec.Source = filepath.Base(input)
		if err := recipe.Save(opts.saveRecipe, rec); err != nil {
			return err
		}
	}

	if opts.quiet {
		return nil
	}

	printSuccess("Applied %d operations", result.Stats.Operations)
	for _, r := range p.History() {
		printDetail("%s", r.String())
	}
	printStats(result.Stats, result.CacheHit)

	if opts.info {
		printNewline()
		printKeyValue("Input", input)
		printKeyValue("Load", result.Stats.LoadTime.Round(time.Millisecond).String())
		printKeyValue("Clean", result.Stats.CleanTime.Round(time.Millisecond).String())
		printNewline()
		printInfo("Before")
		fmt.Fprintln(c.out, renderSummary(p.Original()))
		printInfo("After")
		fmt.Fprintln(c.out, renderSummary(p.Current()))
	}

	for _, path := range []string{opts.output, opts.code, opts.saveRecipe} {
		if path != "" {
			printFile(path)
		}
	}
	if opts.output == "" && opts.code == "" {
		printNewline()
		fmt.Fprintln(c.out, renderPreview(p.Current(), previewRows))
		printNewline()
		printNextStep("Save the result", fmt.Sprintf("%s clean %s ... -o cleaned%s", appName, input, filepath.Ext(input)))
	}
	return nil
}

// recipeSteps loads and validates a recipe and returns its steps and the
// file it was recorded on. An empty path yields no steps.
func (c *CLI) recipeSteps(path string) ([]pipeline.Step, string, error) {
	if path == "" {
		return nil, "", nil
	}
	rec, err := recipe.Load(path)
	if err != nil {
		return nil, "", err
	}
	if err := rec.Validate(c.Registry); err != nil {
		return nil, "", err
	}
	c.Logger.Debug("recipe loaded", "path", path, "steps", len(rec.Steps))

	steps := make([]pipeline.Step, len(rec.Steps))
	for i, s := range rec.Steps {
		steps[i] = pipeline.Step{Operation: s.Operation, Args: s.Args()}
	}
	return steps, rec.Source, nil
}

// =============================================================================
// Operation Flags
// =============================================================================

// paramFlag binds one operation parameter to a command-line flag.
type paramFlag struct {
	param   ops.Param
	name    string // flag name
	negated bool   // --no-<param> for bool parameters that default to true
}

// operationFlags derives command-line flags from an operation registry:
// one bool flag per operation, one flag per distinct parameter name, and a
// repeatable "a=b" flag for operations whose parameters are all required.
type operationFlags struct {
	ops    []ops.Descriptor
	params map[string]paramFlag
}

func newOperationFlags(reg *ops.Registry) *operationFlags {
	return &operationFlags{ops: reg.Describe(), params: map[string]paramFlag{}}
}

// requiresValues reports whether d can only be invoked with explicit values.
func requiresValues(d ops.Descriptor) bool {
	return slices.ContainsFunc(d.Params, func(p ops.Param) bool { return p.Required })
}

// register adds the derived flags to fs.
func (f *operationFlags) register(fs *pflag.FlagSet) {
	users := map[string][]string{}
	for _, d := range f.ops {
		if requiresValues(d) {
			names := make([]string, len(d.Params))
			for i, p := range d.Params {
				names[i] = p.Name
			}
			fs.StringArray(d.Flag, nil, fmt.Sprintf("%s (value: %s, repeatable)", d.Summary, strings.Join(names, "=")))
			continue
		}
		fs.Bool(d.Flag, false, d.Summary)
		for _, p := range d.Params {
			users[p.Name] = append(users[p.Name], d.Name)
		}
	}

	for _, d := range f.ops {
		if requiresValues(d) {
			continue
		}
		for _, p := range d.Params {
			if _, seen := f.params[p.Name]; seen {
				continue
			}
			pf := paramFlag{param: p, name: p.Flag()}
			help := fmt.Sprintf("%s (%s)", p.Help, strings.Join(users[p.Name], ", "))
			if p.Kind == ops.KindBool {
				if def, _ := p.Default.(bool); def {
					pf.name = "no-" + pf.name
					pf.negated = true
					help = "do not " + help
				}
			}
			if fs.Lookup(pf.name) != nil {
				continue
			}

			switch p.Kind {
			case ops.KindBool:
				fs.Bool(pf.name, false, help)
			case ops.KindInt:
				def, _ := p.Default.(int)
				fs.Int(pf.name, def, help)
			case ops.KindFloat:
				def, _ := p.Default.(float64)
				fs.Float64(pf.name, def, help)
			case ops.KindString:
				def, _ := p.Default.(string)
				fs.String(pf.name, def, help)
			}
			f.params[p.Name] = pf
		}
	}
}

// steps returns the selected operations in catalog order. Parameter values
// come from changed flags first, then from defaults.
func (f *operationFlags) steps(fs *pflag.FlagSet, defaults map[string]any) ([]pipeline.Step, error) {
	var steps []pipeline.Step
	for _, d := range f.ops {
		if requiresValues(d) {
			values, err := fs.GetStringArray(d.Flag)
			if err != nil {
				return nil, err
			}
			for _, v := range values {
				parts := strings.SplitN(v, "=", len(d.Params))
				if len(parts) != len(d.Params) {
					return nil, errors.New(errors.ErrCodeInvalidArgument,
						"--%s expects %d values separated by '=', got %q", d.Flag, len(d.Params), v)
				}
				args := make([]any, len(parts))
				for i, part := range parts {
					args[i] = part
				}
				steps = append(steps, pipeline.Step{Operation: d.Name, Args: history.Args{Positional: args}})
			}
			continue
		}

		selected, err := fs.GetBool(d.Flag)
		if err != nil {
			return nil, err
		}
		if !selected {
			continue
		}

		kwargs := map[string]any{}
		for _, p := range d.Params {
			v, ok, err := f.value(fs, p.Name)
			if err != nil {
				return nil, err
			}
			if ok {
				kwargs[p.Name] = v
			} else if dv, ok := defaults[p.Name]; ok {
				kwargs[p.Name] = dv
			}
		}
		steps = append(steps, pipeline.Step{Operation: d.Name, Args: history.Kw(kwargs)})
	}
	return steps, nil
}

// value returns the flag value for a parameter if the user set it.
func (f *operationFlags) value(fs *pflag.FlagSet, param string) (any, bool, error) {
	pf, ok := f.params[param]
	if !ok || !fs.Changed(pf.name) {
		return nil, false, nil
	}

	switch pf.param.Kind {
	case ops.KindBool:
		v, err := fs.GetBool(pf.name)
		if pf.negated {
			v = !v
		}
		return v, err == nil, err
	case ops.KindInt:
		v, err := fs.GetInt(pf.name)
		return v, err == nil, err
	case ops.KindFloat:
		v, err := fs.GetFloat64(pf.name)
		return v, err == nil, err
	default:
		v, err := fs.GetString(pf.name)
		return v, err == nil, err
	}
}
