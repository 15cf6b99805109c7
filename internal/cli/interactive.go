package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/databroom/databroom/pkg/codegen"
	"github.com/databroom/databroom/pkg/pipeline"
	"github.com/databroom/databroom/pkg/recipe"
)

// interactiveOpts holds the command-line flags for the interactive command.
type interactiveOpts struct {
	output     string
	code       string
	lang       string
	saveRecipe string
	sheet      string
	noCache    bool
}

// interactiveCommand creates the interactive session command.
func (c *CLI) interactiveCommand() *cobra.Command {
	var opts interactiveOpts

	cmd := &cobra.Command{
		Use:     "interactive <file>",
		Aliases: []string{"i"},
		Short:   "Clean a data file step by step in the terminal",
		Long: `Open an interactive cleaning session.

Pick operations from the catalog and apply them one at a time; every step
can be undone. Press 's' to write the cleaned data, the generated script and
the recipe to the paths given with -o, -c and --save-recipe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("no-cache") {
				opts.noCache = cfg.NoCache
			}
			if _, ok := codegen.LangForPath(opts.code); !ok && !cmd.Flags().Changed("lang") {
				opts.lang = cfg.Lang
			}
			return c.runInteractive(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output-file", "o", "", "file to write the cleaned data to on save")
	cmd.Flags().StringVarP(&opts.code, "output-code", "c", "", "file to write the generated script to on save")
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "script language: python (default), r")
	cmd.Flags().StringVar(&opts.saveRecipe, "save-recipe", "", "file to write the recipe to on save")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "sheet to read from an Excel workbook")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the table cache")

	return cmd
}

// runInteractive loads the input and runs the session until the user quits.
func (c *CLI) runInteractive(ctx context.Context, input string, opts interactiveOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{
		Input:  input,
		Sheet:  opts.sheet,
		Output: opts.output,
		Code:   opts.code,
		Lang:   opts.lang,
		Logger: c.Logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.saveRecipe != "" {
		if _, err := recipe.DetectFormat(opts.saveRecipe); err != nil {
			return err
		}
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Loading %s...", filepath.Base(input)))
	spinner.Start()
	t, hit, err := runner.Load(ctx, input, opts.sheet, false)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Loaded %s (%d rows × %d cols)", filepath.Base(input), t.NumRows(), t.NumCols()))
	c.Logger.Debug("session input loaded", "rows", t.NumRows(), "cols", t.NumCols(), "cached", hit)

	// Progress logs would tear the full-screen view.
	level := c.Logger.GetLevel()
	c.SetLogLevel(log.ErrorLevel)
	defer c.SetLogLevel(level)

	p := pipeline.New(t, runner.Registry, pipeline.WithLogger(c.Logger))
	var save SaveFunc
	if opts.output != "" || opts.code != "" || opts.saveRecipe != "" {
		save = sessionSaver(runner, popts, opts.saveRecipe)
	}

	m := NewSessionModel(fmt.Sprintf("%s · %s", appName, filepath.Base(input)), p, runner.Registry, save)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("interactive session: %w", err)
	}

	sm := final.(SessionModel)
	printSuccess("Session ended with %d operations", sm.Pipeline.OperationCount())
	for _, r := range sm.Pipeline.History() {
		printDetail("%s", r.String())
	}
	return nil
}

// sessionSaver writes the data, code and recipe paths that were configured.
func sessionSaver(runner *pipeline.Runner, opts pipeline.Options, recipePath string) SaveFunc {
	return func(p *pipeline.Pipeline) ([]string, error) {
		if err := runner.Save(p, opts); err != nil {
			return nil, err
		}
		var files []string
		for _, f := range []string{opts.Output, opts.Code} {
			if f != "" {
				files = append(files, f)
			}
		}
		if recipePath != "" {
			rec := recipe.FromHistory(p.History())
			rec.Source = filepath.Base(opts.Input)
			if err := recipe.Save(recipePath, rec); err != nil {
				return nil, err
			}
			files = append(files, recipePath)
		}
		return files, nil
	}
}
