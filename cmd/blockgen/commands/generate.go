package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/blockgen/am"
	"github.com/teranos/blockgen/codegen"
	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/logger"
	"github.com/teranos/blockgen/pipeline"
	"github.com/teranos/blockgen/source"
	"github.com/teranos/blockgen/watch"
)

type generateOptions struct {
	output  string
	watch   bool
	banner  bool
	workers int
	python  string
	indent  string
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <input>...",
		Short: "Render block documents to Python",
		Long: `Render each block document to a Python program.

Inputs are local files (.json, .blk, .yaml, .yml) or remote documents
(https://, git::, s3:: and the other go-getter sources). With a single
input and no output directory the program is printed to stdout. With -o
every input is written to <dir>/<name>.py.

--watch keeps running and regenerates an input whenever it is saved.
Remote inputs cannot be watched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.CheckPyproject(); err != nil {
				return err
			}
			return runGenerate(cmd, cfg, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default from generate.output_dir; stdout when empty)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate inputs when they change")
	cmd.Flags().BoolVar(&opts.banner, "banner", false, "Prefix output with a do-not-edit comment when no header is configured")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", 0, "Concurrent generations (default from generate.workers; 0 means one per CPU)")
	cmd.Flags().StringVar(&opts.python, "python", "", "Target Python version (default from generate.python_version)")
	cmd.Flags().StringVar(&opts.indent, "indent", "", "Indentation unit (default from generate.indent)")

	return cmd
}

// apply overlays explicitly set flags on the configuration
func (o *generateOptions) apply(cmd *cobra.Command, cfg *am.Config) error {
	if cmd.Flags().Changed("output") {
		cfg.Generate.OutputDir = o.output
	}
	if cmd.Flags().Changed("workers") {
		cfg.Generate.Workers = o.workers
	}
	if cmd.Flags().Changed("python") {
		cfg.Generate.PythonVersion = o.python
	}
	if cmd.Flags().Changed("indent") {
		cfg.Generate.Indent = o.indent
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid flags")
	}
	return nil
}

func runGenerate(cmd *cobra.Command, cfg *am.Config, opts *generateOptions, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if logger.Enabled(logger.OutputConfig) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Config: %s\n", cfg)
	}

	p := pipeline.New(newGenerator(cfg, opts.banner), cfg.Generate.Workers)
	inputs, err := p.Resolve(ctx, args)
	if err != nil {
		return err
	}
	defer pipeline.Cleanup(inputs)

	if opts.watch {
		for _, in := range inputs {
			if in.Remote {
				return errors.WithHint(
					errors.NewInvalidRequestError("cannot watch remote input %s", in.Original),
					"download the document first, then watch the local copy")
			}
		}
	}

	if cfg.Generate.OutputDir == "" && len(inputs) > 1 && opts.watch {
		return errors.WithHint(
			errors.NewInvalidRequestError("watching %d inputs needs an output directory", len(inputs)),
			"pass -o <dir> or set generate.output_dir")
	}

	err = generateOnce(ctx, cmd, p, cfg.Generate.OutputDir, inputs)
	if !opts.watch {
		return err
	}
	if err != nil {
		// Keep watching so the next save can fix it
		fmt.Fprintln(cmd.ErrOrStderr(), pterm.Red(err.Error()))
	}
	return watchInputs(ctx, cmd, p, cfg, inputs)
}

// generateOnce runs the pipeline over inputs and emits the results
func generateOnce(ctx context.Context, cmd *cobra.Command, p *pipeline.Pipeline, outputDir string, inputs []*source.Input) error {
	if logger.Enabled(logger.OutputProgress) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Generating %d input(s)\n", len(inputs))
	}
	outputs, err := p.Run(ctx, inputs)
	if err != nil {
		return err
	}

	var succeeded []*pipeline.Output
	for _, out := range outputs {
		if out.Err == nil {
			succeeded = append(succeeded, out)
		}
	}

	if outputDir == "" {
		writeStdout(cmd.OutOrStdout(), succeeded, len(inputs) > 1)
	} else if len(succeeded) > 0 {
		written, err := pipeline.Write(outputDir, p.Generator().FileExtension(), succeeded)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Generated %s\n", path)
		}
	}

	return reportFailures(cmd.ErrOrStderr(), pipeline.Failed(outputs), len(outputs))
}

// writeStdout prints programs, separated by name when there are several
func writeStdout(w io.Writer, outputs []*pipeline.Output, named bool) {
	for i, out := range outputs {
		if named {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# --- %s ---\n", out.Input.Name)
		}
		fmt.Fprint(w, out.Result.Source())
	}
}

// reportFailures prints each failed input and summarizes them as one error
func reportFailures(w io.Writer, failed []*pipeline.Output, total int) error {
	if len(failed) == 0 {
		return nil
	}
	for _, out := range failed {
		if logger.JSONOutput {
			// Machine-readable runs keep failures in the log stream
			logger.Errorw("Generation failed",
				logger.FieldSource, out.Input.Original,
				logger.FieldError, out.Err)
			continue
		}
		var ge *codegen.GenerationError
		if errors.As(out.Err, &ge) {
			fmt.Fprintf(w, "%s\n%s\n\n", pterm.Cyan(out.Input.Original), ge.FormatTerminal())
		} else {
			fmt.Fprintf(w, "%s\n%s\n\n", pterm.Cyan(out.Input.Original), pterm.Red(out.Err.Error()))
		}
	}
	if len(failed) == 1 && total == 1 {
		return failed[0].Err
	}
	return errors.Newf("%d of %d inputs failed", len(failed), total)
}

// watchInputs regenerates inputs as they change until ctx is done
func watchInputs(ctx context.Context, cmd *cobra.Command, p *pipeline.Pipeline, cfg *am.Config, inputs []*source.Input) error {
	byPath := make(map[string]*source.Input, len(inputs))
	paths := make([]string, 0, len(inputs))
	for _, in := range inputs {
		path, err := filepath.Abs(in.Path)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %s", in.Path)
		}
		byPath[path] = in
		paths = append(paths, path)
	}

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	w, err := watch.New(paths, debounce)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d input(s), press Ctrl-C to stop\n", len(paths))
	logger.Infow("Watching inputs",
		logger.FieldCount, len(paths),
		logger.FieldDurationMS, cfg.Watch.DebounceMS)

	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		batch := make([]*source.Input, 0, len(changed))
		for _, path := range changed {
			if in, ok := byPath[path]; ok {
				if logger.Enabled(logger.OutputWatchEvents) {
					fmt.Fprintf(cmd.ErrOrStderr(), "↻ %s changed\n", in.Original)
				}
				batch = append(batch, in)
			}
		}
		if len(batch) == 0 {
			return nil
		}
		return generateOnce(ctx, cmd, p, cfg.Generate.OutputDir, batch)
	})
}
