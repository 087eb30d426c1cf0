package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/pipeline"
	"github.com/teranos/blockgen/version"
)

func newCheckCmd() *cobra.Command {
	var output string
	var banner bool

	cmd := &cobra.Command{
		Use:   "check <input>...",
		Short: "Check that generated programs are up to date",
		Long: `Regenerate every input in memory and compare it with the file in the
output directory. Exits non-zero when any program is stale or missing.

Useful in CI to catch block documents whose generated Python was not
committed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.Generate.OutputDir = output
			}
			if cfg.Generate.OutputDir == "" {
				return errors.WithHint(
					errors.NewInvalidRequestError("check needs an output directory"),
					"pass -o <dir> or set generate.output_dir")
			}

			p := pipeline.New(newGenerator(cfg, banner), cfg.Generate.Workers)
			inputs, err := p.Resolve(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer pipeline.Cleanup(inputs)

			outputs, err := p.Run(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			if err := reportFailures(cmd.ErrOrStderr(), pipeline.Failed(outputs), len(outputs)); err != nil {
				return err
			}

			result, err := pipeline.Check(cfg.Generate.OutputDir, p.Generator().FileExtension(), outputs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.UpToDate {
				fmt.Fprintln(out, "✓ Programs are up to date")
				return nil
			}

			fmt.Fprintln(out, "✗ Programs are out of date.")
			for _, path := range result.Stale {
				fmt.Fprintf(out, "  stale:   %s\n", path)
			}
			for _, path := range result.Missing {
				fmt.Fprintf(out, "  missing: %s\n", path)
			}
			err = errors.Newf("%d program(s) out of date", len(result.Stale)+len(result.Missing))
			if cfg.Generate.Header == "" {
				// A configured header replaces the banner either way
				if hint := bannerHint(result.Stale, banner); hint != "" {
					err = errors.WithHint(err, hint)
				}
			}
			return errors.WithHint(err, "run 'blockgen generate' with the same inputs to update them")
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Directory holding the generated programs (default from generate.output_dir)")
	cmd.Flags().BoolVar(&banner, "banner", false, "Expect the do-not-edit banner generate --banner adds")

	return cmd
}

// bannerHint explains stale programs whose banner disagrees with --banner
func bannerHint(stale []string, banner bool) string {
	for _, path := range stale {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		switch has := version.HasBanner(content); {
		case has && !banner:
			return fmt.Sprintf("%s was generated with --banner; pass --banner to check", path)
		case !has && banner:
			return fmt.Sprintf("%s was generated without --banner; drop --banner from check", path)
		}
	}
	return ""
}
