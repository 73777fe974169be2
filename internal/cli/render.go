package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/workcard/pkg/errors"
	"github.com/matzehuels/workcard/pkg/io"
	"github.com/matzehuels/workcard/pkg/observability"
	"github.com/matzehuels/workcard/pkg/pipeline"
	"github.com/matzehuels/workcard/pkg/store"
)

// renderOpts holds the command-line flags for the render command. Flags that
// are set override the config file.
type renderOpts struct {
	variant     string // theme variant for every record; empty picks by category
	outputDir   string // directory cards are written to
	font        string // TrueType font file
	concurrency int    // renders in flight
	noCache     bool   // bypass the asset cache
	manifest    string // JSON-lines manifest of rendered cards
	cta         bool   // draw a QR code of the detail link
	noSharpen   bool
	noVignette  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [records.json|records.yaml]",
		Short: "Render work records to PNG cards",
		Long: `Render every record in a JSON or YAML file to a PNG card.

Cards are written to {output}/{id}_{YYYYMMDD_HHMMSS}.png. A record that
cannot be rendered is reported and does not stop the others; unreachable
cover or avatar images are replaced by placeholders.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRecordFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			applyRenderFlags(cmd, &cfg, opts)
			return c.runRender(cmd.Context(), args[0], cfg, opts)
		},
	}

	d := pipeline.DefaultConfig()
	cmd.Flags().StringVarP(&opts.variant, "variant", "t", "", "theme variant for all records (see 'workcard themes')")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", d.OutputDir, "output directory")
	cmd.Flags().StringVar(&opts.font, "font", "", "TrueType font file (CJK-capable for Chinese titles)")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", d.Concurrency, "renders in flight")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the asset cache")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "write a JSON-lines manifest of rendered cards")
	cmd.Flags().BoolVar(&opts.cta, "cta", false, "add a QR code of the detail link")
	cmd.Flags().BoolVar(&opts.noSharpen, "no-sharpen", false, "skip cover sharpening")
	cmd.Flags().BoolVar(&opts.noVignette, "no-vignette", false, "skip the cover vignette")

	cmd.RegisterFlagCompletionFunc("variant", completeVariants)
	cmd.RegisterFlagCompletionFunc("font", completeFontFiles)

	return cmd
}

// applyRenderFlags copies explicitly set flags over cfg.
func applyRenderFlags(cmd *cobra.Command, cfg *fileConfig, opts renderOpts) {
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.Render.OutputDir = opts.outputDir
	}
	if f.Changed("font") {
		cfg.Render.FontPath = opts.font
	}
	if f.Changed("concurrency") {
		cfg.Render.Concurrency = opts.concurrency
	}
	if f.Changed("cta") {
		cfg.Render.CallToAction = opts.cta
	}
	if f.Changed("no-sharpen") {
		cfg.Render.NoSharpen = opts.noSharpen
	}
	if f.Changed("no-vignette") {
		cfg.Render.NoVignette = opts.noVignette
	}
}

func (c *CLI) runRender(ctx context.Context, path string, cfg fileConfig, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	recs, err := io.ImportRecords(path)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		printWarning("No records in %s", path)
		return nil
	}

	r, d, err := c.newRenderer(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer d.close(ctx)

	spinner := newSpinnerWithContext(ctx, "")
	prog := newBatchProgress(logger, spinner, len(recs))
	observability.SetRenderHooks(prog)
	defer observability.SetRenderHooks(observability.NoopRenderHooks{})

	spinner.Start()
	outcomes := r.RenderBatch(ctx, recs, opts.variant)
	spinner.Stop()

	var (
		entries            []store.Entry
		degraded, failures int
	)
	for _, o := range outcomes {
		if o.Err != nil {
			failures++
			printError("record %d: %s", o.RecordID, describe(o.Err))
			continue
		}
		entries = append(entries, o.Card.Entry(""))
		if len(o.Card.Degraded) > 0 {
			degraded++
			printWarning("record %d: placeholder for %s", o.RecordID, strings.Join(o.Card.Degraded, ", "))
		}
		printFile(o.Card.Path)
	}
	prog.finish()
	printStats(len(entries), degraded, failures)

	if opts.manifest != "" && len(entries) > 0 {
		if err := io.ExportManifest(entries, opts.manifest); err != nil {
			return err
		}
		printDetail("Manifest: %s", opts.manifest)
	}
	if len(entries) > 0 {
		printNextStep("Serve them over HTTP", appName+" serve")
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d records failed", failures, len(recs))
	}
	return nil
}

// describe formats err with its field problems for terminal output.
func describe(err error) string {
	msg := errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		msg = StyleDim.Render(string(code)) + " " + msg
	}
	if errors.Is(err, errors.ErrCodeMalformedRecord) {
		if cause := unwrapOnce(err); cause != nil {
			msg += ": " + cause.Error()
		}
	}
	return msg
}

func unwrapOnce(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return nil
}
