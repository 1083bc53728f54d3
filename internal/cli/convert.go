package cli

import (
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/archweave/archweave/pkg/errors"
	"github.com/archweave/archweave/pkg/formats"
	"github.com/archweave/archweave/pkg/formats/archi"
	"github.com/archweave/archweave/pkg/formats/exchange"
)

// writers holds one instance per supported output dialect.
var writers = map[formats.Format]formats.Writer{
	formats.FormatExchange: exchange.NewWriter(),
	formats.FormatArchi:    archi.NewWriter(),
}

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	loadOpts
	to     string // output dialect
	output string // output file path (stdout if empty)
}

// newConvertCmd creates the convert command. It reads a model in any
// supported dialect and writes Open Group exchange XML (the canonical
// interchange representation) or an Archi project file.
func newConvertCmd() *cobra.Command {
	opts := convertOpts{to: string(formats.FormatExchange)}

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a model between dialects",
		Long: `Convert a model file between dialects.

The input dialect is auto-detected from the document root; use --from to
force a dialect. ARIS imports accept --typemap, --scale-x and --scale-y.
The output dialect defaults to Open Group exchange XML; --to archi writes
an Archi project file instead.

Examples:
  archweave convert model.archimate -o model.xml     # Archi to exchange XML
  archweave convert export.xml --from aris           # ARIS AML export
  archweave convert model.xml --to archi -o out.archimate
  archweave convert model.xml                        # normalize to stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runConvert(c, args[0], opts)
		},
	}

	addLoadFlags(cmd, &opts.loadOpts)
	cmd.Flags().StringVar(&opts.to, "to", opts.to, "output format: exchange, archi")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runConvert loads the input model and serializes it in the target dialect.
func runConvert(c *cobra.Command, input string, opts convertOpts) error {
	ctx := c.Context()
	logger := loggerFromContext(ctx)

	writer, ok := writers[formats.Format(opts.to)]
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unsupported output format %q (expected exchange or archi)", opts.to)
	}

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Reading %s...", input))
	spin.Start()

	prog := newProgress(logger)
	m, report, err := load(ctx, input, opts.loadOpts)
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Failed to read %s", input))
		return err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Read %d elements and %d relationships", len(m.Elements()), len(m.Relationships())))

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := writer.Write(out, m, formats.Options{Logger: logger}); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Converted %s", input)
		printFile(opts.output)
		printStats(len(m.Elements()), len(m.Relationships()), len(m.Views()), report.SkippedCount(""))
		reportSkipped(report)
	} else {
		// Payload goes to stdout; keep diagnostics on stderr.
		logSkipped(logger, report)
	}
	return nil
}

// reportSkipped surfaces skipped input records as styled warnings.
func reportSkipped(report *formats.ImportReport) {
	if report == nil || len(report.Skipped) == 0 {
		return
	}
	printWarning("%d records skipped during import", len(report.Skipped))
	for _, s := range report.Skipped {
		printDetail("%s %s: %s", s.Kind, s.ForeignID, s.Reason)
	}
}

// logSkipped surfaces skipped input records through the logger.
func logSkipped(logger *charmlog.Logger, report *formats.ImportReport) {
	if report == nil {
		return
	}
	for _, s := range report.Skipped {
		logger.Warn("skipped record", "kind", s.Kind, "id", s.ForeignID, "reason", s.Reason)
	}
}
