package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/archweave/archweave/pkg/doctree"
	"github.com/archweave/archweave/pkg/errors"
	"github.com/archweave/archweave/pkg/formats"
	"github.com/archweave/archweave/pkg/formats/archi"
	"github.com/archweave/archweave/pkg/formats/aris"
	"github.com/archweave/archweave/pkg/formats/exchange"
	"github.com/archweave/archweave/pkg/model"
)

// readers holds one instance per supported input dialect.
var readers = map[formats.Format]formats.Reader{
	formats.FormatExchange: exchange.NewReader(),
	formats.FormatArchi:    archi.NewReader(),
	formats.FormatARIS:     aris.NewReader(),
}

// loadOpts holds the shared input flags of all commands that read a model.
type loadOpts struct {
	from    string  // input dialect, empty for auto-detection
	typemap string  // ARIS type map override file
	scaleX  float64 // ARIS geometry scale
	scaleY  float64
}

// load reads, detects and parses a model document.
func load(ctx context.Context, path string, opts loadOpts) (*model.Model, *formats.ImportReport, error) {
	logger := loggerFromContext(ctx)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "input %s", path)
	}
	defer f.Close()

	root, err := doctree.Parse(f)
	if err != nil {
		return nil, nil, err
	}

	format := formats.Format(opts.from)
	if format == formats.FormatUnknown {
		format = formats.DetectFormat(root)
		logger.Debug("detected input format", "format", format, "file", path)
	}
	reader, ok := readers[format]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported input format %q (expected exchange, archi or aris)", string(format))
	}

	return reader.Read(root, formats.Options{
		Logger:      logger,
		ScaleX:      opts.scaleX,
		ScaleY:      opts.scaleY,
		TypeMapPath: opts.typemap,
	})
}

// addLoadFlags wires the shared input flags into a command.
func addLoadFlags(cmd *cobra.Command, opts *loadOpts) {
	cmd.Flags().StringVar(&opts.from, "from", "", "input format: exchange, archi, aris (auto-detected if empty)")
	cmd.Flags().StringVar(&opts.typemap, "typemap", "", "TOML file overriding the ARIS symbol mapping")
	cmd.Flags().Float64Var(&opts.scaleX, "scale-x", 0, "horizontal geometry scale for ARIS imports")
	cmd.Flags().Float64Var(&opts.scaleY, "scale-y", 0, "vertical geometry scale for ARIS imports")
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
