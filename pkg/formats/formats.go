// Package formats defines the contracts shared by the model readers and
// writers: the Format enum, reader/writer interfaces, per-call options and
// the import report that accounts for skipped records.
package formats

import (
	"io"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/archweave/archweave/pkg/doctree"
	"github.com/archweave/archweave/pkg/model"
)

// Format identifies a serialization dialect.
type Format string

// Supported formats.
const (
	FormatExchange Format = "exchange" // Open Group exchange XML
	FormatArchi    Format = "archi"    // Archi tool native XML
	FormatARIS     Format = "aris"     // ARIS AML export XML
	FormatCSV      Format = "csv"      // flat tabular export
	FormatUnknown  Format = ""
)

// Options carries per-call tuning shared by readers and writers.
type Options struct {
	// Logger receives structured progress and skip diagnostics.
	// A nil logger disables diagnostics.
	Logger *charmlog.Logger

	// ScaleX and ScaleY rescale geometry on import. Zero means "use the
	// reader's default"; ARIS coordinates are in a much finer grid than
	// exchange ones and get a dialect default well below 1.0.
	ScaleX float64
	ScaleY float64

	// TypeMapPath points to an optional TOML file overriding the built-in
	// ARIS symbol mapping. Ignored by other formats.
	TypeMapPath string
}

// Log returns the configured logger or a discarding one.
func (o Options) Log() *charmlog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return charmlog.New(io.Discard)
}

// Scale returns the effective scale factors, substituting def for any axis
// left unset. Readers pass their dialect's default factor.
func (o Options) Scale(def float64) (x, y float64) {
	x, y = o.ScaleX, o.ScaleY
	if x == 0 {
		x = def
	}
	if y == 0 {
		y = def
	}
	return x, y
}

// Reader parses a decoded XML document into a model.
type Reader interface {
	Format() Format
	Read(root *doctree.Element, opts Options) (*model.Model, *ImportReport, error)
}

// Writer serializes a model.
type Writer interface {
	Format() Format
	Write(w io.Writer, m *model.Model, opts Options) error
}

// SkippedRecord describes one input record dropped during import.
type SkippedRecord struct {
	Kind      string // "element", "relationship", "node", "connection"
	ForeignID string
	Reason    string
}

// ImportReport accumulates non-fatal accounting for one import: which
// records were skipped and why. A skipped record is not an error; the
// import succeeds with a partial model.
type ImportReport struct {
	Skipped []SkippedRecord
}

// Skip records a dropped input record.
func (r *ImportReport) Skip(kind, foreignID, reason string) {
	r.Skipped = append(r.Skipped, SkippedRecord{Kind: kind, ForeignID: foreignID, Reason: reason})
}

// SkippedCount returns the number of skipped records of the given kind,
// or all of them when kind is empty.
func (r *ImportReport) SkippedCount(kind string) int {
	if kind == "" {
		return len(r.Skipped)
	}
	n := 0
	for _, s := range r.Skipped {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// DetectFormat guesses the dialect of a parsed document from its root.
func DetectFormat(root *doctree.Element) Format {
	switch root.Tag {
	case "AML":
		return FormatARIS
	case "model":
		if strings.Contains(root.Attr("xmlns"), "opengroup.org/xsd/archimate") {
			return FormatExchange
		}
		if root.Attr("xmlns:archimate") != "" || root.Attr("version") != "" {
			return FormatArchi
		}
		return FormatExchange
	}
	return FormatUnknown
}
