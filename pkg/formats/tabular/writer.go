// Package tabular exports the concept graph as flat CSV, one row per element
// and relationship. Views are visual and have no tabular representation.
package tabular

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/archweave/archweave/pkg/errors"
	"github.com/archweave/archweave/pkg/formats"
	"github.com/archweave/archweave/pkg/model"
)

// Header is the fixed column layout of the export.
var Header = []string{"Id", "Type", "Name", "Source", "SourceName", "Target", "TargetName", "Properties"}

// Writer serializes a model as CSV.
type Writer struct{}

// NewWriter returns a tabular writer.
func NewWriter() *Writer { return &Writer{} }

// Format implements formats.Writer.
func (w *Writer) Format() formats.Format { return formats.FormatCSV }

// Write implements formats.Writer: the header row, element rows, then
// relationship rows, in model insertion order.
func (w *Writer) Write(out io.Writer, m *model.Model, opts formats.Options) error {
	if errs := m.Validate(); len(errs) > 0 {
		return errors.Wrap(errors.ErrCodeIntegrityViolation, errs[0],
			"refusing to serialize inconsistent model (%d violations)", len(errs))
	}
	if err := validateKeys(m); err != nil {
		return err
	}
	cw := csv.NewWriter(out)
	for _, row := range Rows(m) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Rows returns the export rows including the header. Relationship rows carry
// the endpoint names so the export is readable without joining against the
// element rows.
func Rows(m *model.Model) [][]string {
	rows := [][]string{Header}
	for _, e := range m.Elements() {
		rows = append(rows, []string{
			e.ID, string(e.Type), e.Name, "", "", "", "", FormatProperties(&e.Properties),
		})
	}
	for _, r := range m.Relationships() {
		rows = append(rows, []string{
			r.ID, string(r.Type), r.Name,
			r.Source, elementName(m, r.Source),
			r.Target, elementName(m, r.Target),
			FormatProperties(&r.Properties),
		})
	}
	return rows
}

// validateKeys rejects property keys that would collide with the cell
// delimiters. Values are escaped; keys are not.
func validateKeys(m *model.Model) error {
	check := func(id string, props *model.Properties) error {
		for _, e := range props.All() {
			if err := errors.ValidatePropertyKey(e.Key); err != nil {
				return errors.Wrap(errors.GetCode(err), err, "concept %s", id)
			}
		}
		return nil
	}
	for _, e := range m.Elements() {
		if err := check(e.ID, &e.Properties); err != nil {
			return err
		}
	}
	for _, r := range m.Relationships() {
		if err := check(r.ID, &r.Properties); err != nil {
			return err
		}
	}
	return nil
}

func elementName(m *model.Model, id string) string {
	if e, ok := m.Element(id); ok {
		return e.Name
	}
	return ""
}

// FormatProperties flattens a property set into the properties cell:
// key=value pairs joined with '|'. Keys containing the delimiters are
// rejected by Write, so the encoding is unambiguous for keys; values
// have '|' and '\' escaped.
func FormatProperties(props *model.Properties) string {
	entries := props.All()
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		value := strings.ReplaceAll(e.Value, `\`, `\\`)
		value = strings.ReplaceAll(value, "|", `\|`)
		parts = append(parts, e.Key+"="+value)
	}
	return strings.Join(parts, "|")
}

// ParseProperties is the inverse of FormatProperties.
func ParseProperties(cell string) (model.Properties, error) {
	var props model.Properties
	if cell == "" {
		return props, nil
	}
	for _, part := range splitEscaped(cell, '|') {
		key, value, found := strings.Cut(part, "=")
		if !found || key == "" {
			return model.Properties{}, errors.New(errors.ErrCodeMalformedDocument,
				"malformed properties cell segment %q", part)
		}
		value = strings.ReplaceAll(value, `\|`, "|")
		value = strings.ReplaceAll(value, `\\`, `\`)
		props.Add(key, value)
	}
	return props, nil
}

// splitEscaped splits on sep, honoring backslash escapes.
func splitEscaped(s string, sep byte) []string {
	var out []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte('\\')
			cur.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == sep:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if escaped {
		cur.WriteByte('\\')
	}
	out = append(out, cur.String())
	return out
}
