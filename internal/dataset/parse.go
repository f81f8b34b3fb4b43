package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mikey/nb-spam-filter/internal/core"
)

// ErrNoRecords is returned when a dataset holds no usable row.
var ErrNoRecords = errors.New("dataset: no records with a valid label")

var (
	labelColumns = []string{"label", "category", "v1"}
	textColumns  = []string{"text", "message", "v2"}
)

// Parsed is the outcome of Parse.
type Parsed struct {
	Records []core.Record
	// Dropped counts rows with an invalid label or too few columns.
	Dropped int
	// Header is set when the first row named the columns.
	Header bool
}

// Parse reads labeled rows from CSV. A header naming the label and text
// columns selects them; otherwise the first two columns are used and the
// first row is data. Labels are trimmed and lowercased, and rows whose label
// is not ham or spam are dropped.
func Parse(r io.Reader) (*Parsed, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	out := &Parsed{}
	labelCol, textCol := 0, 1
	first := true

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		if first {
			first = false
			if l, t, ok := headerColumns(row); ok {
				labelCol, textCol = l, t
				out.Header = true
				continue
			}
		}

		if labelCol >= len(row) || textCol >= len(row) {
			out.Dropped++
			continue
		}
		label, ok := core.ParseLabel(row[labelCol])
		if !ok {
			out.Dropped++
			continue
		}
		out.Records = append(out.Records, core.Record{Text: row[textCol], Label: label})
	}

	if len(out.Records) == 0 {
		return out, ErrNoRecords
	}
	return out, nil
}

// headerColumns finds the label and text columns of a header row.
func headerColumns(row []string) (label, text int, ok bool) {
	label, text = -1, -1
	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		switch {
		case label < 0 && slices.Contains(labelColumns, name):
			label = i
		case text < 0 && slices.Contains(textColumns, name):
			text = i
		}
	}
	return label, text, label >= 0 && text >= 0
}
