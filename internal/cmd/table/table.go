// Package table converts catalog artifacts into rows for CLI table output.
package table

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agentstation/sizer/pkg/catalogs"
)

var printer = message.NewPrinter(language.English)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// RecordsToTableData converts catalog records to table format.
// wide adds the context length and a dense/MoE label.
func RecordsToTableData(records []catalogs.Record, wide bool) Data {
	headers := []string{"Model", "Params (B)", "Layers", "Hidden", "MoE Ratio"}
	align := []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight}
	if wide {
		headers = append(headers, "Context", "Kind")
		align = append(align, AlignRight, AlignLeft)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{
			r.ID,
			strconv.FormatFloat(r.ParamsB, 'f', -1, 64),
			FormatCount(r.Layers),
			FormatCount(r.Hidden),
			strconv.FormatFloat(r.MoEActiveRatio, 'f', 2, 64),
		}
		if wide {
			row = append(row, FormatContext(r.CtxLen), Kind(r))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// CandidatesToTableData converts staged candidates to table format.
func CandidatesToTableData(candidates []catalogs.Candidate, wide bool) Data {
	headers := []string{"Model", "Provider", "Popularity", "Source"}
	align := []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft}
	if wide {
		headers = append(headers, "License", "Tags")
		align = append(align, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		row := []string{
			c.ID,
			c.Provider,
			FormatPopularity(c.PopularityScore),
			c.Source.String(),
		}
		if wide {
			license := "-"
			if c.License != nil {
				license = *c.License
			}
			tags := strings.Join(c.Tags, ", ")
			if len(tags) > 60 {
				tags = tags[:57] + "..."
			}
			if tags == "" {
				tags = "-"
			}
			row = append(row, license, tags)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// FormatCount renders a structural count, using "-" for unknown (zero).
func FormatCount(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

// FormatPopularity renders a popularity score with digit grouping.
// Whole scores such as download counts print as "1,234,567".
func FormatPopularity(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return printer.Sprintf("%d", int64(v))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatContext renders a context length: "128k" for decimal sizes, "32K" for
// binary ones, the raw count otherwise. Decimal wins when both divide.
func FormatContext(ctxLen *int) string {
	if ctxLen == nil || *ctxLen == 0 {
		return "-"
	}
	n := *ctxLen
	switch {
	case n%1000 == 0:
		return strconv.Itoa(n/1000) + "k"
	case n%1024 == 0:
		return strconv.Itoa(n/1024) + "K"
	default:
		return strconv.Itoa(n)
	}
}

// Kind labels a record as dense or mixture-of-experts.
func Kind(r catalogs.Record) string {
	if r.MoEActiveRatio > 0 && r.MoEActiveRatio < 1 {
		return "moe"
	}
	return "dense"
}
