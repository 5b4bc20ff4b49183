package output

import (
	"io"

	"github.com/agentstation/sizer/internal/cmd/table"
	"github.com/agentstation/sizer/pkg/catalogs"
)

// FormatRecords writes catalog records in the given format.
func FormatRecords(w io.Writer, records []catalogs.Record, format Format) error {
	return write(w, records, format, table.RecordsToTableData)
}

// FormatCandidates writes staged candidates in the given format.
func FormatCandidates(w io.Writer, candidates []catalogs.Candidate, format Format) error {
	return write(w, candidates, format, table.CandidatesToTableData)
}
