package core

import (
	"io"

	"github.com/sensit/sensit/internal/report"
)

// MarshalResult writes the export-schema JSON for a result, with secret
// values truncated the same way the CLI truncates them.
func MarshalResult(w io.Writer, res *ScanResult) error {
	return report.WriteJSON(w, res)
}
