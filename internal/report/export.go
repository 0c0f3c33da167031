package report

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"time"

	"github.com/sensit/sensit/internal/types"
)

// exportValueLimit is how much of a secret value the JSON export keeps.
const exportValueLimit = 20

type exportDoc struct {
	Target            string         `json:"target"`
	TotalFilesScanned int            `json:"total_files_scanned"`
	TotalSecretsFound int            `json:"total_secrets_found"`
	ScanDuration      float64        `json:"scan_duration"`
	ScanTimestamp     string         `json:"scan_timestamp"`
	Secrets           []exportSecret `json:"secrets"`
}

type exportSecret struct {
	Type         string            `json:"type"`
	Value        string            `json:"value"`
	Location     string            `json:"location"`
	LineNumber   int               `json:"line_number"`
	Context      string            `json:"context"`
	Entropy      float64           `json:"entropy"`
	AIConfidence float64           `json:"ai_confidence"`
	AIReasoning  string            `json:"ai_reasoning"`
	APIValid     *bool             `json:"api_valid"`
	APIDetails   map[string]string `json:"api_details"`
	Severity     string            `json:"severity"`
	Status       string            `json:"status"`
	DiscoveredAt string            `json:"discovered_at"`
}

// WriteJSON exports the scan result. Secret values are truncated so an
// export file is never itself a usable credential dump.
func WriteJSON(w io.Writer, res *types.ScanResult) error {
	doc := exportDoc{
		Target:            res.Target,
		TotalFilesScanned: res.FilesScanned,
		TotalSecretsFound: len(res.Secrets),
		ScanDuration:      round2(res.Duration.Seconds()),
		ScanTimestamp:     res.StartedAt.Format(time.RFC3339),
		Secrets:           []exportSecret{},
	}
	for _, s := range res.Secrets {
		doc.Secrets = append(doc.Secrets, exportSecret{
			Type:         s.RuleType,
			Value:        truncateValue(s.Value),
			Location:     s.Location,
			LineNumber:   s.LineNumber,
			Context:      s.Context,
			Entropy:      round2(s.Entropy),
			AIConfidence: round2(s.AIConfidence),
			AIReasoning:  s.AIReasoning,
			APIValid:     s.LiveValid,
			APIDetails:   s.LiveDetails,
			Severity:     string(s.Severity),
			Status:       string(s.Status),
			DiscoveredAt: s.DiscoveredAt.Format(time.RFC3339),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ExportJSON writes the result to a file with owner-only permissions.
func ExportJSON(path string, res *types.ScanResult) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, res)
}

func truncateValue(v string) string {
	if len(v) <= exportValueLimit {
		return v
	}
	return v[:exportValueLimit] + "..."
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
