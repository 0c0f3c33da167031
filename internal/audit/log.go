// Package audit keeps a local JSONL history of scans. Secret values are
// redacted before they touch disk; the log records what was found, never
// the credentials themselves.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sensit/sensit/internal/types"
)

// ScanRecord is one line of the audit log.
type ScanRecord struct {
	Timestamp      time.Time       `json:"timestamp"`
	ScanID         string          `json:"scan_id"`
	Target         string          `json:"target"`
	TotalSecrets   int             `json:"total_secrets"`
	LiveConfirmed  int             `json:"live_confirmed"`
	SeverityCounts map[string]int  `json:"severity_counts"`
	StatusCounts   map[string]int  `json:"status_counts"`
	FilesScanned   int             `json:"files_scanned"`
	Duration       string          `json:"duration"`
	TopSecrets     []SecretSummary `json:"top_secrets,omitempty"`
}

// SecretSummary is a redacted view of one finding.
type SecretSummary struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	Line     int    `json:"line"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
}

// Log appends scan records to a JSONL file.
type Log struct {
	path string
}

// New places the audit log in the user config directory, falling back to
// the working directory.
func New() *Log {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		if home, _ := os.UserHomeDir(); home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base != "" {
		dir := filepath.Join(base, "sensit")
		if err := os.MkdirAll(dir, 0o700); err == nil {
			return &Log{path: filepath.Join(dir, "audit.jsonl")}
		}
	}
	return &Log{path: ".sensit_audit.jsonl"}
}

// NewAt uses an explicit log path.
func NewAt(path string) *Log {
	return &Log{path: path}
}

// Record appends one scan record. The file is owner-only.
func (l *Log) Record(rec ScanRecord) error {
	if rec.ScanID == "" {
		rec.ScanID = fmt.Sprintf("scan_%d", time.Now().Unix())
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// History returns all records, newest first. Corrupt lines are skipped.
func (l *Log) History() ([]ScanRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var rec ScanRecord
		if err := dec.Decode(&rec); err != nil {
			break
		}
		records = append(records, rec)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Summarize builds a redacted record from a scan result.
func Summarize(res *types.ScanResult) ScanRecord {
	sevCounts := map[string]int{}
	for sev, n := range res.CountBySeverity() {
		if n > 0 {
			sevCounts[string(sev)] = n
		}
	}
	statusCounts := map[string]int{}
	for st, n := range res.CountByStatus() {
		if n > 0 {
			statusCounts[string(st)] = n
		}
	}

	top := make([]SecretSummary, 0, 10)
	for i, s := range res.Secrets {
		if i >= 10 {
			break
		}
		top = append(top, SecretSummary{
			Type:     s.RuleType,
			Location: s.Location,
			Line:     s.LineNumber,
			Severity: string(s.Severity),
			Status:   string(s.Status),
		})
	}

	return ScanRecord{
		Timestamp:      res.StartedAt,
		Target:         res.Target,
		TotalSecrets:   len(res.Secrets),
		LiveConfirmed:  len(res.LiveConfirmed()),
		SeverityCounts: sevCounts,
		StatusCounts:   statusCounts,
		FilesScanned:   res.FilesScanned,
		Duration:       res.Duration.String(),
		TopSecrets:     top,
	}
}
