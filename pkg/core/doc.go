// Package core provides a small, stable facade over Sensit's internal
// pipeline for external integrations. It deliberately re-exports a narrow
// API surface so third-party tools can depend on a stable import path
// without reaching into internal packages.
//
// Example:
//
//	res, err := core.ScanDir(ctx, ".", core.Options{})
//	if err != nil { /* handle */ }
//	for _, s := range res.Secrets { /* ... */ }
//
// The facade runs extraction and deduplication only; embedders that want
// AI or live validation should drive the CLI or wire the internal
// validators themselves.
package core
