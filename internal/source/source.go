// Package source acquires scannable text from files, directory trees and
// web pages, emitting one content unit per location.
package source

import "context"

// EmitFunc receives one unit of acquired content. location is the file path
// or URL the content came from.
type EmitFunc func(location, content string)

// Source produces content units for a target.
type Source interface {
	// Acquire streams the target's content units to emit. Acquisition stops
	// early when ctx is cancelled; units already emitted stand.
	Acquire(ctx context.Context, target string, emit EmitFunc) error
}
