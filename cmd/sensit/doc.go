// Package sensit provides the command-line interface for the Sensit
// scanner. It configures subcommands (scan, history), parses flags, and
// executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/sensit/sensit/cmd/sensit"
//	func main() { sensit.Execute() }
package sensit
