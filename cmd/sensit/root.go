package sensit

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagQuiet   bool
	flagNoColor bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the Sensit CLI.
var rootCmd = &cobra.Command{
	Use:           "sensit",
	Short:         "Find and validate hard-coded credentials",
	Long:          "Sensit scans files, directory trees and web pages for hard-coded credentials, scores each candidate with an LLM, and verifies the dangerous ones against their real service APIs.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// osExit is swapped out in tests.
var osExit = os.Exit

// Execute runs the Sensit CLI. It should be called by the main package.
// Failures exit 1; exit 2 is reserved for scans that confirm a working
// credential.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		osExit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress all logging except errors")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
}

// newLogger builds the logger injected into every component. Logs go to
// stderr so stdout stays clean for reports and exports.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if flagQuiet {
		log.SetLevel(logrus.ErrorLevel)
	}
	log.SetFormatter(&logrus.TextFormatter{DisableColors: flagNoColor})
	return log
}
