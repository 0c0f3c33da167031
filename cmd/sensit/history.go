package sensit

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sensit/sensit/internal/audit"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past scan summaries",
		RunE:  runHistory,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "show at most this many scans")
}

func runHistory(_ *cobra.Command, _ []string) error {
	records, err := audit.New().History()
	if err != nil {
		fmt.Println("No scan history yet.")
		return nil
	}
	if len(records) > flagHistoryLimit {
		records = records[:flagHistoryLimit]
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("When", "Target", "Secrets", "Live", "Files", "Duration")
	for _, rec := range records {
		_ = table.Append([]string{
			rec.Timestamp.Format(time.DateTime),
			rec.Target,
			fmt.Sprintf("%d", rec.TotalSecrets),
			fmt.Sprintf("%d", rec.LiveConfirmed),
			fmt.Sprintf("%d", rec.FilesScanned),
			rec.Duration,
		})
	}
	return table.Render()
}
