package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roompanel",
	Short: "Meeting room touch panel controller",
	Long: `roompanel drives the touch panels of meeting rooms: power, source routing,
video calls and the day's schedule. Panels connect over websockets; calendars
push schedules through the API or a signed webhook.`,
}

func main() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
