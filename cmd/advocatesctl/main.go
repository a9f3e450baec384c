package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "advocatesctl",
		Short: "Operate the advocates directory",
		Long: `advocatesctl bootstraps the advocates schema, seeds synthetic
advocates and searches a running directory API from the terminal.`,
		SilenceUsage: true,
	}

	defaultURL := os.Getenv("ADVOCATES_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080/api/v1"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "Directory API base URL including the prefix")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	rootCmd.AddCommand(newMigrateCmd(), newSeedCmd(), newSearchCmd(), newWalkCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
