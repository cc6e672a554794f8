package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	deletePlayers   []string
	exportUsernames []string
	importFile      string
)

func init() {
	deleteCmd.Flags().StringSliceVar(&deletePlayers, "player", nil, "Player name to delete (repeatable)")
	exportCmd.Flags().StringSliceVar(&exportUsernames, "username", nil, "Account username to export (repeatable)")
	importCmd.Flags().StringVar(&importFile, "file", "", "File of username:password lines to import")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(exportViewCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a refetch of the current dashboard view",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/dashboard?refresh=1")
	},
}

var exportViewCmd = &cobra.Command{
	Use:   "export-view",
	Short: "Download the entire dataset as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/dashboard/export")
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the given players from the stats server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(deletePlayers) == 0 {
			return fmt.Errorf("at least one --player is required")
		}
		form := url.Values{"player": deletePlayers}
		return performPostForm("/players/delete", form)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export-accounts",
	Short: "Export session cookies for the given accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(exportUsernames) == 0 {
			return fmt.Errorf("at least one --username is required")
		}
		form := url.Values{"username": exportUsernames}
		return performPostForm("/accounts/export", form)
	},
}

var importCmd = &cobra.Command{
	Use:   "import-accounts",
	Short: "Import accounts from a file of username:password lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		if importFile == "" {
			return fmt.Errorf("--file is required")
		}
		data, err := os.ReadFile(importFile)
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}
		form := url.Values{"accounts": {string(data)}}
		return performPostForm("/accounts/import", form)
	},
}

func performGetRequest(endpoint string) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	resp, err := http.Get(target)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostForm(endpoint string, form url.Values) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	resp, err := http.Post(target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
