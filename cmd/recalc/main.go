/*
main.go - Operations CLI for the licence date engine

PURPOSE:
  Small operator tool for the jobs that otherwise need curl or a
  sqlite shell:

    recalc sweep      Trigger the caseload recalculation on a running
                      server and report the summary
    recalc caseload   List live licences straight from the database
    recalc holidays   Show the bank holidays the engine would use

USAGE:
  recalc sweep --server http://localhost:8080
  recalc caseload --db ./licences.db
  recalc holidays

SEE ALSO:
  - api/handlers.go: The recalculate endpoint sweep talks to
  - store/sqlite/sqlite.go: The database caseload reads
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/warp/licence-engine/bankholidays"
	"github.com/warp/licence-engine/engine"
	"github.com/warp/licence-engine/store/sqlite"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "recalc",
		Short: "Operator tool for the licence date engine",
	}

	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(caseloadCmd())
	rootCmd.AddCommand(holidaysCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func sweepCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the caseload recalculation on a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 5 * time.Minute}
			resp, err := client.Post(server+"/api/admin/recalculate", "application/json", nil)
			if err != nil {
				return fmt.Errorf("calling %s: %w", server, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned %s", resp.Status)
			}

			var summary struct {
				Processed   int `json:"processed"`
				Material    int `json:"material"`
				Deactivated int `json:"deactivated"`
				Failed      int `json:"failed"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
				return fmt.Errorf("decoding summary: %w", err)
			}

			fmt.Printf("Sweep complete: %d processed\n", summary.Processed)
			if summary.Material > 0 {
				color.New(color.FgYellow).Printf("  %d with material date changes\n", summary.Material)
			}
			if summary.Deactivated > 0 {
				color.New(color.FgHiBlack).Printf("  %d deactivated\n", summary.Deactivated)
			}
			if summary.Failed > 0 {
				color.New(color.FgRed).Printf("  %d failed (see server log)\n", summary.Failed)
			} else {
				color.New(color.FgHiGreen).Println("  no failures")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "base URL of the running server")
	return cmd
}

func caseloadCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "caseload",
		Short: "List live licences straight from the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.New(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			licences, err := store.ListLive(context.Background())
			if err != nil {
				return err
			}
			if len(licences) == 0 {
				fmt.Println("No live licences")
				return nil
			}

			for _, lic := range licences {
				start := "unscheduled"
				if lic.LicenceStartDate != nil {
					start = lic.LicenceStartDate.String()
				}
				fmt.Printf("%s  %-10s %-24s starts %s %s\n",
					lic.ID, lic.NomsID,
					fmt.Sprintf("%s, %s", lic.Surname, lic.Forename),
					start, statusMarker(lic.Status))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "licences.db", "SQLite database path")
	return cmd
}

func statusMarker(status engine.LicenceStatus) string {
	switch status {
	case engine.StatusActive:
		return color.New(color.FgHiGreen).Sprintf("[%s]", status)
	case engine.StatusApproved:
		return color.New(color.FgHiBlue).Sprintf("[%s]", status)
	case engine.StatusSubmitted:
		return color.New(color.FgHiCyan).Sprintf("[%s]", status)
	case engine.StatusInProgress:
		return color.New(color.FgYellow).Sprintf("[%s]", status)
	default:
		return color.New(color.FgHiBlack).Sprintf("[%s]", status)
	}
}

func holidaysCmd() *cobra.Command {
	var division string

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Show the bank holidays the engine would use",
		RunE: func(cmd *cobra.Command, args []string) error {
			source := bankholidays.NewGovUKSource()
			if division != "" {
				source.Division = division
			}

			dates, err := source.BankHolidays(context.Background())
			if err != nil {
				return err
			}

			today := engine.SystemClock{}.Today()
			for _, d := range dates {
				if d.Before(today) {
					continue
				}
				line := fmt.Sprintf("%s  %s", d, d.Format("Monday"))
				if d.AddDays(-30).Before(today) {
					color.New(color.FgYellow).Println(line)
				} else {
					fmt.Println(line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&division, "division", "", "gov.uk division (default england-and-wales)")
	return cmd
}
