package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"property-ops/config"
)

func newRunCmd() *cobra.Command {
	var (
		baseURL  string
		user     string
		password string
		only     []string
		timeout  time.Duration
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run acceptance scenarios against a live server",
		RunE: func(cmd *cobra.Command, args []string) error {
			picked, err := selectScenarios(only)
			if err != nil {
				return err
			}
			if user == "" {
				user, _ = config.GetSecret("ADMIN_LOGIN")
			}
			if password == "" {
				if password, err = config.GetSecret("ADMIN_PASSWORD"); err != nil {
					return fmt.Errorf("--password not given: %w", err)
				}
			}

			api := newHTTPAPI(baseURL, timeout)
			token, err := login(api, user, password)
			if err != nil {
				return err
			}
			results := runScenarios(newSession(api, token, time.Now()), picked)
			return report(cmd.OutOrStdout(), results, asJSON)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:3000", "Server base URL")
	cmd.Flags().StringVar(&user, "login", "", "Manager login (default $ADMIN_LOGIN)")
	cmd.Flags().StringVar(&password, "password", "", "Manager password (default $ADMIN_PASSWORD)")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Run only the named scenarios")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, sc := range allScenarios {
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", sc.name, sc.description)
			}
		},
	}
}

func report(out io.Writer, results []result, asJSON bool) error {
	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Passed {
				fmt.Fprintf(out, "PASS %-18s %dms\n", r.Name, r.Duration)
			} else {
				fmt.Fprintf(out, "FAIL %-18s %s\n", r.Name, r.Error)
			}
		}
		fmt.Fprintf(out, "%d passed, %d failed\n", len(results)-failed, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d scenario(s) failed", failed)
	}
	return nil
}
