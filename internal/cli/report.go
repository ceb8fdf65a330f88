package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sessions report for a date range (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if start != "" {
				query.Set("start_date", start)
			}
			if end != "" {
				query.Set("end_date", end)
			}
			path := "/api/v1/admin/reports/sessions"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}
			var result Report

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First date, YYYY-MM-DD (default 1970-01-01)")
	cmd.Flags().StringVar(&end, "end", "", "Last date, YYYY-MM-DD (default 2100-01-01)")

	return cmd
}
