package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Long: `Check that the server answers and its storage is reachable.

With --wait, keep polling until the server reports ok or the duration
elapses, which is handy right after starting the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			deadline := time.Now().Add(wait)
			for {
				err := client.Get(cmd.Context(), "/api/v1/health", &result)
				if err == nil {
					break
				}
				if time.Now().After(deadline) {
					return err
				}
				time.Sleep(healthPollInterval)
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep retrying for up to this long")

	return cmd
}

const healthPollInterval = 250 * time.Millisecond
