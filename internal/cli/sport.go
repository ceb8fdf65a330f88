package cli

import (
	"github.com/spf13/cobra"
)

func newSportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sport",
		Short: "Sport commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Sport

			if err := client.Get(cmd.Context(), "/api/v1/sports", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})
	cmd.AddCommand(newSportCreateCmd())

	return cmd
}

func newSportCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a sport (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Sport

			if err := client.Post(cmd.Context(), "/api/v1/sports", map[string]string{"name": name}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Sport name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
