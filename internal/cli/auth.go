package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Account commands",
	}

	cmd.AddCommand(newAuthSignupCmd())
	cmd.AddCommand(newAuthSigninCmd())
	cmd.AddCommand(newAuthSignoutCmd())
	cmd.AddCommand(newAuthMeCmd())
	cmd.AddCommand(newAuthProfileCmd())

	return cmd
}

func newAuthSignupCmd() *cobra.Command {
	var name, email, password, role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":     name,
				"email":    email,
				"password": password,
			}
			if role != "" {
				req["role"] = role
			}
			var result AuthResult

			if err := client.Post(cmd.Context(), "/api/v1/auth/signup", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&role, "role", "", "Role: player or admin (default player)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthSigninCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"email":    email,
				"password": password,
			}
			var result AuthResult

			if err := client.Post(cmd.Context(), "/api/v1/auth/signin", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthSignoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Revoke the current token and forget it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), "/api/v1/auth/signout", nil, nil); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			output(cmd).PrintMessage("Signed out")
			return nil
		},
	}
}

func newAuthMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User

			if err := client.Get(cmd.Context(), "/api/v1/auth/me", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newAuthProfileCmd() *cobra.Command {
	var name, current, next string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update name or password",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if name != "" {
				req["name"] = name
			}
			if current != "" {
				req["current_password"] = current
			}
			if next != "" {
				req["new_password"] = next
			}
			if len(req) == 0 {
				return fmt.Errorf("nothing to update: pass --name or --new-password")
			}
			var result User

			if err := client.Put(cmd.Context(), "/api/v1/auth/profile", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&current, "current-password", "", "Current password (required with --new-password)")
	cmd.Flags().StringVar(&next, "new-password", "", "New password")

	return cmd
}
