package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session scheduling commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionListCmd("list", "List all sessions", "/api/v1/sessions"))
	cmd.AddCommand(newSessionListCmd("mine", "List sessions you created", "/api/v1/sessions/mine"))
	cmd.AddCommand(newSessionListCmd("joined", "List active sessions you joined", "/api/v1/sessions/joined"))
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionCancelCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var (
		sportID    int64
		at         string
		venue      string
		maxPlayers int
		players    []int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a session",
		Long: `Schedule a session. --at takes an RFC 3339 time such as 2024-06-01T18:00:00Z.
Each --player is placed on alternating teams in the order given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dateTime, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("--at must be an RFC 3339 time: %w", err)
			}

			req := map[string]any{
				"sport_id":    sportID,
				"date_time":   dateTime,
				"venue":       venue,
				"max_players": maxPlayers,
			}
			if len(players) > 0 {
				req["players"] = players
			}
			var result CreatedSession

			if err := client.Post(cmd.Context(), "/api/v1/sessions", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&sportID, "sport", 0, "Sport ID (required)")
	cmd.Flags().StringVar(&at, "at", "", "Start time, RFC 3339 (required)")
	cmd.Flags().StringVar(&venue, "venue", "", "Venue (required)")
	cmd.Flags().IntVar(&maxPlayers, "max", 0, "Maximum players (required)")
	cmd.Flags().Int64SliceVar(&players, "player", nil, "Player ID to seed (repeatable)")
	_ = cmd.MarkFlagRequired("sport")
	_ = cmd.MarkFlagRequired("at")
	_ = cmd.MarkFlagRequired("venue")
	_ = cmd.MarkFlagRequired("max")

	return cmd
}

func newSessionListCmd(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Session

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <session-id>",
		Short: "Join a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var result JoinResult

			if err := client.Post(cmd.Context(), fmt.Sprintf("/api/v1/sessions/%d/join", id), nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionCancelCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel <session-id>",
		Short: "Cancel a session you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var result MessageResult

			req := map[string]string{"reason": reason}
			if err := client.Post(cmd.Context(), fmt.Sprintf("/api/v1/sessions/%d/cancel", id), req, &result); err != nil {
				return err
			}

			output(cmd).PrintMessage(result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason shown to players")

	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q", arg)
	}
	return id, nil
}
