package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/pelada/internal/api/response"
)

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Player base commands",
	}

	cmd.AddCommand(newPlayersListCmd())
	cmd.AddCommand(newPlayersReloadCmd())

	return cmd
}

func newPlayersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the players in the player base",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayerList

			if err := client.Get("/api/v1/players", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newPlayersReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the player base from its source",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayerList

			if err := client.Post("/api/v1/players/reload", nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}
