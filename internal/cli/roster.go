package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/pelada/internal/api/response"
)

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Roster commands",
	}

	cmd.AddCommand(newRosterStatusCmd())
	cmd.AddCommand(newRosterPresenceCmd("in", "Check a player in", true))
	cmd.AddCommand(newRosterPresenceCmd("out", "Check a player out", false))
	cmd.AddCommand(newRosterSyncCmd())
	cmd.AddCommand(newRosterClearCmd())
	cmd.AddCommand(newRosterClosedCmd("close", "Stop accepting roster changes", true))
	cmd.AddCommand(newRosterClosedCmd("open", "Accept roster changes again", false))

	return cmd
}

func newRosterStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the roster and remaining slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RosterStatus

			if err := client.Get("/api/v1/roster", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newRosterPresenceCmd(use, short string, present bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RosterStatus

			if len(args) == 1 {
				if err := setPresence(args[0], present, &result); err != nil {
					return err
				}
				newOutput(cmd).Print(result)
				return nil
			}

			// Several names: report each rejection and keep going
			rejected := 0
			for _, name := range args {
				if err := setPresence(name, present, &result); err != nil {
					rejected++
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Rejected: %s: %v\n", name, err)
				}
			}

			if err := client.Get("/api/v1/roster", &result); err != nil {
				return err
			}
			newOutput(cmd).Print(result)

			if rejected > 0 {
				return fmt.Errorf("%d of %d changes rejected", rejected, len(args))
			}
			return nil
		},
	}
}

func setPresence(name string, present bool, result *response.RosterStatus) error {
	path := "/api/v1/roster/" + url.PathEscape(name)
	return client.Put(path, map[string]bool{"present": present}, result)
}

func newRosterSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [name...]",
		Short: "Make the roster match the given players",
		Long: `Make the roster match the given players.

Players not listed are checked out. Players that cannot be admitted are
reported without failing the command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SyncResult

			present := args
			if present == nil {
				present = []string{}
			}
			if err := client.Post("/api/v1/roster/sync", map[string][]string{"present": present}, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newRosterClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every registration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/roster"); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage("Roster cleared")
			return nil
		},
	}
}

func newRosterClosedCmd(use, short string, closed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RosterStatus

			if err := client.Patch("/api/v1/roster/settings", map[string]bool{"closed": closed}, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}
