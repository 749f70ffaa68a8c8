package cli

import (
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/pelada/internal/api/response"
)

type teamsFlags struct {
	variant string
	seed    int64
}

func (f *teamsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.variant, "variant", "", "Split variant: alternating, shuffled (default: server setting)")
	cmd.Flags().Int64Var(&f.seed, "seed", -1, "Seed for a reproducible shuffled split")
}

func (f *teamsFlags) query() url.Values {
	q := url.Values{}
	if f.variant != "" {
		q.Set("variant", f.variant)
	}
	if f.seed >= 0 {
		q.Set("seed", strconv.FormatInt(f.seed, 10))
	}
	return q
}

func newTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Team split commands",
	}

	cmd.AddCommand(newTeamsShowCmd())
	cmd.AddCommand(newTeamsExportCmd())

	return cmd
}

func newTeamsShowCmd() *cobra.Command {
	var flags teamsFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Split the registered players into two teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Teams

			path := "/api/v1/teams"
			if q := flags.query().Encode(); q != "" {
				path += "?" + q
			}
			if err := client.Get(path, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newTeamsExportCmd() *cobra.Command {
	var (
		flags  teamsFlags
		format string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the team split as CSV or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := flags.query()
			q.Set("format", format)

			data, err := client.GetRaw("/api/v1/teams/export?" + q.Encode())
			if err != nil {
				return err
			}

			if file == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return err
			}
			newOutput(cmd).PrintMessage("Wrote " + file)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv, json")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to file instead of stdout")

	return cmd
}
