package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/support-triage/internal/config"
	"github.com/danielpatrickdp/support-triage/internal/report"
	"github.com/danielpatrickdp/support-triage/internal/store"
)

type InspectCmd struct{}

func NewInspectCmd() *InspectCmd {
	return &InspectCmd{}
}

func (c *InspectCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show stored runs, or the results of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := readCommonFlags(cmd)
			if err != nil {
				return err
			}
			last, err := cmd.Flags().GetInt("last")
			if err != nil {
				return fmt.Errorf("failed to get last flag: %w", err)
			}
			runID, err := cmd.Flags().GetString("run")
			if err != nil {
				return fmt.Errorf("failed to get run flag: %w", err)
			}
			jsonOut, err := cmd.Flags().GetBool("json")
			if err != nil {
				return fmt.Errorf("failed to get json flag: %w", err)
			}

			dbPath := flags.db
			if dbPath == "" {
				cfg, err := config.Load(flags.envFile)
				if err != nil {
					return err
				}
				dbPath = cfg.DBPath
			}
			if dbPath == "" {
				return errors.New("no database: pass --db or set TRIAGE_DB")
			}

			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				results, err := st.ListResults(runID)
				if err != nil {
					return err
				}
				if jsonOut {
					return report.WriteJSON(out, results)
				}
				report.Results(out, results)
				return nil
			}

			runs, err := st.ListRuns(last)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no runs found")
				return nil
			}
			if jsonOut {
				return report.WriteJSON(out, runs)
			}
			report.Runs(out, runs)
			return nil
		},
	}
	cmd.Flags().Int("last", 20, "show N most recent runs")
	cmd.Flags().String("run", "", "show per-email results of one run")
	cmd.Flags().Bool("json", false, "output as JSON instead of table")
	return cmd
}
