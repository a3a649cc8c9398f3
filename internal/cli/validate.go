package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/support-triage/internal/email"
	"github.com/danielpatrickdp/support-triage/internal/report"
)

type ValidateCmd struct{}

func NewValidateCmd() *ValidateCmd {
	return &ValidateCmd{}
}

func (c *ValidateCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <emails.json|emails.csv>",
		Short: "Check every record without calling a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, err := cmd.Flags().GetBool("json")
			if err != nil {
				return fmt.Errorf("failed to get json flag: %w", err)
			}
			emails, err := email.LoadFile(args[0])
			if err != nil {
				return err
			}

			rows := make([]report.ValidationRow, len(emails))
			invalid := 0
			for i, e := range emails {
				rows[i] = report.ValidationRow{EmailID: e.ID, Valid: true}
				if err := email.Validate(e); err != nil {
					rows[i].Valid = false
					rows[i].Reason = err.Error()
					invalid++
				}
			}

			if jsonOut {
				if err := report.WriteJSON(cmd.OutOrStdout(), rows); err != nil {
					return err
				}
			} else {
				report.Validation(cmd.OutOrStdout(), rows)
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d records invalid", invalid, len(rows))
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print results as JSON")
	return cmd
}
