package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "List the tenant's pending approval requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, config, err := newEngine()
		if err != nil {
			return err
		}
		rt := engine.Runtime()
		pending, err := rt.PendingApprovals(cmd.Context(), tenant(config))
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println(mutedStyle.Render("no pending approvals"))
			return nil
		}
		for _, request := range pending {
			fmt.Printf("%s  run %s  step %s  %s\n",
				request.ID,
				request.RunID,
				labelStyle.Render(request.StepName),
				mutedStyle.Render(request.RequestedAt.Format("2006-01-02 15:04:05")))
		}
		return nil
	},
}
