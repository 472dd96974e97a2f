package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agencykit/runway"
	"github.com/agencykit/runway/runtime/execution"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start, resume and inspect workflow runs",
}

var (
	triggeredBy string
	clientID    string
	projectID   string
)

var runStartCmd = &cobra.Command{
	Use:   "start <template-id>",
	Short: "Create a run and execute it until completion or the first approval gate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, config, err := newEngine()
		if err != nil {
			return err
		}
		rt := engine.Runtime()
		ctx := cmd.Context()
		tenantID := tenant(config)

		var options []runway.RunOption
		if clientID != "" {
			options = append(options, runway.ForClient(clientID))
		}
		if projectID != "" {
			options = append(options, runway.ForProject(projectID))
		}
		run, err := rt.CreateRun(ctx, tenantID, args[0], triggeredBy, options...)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", labelStyle.Render("run"), run.ID)

		if err = rt.StartRun(ctx, tenantID, run.ID); err != nil {
			printJournal(cmd, rt, tenantID, run.ID)
			return err
		}
		printJournal(cmd, rt, tenantID, run.ID)
		return printStatus(cmd, rt, tenantID, run.ID)
	},
}

var runResumeCmd = &cobra.Command{
	Use:     "resume <run-id>",
	Aliases: []string{"approve"},
	Short:   "Approve the pending gate of a blocked run and continue it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, config, err := newEngine()
		if err != nil {
			return err
		}
		rt := engine.Runtime()
		ctx := cmd.Context()
		tenantID := tenant(config)

		if err = rt.ResumeRun(ctx, tenantID, args[0], triggeredBy); err != nil {
			return err
		}
		printJournal(cmd, rt, tenantID, args[0])
		return printStatus(cmd, rt, tenantID, args[0])
	},
}

var runStatusCmd = &cobra.Command{
	Use:   "status <run-id>",
	Short: "Show a run's state, progress and steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, config, err := newEngine()
		if err != nil {
			return err
		}
		return printStatus(cmd, engine.Runtime(), tenant(config), args[0])
	},
}

var runListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tenant's runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, config, err := newEngine()
		if err != nil {
			return err
		}
		rt := engine.Runtime()
		runs, err := rt.Runs(cmd.Context(), tenant(config))
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println(mutedStyle.Render("no runs"))
			return nil
		}
		for _, run := range runs {
			fmt.Printf("%s  %s  %s  %s\n",
				run.ID,
				mutedStyle.Render(run.TemplateID),
				renderState(run.GetState()),
				mutedStyle.Render(run.CreatedAt.Format("2006-01-02 15:04:05")))
		}
		return nil
	},
}

var runWatchCmd = &cobra.Command{
	Use:   "watch <run-id>",
	Short: "Stream a run's progress until it finishes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, config, err := newEngine()
		if err != nil {
			return err
		}
		rt := engine.Runtime()
		events, err := rt.Watch(cmd.Context(), tenant(config), args[0])
		if err != nil {
			return err
		}
		for event := range events {
			fmt.Printf("%s %s %s\n",
				renderProgress(event.Percent),
				renderState(event.State),
				event.Message)
		}
		return nil
	},
}

func init() {
	runStartCmd.Flags().StringVar(&triggeredBy, "by", "", "user starting the run")
	runStartCmd.Flags().StringVar(&clientID, "client", "", "client the run concerns")
	runStartCmd.Flags().StringVar(&projectID, "project", "", "project the run concerns")
	runResumeCmd.Flags().StringVar(&triggeredBy, "by", "", "user approving the gate")

	runCmd.AddCommand(runStartCmd)
	runCmd.AddCommand(runResumeCmd)
	runCmd.AddCommand(runStatusCmd)
	runCmd.AddCommand(runListCmd)
	runCmd.AddCommand(runWatchCmd)
}

func printJournal(cmd *cobra.Command, rt *runway.Runtime, tenantID, runID string) {
	entries, err := rt.Journal(cmd.Context(), tenantID, runID, 0)
	if err != nil {
		return
	}
	for _, entry := range entries {
		fmt.Println(mutedStyle.Render(entry.CreatedAt.Format("15:04:05")), entry.Message)
	}
}

func printStatus(cmd *cobra.Command, rt *runway.Runtime, tenantID, runID string) error {
	run, err := rt.Run(cmd.Context(), tenantID, runID)
	if err != nil {
		return err
	}
	job, err := rt.Job(cmd.Context(), tenantID, runID)
	if err != nil {
		return err
	}
	percent := 0
	if job != nil {
		percent = job.GetProgress()
	}
	fmt.Printf("%s %s  %s\n", labelStyle.Render("state"), renderState(run.GetState()), renderProgress(percent))
	for i, step := range run.Steps {
		fmt.Printf("  %2d. %s  %s\n", i+1, step.Name, renderState(stepState(step)))
	}
	return nil
}

func stepState(step *execution.StepRun) string {
	switch step.State {
	case execution.StepSucceeded:
		return execution.StateSucceeded
	case execution.StepBlocked:
		return execution.StateBlocked
	case execution.StepRunning:
		return execution.StateRunning
	default:
		return execution.StateQueued
	}
}
