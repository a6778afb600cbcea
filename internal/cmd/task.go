package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchmap/launchmap/internal/depgraph"
	"github.com/launchmap/launchmap/internal/errors"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks and their completion",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [plan-id] [task-id]",
	Short: "Add a task to a plan",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list [plan-id]",
	Short: "List a plan's tasks with their blocked state",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskList,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Complete a task, optionally overriding incomplete prerequisites",
	Long: `Mark the task completed. If any prerequisite is incomplete the
completion is rejected unless --override is given; overrides are written
to the audit trail.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskComplete,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task and every edge touching it",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskHistoryCmd = &cobra.Command{
	Use:   "history [task-id]",
	Short: "Show the task's override audit records",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskHistory,
}

func init() {
	taskCompleteCmd.Flags().Bool("override", false, "complete even with incomplete prerequisites")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskHistoryCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	task := depgraph.Task{
		ID:     args[1],
		PlanID: args[0],
		Status: depgraph.StatusNotStarted,
	}
	if err := env.store.PutTask(cmd.Context(), task); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added task %s to plan %s\n", task.ID, task.PlanID)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	tasks, err := env.store.TasksForPlan(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, task := range tasks {
		blocked, err := env.engine.IsBlocked(cmd.Context(), task.ID)
		if err != nil {
			return err
		}
		state := string(task.Status)
		if blocked && task.Status == depgraph.StatusNotStarted {
			state = "blocked"
		}
		fmt.Fprintf(out, "%-30s %s\n", task.ID, state)
	}
	return nil
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	override, err := cmd.Flags().GetBool("override")
	if err != nil {
		return err
	}

	task, err := env.engine.CompleteWithOverrideCheck(cmd.Context(), principal(cmd), args[0], override)
	if err != nil {
		var prereqErr *depgraph.PrerequisiteError
		if errors.As(err, &prereqErr) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Task %s has incomplete prerequisites:\n", args[0])
			for _, t := range prereqErr.Incomplete {
				fmt.Fprintf(out, "  %s (%s)\n", t.ID, t.Status)
			}
			fmt.Fprintln(out, "Re-run with --override to complete anyway")
		}
		return err
	}

	if override {
		fmt.Fprintf(cmd.OutOrStdout(), "Completed task %s (override recorded)\n", task.ID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Completed task %s\n", task.ID)
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	// Cascade: clear the task's edges first so no dangling references
	// survive the delete.
	removed, err := env.engine.RemoveTaskEdges(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := env.store.DeleteTask(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s (%d edges removed)\n", args[0], removed)
	return nil
}

func runTaskHistory(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	records, err := env.audit.RecordsForTask(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "No override records for task %s\n", args[0])
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  %s overrode incomplete prerequisites\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"), rec.PrincipalID)
	}
	return nil
}
