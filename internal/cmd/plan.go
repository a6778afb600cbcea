package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/launchmap/launchmap/internal/tui"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect a plan's dependency graph",
}

var planMapCmd = &cobra.Command{
	Use:   "map [plan-id]",
	Short: "Print the plan's dependency map",
	Long: `Print every task that participates in at least one dependency edge,
with its direct prerequisites and dependents.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlanMap,
}

var planReadyCmd = &cobra.Command{
	Use:   "ready [plan-id]",
	Short: "List tasks that are ready to start",
	Long: `List the plan's tasks that are not started and have no incomplete
prerequisites.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlanReady,
}

var planViewCmd = &cobra.Command{
	Use:   "view [plan-id]",
	Short: "Open the interactive plan viewer",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanView,
}

func init() {
	planCmd.AddCommand(planMapCmd)
	planCmd.AddCommand(planReadyCmd)
	planCmd.AddCommand(planViewCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlanMap(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	depMap, err := env.engine.PlanDependencyMap(cmd.Context(), principal(cmd), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(depMap) == 0 {
		fmt.Fprintf(out, "Plan %s has no dependency edges\n", args[0])
		return nil
	}

	taskIDs := make([]string, 0, len(depMap))
	for id := range depMap {
		taskIDs = append(taskIDs, id)
	}
	sort.Strings(taskIDs)

	for _, id := range taskIDs {
		links := depMap[id]
		fmt.Fprintf(out, "%s\n", id)
		for _, prereq := range links.Prerequisites {
			fmt.Fprintf(out, "  needs %s\n", prereq)
		}
		for _, dep := range links.Dependents {
			fmt.Fprintf(out, "  blocks %s\n", dep)
		}
	}
	return nil
}

func runPlanReady(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	ready, err := env.engine.ReadyTasks(cmd.Context(), principal(cmd), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ready) == 0 {
		fmt.Fprintf(out, "No tasks in plan %s are ready\n", args[0])
		return nil
	}
	for _, task := range ready {
		fmt.Fprintf(out, "%s\n", task.ID)
	}
	return nil
}

func runPlanView(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	opts := tui.Options{
		PlanID:        args[0],
		Principal:     principal(cmd),
		ShowCompleted: env.cfg.TUI.ShowCompleted,
	}
	if env.cfg.TUI.Watch && env.cfg.Storage.Driver == "sqlite" {
		opts.WatchPath = env.cfg.StoragePath()
	}

	return tui.Run(env.engine, env.store, opts)
}
