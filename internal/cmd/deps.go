package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Manage dependency edges between tasks",
}

var depsAddCmd = &cobra.Command{
	Use:   "add [dependent-task] [prerequisite-task]",
	Short: "Add a dependency edge",
	Long: `Record that the dependent task cannot start until the prerequisite
task completes. The edge is rejected if it would duplicate an existing
edge, cross plans, or make the plan's graph cyclic.`,
	Args: cobra.ExactArgs(2),
	RunE: runDepsAdd,
}

var depsRemoveCmd = &cobra.Command{
	Use:   "remove [edge-id]",
	Short: "Remove a dependency edge by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runDepsRemove,
}

var depsValidateCmd = &cobra.Command{
	Use:   "validate [dependent-task] [prerequisite-task]",
	Short: "Check a candidate edge without adding it",
	Args:  cobra.ExactArgs(2),
	RunE:  runDepsValidate,
}

var depsShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a task's direct prerequisites and dependents",
	Args:  cobra.ExactArgs(1),
	RunE:  runDepsShow,
}

func init() {
	depsCmd.AddCommand(depsAddCmd)
	depsCmd.AddCommand(depsRemoveCmd)
	depsCmd.AddCommand(depsValidateCmd)
	depsCmd.AddCommand(depsShowCmd)
	rootCmd.AddCommand(depsCmd)
}

func runDepsAdd(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	edge, err := env.engine.AddDependency(cmd.Context(), principal(cmd), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added edge %s\n", edge.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "%s now depends on %s\n", edge.DependentID, edge.PrerequisiteID)
	return nil
}

func runDepsRemove(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.engine.RemoveDependency(cmd.Context(), principal(cmd), args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed edge %s\n", args[0])
	return nil
}

func runDepsValidate(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	result, err := env.engine.ValidateDependency(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	if result.IsValid {
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %s -> %s can be added\n", args[0], args[1])
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Invalid:")
	for _, msg := range result.Messages {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", msg.Severity, msg.Message)
	}
	return nil
}

func runDepsShow(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	links, err := env.engine.TaskDependencies(cmd.Context(), principal(cmd), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Task %s\n", args[0])
	fmt.Fprintf(out, "  Prerequisites (%d):\n", len(links.Prerequisites))
	for _, id := range links.Prerequisites {
		fmt.Fprintf(out, "    %s\n", id)
	}
	fmt.Fprintf(out, "  Dependents (%d):\n", len(links.Dependents))
	for _, id := range links.Dependents {
		fmt.Fprintf(out, "    %s\n", id)
	}
	return nil
}
