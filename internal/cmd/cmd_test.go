package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// setupTestEnvironment points the CLI at throwaway storage. Explicit
// viper.Set values outrank config file and defaults, so they survive
// initConfig.
func setupTestEnvironment(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	viper.Reset()
	viper.Set("storage.driver", "sqlite")
	viper.Set("storage.path", filepath.Join(dir, "launchmap.db"))
	viper.Set("audit.dir", filepath.Join(dir, "audit"))
	viper.Set("logging.enabled", false)
	t.Cleanup(viper.Reset)
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "launchmap" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "launchmap")
	}

	expected := []string{"deps", "plan", "task"}
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestDepsSubcommands(t *testing.T) {
	expected := []string{"add", "remove", "validate", "show"}
	registered := make(map[string]bool)
	for _, cmd := range depsCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("deps missing subcommand %q", name)
		}
	}
}

func TestTaskCompleteFlow(t *testing.T) {
	setupTestEnvironment(t)

	steps := []struct {
		args    []string
		wantErr bool
		want    string
	}{
		{[]string{"task", "add", "plan-1", "task-a"}, false, "Added task task-a"},
		{[]string{"task", "add", "plan-1", "task-b"}, false, "Added task task-b"},
		{[]string{"deps", "add", "task-b", "task-a"}, false, "task-b now depends on task-a"},
		{[]string{"deps", "validate", "task-a", "task-b"}, false, "Invalid"},
		{[]string{"plan", "ready", "plan-1"}, false, "task-a"},
		{[]string{"task", "complete", "task-b"}, true, "incomplete prerequisites"},
		{[]string{"task", "complete", "task-b", "--override"}, false, "override recorded"},
		{[]string{"task", "history", "task-b"}, false, "overrode incomplete prerequisites"},
	}

	for _, step := range steps {
		out, err := executeCommand(rootCmd, step.args...)
		if step.wantErr && err == nil {
			t.Fatalf("%v: expected an error", step.args)
		}
		if !step.wantErr && err != nil {
			t.Fatalf("%v: %v\noutput: %s", step.args, err, out)
		}
		if !strings.Contains(out, step.want) {
			t.Errorf("%v output = %q, want it to contain %q", step.args, out, step.want)
		}
	}
}

func TestPlanMapOutput(t *testing.T) {
	setupTestEnvironment(t)

	for _, args := range [][]string{
		{"task", "add", "plan-1", "task-a"},
		{"task", "add", "plan-1", "task-b"},
		{"deps", "add", "task-b", "task-a"},
	} {
		if out, err := executeCommand(rootCmd, args...); err != nil {
			t.Fatalf("%v: %v\noutput: %s", args, err, out)
		}
	}

	out, err := executeCommand(rootCmd, "plan", "map", "plan-1")
	if err != nil {
		t.Fatalf("plan map: %v", err)
	}
	if !strings.Contains(out, "needs task-a") {
		t.Errorf("map output missing prerequisite line: %q", out)
	}
	if !strings.Contains(out, "blocks task-b") {
		t.Errorf("map output missing dependent line: %q", out)
	}
}
