package terraform

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTerraform writes a shell script that echoes its arguments to stdout,
// writes "oops" to stderr and exits with code for the given subcommand.
func fakeTerraform(t *testing.T, failing string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake terraform")
	}
	path := filepath.Join(t.TempDir(), "terraform")
	script := "#!/bin/sh\n" +
		"echo \"args: $*\"\n" +
		"echo \"tf_input: $TF_INPUT\"\n" +
		"echo \"extra: $ZONECTL_TEST\"\n" +
		"if [ \"$1\" = \"" + failing + "\" ]; then\n" +
		"  echo \"oops\" >&2\n" +
		"  exit " + strconv.Itoa(code) + "\n" +
		"fi\n" +
		"echo \"Plan: 2 to add, 0 to change, 1 to destroy.\"\n" +
		"exit 0\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestStepArgs(t *testing.T) {
	assert.Equal(t, []string{"init", "-input=false", "-no-color"}, StepInit.Args())
	assert.Equal(t, []string{"plan", "-input=false", "-no-color"}, StepPlan.Args())
	assert.Equal(t, []string{"apply", "-auto-approve", "-input=false", "-no-color"}, StepApply.Args())
	assert.Equal(t, []Step{StepInit, StepPlan, StepApply}, Steps)
}

func TestExecRunner_Success(t *testing.T) {
	bin := fakeTerraform(t, "none", 1)
	dir := t.TempDir()
	r := ExecRunner{Binary: bin, Dir: dir, Env: []string{"ZONECTL_TEST=yes"}}

	res := r.RunStep(context.Background(), StepApply)
	assert.True(t, res.OK())
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "args: apply -auto-approve -input=false -no-color")
	assert.Contains(t, res.Stdout, "tf_input: false")
	assert.Contains(t, res.Stdout, "extra: yes")
	assert.Empty(t, res.Stderr)
}

func TestExecRunner_NonZeroExitIsFailure(t *testing.T) {
	bin := fakeTerraform(t, "plan", 2)
	res := ExecRunner{Binary: bin, Dir: t.TempDir()}.RunStep(context.Background(), StepPlan)

	assert.False(t, res.OK())
	assert.Equal(t, 2, res.ExitCode)
	assert.Equal(t, "oops\n", res.Stderr)
	// stdout is kept separately even on failure
	assert.Contains(t, res.Stdout, "args: plan")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	res := ExecRunner{Binary: filepath.Join(t.TempDir(), "no-such-terraform"), Dir: t.TempDir()}.RunStep(context.Background(), StepInit)
	assert.False(t, res.OK())
	assert.Equal(t, -1, res.ExitCode)
	assert.Contains(t, res.Stderr, "running")
}

func TestExecRunner_MissingWorkingDir(t *testing.T) {
	bin := fakeTerraform(t, "none", 1)
	res := ExecRunner{Binary: bin, Dir: filepath.Join(t.TempDir(), "gone")}.RunStep(context.Background(), StepInit)
	assert.Equal(t, -1, res.ExitCode)
}

func TestResultOK_IgnoresOutput(t *testing.T) {
	assert.True(t, Result{ExitCode: 0, Stderr: "Error: something"}.OK())
	assert.False(t, Result{ExitCode: 1, Stdout: "Apply complete!"}.OK())
	assert.False(t, Result{ExitCode: -1}.OK())
}

func TestPlanSummary(t *testing.T) {
	c, ok := PlanSummary("...\nPlan: 3 to add, 1 to change, 0 to destroy.\n")
	require.True(t, ok)
	assert.Equal(t, Changes{Add: 3, Change: 1}, c)

	_, ok = PlanSummary("No changes. Your infrastructure matches the configuration.")
	assert.False(t, ok)
}

func TestLookPath(t *testing.T) {
	bin := fakeTerraform(t, "none", 1)
	t.Setenv("PATH", filepath.Dir(bin))

	got, err := LookPath("")
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	t.Setenv("PATH", "")
	_, err = LookPath("terraform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terraform not found")
}
