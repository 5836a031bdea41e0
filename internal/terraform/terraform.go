// Package terraform runs the Terraform CLI steps of a provisioning attempt.
package terraform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Step is one Terraform invocation in the init, plan, apply sequence.
type Step string

const (
	StepInit  Step = "init"
	StepPlan  Step = "plan"
	StepApply Step = "apply"
)

// Steps is the order in which a zone is provisioned.
var Steps = []Step{StepInit, StepPlan, StepApply}

// Args returns the command-line arguments for the step.
func (s Step) Args() []string {
	switch s {
	case StepInit:
		return []string{"init", "-input=false", "-no-color"}
	case StepPlan:
		return []string{"plan", "-input=false", "-no-color"}
	case StepApply:
		return []string{"apply", "-auto-approve", "-input=false", "-no-color"}
	default:
		return []string{string(s)}
	}
}

func (s Step) String() string { return string(s) }

// Result is the captured outcome of one step.
type Result struct {
	ExitCode int    `json:"exitCode"`
	Stdout   string `json:"-"`
	Stderr   string `json:"-"`
}

// OK reports whether the step succeeded. Only the exit status counts.
func (r Result) OK() bool { return r.ExitCode == 0 }

// Runner executes a step in the working directory.
type Runner interface {
	RunStep(ctx context.Context, step Step) Result
}

// ExecRunner runs a Terraform binary as a child process.
type ExecRunner struct {
	Binary string   // defaults to "terraform"
	Dir    string   // working directory holding the rendered configuration
	Env    []string // extra KEY=VALUE entries
}

// RunStep runs the step and waits for it. A process that cannot be started
// yields ExitCode -1 with the start error in Stderr.
func (r ExecRunner) RunStep(ctx context.Context, step Step) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	binary := r.Binary
	if binary == "" {
		binary = "terraform"
	}

	cmd := exec.CommandContext(ctx, binary, step.Args()...)
	cmd.Dir = r.Dir
	// Inherit PATH so fake binaries installed by tests are found.
	cmd.Env = append(append(os.Environ(), "TF_INPUT=false"), r.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		res.ExitCode = exitErr.ExitCode()
		return res
	}
	res.ExitCode = -1
	if res.Stderr != "" && !strings.HasSuffix(res.Stderr, "\n") {
		res.Stderr += "\n"
	}
	res.Stderr += fmt.Sprintf("running %s %s: %v", binary, step, err)
	return res
}

// LookPath checks that the Terraform binary can be found.
func LookPath(binary string) (string, error) {
	if binary == "" {
		binary = "terraform"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH (install from https://developer.hashicorp.com/terraform/install)", binary)
	}
	return path, nil
}

var planSummaryRegex = regexp.MustCompile(`Plan:\s+(\d+) to add,\s+(\d+) to change,\s+(\d+) to destroy`)

// Changes is the resource summary printed by terraform plan.
type Changes struct {
	Add     int `json:"add"`
	Change  int `json:"change"`
	Destroy int `json:"destroy"`
}

// PlanSummary extracts the "Plan: N to add, ..." line. ok is false when the
// output has none, e.g. "No changes."
func PlanSummary(stdout string) (Changes, bool) {
	m := planSummaryRegex.FindStringSubmatch(stdout)
	if len(m) != 4 {
		return Changes{}, false
	}
	return Changes{Add: atoi(m[1]), Change: atoi(m[2]), Destroy: atoi(m[3])}, true
}

func atoi(v string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(v))
	return n
}
