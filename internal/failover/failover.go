// Package failover provisions a Terraform configuration in the first zone
// that accepts it.
//
// For each zone, in order, the Driver renders the template and runs init,
// plan and apply. The first failing step moves on to the next zone; a zone
// whose three steps succeed ends the run. A render failure aborts the run,
// since every later zone would hit the same file problem.
package failover

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kjourdan1/zonectl/internal/output"
	"github.com/kjourdan1/zonectl/internal/terraform"
)

// ErrExhausted is returned by Outcome.Err when no zone succeeded.
var ErrExhausted = errors.New("no zone succeeded")

// Renderer writes the configuration for one zone.
type Renderer interface {
	Render(zone string) error
}

// Attempt records how far one zone got. FailedStep is empty when every step
// the run asked for succeeded.
type Attempt struct {
	Zone       string             `json:"zone"`
	FailedStep terraform.Step     `json:"failedStep,omitempty"`
	Result     terraform.Result   `json:"result"`
	Changes    *terraform.Changes `json:"changes,omitempty"`
}

// Outcome is the result of a run.
type Outcome struct {
	Zone      string    `json:"zone,omitempty"`
	Succeeded bool      `json:"succeeded"`
	DryRun    bool      `json:"dryRun,omitempty"`
	Attempts  []Attempt `json:"attempts"`
}

// Err returns ErrExhausted for a failed outcome and nil otherwise.
func (o Outcome) Err() error {
	if o.Succeeded {
		return nil
	}
	if len(o.Attempts) == 0 {
		return fmt.Errorf("%w: zone list is empty", ErrExhausted)
	}
	return fmt.Errorf("%w: tried %d zone(s)", ErrExhausted, len(o.Attempts))
}

// Driver runs the zone failover loop.
type Driver struct {
	renderer   Renderer
	runner     terraform.Runner
	dryRun     bool
	transcript io.Writer
}

type Option func(*Driver)

// WithDryRun skips apply and stops at the first zone whose plan succeeds.
func WithDryRun(dryRun bool) Option {
	return func(d *Driver) { d.dryRun = dryRun }
}

// WithTranscript sets where step output is copied: stdout of a successful
// step, stderr of a failed one.
func WithTranscript(w io.Writer) Option {
	return func(d *Driver) { d.transcript = w }
}

func New(renderer Renderer, runner terraform.Runner, opts ...Option) *Driver {
	d := &Driver{renderer: renderer, runner: runner, transcript: io.Discard}
	for _, opt := range opts {
		opt(d)
	}
	if d.transcript == nil {
		d.transcript = io.Discard
	}
	return d
}

func (d *Driver) steps() []terraform.Step {
	if d.dryRun {
		return []terraform.Step{terraform.StepInit, terraform.StepPlan}
	}
	return terraform.Steps
}

// Run tries zones in order. The error is non-nil only when rendering failed
// or ctx was cancelled; exhaustion is reported through Outcome.
func (d *Driver) Run(ctx context.Context, zones []string) (Outcome, error) {
	out := Outcome{DryRun: d.dryRun, Attempts: []Attempt{}}
	if len(zones) == 0 {
		output.Fail("No zones to try")
		return out, nil
	}

	for i, zone := range zones {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		output.Zone(zone, i+1, len(zones))

		attempt, err := d.try(ctx, zone)
		if err != nil {
			return out, err
		}
		out.Attempts = append(out.Attempts, attempt)

		if attempt.FailedStep == "" {
			out.Zone = zone
			out.Succeeded = true
			if d.dryRun {
				output.Success(fmt.Sprintf("Plan succeeded in zone %s (dry run, apply skipped)", zone))
			} else {
				output.Success(fmt.Sprintf("Server created in zone %s", zone))
			}
			return out, nil
		}
		output.Warn(fmt.Sprintf("Zone %s failed at terraform %s", zone, attempt.FailedStep), "exitCode", attempt.Result.ExitCode)
	}

	output.Fail("No zone succeeded", "tried", len(zones))
	return out, nil
}

func (d *Driver) try(ctx context.Context, zone string) (Attempt, error) {
	attempt := Attempt{Zone: zone}

	if err := d.renderer.Render(zone); err != nil {
		return attempt, fmt.Errorf("rendering zone %s: %w", zone, err)
	}

	for _, step := range d.steps() {
		output.Step("terraform "+step.String(), "zone", zone)
		res := d.runner.RunStep(ctx, step)
		attempt.Result = res

		if !res.OK() {
			io.WriteString(d.transcript, res.Stderr) //nolint:errcheck // transcript is best effort
			attempt.FailedStep = step
			return attempt, nil
		}
		io.WriteString(d.transcript, res.Stdout) //nolint:errcheck

		if step == terraform.StepPlan {
			if c, ok := terraform.PlanSummary(res.Stdout); ok {
				attempt.Changes = &c
				output.Info("Plan", "add", c.Add, "change", c.Change, "destroy", c.Destroy)
			}
		}
	}
	return attempt, nil
}
