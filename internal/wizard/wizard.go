// Package wizard collects `zonectl init` answers interactively.
package wizard

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrCancelled is returned when the user aborts the wizard with Ctrl+C.
var ErrCancelled = terminal.InterruptErr

var zoneNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)

// CommonRegions offers region choices per provider. The empty entry means
// "all regions".
var CommonRegions = map[string][]string{
	"gcp":     {"", "us-central1", "us-east1", "europe-west1", "europe-west4", "asia-southeast1"},
	"azure":   {"", "westeurope", "northeurope", "francecentral", "eastus", "eastus2", "westus2"},
	"aws":     {"us-east-1", "us-west-2", "eu-west-1", "eu-central-1", "ap-southeast-1"},
	"hetzner": {"", "eu-central", "us-east", "us-west", "ap-southeast"},
}

// ValidateNonEmpty ensures a required value is provided.
func ValidateNonEmpty(value interface{}) error {
	if strings.TrimSpace(fmt.Sprintf("%v", value)) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

// ValidateZoneList accepts a comma-separated list of zone names.
func ValidateZoneList(value interface{}) error {
	zones := SplitList(fmt.Sprintf("%v", value))
	if len(zones) == 0 {
		return fmt.Errorf("at least one zone is required")
	}
	for _, z := range zones {
		if !zoneNameRegex.MatchString(z) {
			return fmt.Errorf("invalid zone name %q", z)
		}
	}
	return nil
}

// ValidateOptionalFile accepts an empty value or a path to an existing file.
func ValidateOptionalFile(value interface{}) error {
	v := strings.TrimSpace(fmt.Sprintf("%v", value))
	if v == "" {
		return nil
	}
	info, err := os.Stat(v)
	if err != nil {
		return fmt.Errorf("file %s not found", v)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", v)
	}
	return nil
}

// SplitList splits a comma-separated answer, dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Prompter abstracts user interaction for testing.
type Prompter interface {
	Input(label, defaultValue string, validator survey.Validator) (string, error)
	Select(label string, options []string, defaultValue string) (string, error)
	Confirm(label string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter with survey/v2.
type SurveyPrompter struct{}

func NewSurveyPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

func (p *SurveyPrompter) Input(label, defaultValue string, validator survey.Validator) (string, error) {
	var value string
	var opts []survey.AskOpt
	if validator != nil {
		opts = append(opts, survey.WithValidator(validator))
	}
	err := survey.AskOne(&survey.Input{
		Message: label,
		Default: defaultValue,
	}, &value, opts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func (p *SurveyPrompter) Select(label string, options []string, defaultValue string) (string, error) {
	var value string
	err := survey.AskOne(&survey.Select{
		Message: label,
		Options: options,
		Default: defaultValue,
	}, &value)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (p *SurveyPrompter) Confirm(label string, defaultValue bool) (bool, error) {
	var value bool
	err := survey.AskOne(&survey.Confirm{
		Message: label,
		Default: defaultValue,
	}, &value)
	if err != nil {
		return false, err
	}
	return value, nil
}
