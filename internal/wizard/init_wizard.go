package wizard

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/kjourdan1/zonectl/internal/config"
)

// InitWizard drives the interactive init flow.
type InitWizard struct {
	prompter Prompter
}

// NewInitWizard returns an init wizard; if p is nil, survey is used.
func NewInitWizard(p Prompter) *InitWizard {
	if p == nil {
		p = NewSurveyPrompter()
	}
	return &InitWizard{prompter: p}
}

// Run asks for the provider first; the remaining questions depend on it.
// defaults pre-fills answers, typically from flags.
func (w *InitWizard) Run(defaults config.InitInput) (*config.InitInput, error) {
	in := defaults
	var err error

	providerDefault := in.Provider
	if providerDefault == "" {
		providerDefault = config.DefaultProvider
	}
	in.Provider, err = w.prompter.Select("Cloud provider", config.Providers, providerDefault)
	if err != nil {
		return nil, handlePromptErr(err)
	}

	switch in.Provider {
	case config.ProviderGCP:
		in.Project, err = w.prompter.Input("GCP project ID", in.Project, survey.ComposeValidators(ValidateNonEmpty))
	case config.ProviderAzure:
		in.Project, err = w.prompter.Input("Azure subscription ID", in.Project, survey.ComposeValidators(ValidateNonEmpty))
	case config.ProviderAWS:
		in.Project, err = w.prompter.Input("AWS profile (empty for default)", in.Project, nil)
	}
	if err != nil {
		return nil, handlePromptErr(err)
	}

	if regions, ok := CommonRegions[in.Provider]; ok {
		def := in.Region
		if def == "" {
			def = regions[0]
		}
		in.Region, err = w.prompter.Select("Region", regions, def)
		if err != nil {
			return nil, handlePromptErr(err)
		}
	}

	if in.Provider == config.ProviderStatic {
		var answer string
		answer, err = w.prompter.Input("Zones (comma-separated, in order)", joinList(in.Zones), survey.ComposeValidators(ValidateZoneList))
		if err != nil {
			return nil, handlePromptErr(err)
		}
		in.Zones = SplitList(answer)
	} else {
		in.CredentialsFile, err = w.prompter.Input("Credentials file (empty for ambient credentials)", in.CredentialsFile, ValidateOptionalFile)
		if err != nil {
			return nil, handlePromptErr(err)
		}
	}

	customise, err := w.prompter.Confirm("Customise template and working directory?", false)
	if err != nil {
		return nil, handlePromptErr(err)
	}
	if customise {
		in.TemplatePath, err = w.prompter.Input("Template file", orDefault(in.TemplatePath, config.DefaultTemplatePath), survey.ComposeValidators(ValidateNonEmpty))
		if err != nil {
			return nil, handlePromptErr(err)
		}
		in.OutputPath, err = w.prompter.Input("Rendered file", orDefault(in.OutputPath, config.DefaultOutputPath), survey.ComposeValidators(ValidateNonEmpty))
		if err != nil {
			return nil, handlePromptErr(err)
		}
		in.WorkingDir, err = w.prompter.Input("Terraform working directory", orDefault(in.WorkingDir, config.DefaultWorkingDir), survey.ComposeValidators(ValidateNonEmpty))
		if err != nil {
			return nil, handlePromptErr(err)
		}
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

func handlePromptErr(err error) error {
	if errors.Is(err, ErrCancelled) {
		return fmt.Errorf("wizard cancelled: %w", ErrCancelled)
	}
	return err
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func joinList(items []string) string {
	s := ""
	for i, it := range items {
		if i > 0 {
			s += ", "
		}
		s += it
	}
	return s
}
