// Package doctor implements prerequisite checks for zonectl.
//
// It verifies that terraform is installed at a supported version, that the
// template and working directory are usable, and that the provider
// credential can be found. Provider CLIs are reported but optional.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/kjourdan1/zonectl/internal/config"
	"github.com/kjourdan1/zonectl/internal/render"
)

// Status represents the outcome of a single check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
	StatusSkip Status = "skip"
)

// MinTerraformVersion is the oldest terraform release zonectl drives.
const MinTerraformVersion = "1.5.0"

// CheckResult is the outcome of running a single prerequisite check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// Check defines a single prerequisite check.
type Check struct {
	Name     string
	Category string // "tool", "files", "provider"
	Critical bool   // failure makes the doctor command fail
	Run      func(ctx context.Context, ex CmdExecutor) CheckResult
}

// CmdExecutor abstracts command execution for testability.
type CmdExecutor interface {
	// Run executes a command and returns combined stdout+stderr output.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type realExecutor struct{}

func (r *realExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// NewRealExecutor returns a CmdExecutor backed by os/exec.
func NewRealExecutor() CmdExecutor {
	return &realExecutor{}
}

// Summary holds the aggregated results of all checks.
type Summary struct {
	Results    []CheckResult `json:"results"`
	TotalPass  int           `json:"totalPass"`
	TotalFail  int           `json:"totalFail"`
	TotalWarn  int           `json:"totalWarn"`
	TotalSkip  int           `json:"totalSkip"`
	HasFailure bool          `json:"hasFailure"`

	categories []string
}

// RunAll executes every check for cfg and returns a summary.
func RunAll(ctx context.Context, executor CmdExecutor, cfg *config.Config) Summary {
	checks := AllChecks(cfg)
	results := make([]CheckResult, 0, len(checks))
	for _, c := range checks {
		results = append(results, c.Run(ctx, executor))
	}
	return buildSummary(results, checks)
}

func buildSummary(results []CheckResult, checks []Check) Summary {
	s := Summary{Results: results}
	for i, r := range results {
		s.categories = append(s.categories, checks[i].Category)
		switch r.Status {
		case StatusPass:
			s.TotalPass++
		case StatusFail:
			s.TotalFail++
			if checks[i].Critical {
				s.HasFailure = true
			}
		case StatusWarn:
			s.TotalWarn++
		case StatusSkip:
			s.TotalSkip++
		}
	}
	return s
}

// AllChecks returns the ordered checks for cfg. A nil cfg uses defaults.
func AllChecks(cfg *config.Config) []Check {
	if cfg == nil {
		cfg = config.Default()
	}
	return []Check{
		checkTerraform(cfg.Spec.Terraform.Binary),
		checkWorkingDir(cfg.Spec.Terraform.WorkingDir),
		checkTemplate(render.Renderer{
			TemplatePath: cfg.ResolvePath(cfg.Spec.Template.Path),
			OutputPath:   cfg.ResolvePath(cfg.Spec.Template.Output),
			Placeholder:  cfg.Spec.Template.Placeholder,
		}),
		checkCredentials(cfg.Spec.Provider),
		checkProviderCLI(cfg.Spec.Provider.Name),
	}
}

// --- Tools ---

func checkTerraform(binary string) Check {
	if binary == "" {
		binary = config.DefaultTerraformBinary
	}
	return Check{
		Name:     "terraform",
		Category: "tool",
		Critical: true,
		Run: func(ctx context.Context, ex CmdExecutor) CheckResult {
			return checkToolVersion(ctx, ex, binary, []string{"version", "-json"}, `"terraform_version"\s*:\s*"([^"]+)"`, MinTerraformVersion,
				"Install Terraform >= "+MinTerraformVersion+": https://developer.hashicorp.com/terraform/install")
		},
	}
}

var providerCLIs = map[string]struct {
	tool string
	args []string
	fix  string
}{
	config.ProviderGCP:     {"gcloud", []string{"version"}, "Install the Google Cloud CLI: https://cloud.google.com/sdk/docs/install"},
	config.ProviderAzure:   {"az", []string{"version", "--output", "tsv"}, "Install Azure CLI: https://learn.microsoft.com/cli/azure/install-azure-cli"},
	config.ProviderAWS:     {"aws", []string{"--version"}, "Install the AWS CLI: https://aws.amazon.com/cli/"},
	config.ProviderHetzner: {"hcloud", []string{"version"}, "Install the hcloud CLI: https://github.com/hetznercloud/cli"},
}

// checkProviderCLI reports the provider's own CLI. zonectl talks to the APIs
// directly, so a missing CLI is only a warning.
func checkProviderCLI(provider string) Check {
	return Check{
		Name:     "provider-cli",
		Category: "provider",
		Run: func(ctx context.Context, ex CmdExecutor) CheckResult {
			cli, ok := providerCLIs[provider]
			if !ok {
				return CheckResult{Name: "provider-cli", Status: StatusSkip, Message: fmt.Sprintf("No CLI for provider %q", provider)}
			}
			out, err := ex.Run(ctx, cli.tool, cli.args...)
			if err != nil {
				return CheckResult{
					Name:    "provider-cli",
					Status:  StatusWarn,
					Message: fmt.Sprintf("%s not found (optional, handy for debugging credentials)", cli.tool),
					Fix:     cli.fix,
				}
			}
			v := regexp.MustCompile(`(\d+\.\d+\.\d+)`).FindString(out)
			if v == "" {
				v = "unknown version"
			}
			return CheckResult{Name: "provider-cli", Status: StatusPass, Message: fmt.Sprintf("%s %s found", cli.tool, v)}
		},
	}
}

// --- Files ---

func checkWorkingDir(dir string) Check {
	return Check{
		Name:     "working-dir",
		Category: "files",
		Critical: true,
		Run: func(_ context.Context, _ CmdExecutor) CheckResult {
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return CheckResult{
					Name:    "working-dir",
					Status:  StatusFail,
					Message: fmt.Sprintf("Working directory %s does not exist", dir),
					Fix:     "Set spec.terraform.workingDir or pass --workdir",
				}
			}
			probe, err := os.CreateTemp(dir, ".zonectl-doctor-*")
			if err != nil {
				return CheckResult{
					Name:    "working-dir",
					Status:  StatusFail,
					Message: fmt.Sprintf("Working directory %s is not writable", dir),
					Fix:     "zonectl writes the rendered configuration there; fix its permissions",
				}
			}
			probe.Close()
			os.Remove(probe.Name())
			abs, _ := filepath.Abs(dir)
			return CheckResult{Name: "working-dir", Status: StatusPass, Message: fmt.Sprintf("Working directory %s is writable", abs)}
		},
	}
}

func checkTemplate(r render.Renderer) Check {
	return Check{
		Name:     "template",
		Category: "files",
		Critical: true,
		Run: func(_ context.Context, _ CmdExecutor) CheckResult {
			if err := r.Check(); err != nil {
				return CheckResult{
					Name:    "template",
					Status:  StatusFail,
					Message: err.Error(),
					Fix:     fmt.Sprintf("Create %s containing %s where the zone goes", r.TemplatePath, r.Placeholder),
				}
			}
			n, _ := r.Count()
			return CheckResult{
				Name:    "template",
				Status:  StatusPass,
				Message: fmt.Sprintf("Template %s has %d placeholder(s)", r.TemplatePath, n),
			}
		},
	}
}

// checkCredentials only looks for the credential; doctor makes no API calls.
func checkCredentials(p config.Provider) Check {
	return Check{
		Name:     "credentials",
		Category: "provider",
		Critical: true,
		Run: func(_ context.Context, _ CmdExecutor) CheckResult {
			if p.Name == config.ProviderStatic {
				return CheckResult{Name: "credentials", Status: StatusSkip, Message: "Static provider needs no credentials"}
			}
			if p.CredentialsFile != "" {
				if _, err := os.Stat(p.CredentialsFile); err != nil {
					return CheckResult{
						Name:    "credentials",
						Status:  StatusFail,
						Message: fmt.Sprintf("Credentials file %s not found", p.CredentialsFile),
						Fix:     "Set spec.provider.credentialsFile or pass --credentials",
					}
				}
				return CheckResult{Name: "credentials", Status: StatusPass, Message: fmt.Sprintf("Credentials file %s found", p.CredentialsFile)}
			}
			if env := ambientCredentialEnv(p.Name); env != "" {
				return CheckResult{Name: "credentials", Status: StatusPass, Message: fmt.Sprintf("Using credentials from %s", env)}
			}
			return CheckResult{
				Name:    "credentials",
				Status:  StatusWarn,
				Message: fmt.Sprintf("No credentials file configured for %s; relying on ambient credentials", p.Name),
				Fix:     "Set spec.provider.credentialsFile or pass --credentials",
			}
		},
	}
}

func ambientCredentialEnv(provider string) string {
	var names []string
	switch provider {
	case config.ProviderGCP:
		names = []string{"GOOGLE_APPLICATION_CREDENTIALS"}
	case config.ProviderAzure:
		names = []string{"AZURE_CLIENT_SECRET", "AZURE_FEDERATED_TOKEN_FILE"}
	case config.ProviderAWS:
		names = []string{"AWS_ACCESS_KEY_ID", "AWS_PROFILE"}
	case config.ProviderHetzner:
		names = []string{"HCLOUD_TOKEN"}
	}
	for _, n := range names {
		if os.Getenv(n) != "" {
			return n
		}
	}
	return ""
}

// --- Helpers ---

// checkToolVersion runs a command, extracts version via regex, and compares to min version.
func checkToolVersion(ctx context.Context, ex CmdExecutor, tool string, args []string, pattern, minVersion, fix string) CheckResult {
	out, err := ex.Run(ctx, tool, args...)
	if err != nil {
		return CheckResult{
			Name:    tool,
			Status:  StatusFail,
			Message: fmt.Sprintf("%s not found or not in PATH", tool),
			Fix:     fix,
		}
	}

	re := regexp.MustCompile(pattern)
	matches := re.FindStringSubmatch(out)
	if len(matches) < 2 {
		return CheckResult{
			Name:    tool,
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s found but could not parse version from output", tool),
		}
	}

	version := matches[1]
	if !semverGTE(version, minVersion) {
		return CheckResult{
			Name:    tool,
			Status:  StatusFail,
			Message: fmt.Sprintf("%s %s found, but >= %s required", tool, version, minVersion),
			Fix:     fix,
		}
	}

	return CheckResult{
		Name:    tool,
		Status:  StatusPass,
		Message: fmt.Sprintf("%s %s", tool, version),
	}
}

// semverGTE returns true if version >= min (simple major.minor.patch comparison).
func semverGTE(version, min string) bool {
	v := parseSemver(version)
	m := parseSemver(min)
	if v[0] != m[0] {
		return v[0] > m[0]
	}
	if v[1] != m[1] {
		return v[1] > m[1]
	}
	return v[2] >= m[2]
}

func parseSemver(s string) [3]int {
	parts := strings.SplitN(s, ".", 3)
	var result [3]int
	for i := 0; i < 3 && i < len(parts); i++ {
		// "1.5.0-rc1" → 1, 5, 0
		numStr := strings.SplitN(parts[i], "-", 2)[0]
		numStr = strings.SplitN(numStr, "+", 2)[0]
		n, _ := strconv.Atoi(numStr)
		result[i] = n
	}
	return result
}
