// Package azauth resolves the Azure credential used to list availability
// zones.
//
// Authentication strategy (in order):
//  1. Service principal key file (credentialsFile in zonectl.yaml)
//  2. Environment variables (AZURE_CLIENT_ID + AZURE_CLIENT_SECRET + AZURE_TENANT_ID)
//  3. Azure CLI session (az login)
package azauth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/fatih/color"
)

// Credential holds a resolved Azure credential and how it was obtained.
type Credential struct {
	TokenCredential azcore.TokenCredential
	TenantID        string
	Method          string // "file", "environment", "cli"
}

// Options configures the authentication flow.
type Options struct {
	CredentialsFile string // service principal JSON key file (optional)
	TenantID        string // optional; read from the key file or az CLI when empty
	Verbose         bool
}

// ServicePrincipal is the content of a service principal key file. Both the
// zonectl field names and the `az ad sp create-for-rbac` output names are
// accepted.
type ServicePrincipal struct {
	TenantID     string `json:"tenantId"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`

	Tenant   string `json:"tenant"`
	AppID    string `json:"appId"`
	Password string `json:"password"`
}

func (sp *ServicePrincipal) normalize() {
	if sp.TenantID == "" {
		sp.TenantID = sp.Tenant
	}
	if sp.ClientID == "" {
		sp.ClientID = sp.AppID
	}
	if sp.ClientSecret == "" {
		sp.ClientSecret = sp.Password
	}
}

// LoadServicePrincipal reads and checks a service principal key file.
func LoadServicePrincipal(path string) (*ServicePrincipal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file %s: %w", path, err)
	}
	var sp ServicePrincipal
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", path, err)
	}
	sp.normalize()
	var missing []string
	if sp.TenantID == "" {
		missing = append(missing, "tenantId")
	}
	if sp.ClientID == "" {
		missing = append(missing, "clientId")
	}
	if sp.ClientSecret == "" {
		missing = append(missing, "clientSecret")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("credentials file %s is missing %s", path, strings.Join(missing, ", "))
	}
	return &sp, nil
}

// verify checks that a credential can obtain a management token. Tests
// replace it.
var verify = func(ctx context.Context, cred azcore.TokenCredential) error {
	_, err := cred.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{"https://management.azure.com/.default"},
	})
	return err
}

// Login tries each strategy in order and returns the first credential that
// can obtain a token.
func Login(ctx context.Context, opts Options) (*Credential, error) {
	cyan := color.New(color.FgCyan)

	if opts.CredentialsFile != "" {
		sp, err := LoadServicePrincipal(opts.CredentialsFile)
		if err != nil {
			// An explicit key file that cannot be used is a hard failure.
			return nil, err
		}
		cred, err := azidentity.NewClientSecretCredential(sp.TenantID, sp.ClientID, sp.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("building service principal credential: %w", err)
		}
		if err := verify(ctx, cred); err != nil {
			return nil, fmt.Errorf("service principal from %s could not obtain a token: %w", opts.CredentialsFile, err)
		}
		return &Credential{TokenCredential: cred, TenantID: sp.TenantID, Method: "file"}, nil
	}

	if os.Getenv("AZURE_CLIENT_ID") != "" && os.Getenv("AZURE_TENANT_ID") != "" {
		if opts.Verbose {
			cyan.Fprintln(os.Stderr, "   Trying: environment variables (AZURE_CLIENT_ID)...")
		}
		cred, err := azidentity.NewEnvironmentCredential(nil)
		if err == nil {
			if err = verify(ctx, cred); err == nil {
				return &Credential{TokenCredential: cred, TenantID: os.Getenv("AZURE_TENANT_ID"), Method: "environment"}, nil
			}
		}
		if opts.Verbose {
			fmt.Fprintf(os.Stderr, "   ⚠️  Environment credential failed: %v\n", err)
		}
	}

	if opts.Verbose {
		cyan.Fprintln(os.Stderr, "   Trying: Azure CLI (az login)...")
	}
	tenant := opts.TenantID
	if tenant == "" {
		if tid, err := DetectTenantID(); err == nil {
			tenant = tid
		}
	}
	cliCred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{TenantID: tenant})
	if err == nil {
		if err = verify(ctx, cliCred); err == nil {
			return &Credential{TokenCredential: cliCred, TenantID: tenant, Method: "cli"}, nil
		}
	}
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "   ⚠️  Azure CLI credential failed: %v\n", err)
	}

	return nil, &AuthError{TenantID: tenant}
}

// commandRunner abstracts exec.Command for testing.
var commandRunner = func(name string, args ...string) ([]byte, error) {
	return exec.CommandContext(context.Background(), name, args...).Output()
}

// SetCommandRunner replaces the command runner (for testing).
func SetCommandRunner(fn func(string, ...string) ([]byte, error)) {
	commandRunner = fn
}

// GetCommandRunner returns the current command runner (for test save/restore).
func GetCommandRunner() func(string, ...string) ([]byte, error) {
	return commandRunner
}

// DetectTenantID reads the tenant ID from the active Azure CLI session.
func DetectTenantID() (string, error) {
	out, err := commandRunner("az", "account", "show", "--query", "tenantId", "-o", "tsv")
	if err != nil {
		return "", fmt.Errorf("could not detect tenant ID from Azure CLI; run 'az login' first")
	}
	tid := strings.TrimSpace(string(out))
	if tid == "" {
		return "", fmt.Errorf("Azure CLI returned empty tenant ID; run 'az login' first")
	}
	return tid, nil
}

// DetectSubscriptionID returns the default subscription ID from the active
// Azure CLI session. `zonectl init` offers it as the project default.
func DetectSubscriptionID() (string, error) {
	out, err := commandRunner("az", "account", "show", "--query", "id", "-o", "tsv")
	if err != nil {
		return "", fmt.Errorf("could not detect subscription ID from Azure CLI; run 'az login' first")
	}
	sid := strings.TrimSpace(string(out))
	if sid == "" {
		return "", fmt.Errorf("Azure CLI returned empty subscription ID; run 'az login' first")
	}
	return sid, nil
}

// AuthError lists the ways to give zonectl an Azure credential.
type AuthError struct {
	TenantID string
}

func (e *AuthError) Error() string {
	tenant := e.TenantID
	if tenant == "" {
		tenant = "<tenant-id>"
	}
	var sb strings.Builder
	sb.WriteString("Azure authentication failed. No valid credential found.\n\n")
	sb.WriteString("Use ONE of these methods:\n\n")

	sb.WriteString("━━━ Method 1: Service principal key file ━━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString("  az ad sp create-for-rbac --name zonectl --role Reader > sp.json\n")
	sb.WriteString("  # zonectl.yaml: spec.provider.credentialsFile: sp.json\n\n")

	sb.WriteString("━━━ Method 2: Environment variables ━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("  export AZURE_TENANT_ID=%s\n", tenant))
	sb.WriteString("  export AZURE_CLIENT_ID=<app-id>\n")
	sb.WriteString("  export AZURE_CLIENT_SECRET=<secret>\n\n")

	sb.WriteString("━━━ Method 3: Azure CLI ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("  az login --tenant %s\n", tenant))

	return sb.String()
}
