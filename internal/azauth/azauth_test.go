package azauth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sp.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadServicePrincipal_ZonectlFields(t *testing.T) {
	path := writeKeyFile(t, `{"tenantId":"t","clientId":"c","clientSecret":"s"}`)
	sp, err := LoadServicePrincipal(path)
	require.NoError(t, err)
	assert.Equal(t, "t", sp.TenantID)
	assert.Equal(t, "c", sp.ClientID)
	assert.Equal(t, "s", sp.ClientSecret)
}

func TestLoadServicePrincipal_AzCLIOutput(t *testing.T) {
	path := writeKeyFile(t, `{"appId":"app","displayName":"zonectl","password":"pw","tenant":"ten"}`)
	sp, err := LoadServicePrincipal(path)
	require.NoError(t, err)
	assert.Equal(t, "ten", sp.TenantID)
	assert.Equal(t, "app", sp.ClientID)
	assert.Equal(t, "pw", sp.ClientSecret)
}

func TestLoadServicePrincipal_Errors(t *testing.T) {
	_, err := LoadServicePrincipal(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading credentials file")

	_, err = LoadServicePrincipal(writeKeyFile(t, "not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing credentials file")

	_, err = LoadServicePrincipal(writeKeyFile(t, `{"tenantId":"t"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clientId, clientSecret")
}

func TestLogin_KeyFile(t *testing.T) {
	saved := verify
	defer func() { verify = saved }()
	verify = func(context.Context, azcore.TokenCredential) error { return nil }

	cred, err := Login(context.Background(), Options{
		CredentialsFile: writeKeyFile(t, `{"tenantId":"00000000-0000-0000-0000-000000000001","clientId":"c","clientSecret":"s"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "file", cred.Method)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", cred.TenantID)
}

func TestLogin_KeyFileTokenFailure(t *testing.T) {
	saved := verify
	defer func() { verify = saved }()
	verify = func(context.Context, azcore.TokenCredential) error { return errors.New("AADSTS7000215: invalid client secret") }

	_, err := Login(context.Background(), Options{
		CredentialsFile: writeKeyFile(t, `{"tenantId":"00000000-0000-0000-0000-000000000001","clientId":"c","clientSecret":"s"}`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not obtain a token")
}

func TestLogin_NoStrategyWorks(t *testing.T) {
	savedVerify, savedRunner := verify, commandRunner
	defer func() { verify, commandRunner = savedVerify, savedRunner }()
	verify = func(context.Context, azcore.TokenCredential) error { return errors.New("no token") }
	commandRunner = func(string, ...string) ([]byte, error) { return nil, fmt.Errorf("exec: az not found") }
	t.Setenv("AZURE_CLIENT_ID", "")
	t.Setenv("AZURE_TENANT_ID", "")

	_, err := Login(context.Background(), Options{})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestAuthError_Format(t *testing.T) {
	s := (&AuthError{TenantID: "test-tenant-id"}).Error()
	assert.Contains(t, s, "az login --tenant test-tenant-id")
	assert.Contains(t, s, "credentialsFile")

	s = (&AuthError{}).Error()
	assert.Contains(t, s, "<tenant-id>")
}

func TestDetectTenantID(t *testing.T) {
	original := commandRunner
	defer func() { commandRunner = original }()

	commandRunner = func(name string, args ...string) ([]byte, error) {
		return []byte("72f988bf-86f1-41af-91ab-2d7cd011db47\n"), nil
	}
	tid, err := DetectTenantID()
	require.NoError(t, err)
	assert.Equal(t, "72f988bf-86f1-41af-91ab-2d7cd011db47", tid)

	commandRunner = func(name string, args ...string) ([]byte, error) {
		return []byte("  \n"), nil
	}
	_, err = DetectTenantID()
	require.Error(t, err)

	commandRunner = func(name string, args ...string) ([]byte, error) {
		return nil, fmt.Errorf("exec: az not found")
	}
	_, err = DetectTenantID()
	require.Error(t, err)
}

func TestDetectSubscriptionID(t *testing.T) {
	original := GetCommandRunner()
	defer SetCommandRunner(original)

	SetCommandRunner(func(name string, args ...string) ([]byte, error) {
		return []byte("11111111-2222-3333-4444-555555555555\n"), nil
	})
	sid, err := DetectSubscriptionID()
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", sid)
}
