package zones

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"

	"github.com/kjourdan1/zonectl/internal/azauth"
	"github.com/kjourdan1/zonectl/internal/config"
)

// azureLocationSource is the part of armsubscriptions.Client used here.
type azureLocationSource interface {
	NewListLocationsPager(subscriptionID string, options *armsubscriptions.ClientListLocationsOptions) *runtime.Pager[armsubscriptions.ClientListLocationsResponse]
}

// AzureLister lists availability zones of a subscription's locations as
// "<location>-<logicalZone>", e.g. "westeurope-1".
type AzureLister struct {
	source azureLocationSource
	retry  RetryConfig
}

func NewAzureLister(ctx context.Context, credentialsFile string, rc RetryConfig) (*AzureLister, error) {
	cred, err := azauth.Login(ctx, azauth.Options{CredentialsFile: credentialsFile})
	if err != nil {
		return nil, &AuthenticationError{Provider: config.ProviderAzure, Err: err}
	}
	client, err := armsubscriptions.NewClient(cred.TokenCredential, nil)
	if err != nil {
		return nil, &TransportError{Provider: config.ProviderAzure, Err: err}
	}
	return &AzureLister{source: client, retry: rc}, nil
}

func (l *AzureLister) ListZones(ctx context.Context, q Query) ([]string, error) {
	if q.Project == "" {
		return nil, fmt.Errorf("azure: subscription ID is required")
	}
	pager := l.source.NewListLocationsPager(q.Project, nil)

	// The pager carries its own continuation state; the page counter only
	// gives Collect a token that advances.
	page := 0
	return Collect(ctx, config.ProviderAzure, func(ctx context.Context, _ string) ([]string, string, error) {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, "", classifyAzure(q.Project, err)
		}
		page++

		var names []string
		for _, loc := range resp.Value {
			if loc == nil || loc.Name == nil {
				return nil, "", &TransportError{Provider: config.ProviderAzure, Err: errors.New("location without name")}
			}
			if q.Region != "" && *loc.Name != q.Region {
				continue
			}
			for _, m := range loc.AvailabilityZoneMappings {
				if m == nil || m.LogicalZone == nil {
					continue
				}
				names = append(names, *loc.Name+"-"+*m.LogicalZone)
			}
		}

		next := ""
		if pager.More() {
			next = strconv.Itoa(page)
		}
		return names, next, nil
	}, l.retry)
}

func classifyAzure(subscription string, err error) error {
	var authFailed *azidentity.AuthenticationFailedError
	if errors.As(err, &authFailed) {
		return &AuthenticationError{Provider: config.ProviderAzure, Err: err}
	}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return classifyStatus(config.ProviderAzure, subscription, respErr.StatusCode, err)
	}
	return classifyNetwork(config.ProviderAzure, err)
}
