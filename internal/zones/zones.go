// Package zones enumerates the availability zones a provisioning run can
// fall back across.
//
// Every provider implements Lister. Pagination is shared through Collect so
// that each provider only describes how to fetch one page; a failure on any
// page fails the whole enumeration.
package zones

import (
	"context"
	"fmt"
	"strings"

	"github.com/kjourdan1/zonectl/internal/config"
)

// Query selects the zones to list.
type Query struct {
	Project string // GCP project, Azure subscription, AWS profile
	Region  string // optional region filter
}

// Lister lists zone names in provider order. The credential is bound when the
// Lister is constructed.
type Lister interface {
	ListZones(ctx context.Context, q Query) ([]string, error)
}

// New builds the Lister for the configured provider, loading its credential.
func New(ctx context.Context, p config.Provider, rc RetryConfig) (Lister, error) {
	switch strings.ToLower(strings.TrimSpace(p.Name)) {
	case config.ProviderGCP:
		return NewGCPLister(ctx, p.CredentialsFile, rc)
	case config.ProviderAzure:
		return NewAzureLister(ctx, p.CredentialsFile, rc)
	case config.ProviderHetzner:
		return NewHetznerLister(p.CredentialsFile, rc)
	case config.ProviderAWS:
		return NewAWSLister(ctx, p.CredentialsFile, p.Project, p.Region, rc)
	case config.ProviderStatic:
		return NewStaticLister(p.Zones), nil
	default:
		return nil, fmt.Errorf("invalid provider %q", p.Name)
	}
}

// Exclude drops the named zones while keeping the order of the rest.
func Exclude(names, excluded []string) []string {
	if len(excluded) == 0 {
		return names
	}
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[e] = true
	}
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if !skip[n] {
			kept = append(kept, n)
		}
	}
	return kept
}
