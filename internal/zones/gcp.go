package zones

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"

	"cloud.google.com/go/auth"
	"golang.org/x/oauth2"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/kjourdan1/zonectl/internal/config"
)

// gcpZonePages fetches one page of the Compute Engine zones.list call.
type gcpZonePages interface {
	Page(ctx context.Context, project, token string) (*compute.ZoneList, error)
}

type computeZonePages struct {
	svc *compute.Service
}

func (c computeZonePages) Page(ctx context.Context, project, token string) (*compute.ZoneList, error) {
	call := c.svc.Zones.List(project).Context(ctx)
	if token != "" {
		call = call.PageToken(token)
	}
	return call.Do()
}

// GCPLister lists Compute Engine zones for a project.
type GCPLister struct {
	pages gcpZonePages
	retry RetryConfig
}

// NewGCPLister authenticates with a service account key file. An empty path
// falls back to application default credentials.
func NewGCPLister(ctx context.Context, credentialsFile string, rc RetryConfig) (*GCPLister, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			return nil, &AuthenticationError{Provider: config.ProviderGCP, Err: fmt.Errorf("reading credentials file: %w", err)}
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := compute.NewService(ctx, opts...)
	if err != nil {
		return nil, &AuthenticationError{Provider: config.ProviderGCP, Err: err}
	}
	return &GCPLister{pages: computeZonePages{svc: svc}, retry: rc}, nil
}

func (l *GCPLister) ListZones(ctx context.Context, q Query) ([]string, error) {
	if q.Project == "" {
		return nil, fmt.Errorf("gcp: project is required")
	}
	return Collect(ctx, config.ProviderGCP, func(ctx context.Context, token string) ([]string, string, error) {
		list, err := l.pages.Page(ctx, q.Project, token)
		if err != nil {
			return nil, "", classifyGCP(q.Project, err)
		}
		if list == nil {
			return nil, "", &TransportError{Provider: config.ProviderGCP, Err: errors.New("empty response")}
		}
		names := make([]string, 0, len(list.Items))
		for _, z := range list.Items {
			if z == nil || z.Name == "" {
				return nil, "", &TransportError{Provider: config.ProviderGCP, Err: errors.New("zone item without name")}
			}
			// Zone.Region is a resource URL; its last segment is the region name.
			if q.Region != "" && path.Base(z.Region) != q.Region {
				continue
			}
			names = append(names, z.Name)
		}
		return names, list.NextPageToken, nil
	}, l.retry)
}

func classifyGCP(project string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return classifyStatus(config.ProviderGCP, project, gerr.Code, err)
	}
	// A rejected key fails at the token endpoint, before zones.list is sent.
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return classifyTokenFailure(authErr.Response, err)
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return classifyTokenFailure(retrieveErr.Response, err)
	}
	return classifyNetwork(config.ProviderGCP, err)
}

// classifyTokenFailure treats every token endpoint answer as a credential
// problem except throttling and server faults.
func classifyTokenFailure(resp *http.Response, err error) error {
	if resp != nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError) {
		return &TransportError{Provider: config.ProviderGCP, Retryable: true, Err: err}
	}
	return &AuthenticationError{Provider: config.ProviderGCP, Err: err}
}
