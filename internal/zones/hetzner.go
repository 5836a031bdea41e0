package zones

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/kjourdan1/zonectl/internal/config"
)

const hetznerPageSize = 50

// hetznerDatacenterPages is the part of hcloud.DatacenterClient used here.
type hetznerDatacenterPages interface {
	List(ctx context.Context, opts hcloud.DatacenterListOpts) ([]*hcloud.Datacenter, *hcloud.Response, error)
}

// HetznerLister lists Hetzner Cloud datacenters ("fsn1-dc14") as zones.
type HetznerLister struct {
	datacenters hetznerDatacenterPages
	retry       RetryConfig
}

// NewHetznerLister reads the API token from credentialsFile, or from
// HCLOUD_TOKEN when no file is configured.
func NewHetznerLister(credentialsFile string, rc RetryConfig) (*HetznerLister, error) {
	token, err := hetznerToken(credentialsFile)
	if err != nil {
		return nil, &AuthenticationError{Provider: config.ProviderHetzner, Err: err}
	}
	client := hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("zonectl", ""))
	return &HetznerLister{datacenters: &client.Datacenter, retry: rc}, nil
}

func hetznerToken(credentialsFile string) (string, error) {
	if credentialsFile == "" {
		token := strings.TrimSpace(os.Getenv("HCLOUD_TOKEN"))
		if token == "" {
			return "", errors.New("no credentials file configured and HCLOUD_TOKEN is not set")
		}
		return token, nil
	}
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", fmt.Errorf("reading credentials file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("credentials file %s is empty", credentialsFile)
	}
	return token, nil
}

// ListZones ignores q.Project; a Hetzner token is already scoped to one
// project. q.Region matches a location name ("fsn1") or network zone
// ("eu-central").
func (l *HetznerLister) ListZones(ctx context.Context, q Query) ([]string, error) {
	return Collect(ctx, config.ProviderHetzner, func(ctx context.Context, token string) ([]string, string, error) {
		page := 1
		if token != "" {
			n, err := strconv.Atoi(token)
			if err != nil {
				return nil, "", &TransportError{Provider: config.ProviderHetzner, Err: fmt.Errorf("bad page token %q", token)}
			}
			page = n
		}

		dcs, resp, err := l.datacenters.List(ctx, hcloud.DatacenterListOpts{
			ListOpts: hcloud.ListOpts{Page: page, PerPage: hetznerPageSize},
		})
		if err != nil {
			return nil, "", classifyHetzner(err)
		}

		names := make([]string, 0, len(dcs))
		for _, dc := range dcs {
			if dc == nil || dc.Name == "" {
				return nil, "", &TransportError{Provider: config.ProviderHetzner, Err: errors.New("datacenter without name")}
			}
			if q.Region != "" && !hetznerInRegion(dc, q.Region) {
				continue
			}
			names = append(names, dc.Name)
		}

		next := ""
		if resp != nil && resp.Meta.Pagination != nil && resp.Meta.Pagination.NextPage > 0 {
			next = strconv.Itoa(resp.Meta.Pagination.NextPage)
		}
		return names, next, nil
	}, l.retry)
}

func hetznerInRegion(dc *hcloud.Datacenter, region string) bool {
	if dc.Location == nil {
		return false
	}
	return dc.Location.Name == region || string(dc.Location.NetworkZone) == region
}

func classifyHetzner(err error) error {
	var herr hcloud.Error
	if errors.As(err, &herr) {
		switch herr.Code {
		case hcloud.ErrorCodeUnauthorized:
			return &AuthenticationError{Provider: config.ProviderHetzner, Err: err}
		case hcloud.ErrorCodeForbidden:
			return &AuthorizationError{Provider: config.ProviderHetzner, Err: err}
		case hcloud.ErrorCodeRateLimitExceeded, hcloud.ErrorCodeServiceError, hcloud.ErrorCodeTimeout:
			return &TransportError{Provider: config.ProviderHetzner, Retryable: true, Err: err}
		default:
			return &TransportError{Provider: config.ProviderHetzner, Err: err}
		}
	}
	return classifyNetwork(config.ProviderHetzner, err)
}
