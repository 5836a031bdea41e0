package zones

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"

	"github.com/kjourdan1/zonectl/internal/config"
)

// ── GCP ──────────────────────────────────────────────────────

type fakeGCPPages struct {
	pages  map[string]*compute.ZoneList
	errs   map[string]error
	tokens []string
}

func (f *fakeGCPPages) Page(_ context.Context, project, token string) (*compute.ZoneList, error) {
	f.tokens = append(f.tokens, token)
	if err := f.errs[token]; err != nil {
		return nil, err
	}
	return f.pages[token], nil
}

func gcpZone(name, region string) *compute.Zone {
	return &compute.Zone{
		Name:   name,
		Region: "https://www.googleapis.com/compute/v1/projects/p/regions/" + region,
	}
}

func TestGCPLister_FollowsPageTokens(t *testing.T) {
	fake := &fakeGCPPages{pages: map[string]*compute.ZoneList{
		"": {
			Items:         []*compute.Zone{gcpZone("us-central1-a", "us-central1"), gcpZone("us-central1-b", "us-central1")},
			NextPageToken: "page-2",
		},
		"page-2": {Items: []*compute.Zone{gcpZone("europe-west1-b", "europe-west1")}},
	}}
	l := &GCPLister{pages: fake}

	got, err := l.ListZones(context.Background(), Query{Project: "p"})
	require.NoError(t, err)
	assert.Equal(t, []string{"us-central1-a", "us-central1-b", "europe-west1-b"}, got)
	assert.Equal(t, []string{"", "page-2"}, fake.tokens)
}

func TestGCPLister_RegionFilter(t *testing.T) {
	fake := &fakeGCPPages{pages: map[string]*compute.ZoneList{
		"": {Items: []*compute.Zone{
			gcpZone("us-central1-a", "us-central1"),
			gcpZone("europe-west1-b", "europe-west1"),
			gcpZone("europe-west1-c", "europe-west1"),
		}},
	}}
	l := &GCPLister{pages: fake}

	got, err := l.ListZones(context.Background(), Query{Project: "p", Region: "europe-west1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"europe-west1-b", "europe-west1-c"}, got)
}

func TestGCPLister_ErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(t *testing.T, err error)
	}{
		{
			name: "401",
			err:  &googleapi.Error{Code: http.StatusUnauthorized, Message: "invalid credentials"},
			check: func(t *testing.T, err error) {
				var e *AuthenticationError
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name: "403",
			err:  &googleapi.Error{Code: http.StatusForbidden, Message: "compute.zones.list denied"},
			check: func(t *testing.T, err error) {
				var e *AuthorizationError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "p", e.Project)
			},
		},
		{
			name: "400",
			err:  &googleapi.Error{Code: http.StatusBadRequest, Message: "bad project"},
			check: func(t *testing.T, err error) {
				var e *TransportError
				require.ErrorAs(t, err, &e)
				assert.False(t, e.Retryable)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &GCPLister{pages: &fakeGCPPages{errs: map[string]error{"": tt.err}}}
			got, err := l.ListZones(context.Background(), Query{Project: "p"})
			require.Error(t, err)
			assert.Nil(t, got)
			tt.check(t, err)
		})
	}
}

func TestGCPLister_MalformedItem(t *testing.T) {
	fake := &fakeGCPPages{pages: map[string]*compute.ZoneList{
		"": {Items: []*compute.Zone{{Name: ""}}},
	}}
	_, err := (&GCPLister{pages: fake}).ListZones(context.Background(), Query{Project: "p"})
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestGCPLister_RequiresProject(t *testing.T) {
	_, err := (&GCPLister{pages: &fakeGCPPages{}}).ListZones(context.Background(), Query{})
	require.Error(t, err)
}

func TestNewGCPLister_MissingKeyFile(t *testing.T) {
	_, err := NewGCPLister(context.Background(), filepath.Join(t.TempDir(), "missing.json"), DefaultRetryConfig())
	var e *AuthenticationError
	require.ErrorAs(t, err, &e)
}

// ── Azure ────────────────────────────────────────────────────

type fakeLocationSource struct {
	pages []armsubscriptions.ClientListLocationsResponse
	err   error
}

func (f *fakeLocationSource) NewListLocationsPager(string, *armsubscriptions.ClientListLocationsOptions) *runtime.Pager[armsubscriptions.ClientListLocationsResponse] {
	i := 0
	return runtime.NewPager(runtime.PagingHandler[armsubscriptions.ClientListLocationsResponse]{
		More: func(armsubscriptions.ClientListLocationsResponse) bool {
			return i < len(f.pages)
		},
		Fetcher: func(context.Context, *armsubscriptions.ClientListLocationsResponse) (armsubscriptions.ClientListLocationsResponse, error) {
			if f.err != nil {
				return armsubscriptions.ClientListLocationsResponse{}, f.err
			}
			page := f.pages[i]
			i++
			return page, nil
		},
	})
}

func azureLocation(name string, zones ...string) *armsubscriptions.Location {
	loc := &armsubscriptions.Location{Name: to.Ptr(name)}
	for _, z := range zones {
		loc.AvailabilityZoneMappings = append(loc.AvailabilityZoneMappings, &armsubscriptions.AvailabilityZoneMappings{
			LogicalZone:  to.Ptr(z),
			PhysicalZone: to.Ptr(name + "-az" + z),
		})
	}
	return loc
}

func azurePage(locs ...*armsubscriptions.Location) armsubscriptions.ClientListLocationsResponse {
	return armsubscriptions.ClientListLocationsResponse{
		LocationListResult: armsubscriptions.LocationListResult{Value: locs},
	}
}

func TestAzureLister_ListsLogicalZones(t *testing.T) {
	src := &fakeLocationSource{pages: []armsubscriptions.ClientListLocationsResponse{
		azurePage(azureLocation("westeurope", "1", "2", "3"), azureLocation("westcentralus")),
		azurePage(azureLocation("northeurope", "1")),
	}}
	l := &AzureLister{source: src}

	got, err := l.ListZones(context.Background(), Query{Project: "sub"})
	require.NoError(t, err)
	assert.Equal(t, []string{"westeurope-1", "westeurope-2", "westeurope-3", "northeurope-1"}, got)
}

func TestAzureLister_RegionFilter(t *testing.T) {
	src := &fakeLocationSource{pages: []armsubscriptions.ClientListLocationsResponse{
		azurePage(azureLocation("westeurope", "1", "2"), azureLocation("northeurope", "1")),
	}}
	got, err := (&AzureLister{source: src}).ListZones(context.Background(), Query{Project: "sub", Region: "northeurope"})
	require.NoError(t, err)
	assert.Equal(t, []string{"northeurope-1"}, got)
}

func TestAzureLister_ForbiddenIsAuthorizationError(t *testing.T) {
	src := &fakeLocationSource{
		pages: []armsubscriptions.ClientListLocationsResponse{azurePage()},
		err:   &azcore.ResponseError{StatusCode: http.StatusForbidden, ErrorCode: "AuthorizationFailed"},
	}
	_, err := (&AzureLister{source: src}).ListZones(context.Background(), Query{Project: "sub"})
	var e *AuthorizationError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "sub", e.Project)
}

// ── Hetzner ──────────────────────────────────────────────────

type fakeDatacenters struct {
	pages map[int][]*hcloud.Datacenter
	next  map[int]int
	err   error
	asked []int
}

func (f *fakeDatacenters) List(_ context.Context, opts hcloud.DatacenterListOpts) ([]*hcloud.Datacenter, *hcloud.Response, error) {
	f.asked = append(f.asked, opts.Page)
	if f.err != nil {
		return nil, nil, f.err
	}
	resp := &hcloud.Response{Meta: hcloud.Meta{Pagination: &hcloud.Pagination{Page: opts.Page, NextPage: f.next[opts.Page]}}}
	return f.pages[opts.Page], resp, nil
}

func hetznerDC(name, location string, zone hcloud.NetworkZone) *hcloud.Datacenter {
	return &hcloud.Datacenter{Name: name, Location: &hcloud.Location{Name: location, NetworkZone: zone}}
}

func TestHetznerLister_FollowsPages(t *testing.T) {
	fake := &fakeDatacenters{
		pages: map[int][]*hcloud.Datacenter{
			1: {hetznerDC("fsn1-dc14", "fsn1", hcloud.NetworkZoneEUCentral), hetznerDC("nbg1-dc3", "nbg1", hcloud.NetworkZoneEUCentral)},
			2: {hetznerDC("ash-dc1", "ash", hcloud.NetworkZoneUSEast)},
		},
		next: map[int]int{1: 2},
	}
	got, err := (&HetznerLister{datacenters: fake}).ListZones(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fsn1-dc14", "nbg1-dc3", "ash-dc1"}, got)
	assert.Equal(t, []int{1, 2}, fake.asked)
}

func TestHetznerLister_RegionFilter(t *testing.T) {
	fake := &fakeDatacenters{pages: map[int][]*hcloud.Datacenter{
		1: {hetznerDC("fsn1-dc14", "fsn1", hcloud.NetworkZoneEUCentral), hetznerDC("ash-dc1", "ash", hcloud.NetworkZoneUSEast)},
	}}
	l := &HetznerLister{datacenters: fake}

	got, err := l.ListZones(context.Background(), Query{Region: "us-east"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ash-dc1"}, got)

	got, err = l.ListZones(context.Background(), Query{Region: "fsn1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fsn1-dc14"}, got)
}

func TestHetznerLister_Unauthorized(t *testing.T) {
	fake := &fakeDatacenters{err: hcloud.Error{Code: hcloud.ErrorCodeUnauthorized, Message: "unable to authenticate"}}
	_, err := (&HetznerLister{datacenters: fake}).ListZones(context.Background(), Query{})
	var e *AuthenticationError
	require.ErrorAs(t, err, &e)
	assert.Len(t, fake.asked, 1)
}

func TestHetznerToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(path, []byte("  secret-token\n"), 0o600))

	token, err := hetznerToken(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))
	_, err = hetznerToken(empty)
	require.Error(t, err)

	t.Setenv("HCLOUD_TOKEN", "env-token")
	token, err = hetznerToken("")
	require.NoError(t, err)
	assert.Equal(t, "env-token", token)

	t.Setenv("HCLOUD_TOKEN", "")
	_, err = hetznerToken("")
	require.Error(t, err)
}

// ── AWS ──────────────────────────────────────────────────────

type fakeEC2 struct {
	out   *ec2.DescribeAvailabilityZonesOutput
	err   error
	input *ec2.DescribeAvailabilityZonesInput
}

func (f *fakeEC2) DescribeAvailabilityZones(_ context.Context, in *ec2.DescribeAvailabilityZonesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error) {
	f.input = in
	return f.out, f.err
}

func TestAWSLister_ListsAvailableZones(t *testing.T) {
	fake := &fakeEC2{out: &ec2.DescribeAvailabilityZonesOutput{
		AvailabilityZones: []ec2types.AvailabilityZone{
			{ZoneName: aws.String("eu-west-1a")},
			{ZoneName: aws.String("eu-west-1b")},
		},
	}}
	got, err := (&AWSLister{api: fake}).ListZones(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-west-1a", "eu-west-1b"}, got)

	require.Len(t, fake.input.Filters, 1)
	assert.Equal(t, "state", aws.ToString(fake.input.Filters[0].Name))
	assert.Equal(t, []string{"available"}, fake.input.Filters[0].Values)
}

func TestAWSLister_ErrorClassification(t *testing.T) {
	noSleep(t)

	tests := []struct {
		code  string
		check func(t *testing.T, err error)
	}{
		{"AuthFailure", func(t *testing.T, err error) {
			var e *AuthenticationError
			assert.ErrorAs(t, err, &e)
		}},
		{"UnauthorizedOperation", func(t *testing.T, err error) {
			var e *AuthorizationError
			assert.ErrorAs(t, err, &e)
		}},
		{"RequestLimitExceeded", func(t *testing.T, err error) {
			var e *TransportError
			require.ErrorAs(t, err, &e)
			assert.True(t, e.Retryable)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			fake := &fakeEC2{err: &smithy.GenericAPIError{Code: tt.code, Message: "denied"}}
			_, err := (&AWSLister{api: fake, retry: RetryConfig{MaxAttempts: 1}}).ListZones(context.Background(), Query{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestLoadAWSAccessKey(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "key.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"accessKeyId":"AKIA","secretAccessKey":"s"}`), 0o600))
	key, err := loadAWSAccessKey(good)
	require.NoError(t, err)
	assert.Equal(t, "AKIA", key.AccessKeyID)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"accessKeyId":"AKIA"}`), 0o600))
	_, err = loadAWSAccessKey(bad)
	require.Error(t, err)
}

func TestNewAWSLister_RequiresRegion(t *testing.T) {
	_, err := NewAWSLister(context.Background(), "", "", "", DefaultRetryConfig())
	require.Error(t, err)
}

// ── Factory, static, exclude ─────────────────────────────────

func TestNew_Static(t *testing.T) {
	l, err := New(context.Background(), config.Provider{Name: config.ProviderStatic, Zones: []string{"z1", "z2"}}, DefaultRetryConfig())
	require.NoError(t, err)

	got, err := l.ListZones(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"z1", "z2"}, got)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.Provider{Name: "openstack"}, DefaultRetryConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid provider")
}

func TestStaticLister_ReturnsCopy(t *testing.T) {
	l := NewStaticLister([]string{"a"})
	got, _ := l.ListZones(context.Background(), Query{})
	got[0] = "mutated"

	again, _ := l.ListZones(context.Background(), Query{})
	assert.Equal(t, []string{"a"}, again)
}

func TestExclude(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, Exclude([]string{"a", "b", "c"}, []string{"b", "x"}))
	assert.Equal(t, []string{"a"}, Exclude([]string{"a"}, nil))
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")
	assert.Equal(t, "gcp: authentication failed: boom", (&AuthenticationError{Provider: "gcp", Err: cause}).Error())
	assert.Equal(t, "gcp: not authorized to list zones in p: boom", (&AuthorizationError{Provider: "gcp", Project: "p", Err: cause}).Error())
	assert.Equal(t, "hetzner: not authorized to list zones: boom", (&AuthorizationError{Provider: "hetzner", Err: cause}).Error())
	assert.Equal(t, "aws: listing zones: boom", (&TransportError{Provider: "aws", Err: cause}).Error())
}
