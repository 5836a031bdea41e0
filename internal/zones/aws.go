package zones

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"github.com/kjourdan1/zonectl/internal/config"
)

// ec2ZoneAPI is the part of ec2.Client used here.
type ec2ZoneAPI interface {
	DescribeAvailabilityZones(ctx context.Context, params *ec2.DescribeAvailabilityZonesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error)
}

// AWSLister lists the available zones of one EC2 region.
type AWSLister struct {
	api   ec2ZoneAPI
	retry RetryConfig
}

// awsAccessKey is the JSON key file format accepted besides the shared
// credentials file.
type awsAccessKey struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	SessionToken    string `json:"sessionToken,omitempty"`
}

// NewAWSLister loads credentials from credentialsFile: a JSON access key file
// when it ends in .json, a shared credentials file otherwise. profile selects
// the shared config profile.
func NewAWSLister(ctx context.Context, credentialsFile, profile, region string, rc RetryConfig) (*AWSLister, error) {
	if region == "" {
		return nil, fmt.Errorf("aws: region is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	switch {
	case credentialsFile == "":
	case strings.HasSuffix(strings.ToLower(credentialsFile), ".json"):
		key, err := loadAWSAccessKey(credentialsFile)
		if err != nil {
			return nil, &AuthenticationError{Provider: config.ProviderAWS, Err: err}
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key.AccessKeyID, key.SecretAccessKey, key.SessionToken)))
	default:
		if _, err := os.Stat(credentialsFile); err != nil {
			return nil, &AuthenticationError{Provider: config.ProviderAWS, Err: fmt.Errorf("reading credentials file: %w", err)}
		}
		opts = append(opts, awsconfig.WithSharedCredentialsFiles([]string{credentialsFile}))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &AuthenticationError{Provider: config.ProviderAWS, Err: err}
	}
	return &AWSLister{api: ec2.NewFromConfig(cfg), retry: rc}, nil
}

func loadAWSAccessKey(path string) (*awsAccessKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	var key awsAccessKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", path, err)
	}
	if key.AccessKeyID == "" || key.SecretAccessKey == "" {
		return nil, fmt.Errorf("credentials file %s needs accessKeyId and secretAccessKey", path)
	}
	return &key, nil
}

// ListZones returns zones in state "available". DescribeAvailabilityZones is
// not paginated, so Collect sees a single page. The region was fixed when the
// client was built.
func (l *AWSLister) ListZones(ctx context.Context, q Query) ([]string, error) {
	return Collect(ctx, config.ProviderAWS, func(ctx context.Context, _ string) ([]string, string, error) {
		out, err := l.api.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
			Filters: []ec2types.Filter{
				{Name: aws.String("state"), Values: []string{"available"}},
			},
		})
		if err != nil {
			return nil, "", classifyAWS(q.Project, err)
		}
		names := make([]string, 0, len(out.AvailabilityZones))
		for _, az := range out.AvailabilityZones {
			if az.ZoneName == nil {
				return nil, "", &TransportError{Provider: config.ProviderAWS, Err: errors.New("availability zone without name")}
			}
			names = append(names, *az.ZoneName)
		}
		return names, "", nil
	}, l.retry)
}

func classifyAWS(profile string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AuthFailure", "InvalidClientTokenId", "UnrecognizedClientException", "SignatureDoesNotMatch", "ExpiredToken":
			return &AuthenticationError{Provider: config.ProviderAWS, Err: err}
		case "UnauthorizedOperation", "AccessDenied", "AccessDeniedException":
			return &AuthorizationError{Provider: config.ProviderAWS, Project: profile, Err: err}
		case "Throttling", "RequestLimitExceeded", "ServiceUnavailable", "InternalError":
			return &TransportError{Provider: config.ProviderAWS, Retryable: true, Err: err}
		}
	}
	var status interface{ HTTPStatusCode() int }
	if errors.As(err, &status) {
		return classifyStatus(config.ProviderAWS, profile, status.HTTPStatusCode(), err)
	}
	return classifyNetwork(config.ProviderAWS, err)
}
