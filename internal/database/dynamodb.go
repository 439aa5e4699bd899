package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"user-registry-api/internal/config"
)

// Static credentials accepted by DynamoDB Local
const (
	localAccessKeyID     = "local"
	localSecretAccessKey = "local"
)

// Seams for tests.
var (
	loadDefaultAWSConfig      = awsconfig.LoadDefaultConfig
	newDynamoDBClientFromConf = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) *dynamodb.Client {
		return dynamodb.NewFromConfig(cfg, optFns...)
	}
)

// NewDynamoDBClient builds the DynamoDB client for the configured profile.
// The dev profile targets a local endpoint with static credentials; every
// other profile uses the SDK default credential chain, which reads the
// execution role credentials Lambda exports into the environment.
func NewDynamoDBClient(ctx context.Context, cfg config.StoreConfig) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.IsLocalProfile() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(localAccessKeyID, localSecretAccessKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := newDynamoDBClientFromConf(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return client, nil
}
