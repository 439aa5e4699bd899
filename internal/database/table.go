package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"

	"user-registry-api/internal/models"
)

// TableAPI is the subset of *dynamodb.Client used to provision the table
type TableAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// EnsureTable creates the user table keyed by userId if it does not exist
// and waits until it is active. It reports whether the table was created.
func EnsureTable(ctx context.Context, client TableAPI, tableName string, maxWait time.Duration) (bool, error) {
	logger := logrus.WithField("table", tableName)

	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)})
	if err == nil {
		logger.Info("Table already exists")
		return false, nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return false, fmt.Errorf("failed to describe table %s: %w", tableName, err)
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(models.AttrUserID), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(models.AttrUserID), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			logger.Info("Table is being created by another caller")
		} else {
			return false, fmt.Errorf("failed to create table %s: %w", tableName, err)
		}
	}

	if maxWait > 0 {
		waiter := dynamodb.NewTableExistsWaiter(client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, maxWait); err != nil {
			return false, fmt.Errorf("table %s did not become active: %w", tableName, err)
		}
	}

	logger.Info("Table created")
	return true, nil
}
