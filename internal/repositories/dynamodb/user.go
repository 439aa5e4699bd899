// Package dynamodb implements repositories.UserRepository on a single
// DynamoDB table keyed by "userId". Users and their name markers live in the
// same table; a marker's key is models.NameMarkerKey(name).
package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"user-registry-api/internal/models"
	"user-registry-api/internal/repositories"
)

// API is the subset of *dynamodb.Client the repository calls
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Cancellation reason codes reported by TransactWriteItems
const (
	reasonConditionalCheckFailed = "ConditionalCheckFailed"
	reasonTransactionConflict    = "TransactionConflict"
)

// markerIndex is the position of the name marker put in the transaction
const markerIndex = 1

// UserRepository is the DynamoDB implementation of repositories.UserRepository
type UserRepository struct {
	client    API
	tableName string
}

// NewUserRepository creates a repository over the given table
func NewUserRepository(client API, tableName string) *UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
	}
}

// Create implements repositories.UserRepository.Create
func (r *UserRepository) Create(ctx context.Context, user *models.User) (repositories.WriteOutcome, error) {
	if err := user.Validate(); err != nil {
		return 0, repositories.ValidationError("user", user.ID, err)
	}

	userItem, err := attributevalue.MarshalMap(user)
	if err != nil {
		return 0, repositories.NewRepositoryError("marshal", "user", user.ID, err)
	}

	markerItem, err := attributevalue.MarshalMap(models.NewNameMarker(user.Name))
	if err != nil {
		return 0, repositories.NewRepositoryError("marshal", "name marker", user.ID, err)
	}

	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(models.AttrUserID))).
		Build()
	if err != nil {
		return 0, repositories.NewRepositoryError("build condition", "name marker", user.ID, err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName: aws.String(r.tableName),
					Item:      userItem,
				},
			},
			{
				Put: &types.Put{
					TableName:                 aws.String(r.tableName),
					Item:                      markerItem,
					ConditionExpression:       cond.Condition(),
					ExpressionAttributeNames:  cond.Names(),
					ExpressionAttributeValues: cond.Values(),
				},
			},
		},
	}

	if _, err := r.client.TransactWriteItems(ctx, input); err != nil {
		if isNameTaken(err) {
			return repositories.WriteConditionFailed, nil
		}
		return 0, repositories.TransactionError("write user", err)
	}

	return repositories.WriteCommitted, nil
}

// isNameTaken reports whether a canceled transaction was rejected because the
// name marker already exists or is being written by a competing transaction
func isNameTaken(err error) bool {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return false
	}

	reasons := canceled.CancellationReasons
	if len(reasons) > markerIndex {
		switch aws.ToString(reasons[markerIndex].Code) {
		case reasonConditionalCheckFailed, reasonTransactionConflict:
			return true
		}
		return false
	}

	for _, reason := range reasons {
		if aws.ToString(reason.Code) == reasonConditionalCheckFailed {
			return true
		}
	}
	return false
}

// GetByID implements repositories.UserRepository.GetByID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	key, err := attributevalue.MarshalMap(map[string]string{models.AttrUserID: id})
	if err != nil {
		return nil, repositories.NewRepositoryError("marshal", "user", id, err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
		// A lookup right after a create must see it.
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, repositories.NewRepositoryError("get", "user", id, err)
	}

	if len(out.Item) == 0 {
		return nil, repositories.NotFoundError("user", id)
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, repositories.NewRepositoryError("unmarshal", "user", id, fmt.Errorf("%w: %v", repositories.ErrCorruptItem, err))
	}

	// Name markers share the key space but are not users.
	if user.Name == "" {
		return nil, repositories.NotFoundError("user", id)
	}

	return &user, nil
}

// FindByName implements repositories.UserRepository.FindByName. The filter is
// applied by DynamoDB after each page is read, so every item in the table is
// consumed from read capacity.
func (r *UserRepository) FindByName(ctx context.Context, name string) ([]*models.User, error) {
	filter, err := expression.NewBuilder().
		WithFilter(expression.Name(models.AttrName).Equal(expression.Value(name))).
		Build()
	if err != nil {
		return nil, repositories.NewRepositoryError("build filter", "user", "", err)
	}

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          filter.Filter(),
		ExpressionAttributeNames:  filter.Names(),
		ExpressionAttributeValues: filter.Values(),
	})

	users := make([]*models.User, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, repositories.NewRepositoryError("scan", "user", "", err)
		}

		var batch []*models.User
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, repositories.NewRepositoryError("unmarshal", "user", "", fmt.Errorf("%w: %v", repositories.ErrCorruptItem, err))
		}
		users = append(users, batch...)
	}

	return users, nil
}

// Close implements io.Closer. The SDK client holds no resources that need
// releasing.
func (r *UserRepository) Close() error {
	return nil
}

var _ repositories.UserRepository = (*UserRepository)(nil)
