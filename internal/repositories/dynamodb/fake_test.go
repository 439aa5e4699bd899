package dynamodb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeTable emulates the parts of a DynamoDB table the repository relies on:
// transactional puts guarded by attribute_not_exists, key lookups, and paged
// scans with a single equality filter applied after the page is read.
type fakeTable struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int

	transactCalls []*dynamodb.TransactWriteItemsInput
	getCalls      []*dynamodb.GetItemInput
	scanCalls     []*dynamodb.ScanInput

	transactErr error
	getErr      error
	scanErr     error
}

func newFakeTable() *fakeTable {
	return &fakeTable{
		items:    make(map[string]map[string]types.AttributeValue),
		pageSize: 100,
	}
}

func keyOf(item map[string]types.AttributeValue) string {
	if s, ok := item["userId"].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeTable) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transactCalls = append(f.transactCalls, in)
	if f.transactErr != nil {
		return nil, f.transactErr
	}

	reasons := make([]types.CancellationReason, len(in.TransactItems))
	canceled := false
	for i, item := range in.TransactItems {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
		put := item.Put
		if put == nil || put.ConditionExpression == nil {
			continue
		}
		if !strings.Contains(*put.ConditionExpression, "attribute_not_exists") {
			continue
		}
		if _, exists := f.items[keyOf(put.Item)]; exists {
			reasons[i] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
			canceled = true
		}
	}

	if canceled {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled, please refer cancellation reasons for specific reasons"),
			CancellationReasons: reasons,
		}
	}

	for _, item := range in.TransactItems {
		f.items[keyOf(item.Put.Item)] = item.Put.Item
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeTable) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls = append(f.getCalls, in)
	if f.getErr != nil {
		return nil, f.getErr
	}

	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeTable) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scanCalls = append(f.scanCalls, in)
	if f.scanErr != nil {
		return nil, f.scanErr
	}

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := keyOf(in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}

	end := start + f.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		item := f.items[k]
		if matchesFilter(in, item) {
			out.Items = append(out.Items, item)
		}
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}

// matchesFilter evaluates "#n = :v" style filters with one name and one value
func matchesFilter(in *dynamodb.ScanInput, item map[string]types.AttributeValue) bool {
	if in.FilterExpression == nil {
		return true
	}

	var attr string
	for _, name := range in.ExpressionAttributeNames {
		attr = name
	}
	var want string
	for _, v := range in.ExpressionAttributeValues {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			want = s.Value
		}
	}

	got, ok := item[attr].(*types.AttributeValueMemberS)
	return ok && got.Value == want
}
