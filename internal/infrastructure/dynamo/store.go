package dynamo

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-event-registration/internal/store"
)

// API is the subset of *dynamodb.Client the store uses.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ store.Store = (*Store)(nil)

// Store implements store.Store on a single DynamoDB table.
type Store struct {
	client    API
	tableName string
}

func NewStore(client API, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

// Get uses a strongly consistent read so a write is visible to the next
// admission decision.
func (s *Store) Get(ctx context.Context, key store.Key) (store.Item, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            compositeKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, translateErr("get item", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return out.Item, nil
}

func (s *Store) Put(ctx context.Context, item store.Item, cond *store.Condition) error {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	ce, err := conditionExpr(cond, names, values)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.tableName),
		Item:                      item,
		ConditionExpression:       ce,
		ExpressionAttributeNames:  nilIfEmpty(names),
		ExpressionAttributeValues: nilIfEmpty(values),
	})
	return translateErr("put item", err)
}

func (s *Store) Delete(ctx context.Context, key store.Key, cond *store.Condition) error {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	ce, err := conditionExpr(cond, names, values)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       compositeKey(key),
		ConditionExpression:       ce,
		ExpressionAttributeNames:  nilIfEmpty(names),
		ExpressionAttributeValues: nilIfEmpty(values),
	})
	return translateErr("delete item", err)
}

func (s *Store) Increment(ctx context.Context, in store.IncrementInput) (int64, error) {
	ue := buildAddExpr(in)
	ce, err := conditionExpr(in.Condition, ue.Names, ue.Values)
	if err != nil {
		return 0, err
	}
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       compositeKey(in.Key),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       ce,
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, translateErr("increment", err)
	}
	n, ok := out.Attributes[in.Field].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("increment: %s missing from response", in.Field)
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("increment: parse %s: %w", in.Field, err)
	}
	return v, nil
}

func (s *Store) Update(ctx context.Context, key store.Key, updates map[string]interface{}, cond *store.Condition) (store.Item, error) {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return nil, err
	}
	ce, err := conditionExpr(cond, ue.Names, ue.Values)
	if err != nil {
		return nil, err
	}
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       compositeKey(key),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       ce,
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, translateErr("update item", err)
	}
	return out.Attributes, nil
}

// Query follows LastEvaluatedKey until the partition is exhausted or Limit
// items have been collected.
func (s *Store) Query(ctx context.Context, in store.QueryInput) ([]store.Item, error) {
	pkAttr, skAttr := store.KeyAttrs(in.Index)
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("#pk = :pk AND begins_with(#sk, :sk)"),
		ExpressionAttributeNames: map[string]string{
			"#pk": pkAttr,
			"#sk": skAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: in.PartitionKey},
			":sk": &types.AttributeValueMemberS{Value: in.SortKeyPrefix},
		},
		ScanIndexForward: aws.Bool(true),
	}
	if in.Index != "" {
		input.IndexName = aws.String(in.Index)
	} else {
		input.ConsistentRead = aws.Bool(true)
	}
	if in.Limit > 0 {
		input.Limit = aws.Int32(in.Limit)
	}

	var items []store.Item
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, translateErr("query", err)
		}
		items = append(items, out.Items...)
		if in.Limit > 0 && len(items) >= int(in.Limit) {
			return items[:in.Limit], nil
		}
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (s *Store) Scan(ctx context.Context, in store.ScanInput) ([]store.Item, error) {
	names := map[string]string{"#pk": store.AttrPK}
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: in.PartitionKeyPrefix},
	}
	expr := "begins_with(#pk, :pk)"
	if in.SortKey != "" {
		names["#sk"] = store.AttrSK
		values[":sk"] = &types.AttributeValueMemberS{Value: in.SortKey}
		expr += " AND #sk = :sk"
	}
	attrs := make([]string, 0, len(in.Filters))
	for a := range in.Filters {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)
	for i, a := range attrs {
		nameKey := fmt.Sprintf("#x%d", i)
		valueKey := fmt.Sprintf(":x%d", i)
		names[nameKey] = a
		values[valueKey] = &types.AttributeValueMemberS{Value: in.Filters[a]}
		expr += fmt.Sprintf(" AND %s = %s", nameKey, valueKey)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(s.tableName),
		FilterExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
	var items []store.Item
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, translateErr("scan", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
