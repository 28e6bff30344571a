// Package store defines the single-table key-value contract the repositories
// are written against. Every operation touches exactly one item; there are no
// multi-item transactions.
package store

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Table attribute and index names.
const (
	AttrPK     = "PK"
	AttrSK     = "SK"
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
	IndexGSI1  = "GSI1"
)

// ErrConditionFailed is returned when a conditional write is rejected. The
// item is left untouched.
var ErrConditionFailed = errors.New("condition check failed")

// Item is one stored record.
type Item = map[string]types.AttributeValue

// Key addresses a single item by partition and sort key.
type Key struct {
	PK string
	SK string
}

// KeyAttrs returns the partition and sort key attribute names for the
// table (index == "") or for a secondary index.
func KeyAttrs(index string) (string, string) {
	if index == IndexGSI1 {
		return AttrGSI1PK, AttrGSI1SK
	}
	return AttrPK, AttrSK
}

type ConditionKind int

const (
	// CondNotExists holds when the item does not exist.
	CondNotExists ConditionKind = iota
	// CondExists holds when the item exists.
	CondExists
	// CondLessThanAttr holds when Field < Other on the stored item.
	CondLessThanAttr
	// CondGreaterThan holds when Field > Value on the stored item.
	CondGreaterThan
)

// Condition is a precondition evaluated atomically against the target item.
type Condition struct {
	Kind  ConditionKind
	Field string
	Other string
	Value int64
}

func NotExists() *Condition { return &Condition{Kind: CondNotExists} }

func Exists() *Condition { return &Condition{Kind: CondExists} }

func LessThanAttr(field, other string) *Condition {
	return &Condition{Kind: CondLessThanAttr, Field: field, Other: other}
}

func GreaterThan(field string, v int64) *Condition {
	return &Condition{Kind: CondGreaterThan, Field: field, Value: v}
}

// IncrementInput adds Delta to Field in one step. Each attribute in Bump is
// incremented by one in the same operation.
type IncrementInput struct {
	Key       Key
	Field     string
	Delta     int64
	Bump      []string
	Condition *Condition
}

// QueryInput selects items of one partition whose sort key starts with
// SortKeyPrefix, in ascending sort key order. Limit <= 0 means all.
type QueryInput struct {
	Index         string
	PartitionKey  string
	SortKeyPrefix string
	Limit         int32
}

// ScanInput selects items whose partition key starts with PartitionKeyPrefix
// and whose sort key equals SortKey (when set). Filters are string equality
// matches on plain attributes.
type ScanInput struct {
	PartitionKeyPrefix string
	SortKey            string
	Filters            map[string]string
}

// Store is the key-value backend. Get returns a nil Item when the key is
// absent. Conditional operations return ErrConditionFailed when the condition
// does not hold; backend failures wrap domain.ErrStoreUnavailable.
type Store interface {
	Get(ctx context.Context, key Key) (Item, error)
	Put(ctx context.Context, item Item, cond *Condition) error
	Delete(ctx context.Context, key Key, cond *Condition) error
	Increment(ctx context.Context, in IncrementInput) (int64, error)
	Update(ctx context.Context, key Key, updates map[string]interface{}, cond *Condition) (Item, error)
	Query(ctx context.Context, in QueryInput) ([]Item, error)
	Scan(ctx context.Context, in ScanInput) ([]Item, error)
}

// ItemKey extracts the primary key of an item.
func ItemKey(item Item) Key {
	return Key{PK: StringAttr(item, AttrPK), SK: StringAttr(item, AttrSK)}
}

// StringAttr returns the string value of attr, or "" when it is missing or
// not a string.
func StringAttr(item Item, attr string) string {
	if v, ok := item[attr].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
