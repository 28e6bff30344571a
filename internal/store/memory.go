package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Op names a Store operation for error injection.
type Op string

const (
	OpGet       Op = "get"
	OpPut       Op = "put"
	OpDelete    Op = "delete"
	OpIncrement Op = "increment"
	OpUpdate    Op = "update"
	OpQuery     Op = "query"
	OpScan      Op = "scan"
)

// Memory is an in-process Store. Each operation holds a single mutex, which
// gives the same per-item atomicity DynamoDB provides. It backs local runs
// and tests.
type Memory struct {
	mu     sync.Mutex
	items  map[Key]Item
	faults map[Op][]error
}

func NewMemory() *Memory {
	return &Memory{
		items:  make(map[Key]Item),
		faults: make(map[Op][]error),
	}
}

// FailNext makes the next call of op return err without touching any item.
// Repeated calls queue further failures.
func (m *Memory) FailNext(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[op] = append(m.faults[op], err)
}

// Len reports the number of stored items.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// fault must be called with mu held.
func (m *Memory) fault(op Op) error {
	q := m.faults[op]
	if len(q) == 0 {
		return nil
	}
	m.faults[op] = q[1:]
	return q[0]
}

func (m *Memory) Get(_ context.Context, key Key) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpGet); err != nil {
		return nil, err
	}
	item, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return clone(item), nil
}

func (m *Memory) Put(_ context.Context, item Item, cond *Condition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpPut); err != nil {
		return err
	}
	key := ItemKey(item)
	if key.PK == "" || key.SK == "" {
		return fmt.Errorf("put: item is missing %s or %s", AttrPK, AttrSK)
	}
	if err := m.check(key, cond); err != nil {
		return err
	}
	m.items[key] = clone(item)
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key, cond *Condition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpDelete); err != nil {
		return err
	}
	if err := m.check(key, cond); err != nil {
		return err
	}
	delete(m.items, key)
	return nil
}

// Increment follows DynamoDB ADD semantics: a missing item or attribute
// counts as zero.
func (m *Memory) Increment(_ context.Context, in IncrementInput) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpIncrement); err != nil {
		return 0, err
	}
	if err := m.check(in.Key, in.Condition); err != nil {
		return 0, err
	}
	item, ok := m.items[in.Key]
	if !ok {
		item = Item{
			AttrPK: &types.AttributeValueMemberS{Value: in.Key.PK},
			AttrSK: &types.AttributeValueMemberS{Value: in.Key.SK},
		}
	} else {
		item = clone(item)
	}
	cur, _ := numberAttr(item, in.Field)
	next := cur + in.Delta
	item[in.Field] = number(next)
	for _, f := range in.Bump {
		n, _ := numberAttr(item, f)
		item[f] = number(n + 1)
	}
	m.items[in.Key] = item
	return next, nil
}

func (m *Memory) Update(_ context.Context, key Key, updates map[string]interface{}, cond *Condition) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpUpdate); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	if err := m.check(key, cond); err != nil {
		return nil, err
	}
	item, ok := m.items[key]
	if !ok {
		item = Item{
			AttrPK: &types.AttributeValueMemberS{Value: key.PK},
			AttrSK: &types.AttributeValueMemberS{Value: key.SK},
		}
	} else {
		item = clone(item)
	}
	for k, v := range updates {
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		item[k] = av
	}
	m.items[key] = item
	return clone(item), nil
}

func (m *Memory) Query(_ context.Context, in QueryInput) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpQuery); err != nil {
		return nil, err
	}
	pkAttr, skAttr := KeyAttrs(in.Index)
	var out []Item
	for _, item := range m.items {
		if StringAttr(item, pkAttr) != in.PartitionKey {
			continue
		}
		sk, ok := item[skAttr].(*types.AttributeValueMemberS)
		if !ok || !strings.HasPrefix(sk.Value, in.SortKeyPrefix) {
			continue
		}
		out = append(out, clone(item))
	}
	sort.Slice(out, func(i, j int) bool {
		return StringAttr(out[i], skAttr) < StringAttr(out[j], skAttr)
	})
	if in.Limit > 0 && len(out) > int(in.Limit) {
		out = out[:in.Limit]
	}
	return out, nil
}

func (m *Memory) Scan(_ context.Context, in ScanInput) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpScan); err != nil {
		return nil, err
	}
	var out []Item
	for key, item := range m.items {
		if !strings.HasPrefix(key.PK, in.PartitionKeyPrefix) {
			continue
		}
		if in.SortKey != "" && key.SK != in.SortKey {
			continue
		}
		if !matches(item, in.Filters) {
			continue
		}
		out = append(out, clone(item))
	}
	sort.Slice(out, func(i, j int) bool {
		return StringAttr(out[i], AttrPK) < StringAttr(out[j], AttrPK)
	})
	return out, nil
}

// check must be called with mu held.
func (m *Memory) check(key Key, cond *Condition) error {
	if cond == nil {
		return nil
	}
	item, exists := m.items[key]
	var ok bool
	switch cond.Kind {
	case CondNotExists:
		ok = !exists
	case CondExists:
		ok = exists
	case CondLessThanAttr:
		a, aok := numberAttr(item, cond.Field)
		b, bok := numberAttr(item, cond.Other)
		ok = exists && aok && bok && a < b
	case CondGreaterThan:
		a, aok := numberAttr(item, cond.Field)
		ok = exists && aok && a > cond.Value
	default:
		return fmt.Errorf("unknown condition kind %d", cond.Kind)
	}
	if !ok {
		return ErrConditionFailed
	}
	return nil
}

func matches(item Item, filters map[string]string) bool {
	for attr, want := range filters {
		if StringAttr(item, attr) != want {
			return false
		}
	}
	return true
}

func numberAttr(item Item, attr string) (int64, bool) {
	v, ok := item[attr].(*types.AttributeValueMemberN)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v.Value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func number(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}

func clone(item Item) Item {
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
