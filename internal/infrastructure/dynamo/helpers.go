package dynamo

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-event-registration/internal/domain"
	"github.com/go-event-registration/internal/store"
)

// compositeKey builds a DynamoDB primary key with two string attributes (PK + SK).
func compositeKey(k store.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		store.AttrPK: &types.AttributeValueMemberS{Value: k.PK},
		store.AttrSK: &types.AttributeValueMemberS{Value: k.SK},
	}
}

type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET expression.
// Fields are emitted in sorted order so the expression is deterministic.
func buildUpdateExpr(updates map[string]interface{}) (*updateExpr, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ue := &updateExpr{
		Names:  make(map[string]string, len(keys)),
		Values: make(map[string]types.AttributeValue, len(keys)),
	}
	parts := make([]string, 0, len(keys))
	for i, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(updates[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		ue.Names[nameKey] = k
		ue.Values[valueKey] = av
		parts = append(parts, fmt.Sprintf("%s = %s", nameKey, valueKey))
	}
	ue.Expr = "SET " + strings.Join(parts, ", ")
	return ue, nil
}

// buildAddExpr produces "ADD #a0 :a0, #a1 :a1" for an increment and its bumped
// attributes.
func buildAddExpr(in store.IncrementInput) *updateExpr {
	ue := &updateExpr{
		Names: map[string]string{"#a0": in.Field},
		Values: map[string]types.AttributeValue{
			":a0": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", in.Delta)},
		},
	}
	parts := []string{"#a0 :a0"}
	for i, f := range in.Bump {
		nameKey := fmt.Sprintf("#a%d", i+1)
		valueKey := fmt.Sprintf(":a%d", i+1)
		ue.Names[nameKey] = f
		ue.Values[valueKey] = &types.AttributeValueMemberN{Value: "1"}
		parts = append(parts, nameKey+" "+valueKey)
	}
	ue.Expr = "ADD " + strings.Join(parts, ", ")
	return ue
}

// conditionExpr renders cond and merges its placeholders into names/values.
// Placeholders use a #c/:c prefix so they never collide with update ones.
func conditionExpr(cond *store.Condition, names map[string]string, values map[string]types.AttributeValue) (*string, error) {
	if cond == nil {
		return nil, nil
	}
	var expr string
	switch cond.Kind {
	case store.CondNotExists:
		names["#cpk"] = store.AttrPK
		expr = "attribute_not_exists(#cpk)"
	case store.CondExists:
		names["#cpk"] = store.AttrPK
		expr = "attribute_exists(#cpk)"
	case store.CondLessThanAttr:
		names["#cf"] = cond.Field
		names["#co"] = cond.Other
		expr = "#cf < #co"
	case store.CondGreaterThan:
		names["#cf"] = cond.Field
		values[":cv"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", cond.Value)}
		expr = "#cf > :cv"
	default:
		return nil, fmt.Errorf("unknown condition kind %d", cond.Kind)
	}
	return &expr, nil
}

// translateErr maps SDK errors onto the store contract.
func translateErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return store.ErrConditionFailed
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// nilIfEmpty keeps empty expression maps out of requests; DynamoDB rejects them.
func nilIfEmpty[M ~map[K]V, K comparable, V any](m M) M {
	if len(m) == 0 {
		return nil
	}
	return m
}
