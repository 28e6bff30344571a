package dynamo

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-event-registration/internal/domain"
	"github.com/go-event-registration/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"title": "Go Meetup"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "title"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"title":    "Go Meetup",
		"location": "Berlin",
		"date":     "2025-05-01",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: date < location < title
	assert.Equal(t, "date", ue1.Names["#f0"])
	assert.Equal(t, "location", ue1.Names["#f1"])
	assert.Equal(t, "title", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"waitlistEnabled": true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestBuildAddExpr_WithBump(t *testing.T) {
	ue := buildAddExpr(store.IncrementInput{Field: "currentRegistrations", Delta: -1, Bump: []string{"version"}})
	assert.Equal(t, "ADD #a0 :a0, #a1 :a1", ue.Expr)
	assert.Equal(t, "currentRegistrations", ue.Names["#a0"])
	assert.Equal(t, "version", ue.Names["#a1"])
	assert.Equal(t, "-1", ue.Values[":a0"].(*types.AttributeValueMemberN).Value)
	assert.Equal(t, "1", ue.Values[":a1"].(*types.AttributeValueMemberN).Value)
}

func TestConditionExpr(t *testing.T) {
	cases := []struct {
		name string
		cond *store.Condition
		want string
	}{
		{"not exists", store.NotExists(), "attribute_not_exists(#cpk)"},
		{"exists", store.Exists(), "attribute_exists(#cpk)"},
		{"ceiling", store.LessThanAttr("currentRegistrations", "capacity"), "#cf < #co"},
		{"floor", store.GreaterThan("currentRegistrations", 0), "#cf > :cv"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			names := map[string]string{}
			values := map[string]types.AttributeValue{}
			expr, err := conditionExpr(tc.cond, names, values)
			require.NoError(t, err)
			require.NotNil(t, expr)
			assert.Equal(t, tc.want, *expr)
		})
	}
}

func TestConditionExpr_Nil(t *testing.T) {
	expr, err := conditionExpr(nil, map[string]string{}, map[string]types.AttributeValue{})
	require.NoError(t, err)
	assert.Nil(t, expr)
}

func TestTranslateErr(t *testing.T) {
	assert.NoError(t, translateErr("put", nil))
	assert.ErrorIs(t, translateErr("put", &types.ConditionalCheckFailedException{}), store.ErrConditionFailed)

	err := translateErr("put", errors.New("connection reset"))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorContains(t, err, "connection reset")
}
