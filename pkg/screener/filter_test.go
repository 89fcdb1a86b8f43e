package screener

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnd_WrapsLeavesAndNestsNodes(t *testing.T) {
	node := And(
		Col("type").Equals("stock"),
		Or(
			Col("close").GreaterThan(100),
			Col("volume").GreaterThan(1_000_000),
		),
	)

	data, err := json.Marshal(node)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"operator": "and",
		"operands": [
			{"expression": {"left": "type", "operation": "equal", "right": "stock"}},
			{"operation": {
				"operator": "or",
				"operands": [
					{"expression": {"left": "close", "operation": "greater", "right": 100}},
					{"expression": {"left": "volume", "operation": "greater", "right": 1000000}}
				]
			}}
		]
	}`, string(data))
}

func TestOr_PreservesOperandOrder(t *testing.T) {
	node := Or(
		Col("a").Equals(1),
		Col("b").Equals(2),
		Col("c").Equals(3),
	)

	require.Len(t, node.Operands, 3)
	assert.Equal(t, "or", node.Operator)
	assert.Equal(t, "a", node.Operands[0].Leaf.Left)
	assert.Equal(t, "b", node.Operands[1].Leaf.Left)
	assert.Equal(t, "c", node.Operands[2].Leaf.Left)
}

func TestAnd_NestedSameOperatorIsNotFlattened(t *testing.T) {
	inner := And(Col("a").Equals(1), Col("b").Equals(2))
	outer := And(Col("c").Equals(3), inner)

	require.Len(t, outer.Operands, 2)
	assert.Nil(t, outer.Operands[0].Node)
	require.NotNil(t, outer.Operands[1].Node)
	assert.Equal(t, "and", outer.Operands[1].Node.Operator)
	assert.Len(t, outer.Operands[1].Node.Operands, 2)
}

func TestExpression_MarshalEmptyFails(t *testing.T) {
	_, err := json.Marshal(Expression{})
	assert.Error(t, err)
}

func TestFilterOperation_MarshalShape(t *testing.T) {
	data, err := json.Marshal(Col("close").GreaterOrEqual(350))
	require.NoError(t, err)
	assert.JSONEq(t, `{"left": "close", "operation": "egreater", "right": 350}`, string(data))
}
