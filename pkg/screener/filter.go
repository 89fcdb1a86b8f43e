package screener

import (
	"encoding/json"
	"errors"
)

// Op identifies a predicate operation understood by the scan API.
type Op string

// Predicate operations. The shape of a FilterOperation's Right operand is
// fixed by the operation: scalar for comparisons, a two-element pair for
// the range forms, a list for the membership forms.
const (
	OpGreater       Op = "greater"
	OpEGreater      Op = "egreater"
	OpLess          Op = "less"
	OpELess         Op = "eless"
	OpEqual         Op = "equal"
	OpNEqual        Op = "nequal"
	OpInRange       Op = "in_range"
	OpNotInRange    Op = "not_in_range"
	OpMatch         Op = "match" // LOWER(col) LIKE '%pattern%'
	OpCrosses       Op = "crosses"
	OpCrossesAbove  Op = "crosses_above"
	OpCrossesBelow  Op = "crosses_below"
	OpAbovePct      Op = "above%"
	OpBelowPct      Op = "below%"
	OpInRangePct    Op = "in_range%"
	OpNotInRangePct Op = "not_in_range%"
	OpHas           Op = "has"         // set contains one of the values
	OpHasNoneOf     Op = "has_none_of" // set contains none of the values
)

// ops enumerates every operation the API accepts.
var ops = map[Op]bool{
	OpGreater: true, OpEGreater: true, OpLess: true, OpELess: true,
	OpEqual: true, OpNEqual: true, OpInRange: true, OpNotInRange: true,
	OpMatch: true, OpCrosses: true, OpCrossesAbove: true, OpCrossesBelow: true,
	OpAbovePct: true, OpBelowPct: true, OpInRangePct: true, OpNotInRangePct: true,
	OpHas: true, OpHasNoneOf: true,
}

// Valid reports whether o is an operation the scan API accepts.
func (o Op) Valid() bool { return ops[o] }

// FilterOperation is a single predicate on one field. Left is always a
// field identifier; Right is the operand, shaped per Operation.
type FilterOperation struct {
	Left      string `json:"left"`
	Operation Op     `json:"operation"`
	Right     any    `json:"right"`
}

// Operand is an input to And and Or: either a FilterOperation leaf or a
// nested Node. The two are distinguished at construction time, not by
// inspecting their shape later.
type Operand interface {
	expression() Expression
}

func (f FilterOperation) expression() Expression { return Expression{Leaf: &f} }

func (n Node) expression() Expression { return Expression{Node: &n} }

// Expression is one operand of a Node: exactly one of Leaf and Node is
// set. Leaves marshal as {"expression": ...}, nested nodes as
// {"operation": {"operator": ..., "operands": ...}}.
type Expression struct {
	Leaf *FilterOperation
	Node *Node
}

// MarshalJSON emits the one-key envelope the scan API expects.
func (e Expression) MarshalJSON() ([]byte, error) {
	switch {
	case e.Leaf != nil:
		return json.Marshal(struct {
			Expression *FilterOperation `json:"expression"`
		}{e.Leaf})
	case e.Node != nil:
		return json.Marshal(struct {
			Operation *Node `json:"operation"`
		}{e.Node})
	}
	return nil, errors.New("screener: expression has neither a leaf nor a node")
}

// Node is a boolean combination of predicates and nested combinations.
// Operand order is preserved; nested same-operator nodes are not
// flattened.
type Node struct {
	Operator string       `json:"operator"` // "and" | "or"
	Operands []Expression `json:"operands"`
}

// And combines the operands under the "and" operator.
func And(operands ...Operand) Node { return newNode("and", operands) }

// Or combines the operands under the "or" operator.
func Or(operands ...Operand) Node { return newNode("or", operands) }

func newNode(operator string, operands []Operand) Node {
	exprs := make([]Expression, 0, len(operands))
	for _, op := range operands {
		exprs = append(exprs, op.expression())
	}
	return Node{Operator: operator, Operands: exprs}
}
