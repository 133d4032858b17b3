package predicate

import (
	"fmt"
	"strings"

	"github.com/leengari/mini-sql/internal/domain/data"
)

// Operator is a comparison operator allowed in a WHERE clause
type Operator string

const (
	OpEq  Operator = "="
	OpNe  Operator = "!="
	OpLt  Operator = "<"
	OpGt  Operator = ">"
	OpLte Operator = "<="
	OpGte Operator = ">="
)

// ParseOperator validates an operator token. "<>" is accepted as "!=".
func ParseOperator(s string) (Operator, error) {
	switch op := Operator(strings.TrimSpace(s)); op {
	case OpEq, OpNe, OpLt, OpGt, OpLte, OpGte:
		return op, nil
	case "<>":
		return OpNe, nil
	default:
		return "", fmt.Errorf("unsupported operator: %q", s)
	}
}

// Predicate is a single (column, operator, literal) condition
type Predicate struct {
	Column string
	Op     Operator
	Value  any
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %v", p.Column, p.Op, p.Value)
}

// Func tests whether a row matches
type Func func(data.Row) bool

// Build turns a predicate into a row filter.
// A row whose column is absent or null never matches.
func Build(p Predicate) Func {
	return func(row data.Row) bool {
		val, ok := row[p.Column]
		if !ok || val == nil {
			return false
		}
		return Compare(val, p.Op, p.Value)
	}
}

// Compare evaluates a <op> b under the values' native ordering:
// numeric for integers, lexicographic for strings.
// Mismatched or unsupported types never match.
func Compare(a any, op Operator, b any) bool {
	if ai, ok := toInt64(a); ok {
		bi, ok := toInt64(b)
		if !ok {
			return false
		}
		return holds(cmpInt(ai, bi), op)
	}

	as, ok := a.(string)
	if !ok {
		return false
	}
	bs, ok := b.(string)
	if !ok {
		return false
	}
	return holds(strings.Compare(as, bs), op)
}

func holds(c int, op Operator) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpGt:
		return c > 0
	case OpLte:
		return c <= 0
	case OpGte:
		return c >= 0
	}
	return false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	}
	return 0, false
}
