package catalog

import "github.com/leapstack-labs/sqltyper/pkg/token"

// Operator and function nullability classification, kept data-driven in a
// dedicated file rather than hard-coded in inference branches (the same
// shape as the teacher's function catalog: a flat table consulted by name
// or token, never grown by adding more branches to a switch).

// Nullability classifies how a function's result nullability depends on
// its arguments.
type Nullability int

// Nullability kinds.
const (
	// NullSafe means the result is NULL whenever any argument is NULL.
	NullSafe Nullability = iota
	// NeverNull means the result is non-NULL regardless of argument
	// nullability (count, concat, coalesce-with-a-non-null-arg, ...).
	NeverNull
	// Unknown means no classification is known; treated conservatively
	// as possibly-NULL regardless of arguments.
	Unknown
)

// OperatorClasses maps an operator token to its null-safety.
type OperatorClasses map[token.TokenType]bool // true = null-safe

// NullSafe reports whether op is null-safe: op(..., NULL, ...) == NULL for
// a NULL argument in any position.
func (o OperatorClasses) NullSafe(op token.TokenType) bool {
	safe, ok := o[op]
	if !ok {
		return false // unknown operators are treated conservatively
	}
	return safe
}

// DefaultOperatorClasses is the fixed classification from the data model:
// arithmetic, comparison, concatenation, and cast are null-safe; the
// boolean/IS-family operators are not (they map NULL to a non-NULL
// boolean), and AND/OR have their own three-valued-logic rules handled
// directly by the inference engine's NN(W) function rather than here.
var DefaultOperatorClasses = OperatorClasses{
	token.PLUS:       true,
	token.MINUS:      true,
	token.STAR:       true,
	token.SLASH:      true,
	token.PERCENT:    true,
	token.CARET:      true,
	token.LT:         true,
	token.GT:         true,
	token.EQ:         true,
	token.LE:         true,
	token.GE:         true,
	token.NE:         true,
	token.DPIPE:      true,
	token.COLONCOLON: true,

	token.AND: false,
	token.OR:  false,
	token.NOT: false,
	token.IS:  false,
	token.IN:  true, // null-safe on the LHS; RHS elements are handled separately
}

// FunctionClasses maps a lower-cased function name to its classification.
// Functions absent from the table classify as Unknown.
type FunctionClasses map[string]Nullability

// Classify returns the nullability classification for name (case-folded).
func (f FunctionClasses) Classify(name string) Nullability {
	if n, ok := f[normalizeFuncName(name)]; ok {
		return n
	}
	return Unknown
}

func normalizeFuncName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// DefaultFunctionClasses is the fixed function classification table. It is
// intentionally conservative: any aggregate or built-in not listed here
// falls back to Unknown, which the inference engine treats as possibly
// NULL — a sound default per the false-negative-biased policy.
var DefaultFunctionClasses = FunctionClasses{
	// Never-null: the result is guaranteed non-NULL regardless of the
	// nullability of their arguments. coalesce is NOT here: its result is
	// non-NULL only when at least one argument is non-NULL, so it is
	// argument-dependent and handled directly by the inference engine
	// instead of this flat table (see exprNullable's FuncCall case).
	"count":  NeverNull,
	"concat": NeverNull,
	"now":    NeverNull,
	"length": NullSafe,

	// Null-safe: NULL propagates from any argument.
	"upper":     NullSafe,
	"lower":     NullSafe,
	"trim":      NullSafe,
	"ltrim":     NullSafe,
	"rtrim":     NullSafe,
	"substring": NullSafe,
	"substr":    NullSafe,
	"replace":   NullSafe,
	"abs":       NullSafe,
	"round":     NullSafe,
	"floor":     NullSafe,
	"ceil":      NullSafe,
	"ceiling":   NullSafe,
	"trunc":     NullSafe,
	"sqrt":      NullSafe,
	"power":     NullSafe,
	"pow":       NullSafe,
	"bool":      NullSafe,
	"to_char":   NullSafe,
	"to_number": NullSafe,
	"to_date":   NullSafe,
	"extract":   NullSafe,
	"date_trunc": NullSafe,
	"left":      NullSafe,
	"right":     NullSafe,

	// Aggregates: sum/avg/min/max are NULL on an empty/all-NULL group,
	// which is exactly NULL-safe treatment of the underlying expression
	// from the analyzer's point of view (we never see GROUP BY rows at
	// runtime, only the static shape).
	"sum": NullSafe,
	"avg": NullSafe,
	"min": NullSafe,
	"max": NullSafe,
}
