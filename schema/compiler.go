package schema

import (
	"fmt"
	"math"

	"dvl/span"
	"dvl/validate"
	"dvl/value"
)

// compiledValue is the small internal sum the compiler passes around while
// lowering the AST. A range literal is a first-class AST node but only
// becomes a validator when applied as an array index or numeric
// constraint; until then it stays a Range so `1..10` can be reused as
// either.
type compiledValue struct {
	kind      compiledKind
	number    float64
	rangeLo   *float64
	rangeHi   *float64
	inclusive bool
	validator validate.Validator
}

type compiledKind int

const (
	compiledNumber compiledKind = iota
	compiledRange
	compiledValidator
)

// Env maps identifier names to already-compiled values. Compile always
// starts from DefaultEnv(); it takes no caller-supplied environment.
type Env map[string]compiledValue

// DefaultEnv returns the built-in bindings every DVL schema compiles
// against: string, number, integer, bool, null, any. integer checks
// Trunc(v) == v on the parsed float64, so values beyond 2^53 that happen
// to round-trip through a float inexactly can't be told apart from a
// neighboring integer; every number in this pipeline is already a
// float64 by the time it reaches here, so there's no wider type to
// compare against instead.
func DefaultEnv() Env {
	mk := func(fn validate.PredicateFunc) compiledValue {
		return compiledValue{kind: compiledValidator, validator: validate.PredicateValidator{Predicate: fn}}
	}

	return Env{
		"string": mk(expectKind(value.KindString)),
		"number": mk(expectKind(value.KindNumber)),
		"bool":   mk(expectKind(value.KindBool)),
		"null":   mk(expectKind(value.KindNull)),
		"any":    mk(func(v value.Value[span.SpanSet]) string { return "" }),
		"integer": mk(func(v value.Value[span.SpanSet]) string {
			if v.Kind != value.KindNumber || math.Trunc(v.Number) != v.Number {
				return fmt.Sprintf("Expected Integer, found %s", v.Kind)
			}
			return ""
		}),
	}
}

func expectKind(k value.Kind) validate.PredicateFunc {
	return func(v value.Value[span.SpanSet]) string {
		if v.Kind != k {
			return fmt.Sprintf("Expected %s, found %s", k, v.Kind)
		}
		return ""
	}
}

// Compile parses and lowers DVL source text into a runnable validator.
func Compile(source, filename string) (validate.Validator, []ParseError) {
	ast, errs := Parse(source, filename)
	if len(errs) > 0 {
		return nil, errs
	}
	c := &compiler{env: DefaultEnv()}
	v := c.compile(ast)
	if c.err != nil {
		return nil, []ParseError{*c.err}
	}
	validator, convErr := toValidator(v)
	if convErr != "" {
		return nil, []ParseError{{Message: convErr, Span: exprSpan(ast)}}
	}
	return validator, nil
}

type compiler struct {
	env Env
	err *ParseError
}

func (c *compiler) compile(e Expr) compiledValue {
	if c.err != nil {
		return compiledValue{}
	}
	switch n := e.(type) {
	case Number:
		return compiledValue{kind: compiledNumber, number: n.Value}

	case Ident:
		v, ok := c.env[n.Name]
		if !ok {
			c.err = &ParseError{Message: fmt.Sprintf("unknown identifier %q", n.Name), Span: n.Span}
			return compiledValue{}
		}
		return v

	case RangeExpr:
		var lo, hi *float64
		if n.Start != nil {
			x := c.compileAsNumber(n.Start)
			if c.err != nil {
				return compiledValue{}
			}
			lo = &x
		}
		if n.End != nil {
			x := c.compileAsNumber(n.End)
			if c.err != nil {
				return compiledValue{}
			}
			hi = &x
		}
		return compiledValue{kind: compiledRange, rangeLo: lo, rangeHi: hi, inclusive: n.Inclusive}

	case ArrayExpr:
		elemVal := c.compile(n.Element)
		if c.err != nil {
			return compiledValue{}
		}
		elemValidator, errMsg := toValidator(elemVal)
		if errMsg != "" {
			c.err = &ParseError{Message: errMsg, Span: n.Span}
			return compiledValue{}
		}
		av := validate.ArrayValidator{Element: elemValidator}
		if n.Index != nil {
			idxVal := c.compile(n.Index)
			if c.err != nil {
				return compiledValue{}
			}
			applyLengthBound(&av, idxVal)
		}
		return compiledValue{kind: compiledValidator, validator: av}

	case ObjectExpr:
		var fields []validate.ObjectField
		open := false
		for _, rec := range n.Records {
			if rec.IsAnyKey {
				open = true
				continue
			}
			fieldVal := c.compile(rec.Value)
			if c.err != nil {
				return compiledValue{}
			}
			fieldValidator, errMsg := toValidator(fieldVal)
			if errMsg != "" {
				c.err = &ParseError{Message: errMsg, Span: rec.KeySpan}
				return compiledValue{}
			}
			fields = append(fields, validate.ObjectField{
				Name:     rec.Key,
				Optional: rec.Optional,
				Docs:     rec.Docs,
				Value:    fieldValidator,
			})
		}
		return compiledValue{kind: compiledValidator, validator: validate.ObjectValidator{Fields: fields, Open: open}}

	case UnionExpr:
		cases := make([]validate.Validator, 0, len(n.Cases))
		for _, caseExpr := range n.Cases {
			caseVal := c.compile(caseExpr)
			if c.err != nil {
				return compiledValue{}
			}
			caseValidator, errMsg := toValidator(caseVal)
			if errMsg != "" {
				c.err = &ParseError{Message: errMsg, Span: n.Span}
				return compiledValue{}
			}
			cases = append(cases, caseValidator)
		}
		return compiledValue{kind: compiledValidator, validator: validate.OrValidator{Cases: cases}}

	default:
		c.err = &ParseError{Message: "unsupported schema expression"}
		return compiledValue{}
	}
}

func (c *compiler) compileAsNumber(e Expr) float64 {
	v := c.compile(e)
	if c.err != nil {
		return 0
	}
	if v.kind != compiledNumber {
		c.err = &ParseError{Message: "expected a numeric literal", Span: exprSpan(e)}
		return 0
	}
	return v.number
}

func exprSpan(e Expr) span.Span {
	switch n := e.(type) {
	case Ident:
		return n.Span
	case Number:
		return n.Span
	case RangeExpr:
		return n.Span
	case ArrayExpr:
		return n.Span
	case ObjectExpr:
		return n.Span
	case UnionExpr:
		return n.Span
	default:
		return span.Span{}
	}
}

// toValidator converts a compiledValue that must denote a validator,
// turning a bare Range into a numeric-range predicate on demand.
func toValidator(v compiledValue) (validate.Validator, string) {
	switch v.kind {
	case compiledValidator:
		return v.validator, ""
	case compiledRange:
		lo, hi, inclusive := v.rangeLo, v.rangeHi, v.inclusive
		return validate.PredicateValidator{Predicate: func(in value.Value[span.SpanSet]) string {
			if in.Kind != value.KindNumber {
				return fmt.Sprintf("Expected Number, found %s", in.Kind)
			}
			if lo != nil && in.Number < *lo {
				return fmt.Sprintf("Expected a number >= %v, found %v", *lo, in.Number)
			}
			if hi != nil {
				if inclusive && in.Number > *hi {
					return fmt.Sprintf("Expected a number <= %v, found %v", *hi, in.Number)
				}
				if !inclusive && in.Number >= *hi {
					return fmt.Sprintf("Expected a number < %v, found %v", *hi, in.Number)
				}
			}
			return ""
		}}, ""
	case compiledNumber:
		return nil, "a bare number is not a type; use it inside a range or array length"
	default:
		return nil, "internal error: uncompiled value"
	}
}

func applyLengthBound(av *validate.ArrayValidator, idx compiledValue) {
	switch idx.kind {
	case compiledNumber:
		n := int(idx.number)
		av.HasMin, av.Min = true, n
		av.HasMax, av.Max = true, n
	case compiledRange:
		if idx.rangeLo != nil {
			av.HasMin, av.Min = true, int(math.Ceil(*idx.rangeLo))
		}
		if idx.rangeHi != nil {
			hi := *idx.rangeHi
			if !idx.inclusive {
				hi--
			}
			av.HasMax, av.Max = true, int(math.Floor(hi))
		}
	}
}
