// Package schema implements the DVL schema language: a hand-written
// recursive-descent parser from source text to an AST, and a compiler that
// lowers the AST to a validate.Validator tree.
package schema

import "dvl/span"

// Expr is a DVL schema expression. Concrete variants are Ident, Number,
// RangeExpr, ArrayExpr, ObjectExpr, and UnionExpr.
type Expr interface {
	exprNode()
}

// Ident references a built-in or later-bound validator name.
type Ident struct {
	Name string
	Span span.Span
}

func (Ident) exprNode() {}

// Number is a spanned numeric literal, usable only inside a RangeExpr or as
// an array length.
type Number struct {
	Value float64
	Span  span.Span
}

func (Number) exprNode() {}

// RangeExpr is `start?..=?end?`. Start and End are nil when the
// corresponding endpoint is open.
type RangeExpr struct {
	Start     Expr
	End       Expr
	Inclusive bool
	Span      span.Span
}

func (RangeExpr) exprNode() {}

// ArrayExpr is `element[index?]`. Index is nil for an unbounded array.
type ArrayExpr struct {
	Element Expr
	Index   Expr
	Span    span.Span
}

func (ArrayExpr) exprNode() {}

// ObjectExpr is `{ record, record, ... }`.
type ObjectExpr struct {
	Records []RecordMatcher
	Span    span.Span
}

func (ObjectExpr) exprNode() {}

// UnionExpr is `A | B | C`.
type UnionExpr struct {
	Cases []Expr
	Span  span.Span
}

func (UnionExpr) exprNode() {}

// RecordMatcher is one entry of an object literal: either a named,
// possibly-optional field (SimpleKey) or the `..` open-object marker
// (AnyKey). Exactly one of the two is populated, selected by IsAnyKey.
type RecordMatcher struct {
	IsAnyKey bool

	Key      string
	KeySpan  span.Span
	Optional bool
	Docs     string
	Value    Expr
}
