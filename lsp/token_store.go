package lsp

import (
	"sort"

	"dvl/value"
)

// SemanticToken is one highlighted span, stamped with the legend index it
// should be emitted as and the doc comment (if any) a matching schema
// record attached to it, for hover to surface.
type SemanticToken struct {
	Start, End int
	TokenType  int
	Docs       string
}

func (t SemanticToken) contains(pos int) bool {
	return pos >= t.Start && pos < t.End
}

func (t SemanticToken) isInRange(start, end int) bool {
	return t.Start >= start && t.End <= end
}

// TokenStore is a sorted sequence of SemanticToken supporting range and
// point queries. Tokens sort by (start ascending, end descending) so that
// when several tokens share a start offset, the widest — the outermost
// span — comes first.
type TokenStore struct {
	tokens []SemanticToken
}

// BuildFromAnnotated rebuilds the store by walking a validated tree and
// collecting one token per node that carries a semantic type.
func (s *TokenStore) BuildFromAnnotated(tree value.Value[value.FullAnnotation]) {
	s.tokens = s.tokens[:0]
	value.Walk(tree, func(ann value.FullAnnotation) {
		if !ann.HasSemantic {
			return
		}
		tokenType := legendIndex(ann.SemanticType)
		for _, sp := range ann.Span.All() {
			s.tokens = append(s.tokens, SemanticToken{Start: sp.Start, End: sp.End, TokenType: tokenType, Docs: ann.Docs})
		}
	})
	sort.Slice(s.tokens, func(i, j int) bool {
		if s.tokens[i].Start != s.tokens[j].Start {
			return s.tokens[i].Start < s.tokens[j].Start
		}
		return s.tokens[i].End > s.tokens[j].End
	})
}

func legendIndex(t value.SemanticType) int {
	switch t {
	case value.SemanticString:
		return SemanticTokenTypeString
	case value.SemanticNumber:
		return SemanticTokenTypeNumber
	case value.SemanticVariable:
		return SemanticTokenTypeVariable
	default:
		return SemanticTokenTypeVariable
	}
}

// TokensInRange returns every token whose span is fully contained in
// [start, end), in store order (already position-sorted).
func (s *TokenStore) TokensInRange(start, end int) []SemanticToken {
	var out []SemanticToken
	for _, t := range s.tokens {
		if t.isInRange(start, end) {
			out = append(out, t)
		}
	}
	return out
}

// SmallestContaining returns the innermost token whose span contains pos,
// or ok=false if none does. It binary-searches for the first token
// starting after pos, then walks left over the tokens starting at or
// before pos — the sort key guarantees the first match found this way is
// the narrowest.
func (s *TokenStore) SmallestContaining(pos int) (SemanticToken, bool) {
	idx := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Start > pos
	})
	for i := idx - 1; i >= 0; i-- {
		if s.tokens[i].contains(pos) {
			return s.tokens[i], true
		}
	}
	return SemanticToken{}, false
}
