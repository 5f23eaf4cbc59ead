package schema

import (
	"strconv"
	"strings"

	"dvl/span"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokDocComment
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokColon
	tokComma
	tokQuestion
	tokPipe
	tokDotDot
	tokEquals
)

type token struct {
	kind tokenKind
	text string
	num  float64
	span span.Span
}

type lexer struct {
	filename string
	src      string
	pos      int
}

func newLexer(src, filename string) *lexer {
	return &lexer{filename: filename, src: src}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// tokens lexes the entire source up front; the parser consumes the slice.
func (l *lexer) tokens() ([]token, *ParseError) {
	var out []token
	for {
		l.skipInsignificantWhitespace()
		if l.pos >= len(l.src) {
			out = append(out, token{kind: tokEOF, span: span.Span{Filename: l.filename, Start: l.pos, End: l.pos}})
			return out, nil
		}
		start := l.pos
		c := l.src[l.pos]
		switch {
		case c == '/' && strings.HasPrefix(l.src[l.pos:], "///"):
			l.pos += 3
			lineStart := l.pos
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
			text := strings.TrimSpace(l.src[lineStart:l.pos])
			out = append(out, token{kind: tokDocComment, text: text, span: span.Span{Filename: l.filename, Start: start, End: l.pos}})
		case c == '{':
			l.pos++
			out = append(out, token{kind: tokLBrace, span: mkspan(l.filename, start, l.pos)})
		case c == '}':
			l.pos++
			out = append(out, token{kind: tokRBrace, span: mkspan(l.filename, start, l.pos)})
		case c == '[':
			l.pos++
			out = append(out, token{kind: tokLBracket, span: mkspan(l.filename, start, l.pos)})
		case c == ']':
			l.pos++
			out = append(out, token{kind: tokRBracket, span: mkspan(l.filename, start, l.pos)})
		case c == ':':
			l.pos++
			out = append(out, token{kind: tokColon, span: mkspan(l.filename, start, l.pos)})
		case c == ',':
			l.pos++
			out = append(out, token{kind: tokComma, span: mkspan(l.filename, start, l.pos)})
		case c == '?':
			l.pos++
			out = append(out, token{kind: tokQuestion, span: mkspan(l.filename, start, l.pos)})
		case c == '|':
			l.pos++
			out = append(out, token{kind: tokPipe, span: mkspan(l.filename, start, l.pos)})
		case c == '=':
			l.pos++
			out = append(out, token{kind: tokEquals, span: mkspan(l.filename, start, l.pos)})
		case c == '.' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '.':
			l.pos += 2
			out = append(out, token{kind: tokDotDot, span: mkspan(l.filename, start, l.pos)})
		case isDigit(c):
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
			if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
				l.pos++
				for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
					l.pos++
				}
			}
			text := l.src[start:l.pos]
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &ParseError{Message: "invalid numeric literal " + text, Span: mkspan(l.filename, start, l.pos)}
			}
			out = append(out, token{kind: tokNumber, num: n, span: mkspan(l.filename, start, l.pos)})
		case isIdentStart(c):
			for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
				l.pos++
			}
			out = append(out, token{kind: tokIdent, text: l.src[start:l.pos], span: mkspan(l.filename, start, l.pos)})
		default:
			return nil, &ParseError{Message: "unexpected character " + string(c), Span: mkspan(l.filename, start, start+1)}
		}
	}
}

func (l *lexer) skipInsignificantWhitespace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

func mkspan(filename string, start, end int) span.Span {
	return span.Span{Filename: filename, Start: start, End: end}
}
