package format

import (
	"fmt"
	"strconv"

	"dvl/span"
	"dvl/value"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_json "github.com/tree-sitter-grammars/tree-sitter-json/bindings/go"
)

// JSON parses RFC 8259 JSON text via the tree-sitter-json grammar.
type JSON struct{}

func (JSON) Parse(source []byte, filename string) (value.Value[span.SpanSet], []ParseError) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_json.Language()))

	tree := parser.Parse(source, nil)
	if tree != nil {
		defer tree.Close()
	}
	if tree == nil {
		return value.Value[span.SpanSet]{}, []ParseError{{Message: "failed to parse JSON", Span: span.Span{Filename: filename}}}
	}

	root := tree.RootNode()
	var errs []ParseError
	result, ok := parseJSONValue(root, source, filename, &errs)
	if len(errs) > 0 {
		return value.Value[span.SpanSet]{}, errs
	}
	if !ok {
		return value.Value[span.SpanSet]{}, []ParseError{{Message: "empty JSON document", Span: nodeSpan(root, filename)}}
	}
	return result, nil
}

func parseJSONValue(node *tree_sitter.Node, source []byte, filename string, errs *[]ParseError) (value.Value[span.SpanSet], bool) {
	sp := span.NewSpanSet(nodeSpan(node, filename))

	switch node.Kind() {
	case "document":
		if node.NamedChildCount() == 0 {
			return value.Value[span.SpanSet]{}, false
		}
		return parseJSONValue(node.NamedChild(0), source, filename, errs)

	case "null":
		return value.Null(sp), true

	case "true", "false":
		return value.NewBool(node.Kind() == "true", sp), true

	case "number":
		text := node.Utf8Text(source)
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			*errs = append(*errs, ParseError{Message: fmt.Sprintf("failed to parse number %q: %v", text, err), Span: nodeSpan(node, filename)})
			return value.Value[span.SpanSet]{}, false
		}
		return value.NewNumber(n, sp), true

	case "string":
		text := node.Utf8Text(source)
		return value.NewString(stripQuotes(text), sp), true

	case "array":
		var elements []value.Value[span.SpanSet]
		count := node.NamedChildCount()
		for i := uint(0); i < count; i++ {
			child := node.NamedChild(i)
			elem, ok := parseJSONValue(child, source, filename, errs)
			if !ok {
				continue
			}
			elements = append(elements, elem)
		}
		return value.NewArray(elements, sp), true

	case "object":
		var fields []value.Field[span.SpanSet]
		count := node.NamedChildCount()
		for i := uint(0); i < count; i++ {
			pair := node.NamedChild(i)
			if pair.Kind() != "pair" {
				continue
			}
			keyNode := pair.ChildByFieldName("key")
			valueNode := pair.ChildByFieldName("value")
			if keyNode == nil || valueNode == nil {
				*errs = append(*errs, ParseError{Message: "malformed JSON object pair", Span: nodeSpan(pair, filename)})
				continue
			}
			keyText := stripQuotes(keyNode.Utf8Text(source))
			val, ok := parseJSONValue(valueNode, source, filename, errs)
			if !ok {
				continue
			}
			fields = append(fields, value.Field[span.SpanSet]{
				Key:           keyText,
				KeyAnnotation: span.NewSpanSet(nodeSpan(keyNode, filename)),
				Value:         val,
			})
		}
		return value.NewObject(fields, sp), true

	case "ERROR":
		*errs = append(*errs, ParseError{Message: "syntax error in JSON document", Span: nodeSpan(node, filename)})
		return value.Value[span.SpanSet]{}, false

	default:
		*errs = append(*errs, ParseError{Message: fmt.Sprintf("unexpected JSON node: %s", node.Kind()), Span: nodeSpan(node, filename)})
		return value.Value[span.SpanSet]{}, false
	}
}

func nodeSpan(node *tree_sitter.Node, filename string) span.Span {
	return span.Span{Filename: filename, Start: int(node.StartByte()), End: int(node.EndByte())}
}

func stripQuotes(text string) string {
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}
