package format

import (
	"fmt"
	"strconv"
	"strings"

	"dvl/span"
	"dvl/value"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_toml "github.com/tree-sitter-grammars/tree-sitter-toml/bindings/go"
)

// TOML parses TOML text via the tree-sitter-toml grammar. Unlike JSON,
// TOML's table-header and table-array syntax means the whole document must
// be assembled incrementally against a single mutable root object before it
// can be frozen into the immutable value tree.
type TOML struct{}

func (TOML) Parse(source []byte, filename string) (value.Value[span.SpanSet], []ParseError) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_toml.Language()))

	tree := parser.Parse(source, nil)
	if tree != nil {
		defer tree.Close()
	}
	if tree == nil {
		return value.Value[span.SpanSet]{}, []ParseError{{Message: "failed to parse TOML", Span: span.Span{Filename: filename}}}
	}

	root := tree.RootNode()
	b := &builder{filename: filename}
	docRoot := newObjBuilder(nodeSpan(root, filename))

	count := root.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := root.NamedChild(i)
		switch child.Kind() {
		case "pair":
			b.applyTopLevelPair(docRoot, child, source)
		case "table":
			b.applyTable(docRoot, child, source)
		case "table_array_element":
			b.applyTableArrayElement(docRoot, child, source)
		default:
			// comments and blank lines carry no data
		}
	}

	if len(b.errs) > 0 {
		return value.Value[span.SpanSet]{}, b.errs
	}
	return docRoot.freeze(), nil
}

type builder struct {
	filename string
	errs     []ParseError
}

// fieldBuilder is one in-progress (key, value) slot of an object under
// construction. obj holds a table, array holds the elements of a table
// array ([[...]]), and scalar holds any other value, including an inline
// array.
type fieldBuilder struct {
	key      string
	keySpans []span.Span
	kind     value.Kind
	scalar   value.Value[span.SpanSet]
	array    []value.Value[span.SpanSet]
	obj      *objBuilder
}

type objBuilder struct {
	span   span.Span
	order  []string
	byName map[string]*fieldBuilder
}

func newObjBuilder(sp span.Span) *objBuilder {
	return &objBuilder{span: sp, byName: map[string]*fieldBuilder{}}
}

func (o *objBuilder) freeze() value.Value[span.SpanSet] {
	fields := make([]value.Field[span.SpanSet], 0, len(o.order))
	for _, name := range o.order {
		fb := o.byName[name]
		keyAnn := span.NewSpanSet(fb.keySpans[0])
		for _, extra := range fb.keySpans[1:] {
			keyAnn = keyAnn.Append(extra)
		}
		var v value.Value[span.SpanSet]
		switch fb.kind {
		case value.KindObject:
			v = fb.obj.freeze()
		case value.KindArray:
			if fb.scalar.Kind == value.KindArray {
				v = fb.scalar
			} else {
				v = value.NewArray(fb.array, span.NewSpanSet(o.span))
			}
		default:
			v = fb.scalar
		}
		fields = append(fields, value.Field[span.SpanSet]{Key: fb.key, KeyAnnotation: keyAnn, Value: v})
	}
	return value.NewObject(fields, span.NewSpanSet(o.span))
}

// applyTopLevelPair appends a bare `key = value` pair to obj.
func (b *builder) applyTopLevelPair(obj *objBuilder, pair *tree_sitter.Node, source []byte) {
	keyNode := pair.ChildByFieldName("key")
	valueNode := pair.ChildByFieldName("value")
	if keyNode == nil || valueNode == nil {
		b.errs = append(b.errs, ParseError{Message: "malformed TOML pair", Span: nodeSpan(pair, b.filename)})
		return
	}
	name, fragSpans := b.keyFragments(keyNode, source)
	if len(name) == 0 {
		return
	}
	if len(name) > 1 {
		// dotted key on the left of `=`: walk/create intermediate objects,
		// then set the leaf on the final one. Not a table header, so no
		// span accumulation on revisit.
		target, ok := b.walkDottedPath(obj, name[:len(name)-1], fragSpans[:len(name)-1], false)
		if !ok {
			return
		}
		b.setScalarOrNested(target, name[len(name)-1], fragSpans[len(name)-1], valueNode, source)
		return
	}
	b.setScalarOrNested(obj, name[0], fragSpans[0], valueNode, source)
}

func (b *builder) setScalarOrNested(obj *objBuilder, key string, keySpan span.Span, valueNode *tree_sitter.Node, source []byte) {
	if existing, ok := obj.byName[key]; ok {
		b.errs = append(b.errs, ParseError{Message: fmt.Sprintf("duplicate key %q", key), Span: keySpan})
		_ = existing
		return
	}
	if valueNode.Kind() == "inline_table" {
		nested := newObjBuilder(nodeSpan(valueNode, b.filename))
		count := valueNode.NamedChildCount()
		for i := uint(0); i < count; i++ {
			child := valueNode.NamedChild(i)
			if child.Kind() == "pair" {
				b.applyTopLevelPair(nested, child, source)
			}
		}
		obj.order = append(obj.order, key)
		obj.byName[key] = &fieldBuilder{key: key, keySpans: []span.Span{keySpan}, kind: value.KindObject, obj: nested}
		return
	}
	val, ok := b.parseScalarOrArray(valueNode, source)
	if !ok {
		return
	}
	obj.order = append(obj.order, key)
	obj.byName[key] = &fieldBuilder{key: key, keySpans: []span.Span{keySpan}, kind: val.Kind, scalar: val}
}

// applyTable handles `[a.b.c]`: walk/create a chain of nested objects,
// then attach every pair of the header's body to the final object.
func (b *builder) applyTable(root *objBuilder, table *tree_sitter.Node, source []byte) {
	keyNode := table.ChildByFieldName("key")
	if keyNode == nil {
		b.errs = append(b.errs, ParseError{Message: "table header missing key", Span: nodeSpan(table, b.filename)})
		return
	}
	names, fragSpans := b.keyFragments(keyNode, source)
	if len(names) == 0 {
		return
	}
	target, ok := b.walkDottedPath(root, names, fragSpans, true)
	if !ok {
		return
	}

	count := table.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := table.NamedChild(i)
		if child.Kind() == "pair" {
			b.applyTopLevelPair(target, child, source)
		}
	}
}

// applyTableArrayElement handles `[[a.b]]`: walk/create the chain up to the
// second-to-last segment, then append a fresh object to the named array.
func (b *builder) applyTableArrayElement(root *objBuilder, tableArray *tree_sitter.Node, source []byte) {
	keyNode := tableArray.ChildByFieldName("key")
	if keyNode == nil {
		b.errs = append(b.errs, ParseError{Message: "table array header missing key", Span: nodeSpan(tableArray, b.filename)})
		return
	}
	names, fragSpans := b.keyFragments(keyNode, source)
	if len(names) == 0 {
		return
	}

	parent, ok := b.walkDottedPath(root, names[:len(names)-1], fragSpans[:len(names)-1], false)
	if !ok {
		return
	}

	leaf := names[len(names)-1]
	leafSpan := fragSpans[len(names)-1]
	fb, exists := parent.byName[leaf]
	if !exists {
		fb = &fieldBuilder{key: leaf, keySpans: []span.Span{leafSpan}, kind: value.KindArray}
		parent.order = append(parent.order, leaf)
		parent.byName[leaf] = fb
	} else {
		if fb.kind != value.KindArray {
			b.errs = append(b.errs, ParseError{Message: fmt.Sprintf("key %q is not an array of tables", leaf), Span: leafSpan})
			return
		}
		fb.keySpans = append(fb.keySpans, leafSpan)
	}

	elemObj := newObjBuilder(nodeSpan(tableArray, b.filename))
	count := tableArray.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := tableArray.NamedChild(i)
		if child.Kind() == "pair" {
			b.applyTopLevelPair(elemObj, child, source)
		}
	}
	fb.array = append(fb.array, elemObj.freeze())
}

// walkDottedPath walks (or creates) a chain of nested objects named by
// names, starting at obj. When accumulate is true (walking a table header's
// dotted path), every existing intermediate key encountered along the way
// has the fragment span appended to its SpanSet — this is what enables
// go-to-definition for dotted keys. Dotted assignment (`a.b = 1`) and
// table-array headers pass false: they are not header constructs, so the
// spec's accumulation rule does not apply to them.
func (b *builder) walkDottedPath(obj *objBuilder, names []string, fragSpans []span.Span, accumulate bool) (*objBuilder, bool) {
	current := obj
	for i, name := range names {
		fb, exists := current.byName[name]
		if !exists {
			nested := newObjBuilder(fragSpans[i])
			fb = &fieldBuilder{key: name, keySpans: []span.Span{fragSpans[i]}, kind: value.KindObject, obj: nested}
			current.order = append(current.order, name)
			current.byName[name] = fb
			current = nested
			continue
		}
		if fb.kind != value.KindObject {
			b.errs = append(b.errs, ParseError{Message: fmt.Sprintf("key %q already holds a non-table value", name), Span: fragSpans[i]})
			return nil, false
		}
		if accumulate {
			fb.keySpans = append(fb.keySpans, fragSpans[i])
		}
		current = fb.obj
	}
	return current, true
}

// keyFragments splits a (possibly dotted) key node into its component
// names and the byte span of each fragment within the header/key text.
func (b *builder) keyFragments(keyNode *tree_sitter.Node, source []byte) ([]string, []span.Span) {
	switch keyNode.Kind() {
	case "dotted_key":
		var names []string
		var spans []span.Span
		count := keyNode.NamedChildCount()
		for i := uint(0); i < count; i++ {
			frag := keyNode.NamedChild(i)
			names = append(names, unquoteKeyFragment(frag.Utf8Text(source)))
			spans = append(spans, nodeSpan(frag, b.filename))
		}
		return names, spans
	default:
		return []string{unquoteKeyFragment(keyNode.Utf8Text(source))}, []span.Span{nodeSpan(keyNode, b.filename)}
	}
}

func unquoteKeyFragment(text string) string {
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') {
		return text[1 : len(text)-1]
	}
	return text
}

func (b *builder) parseScalarOrArray(node *tree_sitter.Node, source []byte) (value.Value[span.SpanSet], bool) {
	sp := span.NewSpanSet(nodeSpan(node, b.filename))
	switch node.Kind() {
	case "string":
		return value.NewString(unquoteTOMLString(node.Utf8Text(source)), sp), true
	case "integer", "float":
		text := strings.ReplaceAll(node.Utf8Text(source), "_", "")
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			b.errs = append(b.errs, ParseError{Message: fmt.Sprintf("failed to parse number %q: %v", text, err), Span: nodeSpan(node, b.filename)})
			return value.Value[span.SpanSet]{}, false
		}
		return value.NewNumber(n, sp), true
	case "boolean":
		return value.NewBool(node.Utf8Text(source) == "true", sp), true
	case "offset_date_time", "local_date_time", "local_date", "local_time":
		return value.NewString(node.Utf8Text(source), sp), true
	case "array":
		var elements []value.Value[span.SpanSet]
		count := node.NamedChildCount()
		for i := uint(0); i < count; i++ {
			child := node.NamedChild(i)
			elem, ok := b.parseScalarOrArray(child, source)
			if !ok {
				continue
			}
			elements = append(elements, elem)
		}
		return value.NewArray(elements, sp), true
	case "inline_table":
		nested := newObjBuilder(nodeSpan(node, b.filename))
		count := node.NamedChildCount()
		for i := uint(0); i < count; i++ {
			child := node.NamedChild(i)
			if child.Kind() == "pair" {
				b.applyTopLevelPair(nested, child, source)
			}
		}
		return nested.freeze(), true
	default:
		b.errs = append(b.errs, ParseError{Message: fmt.Sprintf("unexpected TOML node: %s", node.Kind()), Span: nodeSpan(node, b.filename)})
		return value.Value[span.SpanSet]{}, false
	}
}

func unquoteTOMLString(text string) string {
	switch {
	case strings.HasPrefix(text, `"""`) && strings.HasSuffix(text, `"""`):
		return text[3 : len(text)-3]
	case strings.HasPrefix(text, "'''") && strings.HasSuffix(text, "'''"):
		return text[3 : len(text)-3]
	case strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`):
		return text[1 : len(text)-1]
	case strings.HasPrefix(text, "'") && strings.HasSuffix(text, "'"):
		return text[1 : len(text)-1]
	default:
		return text
	}
}
