package lsp

// Wire types for the subset of the LSP the server actually implements:
// initialize, hover, and semantic tokens. Diagnostic, Position, Range, and
// TextDocumentIdentifier are also shared with document.go and
// sync_types.go's textDocument/didOpen|didChange|didClose params.

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type Diagnostic struct {
	Range   Range   `json:"range"`
	Source  *string `json:"source,omitempty"`
	Message string  `json:"message"`
}

type TextDocumentIdentifier struct {
	DocumentURI string `json:"uri"`
}

type InitializeResponse struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

// ServerCapabilities carries only the capabilities this server announces;
// the rest of the LSP's capability surface (code actions, rename,
// formatting, completion, ...) has no provider here and so no field.
type ServerCapabilities struct {
	TextDocumentSync       interface{} `json:"textDocumentSync,omitempty"`
	HoverProvider          bool        `json:"hoverProvider,omitempty"`
	SemanticTokensProvider interface{} `json:"semanticTokensProvider,omitempty"`
}

type Position struct {
	// Line is the zero-based line position in a document.
	Line int `json:"line"`

	// Character is the zero-based UTF-16 code-unit offset on Line. Per the
	// LSP spec, an offset past the end of the line clamps to the line length.
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}
