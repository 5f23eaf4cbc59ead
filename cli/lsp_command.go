package cli

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/urfave/cli/v3"

	"dvl/format"
	"dvl/logger"
	"dvl/lsp"
	"dvl/schema"
	"dvl/validate"
)

// stdioReadWriteCloser pairs stdin/stdout into the single ReadWriteCloser
// jsonrpc2's stream wants, mirroring the teacher's client-side
// lspServerStdioReadWriteCloser — here built over the process's own stdio
// rather than a spawned child, since this binary *is* the server.
type stdioReadWriteCloser struct {
	io.Reader
	io.Writer
}

func (stdioReadWriteCloser) Close() error { return nil }

func NewLSPCommand() *cli.Command {
	return &cli.Command{
		Name:  "lsp",
		Usage: "Run the language server over standard input/output",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.Get()
			log.Info().Msg("starting dvl lsp server")

			server := lsp.NewServer(resolveDocument)
			stream := jsonrpc2.NewBufferedStream(stdioReadWriteCloser{os.Stdin, os.Stdout}, jsonrpc2.VSCodeObjectCodec{})
			server.Serve(ctx, stream)
			return nil
		},
	}
}

// resolveDocument implements lsp.Resolver: it derives a filesystem path
// from the document URI, picks the format from its extension, and resolves
// a schema the same way the check command does (sibling .dvl, then user
// config rules) — falling back to validate.AnyValidator{} when nothing
// resolves, so opening an unconfigured file still gets semantic tokens.
func resolveDocument(uri string) (format.Format, validate.Validator, bool) {
	path := uriToPath(uri)
	if path == "" {
		return nil, nil, false
	}

	ext := strings.ToLower(filepath.Ext(path))
	f := format.ByExtension(ext)
	if f == nil {
		return nil, nil, false
	}

	schemaPath, err := resolveSchemaPath("", path)
	if err != nil {
		return f, validate.AnyValidator{}, true
	}

	source, err := os.ReadFile(schemaPath)
	if err != nil {
		return f, validate.AnyValidator{}, true
	}

	v, errs := schema.Compile(string(source), schemaPath)
	if len(errs) > 0 {
		return f, validate.AnyValidator{}, true
	}
	return f, v, true
}

func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return ""
	}
	return u.Path
}
