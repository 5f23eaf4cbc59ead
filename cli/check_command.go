// Package cli builds the dvl command-line surface: check,
// convert-json-schema, and lsp, following the teacher's
// *cli.Command-per-file construction idiom.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"dvl/common"
	"dvl/format"
	"dvl/lsp"
	"dvl/schema"
)

func NewCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate a data file against a DVL schema",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "schema", Usage: "Path to the .dvl schema file"},
			&cli.StringFlag{Name: "file", Required: true, Usage: "Path to the data file to validate"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCheck(cmd.String("schema"), cmd.String("file"))
		},
	}
}

func runCheck(schemaFlag, dataPath string) error {
	schemaPath, err := resolveSchemaPath(schemaFlag, dataPath)
	if err != nil {
		return cli.Exit(err, 1)
	}

	schemaSource, err := os.ReadFile(schemaPath)
	if err != nil {
		return cli.Exit(fmt.Errorf("reading schema %s: %w", schemaPath, err), 1)
	}

	validator, schemaErrs := schema.Compile(string(schemaSource), schemaPath)
	if len(schemaErrs) > 0 {
		schemaIdx := lsp.NewLineIndex(string(schemaSource))
		for _, e := range schemaErrs {
			printDiagnosticLine(schemaPath, schemaIdx, e.Span.Start, e.Message)
		}
		return cli.Exit("schema compilation failed", 1)
	}

	dataSource, err := os.ReadFile(dataPath)
	if err != nil {
		return cli.Exit(fmt.Errorf("reading data file %s: %w", dataPath, err), 1)
	}

	ext := strings.ToLower(filepath.Ext(dataPath))
	f := format.ByExtension(ext)
	if f == nil {
		return cli.Exit(fmt.Errorf("unrecognized data file extension %q", ext), 1)
	}

	parsed, parseErrs := f.Parse(dataSource, dataPath)
	lineIdx := lsp.NewLineIndex(string(dataSource))
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			printDiagnosticLine(dataPath, lineIdx, e.Span.Start, e.Message)
		}
		return cli.Exit("", 1)
	}

	_, diags := validator.Validate(parsed)
	if len(diags) > 0 {
		for _, d := range diags {
			printDiagnosticLine(dataPath, lineIdx, d.Span.Start, d.Text)
		}
		return cli.Exit("", 1)
	}

	fmt.Println("Input matches the schema!")
	return nil
}

func printDiagnosticLine(path string, idx lsp.LineIndex, offset int, message string) {
	pos := idx.OffsetToPosition(offset)
	fmt.Printf("%s:%d:%d: %s\n", path, pos.Line+1, pos.Character+1, message)
}

// resolveSchemaPath implements §6's resolution order: explicit flag, then a
// sibling file sharing the data file's stem with extension ".dvl",
// otherwise the user config's rules matched on the data file's base name.
func resolveSchemaPath(explicit, dataPath string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	stem := strings.TrimSuffix(dataPath, filepath.Ext(dataPath))
	sibling := stem + ".dvl"
	if _, err := os.Stat(sibling); err == nil {
		return sibling, nil
	}

	cfg, err := common.LoadRulesConfig()
	if err != nil {
		return "", err
	}
	if schemaPath := cfg.SchemaForFile(dataPath); schemaPath != "" {
		return schemaPath, nil
	}

	return "", fmt.Errorf("no schema resolved for %s: pass --schema, add a sibling .dvl file, or add a rule to the user config", dataPath)
}
