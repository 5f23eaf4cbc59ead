package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"dvl/jsonschema"
)

func NewConvertJSONSchemaCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert-json-schema",
		Usage:     "Convert a JSON Schema file to a DVL schema, printed to standard output",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return cli.Exit("a JSON Schema file path is required", 1)
			}

			source, err := os.ReadFile(path)
			if err != nil {
				return cli.Exit(fmt.Errorf("reading %s: %w", path, err), 1)
			}

			dvl, err := jsonschema.Convert(source)
			if err != nil {
				return cli.Exit(err, 1)
			}

			fmt.Println(dvl)
			return nil
		},
	}
}
