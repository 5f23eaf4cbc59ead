package cli

import "github.com/urfave/cli/v3"

// NewApp builds the root dvl command, gathering check, convert-json-schema,
// and lsp the way the teacher's cli package gathers task/auth/init
// subcommands under a single *cli.Command tree.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:  "dvl",
		Usage: "Validate structured data against DVL schemas, or run the language server",
		Commands: []*cli.Command{
			NewCheckCommand(),
			NewConvertJSONSchemaCommand(),
			NewLSPCommand(),
		},
	}
}
