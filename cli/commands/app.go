package commands

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/imaneoujja/IMGFS/cmn"
)

// appHelpTemplate replaces urfave/cli's one-liner-per-command default with
// the full argument shape and flag defaults for every command, so
// `imgfscmd help` alone is enough to use the tool without reading source.
const appHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}

USAGE:
   {{.HelpName}} [global options] command [command options] [arguments...]

VERSION:
   {{.Version}}

COMMANDS:
{{range .Commands}}   {{.Name}}: {{.Usage}}
      usage: {{$.HelpName}} {{.Name}} [command options] {{.ArgsUsage}}
{{range .Flags}}      {{.}}
{{end}}{{end}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
`

// NewApp assembles the imgfscmd urfave/cli application: one cli.Command
// per spec §6 verb, plus the framework's own generated help command.
func NewApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "imgfscmd"
	app.Usage = "operate on a single-file, content-addressed JPEG image store"
	app.Version = version
	app.Flags = []cli.Flag{verboseFlag}
	app.Commands = []cli.Command{
		ListCommand(),
		CreateCommand(),
		ReadCommand(),
		InsertCommand(),
		DeleteCommand(),
	}
	app.CommandNotFound = func(c *cli.Context, name string) {
		fmt.Fprintf(os.Stderr, "InvalidCommand: %q is not an imgfscmd command\n", name)
	}
	app.CustomAppHelpTemplate = appHelpTemplate
	return app
}

// ExitCode maps an error returned by a command Action to the stable
// negative exit code for its Kind (spec §6 "Exit codes"), printing a
// human-readable message on stderr first.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "imgfscmd: %v\n", err)
	return cmn.KindOf(err).ExitCode()
}
