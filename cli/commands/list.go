package commands

import (
	"github.com/urfave/cli"

	"github.com/imaneoujja/IMGFS/imgfs"
)

// ListCommand implements `imgfscmd list <file>`.
func ListCommand() cli.Command {
	return cli.Command{
		Name:      commandList,
		Usage:     "dump an imgFS store's header and metadata table",
		ArgsUsage: fileArgument,
		Action:    listHandler,
	}
}

func listHandler(c *cli.Context) error {
	path, err := requireArg(c, 0, fileArgument)
	if err != nil {
		return err
	}

	store, err := imgfs.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	printf("%s", store.Dump())
	return nil
}
