package commands

import (
	"github.com/urfave/cli"

	"github.com/imaneoujja/IMGFS/imgfs"
)

// DeleteCommand implements `imgfscmd delete <file> <img_id>`.
func DeleteCommand() cli.Command {
	return cli.Command{
		Name:      commandDelete,
		Usage:     "delete an image from an imgFS store",
		ArgsUsage: fileArgument + " " + imgIDArgument,
		Action:    deleteHandler,
	}
}

func deleteHandler(c *cli.Context) error {
	path, err := requireArg(c, 0, fileArgument)
	if err != nil {
		return err
	}
	imgID, err := requireArg(c, 1, imgIDArgument)
	if err != nil {
		return err
	}

	store, err := imgfs.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(imgID); err != nil {
		return err
	}

	printf("%s deleted from %s\n", imgID, path)
	return nil
}
