package commands

import (
	"io/ioutil"
	"os"

	"github.com/urfave/cli"

	"github.com/imaneoujja/IMGFS/imgfs"
)

// InsertCommand implements `imgfscmd insert <file> <img_id> <source_image_path>`.
func InsertCommand() cli.Command {
	return cli.Command{
		Name:      commandInsert,
		Usage:     "insert a JPEG image into an imgFS store",
		ArgsUsage: fileArgument + " " + imgIDArgument + " " + sourcePathArgument,
		Flags:     []cli.Flag{progressFlag},
		Action:    insertHandler,
	}
}

func insertHandler(c *cli.Context) error {
	path, err := requireArg(c, 0, fileArgument)
	if err != nil {
		return err
	}
	imgID, err := requireArg(c, 1, imgIDArgument)
	if err != nil {
		return err
	}
	srcPath, err := requireArg(c, 2, sourcePathArgument)
	if err != nil {
		return err
	}

	data, err := readWithProgress(c, srcPath, "reading "+srcPath)
	if err != nil {
		return err
	}

	store, err := imgfs.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Insert(imgID, data); err != nil {
		return err
	}

	printf("%s inserted into %s\n", imgID, path)
	return nil
}

func readWithProgress(c *cli.Context, path, label string) ([]byte, error) {
	if !c.Bool(progressFlag.Name) {
		return ioutil.ReadFile(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	p, bar := newByteProgressBar(label, info.Size())
	data, err := ioutil.ReadFile(path)
	if err == nil {
		bar.IncrInt64(int64(len(data)))
	}
	p.Wait()
	return data, err
}
