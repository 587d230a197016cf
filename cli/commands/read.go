package commands

import (
	"fmt"
	"io/ioutil"

	"github.com/urfave/cli"

	"github.com/imaneoujja/IMGFS/imgfs"
)

// ReadCommand implements `imgfscmd read <file> <img_id> [original|orig|thumbnail|thumb|small]`.
// Output is written to a file named "<img_id>_<res>.jpg" in the current
// directory (spec §6 "CLI surface").
func ReadCommand() cli.Command {
	return cli.Command{
		Name:      commandRead,
		Usage:     "read an image out of an imgFS store",
		ArgsUsage: fileArgument + " " + imgIDArgument + " " + resolutionArgument,
		Flags:     []cli.Flag{progressFlag},
		Action:    readHandler,
	}
}

func readHandler(c *cli.Context) error {
	path, err := requireArg(c, 0, fileArgument)
	if err != nil {
		return err
	}
	imgID, err := requireArg(c, 1, imgIDArgument)
	if err != nil {
		return err
	}

	resStr := "original"
	if c.NArg() > 2 {
		resStr = c.Args().Get(2)
	}
	res, err := imgfs.ParseResolution(resStr)
	if err != nil {
		return err
	}

	store, err := imgfs.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	data, err := store.Read(imgID, res)
	if err != nil {
		return err
	}

	outPath := fmt.Sprintf("%s_%s.jpg", imgID, res)
	if err := ioutil.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	if c.Bool(progressFlag.Name) {
		p, bar := newByteProgressBar("writing "+outPath, int64(len(data)))
		bar.IncrInt64(int64(len(data)))
		p.Wait()
	}

	printf("%s written (%d bytes)\n", outPath, len(data))
	return nil
}
