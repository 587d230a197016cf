package commands

import (
	"github.com/urfave/cli"

	"github.com/imaneoujja/IMGFS/cmn"
	"github.com/imaneoujja/IMGFS/imgfs"
)

// CreateCommand implements `imgfscmd create <file> [-max_files N] [-thumb_res W -thumb_res H] [-small_res W -small_res H]`.
// Each resolution flag takes one value per occurrence, so W and H are
// given by repeating the flag; `-thumb_res W H` leaves H as a stray
// positional argument and fails with KindResolutions.
func CreateCommand() cli.Command {
	return cli.Command{
		Name:      commandCreate,
		Usage:     "create a new, empty imgFS store",
		ArgsUsage: fileArgument,
		Flags:     []cli.Flag{maxFilesFlag, thumbResFlag, smallResFlag},
		Action:    createHandler,
	}
}

func createHandler(c *cli.Context) error {
	path, err := requireArg(c, 0, fileArgument)
	if err != nil {
		return err
	}

	maxFiles := c.Int(maxFilesFlag.Name)
	if maxFiles <= 0 {
		return cmn.NewErr(cmn.KindMaxFiles, "max_files must be positive, got %d", maxFiles)
	}

	thumbRes, err := parseResPair(c.StringSlice(thumbResFlag.Name), defaultThumbW, defaultThumbH, maxThumbW, maxThumbH)
	if err != nil {
		return err
	}
	smallRes, err := parseResPair(c.StringSlice(smallResFlag.Name), defaultSmallW, defaultSmallH, maxSmallW, maxSmallH)
	if err != nil {
		return err
	}

	store, err := imgfs.Create(path, imgfs.CreateOpts{
		MaxFiles: uint32(maxFiles),
		ThumbRes: thumbRes,
		SmallRes: smallRes,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	printf("%s created: max_files=%d, thumb_res=%dx%d, small_res=%dx%d\n",
		path, maxFiles, thumbRes[0], thumbRes[1], smallRes[0], smallRes[1])
	return nil
}
