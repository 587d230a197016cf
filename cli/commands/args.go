package commands

import (
	"strconv"

	"github.com/urfave/cli"

	"github.com/imaneoujja/IMGFS/cmn"
)

func requireArg(c *cli.Context, idx int, name string) (string, error) {
	if c.NArg() <= idx {
		return "", cmn.NewErr(cmn.KindNotEnoughArguments, "missing required argument %s", name)
	}
	return c.Args().Get(idx), nil
}

func parseResPair(values []string, fallbackW, fallbackH, maxW, maxH uint16) ([2]uint16, error) {
	if len(values) == 0 {
		return [2]uint16{fallbackW, fallbackH}, nil
	}
	if len(values) != 2 {
		return [2]uint16{}, cmn.NewErr(cmn.KindResolutions, "expected two integers W H, got %v", values)
	}
	w, err1 := strconv.Atoi(values[0])
	h, err2 := strconv.Atoi(values[1])
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return [2]uint16{}, cmn.NewErr(cmn.KindResolutions, "invalid resolution %v", values)
	}
	if w > int(maxW) || h > int(maxH) {
		return [2]uint16{}, cmn.NewErr(cmn.KindResolutions, "resolution %dx%d exceeds ceiling %dx%d", w, h, maxW, maxH)
	}
	return [2]uint16{uint16(w), uint16(h)}, nil
}
