// This file is the entry point for imgfscmd, the imgFS command-line tool.
/*
 * Copyright (c) 2018, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"os"

	"github.com/golang/glog"

	"github.com/imaneoujja/IMGFS/cli/commands"
)

// NOTE: set by ldflags
var version string

func main() {
	defer glog.Flush()

	app := commands.NewApp(version)
	err := app.Run(os.Args)
	os.Exit(commands.ExitCode(err))
}
