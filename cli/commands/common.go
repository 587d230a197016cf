// Package commands provides the set of imgfscmd commands used to operate
// on an imgFS store from the shell.
// This specific file contains common constants and variables used in
// other files.
/*
 * Copyright (c) 2018, NVIDIA CORPORATION. All rights reserved.
 */
package commands

import (
	"github.com/urfave/cli"
)

const (
	// Commands (top-level) - preferably verbs
	commandList   = "list"
	commandCreate = "create"
	commandRead   = "read"
	commandInsert = "insert"
	commandDelete = "delete"
	commandHelp   = "help"

	// Defaults, see spec §6 "CLI surface"
	defaultMaxFiles = 128
	defaultThumbW   = 64
	defaultThumbH   = 64
	defaultSmallW   = 256
	defaultSmallH   = 256
	maxThumbW       = 128
	maxThumbH       = 128
	maxSmallW       = 512
	maxSmallH       = 512
)

// Argument placeholders in help messages.
// Name format: *Argument
const (
	fileArgument       = "FILE"
	imgIDArgument      = "IMG_ID"
	sourcePathArgument = "SOURCE_IMAGE_PATH"
	resolutionArgument = "[original|orig|thumbnail|thumb|small]"
)

// Flags
var (
	maxFilesFlag = cli.IntFlag{Name: "max_files", Usage: "maximum number of images the store can hold", Value: defaultMaxFiles}
	thumbResFlag = cli.StringSliceFlag{Name: "thumb_res", Usage: "thumbnail resolution, two integers given as -thumb_res W -thumb_res H"}
	smallResFlag = cli.StringSliceFlag{Name: "small_res", Usage: "small resolution, two integers given as -small_res W -small_res H"}
	verboseFlag  = cli.BoolFlag{Name: "verbose,v", Usage: "accepted and ignored; logging output does not change"}
	progressFlag = cli.BoolFlag{Name: "progress", Usage: "display a progress bar while reading/writing image bytes"}
)
