// This file is the entry point for imgfs_server, the imgFS HTTP daemon.
// Usage: imgfs_server <file> [port] [index_html]
/*
 * Copyright (c) 2018, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang/glog"

	"github.com/imaneoujja/IMGFS/cmn"
	"github.com/imaneoujja/IMGFS/httpsrv"
	"github.com/imaneoujja/IMGFS/imgfs"
	"github.com/imaneoujja/IMGFS/stats"
)

const defaultPort = 8000

// statsDirName is created next to the store file to hold the scribble
// flat-file counters snapshot, so restarting against the same store
// resumes the same counters on disk.
const statsDirName = ".imgfs-stats"

func main() {
	defer glog.Flush()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "imgfs_server: %v\n", err)
		os.Exit(cmn.KindOf(err).ExitCode())
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return cmn.NewErr(cmn.KindNotEnoughArguments, "usage: imgfs_server <file> [port] [index_html]")
	}
	path := args[0]

	port := defaultPort
	if len(args) >= 2 {
		p, err := strconv.Atoi(args[1])
		if err != nil || p <= 0 {
			return cmn.NewErr(cmn.KindInvalidArgument, "invalid port %q", args[1])
		}
		port = p
	}

	store, err := imgfs.Open(path)
	if err != nil {
		return err
	}

	statsDir := filepath.Join(filepath.Dir(path), statsDirName)
	statsRunner, err := stats.NewRunner(statsDir)
	if err != nil {
		store.Close()
		return err
	}

	indexPath := ""
	if len(args) >= 3 {
		indexPath = args[2]
	}

	srv := &httpsrv.Server{Store: store, Stats: statsRunner, IndexPath: indexPath}
	return srv.Run("", port)
}
