// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.
package main

import (
	"fmt"
	"os"

	"github.com/timescale/promfdw/pkg/log"
	"github.com/timescale/promfdw/pkg/runner"
	"github.com/timescale/promfdw/pkg/version"
	_ "go.uber.org/automaxprocs"
)

func main() {
	cfg := &runner.Config{}
	cfg, err := runner.ParseFlags(cfg, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Version: ", version.Version, "Commit Hash: ", version.CommitHash)
		fmt.Fprintln(os.Stderr, "Fatal error: cannot parse flags: ", err)
		os.Exit(1)
	}
	err = log.Init(cfg.LogCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Version: ", version.Version, "Commit Hash: ", version.CommitHash)
		fmt.Fprintln(os.Stderr, "Fatal error: cannot start logger: ", err)
		os.Exit(1)
	}
	err = runner.Run(cfg)
	if err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}
