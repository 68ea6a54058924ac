// Copyright 2025 The tiercache Authors
// This file is part of tiercache.
//
// tiercache is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tiercache is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tiercache. If not, see <http://www.gnu.org/licenses/>.

// tiercache is a command-line front end for the tiered LRU cache.
package main

import (
	"fmt"
	"os"

	"github.com/tiercache/tiercache/cmd/utils"
	"github.com/tiercache/tiercache/internal/debug"
	"github.com/tiercache/tiercache/internal/flags"
	"github.com/tiercache/tiercache/log"
	"github.com/tiercache/tiercache/metrics"
	"github.com/urfave/cli/v2"
)

const clientIdentifier = "tiercache"

var app = flags.NewApp("the tiered LRU cache command line interface")

// configFlags are the flags shared by every command that builds a cache or
// opens the backing database.
var configFlags = flags.Merge([]cli.Flag{utils.ConfigFileFlag}, utils.CacheFlags, utils.DatabaseFlags)

func init() {
	app.Action = cli.ShowAppHelp
	app.Commands = []*cli.Command{
		// See demo.go
		demoCommand,
		// See dbcmd.go
		dbCommand,
		lookupCommand,
		// See benchcmd.go
		benchCommand,
		// See config.go
		dumpConfigCommand,
	}
	app.Flags = debug.Flags

	checkEnv := app.Before
	app.Before = func(ctx *cli.Context) error {
		if err := debug.Setup(ctx); err != nil {
			return err
		}
		return checkEnv(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// reportMetrics logs every counter of the registry.
func reportMetrics(r metrics.Registry) {
	r.Each(func(name string, m any) {
		if c, ok := m.(*metrics.Counter); ok {
			log.Info("Cache counter", "name", name, "count", c.Snapshot().Count())
		}
	})
}
