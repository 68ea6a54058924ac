// Copyright 2025 The tiercache Authors
// This file is part of the tiercache library.
//
// The tiercache library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tiercache library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tiercache library. If not, see <http://www.gnu.org/licenses/>.

package flags

import (
	"fmt"
	"os"
	"strings"

	"github.com/tiercache/tiercache/internal/version"
	"github.com/tiercache/tiercache/log"
	"github.com/urfave/cli/v2"
)

// usecolor defines whether the CLI help should use colored output or normal dumb
// colorless terminal formatting.
var usecolor = os.Getenv("TERM") != "dumb"

// NewApp creates an app with sane defaults.
func NewApp(usage string) *cli.App {
	git, _ := version.VCS()
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Version = version.WithCommit(git.Commit, git.Date)
	app.Usage = usage
	app.Copyright = "Copyright 2025 The tiercache Authors"
	app.Before = func(ctx *cli.Context) error {
		CheckEnvVars(ctx, CommandFlags(app.Flags, app.Commands), "TIERCACHE")
		return nil
	}
	if usecolor {
		app.CustomAppHelpTemplate = strings.Replace(cli.AppHelpTemplate, "{{.Name}}", "\u001b[1m{{.Name}}\u001b[0m", 1)
	}
	return app
}

// Merge merges the given flag slices.
func Merge(groups ...[]cli.Flag) []cli.Flag {
	var ret []cli.Flag
	for _, group := range groups {
		ret = append(ret, group...)
	}
	return ret
}

// CommandFlags returns the given flags plus those of every command and
// subcommand, so that env vars bound to command-level flags are recognized.
func CommandFlags(flags []cli.Flag, commands []*cli.Command) []cli.Flag {
	all := append([]cli.Flag(nil), flags...)
	for _, cmd := range commands {
		all = append(all, CommandFlags(cmd.Flags, cmd.Subcommands)...)
	}
	return all
}

// CheckEnvVars iterates over all the environment variables and checks if any of
// them look like a CLI flag but are not consumed. This can be used to detect
// typos in environment variable names. The unknown variables are returned.
func CheckEnvVars(ctx *cli.Context, flags []cli.Flag, prefix string) (unknown []string) {
	known := make(map[string]string)
	for _, flag := range flags {
		docflag, ok := flag.(cli.DocGenerationFlag)
		if !ok {
			continue
		}
		for _, envVar := range docflag.GetEnvVars() {
			known[envVar] = flag.Names()[0]
		}
	}
	keyvals := os.Environ()
	for _, keyval := range keyvals {
		key := strings.SplitN(keyval, "=", 2)[0]
		if !strings.HasPrefix(key, prefix+"_") {
			continue
		}
		if name, ok := known[key]; ok {
			log.Info("Config environment variable found", "envvar", key, "flag", name)
			continue
		}
		log.Warn("Unknown config environment variable", "envvar", key)
		unknown = append(unknown, key)
	}
	return unknown
}

// EnvName derives the environment variable bound to a flag name, e.g.
// cache.l1 -> TIERCACHE_CACHE_L1.
func EnvName(prefix, name string) string {
	return fmt.Sprintf("%s_%s", prefix, strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(name)))
}
