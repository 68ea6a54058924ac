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
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestPathExpansion(t *testing.T) {
	home := HomeDir()
	tests := map[string]string{
		"/home/someuser/tmp": "/home/someuser/tmp",
		"~/tmp":              home + "/tmp",
		"~thisOtherUser/b/":  "~thisOtherUser/b",
		"$DDDXXX/a/b":        "/tmp/a/b",
		"/a/b/":              "/a/b",
		"/a/b/../c":          "/a/c",
	}
	t.Setenv("DDDXXX", "/tmp")
	for test, expected := range tests {
		assert.Equal(t, expected, ExpandPath(test), "input %q", test)
	}
}

func TestDirectoryFlagApply(t *testing.T) {
	t.Setenv("TIERCACHE_DATADIR", "~/cachedata")
	f := &DirectoryFlag{
		Name:    "datadir",
		Value:   DirectoryString("/default"),
		EnvVars: []string{"TIERCACHE_DATADIR"},
	}
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	require.NoError(t, f.Apply(set))
	assert.True(t, f.IsSet())
	assert.Equal(t, HomeDir()+"/cachedata", f.GetValue())

	require.NoError(t, set.Parse([]string{"--datadir", "/x/../y"}))
	assert.Equal(t, "/y", f.GetValue())
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "TIERCACHE_CACHE_L1", EnvName("TIERCACHE", "cache.l1"))
	assert.Equal(t, "TIERCACHE_LOG_MAX_SIZE", EnvName("TIERCACHE", "log.max-size"))
}

func TestNewApp(t *testing.T) {
	app := NewApp("test usage")
	assert.Equal(t, "test usage", app.Usage)
	assert.NotEmpty(t, app.Version)

	var ran bool
	app.Flags = []cli.Flag{&cli.IntFlag{Name: "n", EnvVars: []string{"TIERCACHE_N"}}}
	app.Action = func(ctx *cli.Context) error {
		ran = true
		return nil
	}
	os.Unsetenv("TIERCACHE_N")
	require.NoError(t, app.Run([]string{"test", "--n", "3"}))
	assert.True(t, ran)
}

func TestMerge(t *testing.T) {
	a := []cli.Flag{&cli.IntFlag{Name: "a"}}
	b := []cli.Flag{&cli.IntFlag{Name: "b"}, &cli.IntFlag{Name: "c"}}
	merged := Merge(a, b)
	require.Len(t, merged, 3)
	assert.Equal(t, "c", merged[2].Names()[0])
}

func TestCheckEnvVarsCommandFlags(t *testing.T) {
	var (
		global = &cli.IntFlag{Name: "verbosity", EnvVars: []string{"TIERCACHE_VERBOSITY"}}
		l1     = &cli.IntFlag{Name: "cache.l1", EnvVars: []string{"TIERCACHE_CACHE_L1"}}
		engine = &cli.StringFlag{Name: "db.engine", EnvVars: []string{"TIERCACHE_DB_ENGINE"}}
	)
	commands := []*cli.Command{
		{Name: "lookup", Flags: []cli.Flag{l1}},
		{Name: "db", Subcommands: []*cli.Command{{Name: "get", Flags: []cli.Flag{engine}}}},
	}
	t.Setenv("TIERCACHE_VERBOSITY", "3")
	t.Setenv("TIERCACHE_CACHE_L1", "5")
	t.Setenv("TIERCACHE_DB_ENGINE", "pebble")
	t.Setenv("TIERCACHE_CACHE_L3", "7")

	all := CommandFlags([]cli.Flag{global}, commands)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"TIERCACHE_CACHE_L3"}, CheckEnvVars(nil, all, "TIERCACHE"))

	// Looking at the app flags alone misses the command-level bindings.
	assert.ElementsMatch(t,
		[]string{"TIERCACHE_CACHE_L1", "TIERCACHE_DB_ENGINE", "TIERCACHE_CACHE_L3"},
		CheckEnvVars(nil, []cli.Flag{global}, "TIERCACHE"))
}
