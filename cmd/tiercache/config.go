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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/tiercache/tiercache/cmd/utils"
	"github.com/tiercache/tiercache/internal/flags"
	"github.com/tiercache/tiercache/tiered"
	"github.com/urfave/cli/v2"
)

var dumpConfigCommand = &cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Export configuration values in a TOML format",
	ArgsUsage:   "<dumpfile (optional)>",
	Flags:       configFlags,
	Description: `Export configuration values in TOML format (to stdout by default).`,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type tiercacheConfig struct {
	Cache    tiered.Config
	Database utils.DatabaseConfig
}

func loadConfig(file string, cfg *tiercacheConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the configuration from defaults, the config file and the
// command line flags, in increasing order of precedence.
func makeConfig(ctx *cli.Context) (tiercacheConfig, error) {
	cfg := tiercacheConfig{
		Cache:    tiered.DefaultConfig,
		Database: utils.DefaultDatabaseConfig,
	}
	if file := ctx.String(utils.ConfigFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	utils.SetCacheConfig(ctx, &cfg.Cache)
	utils.SetDatabaseConfig(ctx, &cfg.Database)
	cfg.Database.DataDir = flags.ExpandPath(cfg.Database.DataDir)
	return cfg, nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	var dump io.Writer = ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
