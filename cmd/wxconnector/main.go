// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the wxconnector service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/zathras777/wxconnector/internal/config"
	"github.com/zathras777/wxconnector/internal/logger"
	"github.com/zathras777/wxconnector/internal/service"
	"github.com/zathras777/wxconnector/internal/unit"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	check := flag.Bool("check", false, "check the unit table and exit")
	flag.Parse()

	if *check {
		os.Exit(checkUnits())
	}

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	log = logger.New(conf.LogLevel)

	serv, err := service.New(conf, log)
	if err != nil {
		log.Error("failed to initialize wxconnector service", logger.Err(err))
		os.Exit(1)
	}

	log.Info("starting wxconnector service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Error("wxconnector service failed", logger.Err(err))
		os.Exit(1)
	}
	log.Info("shutting down wxconnector service")
}

// loadConfig reads the given config file, the default config file or the environment only,
// in that order of preference.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		return config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		return config.NewFromFile(path, file)
	}
	return config.New()
}

// checkUnits prints all defects of the unit table and returns the exit code.
func checkUnits() int {
	diags := unit.Default().Check()
	for _, diag := range diags {
		fmt.Println(diag)
	}
	if len(diags) > 0 {
		return 1
	}
	fmt.Println("unit table OK")
	return 0
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "wxconnector", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
