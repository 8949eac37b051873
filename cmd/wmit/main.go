// wmit converts and inspects Warzone 2100 model files (PIE, WZM, OBJ).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/wmit/internal/config"
	"github.com/Faultbox/wmit/internal/logger"
)

var errUsage = errors.New("usage")

func main() {
	flag.Usage = printUsage
	config.ParseFlags()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	command, args := flag.Arg(0), flag.Args()[1:]
	if err := run(command, args, cfg); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			logger.Error("command failed", zap.String("command", command), zap.Error(err))
		}
		logger.Sync()
		os.Exit(1)
	}
}

func run(command string, args []string, cfg *config.Config) error {
	switch command {
	case "info":
		return cmdInfo(os.Stdout, args, cfg)
	case "convert", "c":
		return cmdConvert(args, cfg)
	case "weld":
		return cmdWeld(args, cfg)
	case "transform", "t":
		return cmdTransform(args, cfg)
	case "config":
		return cmdConfig(os.Stdout, args, cfg)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		return errUsage
	}
}

func printUsage() {
	fmt.Println(`wmit - Warzone 2100 model tool

Usage:
  wmit [global options] <command> [options]

Commands:
  info <file>                            Show model information
  convert [-texture name] <in> <out>     Convert between .pie, .wzm and .obj
  weld <in> <out>                        Re-weld meshes with the configured tolerance
  transform [options] <in> <out>         Scale, mirror or flip winding
  config [-o path]                       Save the effective config

Transform options:
  -scale s        Uniform scale factor
  -mirror axis    Mirror across x, y or z
  -reverse        Reverse triangle winding

Global options:
  -config path    Config file (default ./wmit.yaml, then the user config dir)
  -debug          Debug logging
  -eps value      Weld tolerance
  -pie-version n  PIE version written by convert (2 or 3)
  -texdir dir     Texture search directory
  -log-file path  Also log to a rotated file

Examples:
  wmit info blbase.pie
  wmit -pie-version 2 convert body.wzm body.pie
  wmit convert -texture page-7-barbarians.png tank.obj tank.wzm
  wmit transform -mirror x -scale 1.5 turret.pie turret-big.pie`)
}
