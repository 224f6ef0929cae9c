// surfacetool inspects, tessellates, exports, serves and previews display
// surface descriptions.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/surfacegeom/internal/config"
	"github.com/Faultbox/surfacegeom/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
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

	command, rest := args[0], args[1:]
	var run func(*config.Config, []string) error
	switch command {
	case "info":
		run = cmdInfo
	case "mesh":
		run = cmdMesh
	case "lookup":
		run = cmdLookup
	case "inverse":
		run = cmdInverse
	case "intersect":
		run = cmdIntersect
	case "export":
		run = cmdExport
	case "list", "ls":
		run = cmdList
	case "serve":
		run = cmdServe
	case "view":
		run = cmdView
	case "snapshot":
		run = cmdSnapshot
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err := run(cfg, rest); err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`surfacetool - display surface geometry utility

Usage:
  surfacetool [global options] <command> [options]

A <surface> is either a name from the config file or a path to a JSON
surface description.

Commands:
  info [-dump] <surface>                     Show model, parameters and mesh statistics
  mesh [-format f] [-o file] <surface>       Tessellate and write the mesh (default stdout, json)
  lookup <surface> <u> <v>                   Map a texture coordinate to position and normal
  inverse <surface> <x> <y> <z>              Map a world position to its texture coordinate
  intersect <surface> <from xyz> <to xyz>    First surface hit of a ray
  list                                       List configured surfaces
  export [-format f] [-o dir] [names...]     Export configured surfaces
  serve                                      Serve configured surfaces over HTTP
  view <surface>                             Open an interactive preview window
  snapshot <surface> <out.png>               Render the surface offscreen to PNG

Global options:
  -config path   Config file (default ./surfaces.yaml)
  -debug         Debug logging
  -colors        Color vertices by texture coordinate
  -addr addr     HTTP listen address for serve
  -width, -height, -windowed, -fullscreen   Preview window settings

Examples:
  surfacetool info dome.json
  surfacetool mesh -format obj -o dome.obj dome.json
  surfacetool lookup dome.json 0.25 0.5
  surfacetool -config rig.yaml export -o out
  surfacetool -colors view dome`)
}
