// Copyright 2025 The TypeServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the completion-info server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

TypeServe answers type-context and conforming-method queries against a
declaration index. It can operate as a MessagePack IPC server for
integration with text editors, or as a CLI application for testing and
debugging.

The server mode keeps per-buffer engine state cached between requests so
back-to-back queries on the same cursor position skip the parse pass.
Results are flattened into self-contained records before they cross the
process boundary.

# Usage

Start the server with default settings:

	typeserve

Use a custom index directory and enable debug mode:

	typeserve -index /path/to/decls -d

Run in CLI mode for interactive testing:

	typeserve -c -index ./index

The index directory should contain declaration files named decls_std.toml,
decls_app.toml, etc. One file describes one module's types and members.

# Configuration

Runtime configuration is managed through a TOML file that supports server
limits, engine settings, and CLI defaults:

	[server]
	max_buffer_bytes = 4194304
	max_args = 64
	max_type_names = 32

	[engine]
	index_dir = "index"
	module_name = ""

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Queries are
processed synchronously with microsecond timing information included in
responses.

Send a type-context request:

	{"id": "req1", "cmd": "ctx", "f": "main.code", "b": "let x: Int = ", "off": 13, "args": ["main.code"]}

Receive one item per expected type at the cursor:

	{"id": "req1", "items": [{"tn": "Int", "tid": "t:std.Int", "m": [...]}], "c": 1, "t": 145}

Conforming-method requests add the protocol names to match:

	{"id": "req2", "cmd": "methods", "types": ["Strideable"], ...}

# Server Mode

The default mode starts a MessagePack IPC server that processes queries
from stdin and writes responses to stdout. This design enables
integration with text editors and other applications through process
communication.

	srv := server.NewServer(service, appConfig)
	err := srv.Start()

The server automatically handles request parsing, validation against the
configured limits, and response formatting.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging
query behavior. Each input line is a one-line buffer with '#' marking the
cursor; results are printed with their descriptions and doc briefs.

	inputHandler := cli.NewInputHandler(service, index, &appConfig.CLI)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new features
before deploying to server mode.

# Command Line Flags

The following flags control application behavior:

	-index string
	    Directory containing declaration index files (default "index/")
	-module-name string
	    Module name of the invocation, used to filter name collisions
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-config string
	    Custom config file path

The application automatically resolves index and config paths relative to
the executable location, supporting both development and production
deployments.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/typeserve/internal/cli"
	"github.com/bastiangx/typeserve/internal/utils"
	"github.com/bastiangx/typeserve/pkg/config"
	"github.com/bastiangx/typeserve/pkg/engine"
	"github.com/bastiangx/typeserve/pkg/query"
	"github.com/bastiangx/typeserve/pkg/server"
)

const (
	Version = "0.2.0-beta"
	AppName = "typeserve"
	gh      = "https://github.com/bastiangx/typeserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	indexDir := flag.String("index", defaultConfig.Engine.IndexDir, "Directory containing declaration index files")
	moduleName := flag.String("module-name", defaultConfig.Engine.ModuleName, "Module name of the invocation")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configPathFlag := flag.String("config", "", "Custom config file path")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["version"] = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ TypeServe ] Serves really fast completion info!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	// Initialize path resolver for robust path handling
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
		log.Print("Either env is not set or system is not supported")
		log.Print("Did you forget to run the build or install scripts?")
		os.Exit(1)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	// Pathfinder for the declaration index dir
	resolvedIndexDir, err := pathResolver.GetIndexDir(*indexDir)
	if err != nil {
		log.Fatalf("Failed to resolve index dir:(%v)", err)
		os.Exit(1)
	}

	log.Debugf("Using index dir at: %s", resolvedIndexDir)

	ix, stats, err := engine.LoadIndexDir(resolvedIndexDir)
	if err != nil {
		log.Warnf("No declaration index loaded from %s: %v", resolvedIndexDir, err)
		log.Warn("Requests must name their own index via -index args...")
		ix = nil
	} else {
		log.Debugf("Index load done: files=[%d], types=[%d], members=[%d]",
			stats.Files, stats.Types, stats.Members)
	}

	service := query.NewService(ix)

	log.Debugf("Loading config...")
	configPath, err := pathResolver.GetConfigPath("config.toml")
	if err != nil {
		log.Fatalf("Failed to determine config path: (%v)", err)
		os.Exit(1)
	}
	if *configPathFlag != "" {
		configPath = *configPathFlag
	}
	log.Debugf("Using config file: (%s)", configPath)

	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	if *moduleName != "" {
		appConfig.Engine.ModuleName = *moduleName
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"indexDir", resolvedIndexDir,
			"bufferName", appConfig.CLI.DefaultBufferName)

		inputHandler := cli.NewInputHandler(service, ix, &appConfig.CLI)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(service, appConfig)

	showStartupInfo(resolvedIndexDir)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(indexDir string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" TypeServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("index dir: ( %s )", indexDir)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
