package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/claude/forgeplan/internal/catalog"
	"github.com/claude/forgeplan/internal/client"
	"github.com/claude/forgeplan/internal/engine"
	forgemcp "github.com/claude/forgeplan/internal/mcp"
	"github.com/claude/forgeplan/internal/session"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	apiURL := flag.String("api", "", "forgeplan server URL; empty runs the engine in process")
	catalogPath := flag.String("catalog", "", "path to a YAML exercise catalog (in-process mode)")
	seed := flag.Uint64("seed", 0, "exercise selection seed; 0 seeds from the clock (in-process mode)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("forgeplan-mcp", Version)
		return
	}

	// stdout carries the protocol
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var backend forgemcp.Backend
	if *apiURL != "" {
		backend = client.New(strings.TrimRight(*apiURL, "/"), log)
		log.Info("using remote backend", "api", *apiURL)
	} else {
		cat := catalog.Default()
		if *catalogPath != "" {
			var err error
			cat, err = catalog.Load(*catalogPath)
			if err != nil {
				log.Error("failed to load catalog", "path", *catalogPath, "error", err)
				os.Exit(1)
			}
		}
		s := *seed
		if s == 0 {
			s = uint64(time.Now().UnixNano())
		}
		gen := engine.New(cat, engine.NewRandomPicker(s))
		backend = forgemcp.NewLocal(gen, session.NewMemoryStore(), log)
		log.Info("using in-process engine", "exercises", cat.Len())
	}

	if err := server.ServeStdio(forgemcp.New(backend, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
