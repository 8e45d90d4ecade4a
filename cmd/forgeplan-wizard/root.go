package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/forgeplan/internal/client"
	"github.com/spf13/cobra"
)

const defaultAPI = "http://localhost:8080"

var rootCmd = &cobra.Command{
	Use:           "forgeplan-wizard",
	Short:         "Build a weekly workout plan step by step",
	Long:          "forgeplan-wizard asks for your details over five steps, keeps your progress between runs and generates a workout plan on a forgeplan server.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWizard,
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "forgeplan server URL (overrides FORGEPLAN_API_URL env var)")
	rootCmd.PersistentFlags().String("cache-dir", "", "directory for saved progress (overrides FORGEPLAN_CACHE_DIR env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log requests and cache writes to stderr")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exercisesCmd)
}

// resolveAPI returns the server URL using --api (highest priority),
// then FORGEPLAN_API_URL, then the local default.
func resolveAPI(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("api")
	if u == "" {
		u = os.Getenv("FORGEPLAN_API_URL")
	}
	if u == "" {
		u = defaultAPI
	}
	return strings.TrimRight(u, "/")
}

// resolveCacheDir returns the progress directory in priority order:
// --cache-dir, FORGEPLAN_CACHE_DIR, $XDG_CACHE_HOME/forgeplan,
// ~/.cache/forgeplan.
func resolveCacheDir(cmd *cobra.Command) (string, error) {
	if d, _ := cmd.Flags().GetString("cache-dir"); d != "" {
		return d, nil
	}
	if d := os.Getenv("FORGEPLAN_CACHE_DIR"); d != "" {
		return d, nil
	}
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, "forgeplan"), nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(cmd *cobra.Command) *client.Client {
	return client.New(resolveAPI(cmd), newLogger(cmd))
}
