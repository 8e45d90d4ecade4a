package main

import (
	"fmt"
	"time"

	"github.com/claude/forgeplan/internal/cache"
	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/validation"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show saved wizard progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveCacheDir(cmd)
		if err != nil {
			return err
		}
		store, err := cache.Open(dir)
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		snap, ok, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "No saved progress.")
			return nil
		}

		saved := time.UnixMilli(snap.Timestamp)
		fmt.Fprintf(out, "Saved %s ago, at step %d of %d\n",
			time.Since(saved).Round(time.Minute), snap.CurrentStep, models.StepCount)
		for _, def := range validation.Steps {
			filled := 0
			for _, f := range def.Fields {
				if _, ok := snap.FormData[f]; ok {
					filled++
				}
			}
			mark := " "
			if validation.Validate(int(def.ID), snap.FormData).Valid {
				mark = "x"
			}
			fmt.Fprintf(out, "  [%s] %d. %s (%d/%d fields)\n", mark, def.ID, def.Title, filled, len(def.Fields))
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard saved wizard progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveCacheDir(cmd)
		if err != nil {
			return err
		}
		store, err := cache.Open(dir)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved progress cleared.")
		return nil
	},
}
