package main

import (
	"errors"
	"fmt"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/cache"
	"github.com/claude/forgeplan/internal/client"
	"github.com/claude/forgeplan/internal/console"
	"github.com/claude/forgeplan/internal/wizard"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fill in the wizard and generate a plan (default)",
	RunE:  runWizard,
}

func init() {
	runCmd.Flags().Bool("fresh", false, "ignore saved progress and start at step 1")
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}

func runWizard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := newLogger(cmd)

	dir, err := resolveCacheDir(cmd)
	if err != nil {
		return err
	}
	store, err := cache.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	api := client.New(resolveAPI(cmd), log)
	m := wizard.New(store, api, log)
	defer m.Close()
	m.Subscribe(console.Listener(out))

	if fresh, _ := cmd.Flags().GetBool("fresh"); fresh {
		m.Reset()
	} else if ok, err := m.Restore(ctx); err != nil {
		log.Warn("could not restore saved progress", "error", err)
	} else if ok {
		fmt.Fprintf(out, "Resuming saved progress at step %d. Type :reset to start over.\n", m.State().Step)
	}
	fmt.Fprintln(out, "Press enter to keep a shown value. Commands: :back, :reset, :quit")

	p := console.New(cmd.InOrStdin(), out, m)
	result, err := p.Run(ctx)
	for err != nil && retryable(err) && ctx.Err() == nil && p.Confirm("Try again?") {
		result, err = m.Submit(ctx)
	}
	switch {
	case errors.Is(err, console.ErrQuit):
		m.Flush()
		fmt.Fprintln(out, "\nProgress saved. Run forgeplan-wizard again to continue.")
		return nil
	case err != nil:
		m.Flush()
		return err
	}

	console.PrintResult(out, result)
	return nil
}

// retryable reports whether resubmitting the same answers may succeed.
func retryable(err error) bool {
	var verr *wizard.ValidationError
	if errors.As(err, &verr) || errors.Is(err, console.ErrQuit) {
		return false
	}
	code, ok := apierr.CodeOf(err)
	return !ok || code.Retryable()
}
