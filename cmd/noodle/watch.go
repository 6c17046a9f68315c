package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/noodle/pkg/core"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the store for out-of-band changes",
	Long: `Watch reports entries changed by another process sharing the same
store file, one line per event, until interrupted. Only stores backed by a
file support watching.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := newStore()
		if err != nil {
			fatal("Failed to open store", err)
		}

		watchable, ok := store.(core.Watchable)
		if !ok {
			fatal("Store does not support watching", fmt.Errorf("adapter %q", adapter))
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		events, err := watchable.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		for event := range events {
			fmt.Printf("%s\t%s\n", event.Type, event.Key)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "match", "**", "Glob pattern for storage keys")
}
