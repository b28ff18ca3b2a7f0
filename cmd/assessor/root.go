package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/LucaLucareli/assessor/internal/config"
	"github.com/LucaLucareli/assessor/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "assessor",
	Short: "Assessor — personal assistant over finances, schedule, fitness and meals",
	Long:  `Assessor is a chat-driven personal assistant that routes each message to a domain specialist and keeps a local ledger of transactions, workouts and meals.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
