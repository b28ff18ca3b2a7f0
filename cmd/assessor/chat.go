package main

import (
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/LucaLucareli/assessor/internal/transport/cli"
	"github.com/LucaLucareli/assessor/pkg/log"
	"github.com/LucaLucareli/assessor/pkg/srv"
)

var sessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat",
	Long:  `Opens a readline loop against the dialogue engine. Type 'sair' (or exit, fim, tchau, bye, end) to quit; slash-commands like /saldo and /sessao run locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		app := NewApp(ctx)

		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		repl, err := cli.NewReadLine(app.Engine, app.Commands, app.Config, sessionID)
		if err != nil {
			return err
		}

		logger.Info().Msg("starting assessor")
		go func() {
			defer stop()
			if err := repl.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("chat loop failed")
			}
		}()

		srv.ShutdownServices(ctx, append(app.Services, repl))
		logger.Info().Msg("assessor has been shut down gracefully")
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&sessionID, "session", "", "session id (random when empty)")
	rootCmd.AddCommand(chatCmd)
}
