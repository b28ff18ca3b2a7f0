// Package cli is the interactive terminal transport: a readline loop
// feeding one line at a time into the dialogue engine.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/LucaLucareli/assessor/internal/config"
	"github.com/LucaLucareli/assessor/internal/service/assessor"
	"github.com/LucaLucareli/assessor/internal/service/command"
	"github.com/LucaLucareli/assessor/pkg/log"
)

// sentinels end the loop the same way the old chat did.
var sentinels = map[string]bool{
	"sair":  true,
	"end":   true,
	"fim":   true,
	"tchau": true,
	"bye":   true,
	"exit":  true,
}

type ReadLine struct {
	cfg       *config.AppConfig
	engine    *assessor.Engine
	commands  *command.Router
	sessionID string
	rl        *readline.Instance
}

func NewReadLine(engine *assessor.Engine, commands *command.Router, cfg *config.AppConfig, sessionID string) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "sair",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:       cfg,
		engine:    engine,
		commands:  commands,
		sessionID: sessionID,
		rl:        rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Str("session", r.sessionID).Msg("chat started, type 'sair' to quit")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if sentinels[strings.ToLower(line)] {
			fmt.Fprintln(r.rl.Stdout(), "Até logo!")
			return nil
		}

		if out, handled := r.commands.Execute(ctx, r.sessionID, line); handled {
			fmt.Fprintln(r.rl.Stdout(), out)
			continue
		}

		reply, err := r.engine.Turn(ctx, r.sessionID, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A single turn's failure never kills the loop.
			logger.Error().Err(err).Msg("turn failed")
			fmt.Fprintf(r.rl.Stdout(), "Erro: %v\n", err)
			continue
		}
		fmt.Fprintln(r.rl.Stdout(), reply)
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
