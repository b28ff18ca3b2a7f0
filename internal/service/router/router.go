package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LucaLucareli/assessor/internal/core"
	"github.com/LucaLucareli/assessor/internal/session"
	"github.com/LucaLucareli/assessor/pkg/log"
)

// ErrClassification marks a collaborator failure while routing. The
// caller turns it into a generic apology instead of crashing the turn.
var ErrClassification = errors.New("falha ao classificar a mensagem")

type Router struct {
	ai       core.AIProvider
	sessions *session.Store
	window   int
}

func New(ai core.AIProvider, sessions *session.Store, historyWindow int) *Router {
	return &Router{ai: ai, sessions: sessions, window: historyWindow}
}

// Route classifies the session's latest user turn. History must
// already contain that turn when Route is called.
func (r *Router) Route(ctx context.Context, sessionID string) (core.Directive, error) {
	messages := append(
		[]core.Message{{Role: core.RoleSystem, Content: systemPrompt(time.Now())}},
		r.sessions.History(sessionID, r.window)...,
	)

	reply, err := r.ai.Chat(ctx, messages, nil)
	if err != nil {
		if ctx.Err() != nil {
			return core.Directive{}, ctx.Err()
		}
		log.FromCtx(ctx).Error().Err(err).Str("session", sessionID).Msg("router collaborator call failed")
		return core.Directive{}, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	directive, err := ParseDirective(reply.Content)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session", sessionID).Msg("router emitted an unknown route")
		return core.Directive{}, err
	}
	return directive, nil
}
