// Package assessor wires the dialogue pipeline: router, specialists,
// orchestrator and the stage graph between them. One Turn call runs one
// user message end to end.
package assessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/LucaLucareli/assessor/internal/core"
	"github.com/LucaLucareli/assessor/internal/graph"
	"github.com/LucaLucareli/assessor/internal/service/orchestrator"
	"github.com/LucaLucareli/assessor/internal/service/router"
	"github.com/LucaLucareli/assessor/internal/service/specialist"
	"github.com/LucaLucareli/assessor/internal/session"
	"github.com/LucaLucareli/assessor/pkg/log"
)

const apology = "Desculpe, tive um problema para processar sua mensagem. Pode tentar de novo?"

const (
	nodeRouter       = "router"
	nodeFAQ          = "faq"
	nodeOrchestrator = "orchestrator"
	branchEnd        = "end"
)

type turnState struct {
	sessionID string
	directive core.Directive
	result    core.SpecialistResult
	output    string
}

type Engine struct {
	sessions *session.Store
	pipeline *graph.Compiled[turnState]
}

func NewEngine(rt *router.Router, exec *specialist.Executor, faq *specialist.FAQHandler, sessions *session.Store) (*Engine, error) {
	g := graph.New[turnState]()

	g.AddNode(nodeRouter, func(ctx context.Context, s turnState) (turnState, error) {
		directive, err := rt.Route(ctx, s.sessionID)
		if err != nil {
			return s, err
		}
		s.directive = directive
		switch directive.Kind {
		case core.DirectiveClarify:
			s.output = directive.Clarify
		case core.DirectiveDirectReply:
			s.output = directive.Reply
		}
		return s, nil
	})

	specialistNode := func(ctx context.Context, s turnState) (turnState, error) {
		result, err := exec.Handle(ctx, s.directive, s.sessionID)
		if err != nil {
			return s, err
		}
		s.result = result
		return s, nil
	}
	for _, route := range []core.Route{core.RouteFinance, core.RouteSchedule, core.RouteFitness, core.RouteNutrition} {
		g.AddNode(string(route), specialistNode)
		g.AddEdge(string(route), nodeOrchestrator)
	}

	g.AddNode(nodeFAQ, func(ctx context.Context, s turnState) (turnState, error) {
		answer, err := faq.Answer(ctx, s.directive, s.sessionID)
		if err != nil {
			return s, err
		}
		s.output = answer
		return s, nil
	})

	g.AddNode(nodeOrchestrator, func(_ context.Context, s turnState) (turnState, error) {
		s.output = orchestrator.Render(s.result)
		return s, nil
	})

	g.AddEdge(graph.Start, nodeRouter)
	g.AddConditionalEdges(nodeRouter, func(s turnState) string {
		if s.directive.Kind != core.DirectiveRoute {
			return branchEnd
		}
		return string(s.directive.Route)
	}, map[string]string{
		branchEnd:                   graph.End,
		string(core.RouteFinance):   string(core.RouteFinance),
		string(core.RouteSchedule):  string(core.RouteSchedule),
		string(core.RouteFitness):   string(core.RouteFitness),
		string(core.RouteNutrition): string(core.RouteNutrition),
		string(core.RouteFAQ):       nodeFAQ,
	})
	g.AddEdge(nodeFAQ, graph.End)
	g.AddEdge(nodeOrchestrator, graph.End)

	pipeline, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return &Engine{sessions: sessions, pipeline: pipeline}, nil
}

// Turn runs one user message through the pipeline and returns the
// user-visible reply. Turns for the same session run one at a time.
// Recoverable failures come back as reply text, never as an error; the
// only error paths left are cancellation, which appends no partial
// history entry.
func (e *Engine) Turn(ctx context.Context, sessionID, text string) (string, error) {
	release := e.sessions.Acquire(sessionID)
	defer release()

	e.sessions.Append(sessionID, core.RoleUser, text)

	state, err := e.pipeline.Invoke(ctx, turnState{sessionID: sessionID})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		reply := userFacing(ctx, sessionID, err)
		e.sessions.Append(sessionID, core.RoleAssistant, reply)
		return reply, nil
	}

	e.sessions.Append(sessionID, core.RoleAssistant, state.output)
	return state.output, nil
}

// userFacing maps a pipeline failure to the line the user sees.
func userFacing(ctx context.Context, sessionID string, err error) string {
	logger := log.FromCtx(ctx)

	var routingErr *router.RoutingError
	var toolErr *specialist.ToolError
	switch {
	case errors.As(err, &routingErr):
		logger.Error().Err(err).Str("session", sessionID).Msg("routing error")
		return fmt.Sprintf("Erro de configuração: %v.", routingErr)
	case errors.As(err, &toolErr):
		logger.Warn().Err(err).Str("session", sessionID).Msg("tool error")
		return fmt.Sprintf("Não consegui concluir a operação: %v.", toolErr.Err)
	case errors.Is(err, router.ErrClassification):
		logger.Error().Err(err).Str("session", sessionID).Msg("classification error")
		return apology
	default:
		logger.Error().Err(err).Str("session", sessionID).Msg("turn failed")
		return apology
	}
}
