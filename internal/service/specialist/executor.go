// Package specialist runs the per-domain responders. Non-FAQ domains
// drive the ledger tool surface through the model's tool-calling loop
// and must come back with a structured result; FAQ answers free text
// straight from retrieved context.
package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/LucaLucareli/assessor/internal/core"
	"github.com/LucaLucareli/assessor/internal/ledger"
	"github.com/LucaLucareli/assessor/internal/session"
	"github.com/LucaLucareli/assessor/pkg/log"
)

// ToolError is a recoverable ledger failure. It ends the turn with a
// short user-facing error line instead of an orchestrated response.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("ferramenta %s falhou: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

type Executor struct {
	ai       core.AIProvider
	sessions *session.Store
	ledger   *ledger.Ledger
	window   int
	maxTool  int
}

func NewExecutor(ai core.AIProvider, sessions *session.Store, lg *ledger.Ledger, historyWindow, maxToolRounds int) *Executor {
	return &Executor{
		ai:       ai,
		sessions: sessions,
		ledger:   lg,
		window:   historyWindow,
		maxTool:  maxToolRounds,
	}
}

// Handle runs one specialist turn for a routed directive. The model may
// call ledger tools for up to maxToolRounds rounds before it must emit
// the final structured result.
func (e *Executor) Handle(ctx context.Context, directive core.Directive, sessionID string) (core.SpecialistResult, error) {
	logger := log.FromCtx(ctx)
	route := directive.Route

	messages := []core.Message{{Role: core.RoleSystem, Content: systemPrompt(route, directive.Persona, time.Now())}}
	messages = append(messages, e.sessions.History(sessionID, e.window)...)
	messages = append(messages, core.Message{
		Role:    core.RoleSystem,
		Content: "Encaminhamento do roteador:\n" + directive.Raw,
	})

	tools := ledger.Definitions()

	for round := 0; round <= e.maxTool; round++ {
		response, err := e.ai.Chat(ctx, messages, tools)
		if err != nil {
			return core.SpecialistResult{}, fmt.Errorf("especialista %s: %w", route, err)
		}
		messages = append(messages, response)

		if len(response.ToolCalls) == 0 {
			result, err := parseResult(response.Content)
			if err != nil {
				return core.SpecialistResult{}, fmt.Errorf("especialista %s: %w", route, err)
			}
			if err := validateResult(route, result); err != nil {
				return core.SpecialistResult{}, fmt.Errorf("especialista %s: %w", route, err)
			}
			return result, nil
		}

		for _, tc := range response.ToolCalls {
			logger.Info().Str("tool", tc.Function.Name).Str("session", sessionID).Msg("executing ledger tool")

			output, err := e.ledger.Call(ctx, tc.Function.Name, tc.Function.Arguments)
			if err != nil {
				return core.SpecialistResult{}, &ToolError{Tool: tc.Function.Name, Err: err}
			}
			messages = append(messages, core.Message{
				Role:       core.RoleTool,
				Content:    output,
				ToolCallID: tc.ID,
			})
		}
	}

	return core.SpecialistResult{}, fmt.Errorf("especialista %s: limite de %d rodadas de ferramentas excedido", route, e.maxTool)
}

// parseResult decodes the model's final message, tolerating a fenced
// code block around the JSON.
func parseResult(content string) (core.SpecialistResult, error) {
	text := strings.TrimSpace(content)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	var result core.SpecialistResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return core.SpecialistResult{}, fmt.Errorf("resultado fora do contrato JSON: %w", err)
	}
	return result, nil
}
