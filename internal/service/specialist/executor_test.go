package specialist

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucaLucareli/assessor/internal/core"
	"github.com/LucaLucareli/assessor/internal/ledger"
	"github.com/LucaLucareli/assessor/internal/session"
	"github.com/LucaLucareli/assessor/internal/storage/sqlite"
)

// scriptedAI replays a fixed sequence of responses, recording every
// request it sees.
type scriptedAI struct {
	responses []core.Message
	calls     [][]core.Message
}

func (s *scriptedAI) Chat(_ context.Context, history []core.Message, _ []core.Tool) (core.Message, error) {
	s.calls = append(s.calls, history)
	if len(s.responses) == 0 {
		return core.Message{}, errors.New("script exhausted")
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next, nil
}

func newTestExecutor(t *testing.T, ai core.AIProvider) (*Executor, *session.Store) {
	t.Helper()
	db, err := sqlite.NewDB(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sessions := session.NewStore()
	return NewExecutor(ai, sessions, ledger.New(db), 30, 8), sessions
}

func financeDirective(question string) core.Directive {
	return core.Directive{
		Kind:             core.DirectiveRoute,
		Route:            core.RouteFinance,
		OriginalQuestion: question,
		Persona:          "direto",
		Raw:              "ROUTE=finance\nPERGUNTA_ORIGINAL=" + question + "\nPERSONA=direto\nCLARIFY=",
	}
}

func resultJSON(t *testing.T, r core.SpecialistResult) string {
	t.Helper()
	data, err := json.Marshal(r)
	require.NoError(t, err)
	return string(data)
}

func TestHandleDirectResult(t *testing.T) {
	ai := &scriptedAI{responses: []core.Message{{
		Role: core.RoleAssistant,
		Content: resultJSON(t, core.SpecialistResult{
			Domain: "finance",
			Intent: "consultar",
			Reply:  "Você gastou R$ 120,00 com mercado no mês passado.",
			Window: &core.TimeWindow{From: "2025-08-01", To: "2025-08-31", Label: "mês passado"},
		}),
	}}}
	exec, sessions := newTestExecutor(t, ai)
	sessions.Append("s1", core.RoleUser, "Quanto gastei com mercado no mês passado?")

	result, err := exec.Handle(context.Background(), financeDirective("Quanto gastei com mercado no mês passado?"), "s1")
	require.NoError(t, err)

	assert.Equal(t, core.RouteFinance, result.Domain)
	assert.Equal(t, "consultar", result.Intent)
	assert.NotEmpty(t, result.Reply)
	require.NotNil(t, result.Window)
	assert.Equal(t, "2025-08-01", result.Window.From)

	// system persona + history + handoff block
	require.Len(t, ai.calls, 1)
	assert.Equal(t, core.RoleSystem, ai.calls[0][0].Role)
	assert.Contains(t, ai.calls[0][len(ai.calls[0])-1].Content, "ROUTE=finance")
}

func TestHandleToolRoundThenResult(t *testing.T) {
	ai := &scriptedAI{responses: []core.Message{
		{
			Role: core.RoleAssistant,
			ToolCalls: []core.ToolCall{{
				ID:   "call-1",
				Type: "function",
				Function: core.FunctionCall{
					Name:      ledger.ToolAddTransaction,
					Arguments: `{"amount": 50, "source_text": "50 no mercado", "type_name": "GASTO", "category_name": "comida"}`,
				},
			}},
		},
		{
			Role: core.RoleAssistant,
			Content: resultJSON(t, core.SpecialistResult{
				Domain: "finance",
				Intent: "inserir",
				Reply:  "Gasto de R$ 50,00 no mercado registrado.",
				Write:  &core.WriteReceipt{Operation: "insert", ID: 1},
			}),
		},
	}}
	exec, sessions := newTestExecutor(t, ai)
	sessions.Append("s1", core.RoleUser, "gastei 50 no mercado")

	result, err := exec.Handle(context.Background(), financeDirective("gastei 50 no mercado"), "s1")
	require.NoError(t, err)

	assert.Equal(t, "inserir", result.Intent)
	require.NotNil(t, result.Write)
	assert.Equal(t, int64(1), result.Write.ID)

	// second call carries the tool output back to the model
	require.Len(t, ai.calls, 2)
	last := ai.calls[1][len(ai.calls[1])-1]
	assert.Equal(t, core.RoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)
}

func TestHandleToolErrorAbortsTurn(t *testing.T) {
	ai := &scriptedAI{responses: []core.Message{{
		Role: core.RoleAssistant,
		ToolCalls: []core.ToolCall{{
			ID:   "call-1",
			Type: "function",
			Function: core.FunctionCall{
				Name:      ledger.ToolAddTransaction,
				Arguments: `{"amount": 10, "source_text": "x", "type_name": "inexistente"}`,
			},
		}},
	}}}
	exec, sessions := newTestExecutor(t, ai)
	sessions.Append("s1", core.RoleUser, "x")

	_, err := exec.Handle(context.Background(), financeDirective("x"), "s1")

	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, ledger.ToolAddTransaction, te.Tool)
	assert.ErrorIs(t, err, ledger.ErrInvalidType)
}

func TestHandleRejectsWrongDomain(t *testing.T) {
	ai := &scriptedAI{responses: []core.Message{{
		Role:    core.RoleAssistant,
		Content: resultJSON(t, core.SpecialistResult{Domain: "fitness", Intent: "consultar", Reply: "ok"}),
	}}}
	exec, sessions := newTestExecutor(t, ai)
	sessions.Append("s1", core.RoleUser, "x")

	_, err := exec.Handle(context.Background(), financeDirective("x"), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "não corresponde à rota")
}

func TestHandleRejectsUnknownIntent(t *testing.T) {
	ai := &scriptedAI{responses: []core.Message{{
		Role:    core.RoleAssistant,
		Content: resultJSON(t, core.SpecialistResult{Domain: "finance", Intent: "voar", Reply: "ok"}),
	}}}
	exec, sessions := newTestExecutor(t, ai)
	sessions.Append("s1", core.RoleUser, "x")

	_, err := exec.Handle(context.Background(), financeDirective("x"), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intencao")
}

func TestHandleRejectsEmptyReply(t *testing.T) {
	ai := &scriptedAI{responses: []core.Message{{
		Role:    core.RoleAssistant,
		Content: resultJSON(t, core.SpecialistResult{Domain: "finance", Intent: "consultar"}),
	}}}
	exec, sessions := newTestExecutor(t, ai)
	sessions.Append("s1", core.RoleUser, "x")

	_, err := exec.Handle(context.Background(), financeDirective("x"), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resposta principal")
}

func TestHandleParsesFencedJSON(t *testing.T) {
	ai := &scriptedAI{responses: []core.Message{{
		Role: core.RoleAssistant,
		Content: "```json\n" + resultJSON(t, core.SpecialistResult{
			Domain: "finance", Intent: "resumo", Reply: "Seu saldo é R$ 10,00.",
		}) + "\n```",
	}}}
	exec, sessions := newTestExecutor(t, ai)
	sessions.Append("s1", core.RoleUser, "saldo?")

	result, err := exec.Handle(context.Background(), financeDirective("saldo?"), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Seu saldo é R$ 10,00.", result.Reply)
}

func TestHandleToolRoundLimit(t *testing.T) {
	call := core.Message{
		Role: core.RoleAssistant,
		ToolCalls: []core.ToolCall{{
			ID:       "loop",
			Type:     "function",
			Function: core.FunctionCall{Name: ledger.ToolTotalBalance, Arguments: `{}`},
		}},
	}
	responses := make([]core.Message, 0, 12)
	for i := 0; i < 12; i++ {
		responses = append(responses, call)
	}
	ai := &scriptedAI{responses: responses}

	db, err := sqlite.NewDB(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sessions := session.NewStore()
	exec := NewExecutor(ai, sessions, ledger.New(db), 30, 2)
	sessions.Append("s1", core.RoleUser, "saldo?")

	_, err = exec.Handle(context.Background(), financeDirective("saldo?"), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rodadas de ferramentas")
}
