package specialist

import (
	"context"
	"fmt"
	"strings"

	"github.com/LucaLucareli/assessor/internal/core"
	"github.com/LucaLucareli/assessor/internal/session"
)

const faqPersona = `Você responde dúvidas sobre o próprio assessor pessoal usando APENAS o material de apoio abaixo. Se a resposta não estiver no material, diga que não sabe e sugira reformular a pergunta. Responda em texto corrido, curto e direto.`

// FAQHandler is the degenerate specialist: no ledger, no structured
// result, no orchestrator. It answers free text from retrieved context.
type FAQHandler struct {
	ai        core.AIProvider
	retriever core.Retriever
	sessions  *session.Store
	window    int
}

func NewFAQHandler(ai core.AIProvider, retriever core.Retriever, sessions *session.Store, historyWindow int) *FAQHandler {
	return &FAQHandler{ai: ai, retriever: retriever, sessions: sessions, window: historyWindow}
}

func (h *FAQHandler) Answer(ctx context.Context, directive core.Directive, sessionID string) (string, error) {
	question := directive.OriginalQuestion
	if question == "" {
		question = directive.Raw
	}

	supporting, err := h.retriever.FetchContext(ctx, question)
	if err != nil {
		return "", fmt.Errorf("faq: busca de contexto falhou: %w", err)
	}

	var prompt strings.Builder
	prompt.WriteString(faqPersona)
	prompt.WriteString("\n\nMaterial de apoio:\n")
	if supporting == "" {
		prompt.WriteString("(nenhum material encontrado para esta pergunta)")
	} else {
		prompt.WriteString(supporting)
	}

	messages := []core.Message{{Role: core.RoleSystem, Content: prompt.String()}}
	messages = append(messages, h.sessions.History(sessionID, h.window)...)

	response, err := h.ai.Chat(ctx, messages, nil)
	if err != nil {
		return "", fmt.Errorf("faq: %w", err)
	}
	if strings.TrimSpace(response.Content) == "" {
		return "", fmt.Errorf("faq: resposta vazia do colaborador")
	}
	return response.Content, nil
}
