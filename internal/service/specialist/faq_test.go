package specialist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucaLucareli/assessor/internal/core"
	"github.com/LucaLucareli/assessor/internal/session"
)

type fakeRetriever struct {
	context string
	err     error
	asked   string
}

func (f *fakeRetriever) FetchContext(_ context.Context, question string) (string, error) {
	f.asked = question
	return f.context, f.err
}

func faqDirective(question string) core.Directive {
	return core.Directive{
		Kind:             core.DirectiveRoute,
		Route:            core.RouteFAQ,
		OriginalQuestion: question,
		Raw:              "ROUTE=faq\nPERGUNTA_ORIGINAL=" + question + "\nPERSONA=\nCLARIFY=",
	}
}

func TestFAQAnswerUsesRetrievedContext(t *testing.T) {
	ai := &scriptedAI{responses: []core.Message{{Role: core.RoleAssistant, Content: "Aceitamos pix e cartão."}}}
	retriever := &fakeRetriever{context: "Pagamentos\nAceitamos pix e cartão."}
	sessions := session.NewStore()
	sessions.Append("s1", core.RoleUser, "como pagar?")

	h := NewFAQHandler(ai, retriever, sessions, 30)
	got, err := h.Answer(context.Background(), faqDirective("como pagar?"), "s1")
	require.NoError(t, err)

	assert.Equal(t, "Aceitamos pix e cartão.", got)
	assert.Equal(t, "como pagar?", retriever.asked)
	assert.Contains(t, ai.calls[0][0].Content, "Pagamentos")
}

func TestFAQAnswerEmptyContextStillAnswers(t *testing.T) {
	ai := &scriptedAI{responses: []core.Message{{Role: core.RoleAssistant, Content: "Não encontrei essa informação."}}}
	sessions := session.NewStore()
	sessions.Append("s1", core.RoleUser, "pergunta obscura")

	h := NewFAQHandler(ai, &fakeRetriever{}, sessions, 30)
	got, err := h.Answer(context.Background(), faqDirective("pergunta obscura"), "s1")
	require.NoError(t, err)

	assert.NotEmpty(t, got)
	assert.Contains(t, ai.calls[0][0].Content, "nenhum material")
}

func TestFAQAnswerRetrieverFailure(t *testing.T) {
	h := NewFAQHandler(&scriptedAI{}, &fakeRetriever{err: errors.New("disk gone")}, session.NewStore(), 30)

	_, err := h.Answer(context.Background(), faqDirective("x"), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busca de contexto")
}
