package faq

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFAQ = `# Pagamentos
Aceitamos pix, cartão de crédito e boleto bancário.

# Horários de atendimento
Atendemos de segunda a sexta, das 9h às 18h.

# Entregas
O prazo de entrega é de 3 dias úteis para a capital.
`

func writeFAQ(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "FAQ.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFetchContextRanksByOverlap(t *testing.T) {
	r := NewRetriever(writeFAQ(t, sampleFAQ))

	got, err := r.FetchContext(context.Background(), "quais formas de pagamento vocês aceitam? cartão?")
	require.NoError(t, err)

	assert.Contains(t, got, "pix")
	assert.True(t, strings.HasPrefix(got, "Pagamentos"), "best match comes first: %q", got)
}

func TestFetchContextAccentInsensitive(t *testing.T) {
	r := NewRetriever(writeFAQ(t, sampleFAQ))

	got, err := r.FetchContext(context.Background(), "qual o horario de atendimento")
	require.NoError(t, err)

	assert.Contains(t, got, "9h às 18h")
}

func TestFetchContextNoMatch(t *testing.T) {
	r := NewRetriever(writeFAQ(t, sampleFAQ))

	got, err := r.FetchContext(context.Background(), "xyzzy frobnicate")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchContextMissingFile(t *testing.T) {
	r := NewRetriever(filepath.Join(t.TempDir(), "nope.md"))

	got, err := r.FetchContext(context.Background(), "qualquer pergunta")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchContextTopK(t *testing.T) {
	r := NewRetriever(writeFAQ(t, sampleFAQ))
	r.topK = 1

	got, err := r.FetchContext(context.Background(), "atendimento entregas pagamentos")
	require.NoError(t, err)

	assert.NotEmpty(t, got)
	// A single chunk never contains two headings.
	headings := 0
	for _, h := range []string{"Pagamentos", "Horários", "Entregas"} {
		if strings.Contains(got, h) {
			headings++
		}
	}
	assert.Equal(t, 1, headings)
}
