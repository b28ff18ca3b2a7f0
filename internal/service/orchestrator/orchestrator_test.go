package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LucaLucareli/assessor/internal/core"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		result core.SpecialistResult
		want   string
	}{
		{
			name:   "reply only",
			result: core.SpecialistResult{Reply: "Você gastou R$ 120,00 com mercado."},
			want:   "Você gastou R$ 120,00 com mercado.",
		},
		{
			name: "with recommendation",
			result: core.SpecialistResult{
				Reply:          "Você gastou R$ 120,00 com mercado.",
				Recommendation: "Considere definir um teto mensal para mercado.",
			},
			want: "Você gastou R$ 120,00 com mercado.\n- *Recomendação*: Considere definir um teto mensal para mercado.",
		},
		{
			name: "clarify preferred over follow-up",
			result: core.SpecialistResult{
				Reply:    "Registrei o gasto.",
				Clarify:  "Foi no crédito ou no débito?",
				FollowUp: "Quer ver o saldo do mês?",
			},
			want: "Registrei o gasto.\n- *Acompanhamento* (opcional): Foi no crédito ou no débito?",
		},
		{
			name: "follow-up when no clarify",
			result: core.SpecialistResult{
				Reply:    "Registrei o gasto.",
				FollowUp: "Quer ver o saldo do mês?",
			},
			want: "Registrei o gasto.\n- *Acompanhamento* (opcional): Quer ver o saldo do mês?",
		},
		{
			name: "all sections",
			result: core.SpecialistResult{
				Reply:          "Saldo de agosto: R$ 300,00.",
				Recommendation: "Separe parte disso para a reserva.",
				FollowUp:       "Quer o detalhamento por categoria?",
			},
			want: "Saldo de agosto: R$ 300,00.\n- *Recomendação*: Separe parte disso para a reserva.\n- *Acompanhamento* (opcional): Quer o detalhamento por categoria?",
		},
		{
			name: "whitespace-only sections omitted",
			result: core.SpecialistResult{
				Reply:          "Tudo certo.",
				Recommendation: "   ",
				Clarify:        "\n",
			},
			want: "Tudo certo.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.result))
		})
	}
}

func TestRenderFirstLineIsReplyVerbatim(t *testing.T) {
	result := core.SpecialistResult{
		Reply:          "Você gastou R$ 1.234,56 em 2025-08-01.",
		Recommendation: "x",
	}
	first := strings.SplitN(Render(result), "\n", 2)[0]
	assert.Equal(t, result.Reply, first)
}
