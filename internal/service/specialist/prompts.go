package specialist

import (
	"fmt"
	"strings"
	"time"

	"github.com/LucaLucareli/assessor/internal/core"
	"github.com/LucaLucareli/assessor/internal/ledger"
)

var personaByRoute = map[core.Route]string{
	core.RouteFinance:   `Você é o especialista financeiro de um assessor pessoal. Você registra e consulta transações, calcula saldos e atualiza lançamentos usando exclusivamente as ferramentas disponíveis. Nunca invente valores: se um dado não veio do usuário nem de uma ferramenta, peça-o na resposta.`,
	core.RouteSchedule:  `Você é o especialista de agenda de um assessor pessoal. Você organiza compromissos, verifica horários e aponta conflitos. Nunca confirme um evento cujos dados não foram informados: peça o que faltar.`,
	core.RouteFitness:   `Você é o especialista de treinos de um assessor pessoal. Você planeja, ajusta e registra treinos usando as ferramentas disponíveis. Não prescreva cargas ou exercícios com base em dados que o usuário não forneceu.`,
	core.RouteNutrition: `Você é o especialista de alimentação de um assessor pessoal. Você registra refeições e sugere opções usando as ferramentas disponíveis. Não estime calorias ou quantidades que o usuário não informou.`,
}

const resultContract = `Ao concluir, responda SOMENTE com um objeto JSON neste formato, sem texto fora dele:
{
  "dominio": "%s",
  "intencao": "<uma de: %s>",
  "resposta": "<frase principal, obrigatória, uma sentença>",
  "recomendacao": "<opcional>",
  "acompanhamento": "<pergunta de acompanhamento, opcional>",
  "esclarecer": "<pergunta de esclarecimento, opcional>",
  "janela_tempo": {"de": "YYYY-MM-DD", "ate": "YYYY-MM-DD", "rotulo": "<opcional>"},
  "evento": {"titulo": "", "data": "", "inicio": "", "fim": "", "local": ""},
  "escrita": {"operacao": "", "id": 0}
}
Omita campos opcionais vazios. "janela_tempo" só aparece quando a resposta cobre um período. "escrita" só aparece após uma inserção ou atualização.`

func systemPrompt(route core.Route, persona string, now time.Time) string {
	var b strings.Builder
	b.WriteString(personaByRoute[route])
	if persona != "" {
		b.WriteString("\n\nTom indicado pelo roteador: ")
		b.WriteString(persona)
	}
	fmt.Fprintf(&b, "\n\nData de hoje: %s.\n\n", now.In(ledger.LocalZone()).Format("2006-01-02 (Monday)"))
	fmt.Fprintf(&b, resultContract, route, strings.Join(intentsByRoute[route], ", "))
	return b.String()
}
