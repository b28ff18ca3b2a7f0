package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucaLucareli/assessor/internal/core"
)

func TestParseDirectiveRoute(t *testing.T) {
	raw := "ROUTE=finance\nPERGUNTA_ORIGINAL=Quanto gastei com mercado?\nPERSONA=Seja objetivo e direto.\nCLARIFY="

	d, err := ParseDirective(raw)
	require.NoError(t, err)

	assert.Equal(t, core.DirectiveRoute, d.Kind)
	assert.Equal(t, core.RouteFinance, d.Route)
	assert.Equal(t, "Quanto gastei com mercado?", d.OriginalQuestion)
	assert.Equal(t, "Seja objetivo e direto.", d.Persona)
	assert.Equal(t, raw, d.Raw)
}

func TestParseDirectiveClarifyWinsOverRoute(t *testing.T) {
	raw := "ROUTE=finance\nPERGUNTA_ORIGINAL=gastei\nPERSONA=x\nCLARIFY=Você quer o total do mês ou do dia?"

	d, err := ParseDirective(raw)
	require.NoError(t, err)

	assert.Equal(t, core.DirectiveClarify, d.Kind)
	assert.Equal(t, "Você quer o total do mês ou do dia?", d.Clarify)
}

func TestParseDirectiveEmptyClarifyDoesNotShortCircuit(t *testing.T) {
	raw := "ROUTE=fitness\nPERGUNTA_ORIGINAL=treino de hoje\nPERSONA=coach\nCLARIFY=   "

	d, err := ParseDirective(raw)
	require.NoError(t, err)

	assert.Equal(t, core.DirectiveRoute, d.Kind)
	assert.Equal(t, core.RouteFitness, d.Route)
}

func TestParseDirectiveNoRouteIsDirectReply(t *testing.T) {
	raw := "Olá! Tudo bem? Posso ajudar com finanças, agenda, treinos e refeições."

	d, err := ParseDirective(raw)
	require.NoError(t, err)

	assert.Equal(t, core.DirectiveDirectReply, d.Kind)
	assert.Equal(t, raw, d.Reply)
}

func TestParseDirectiveUnknownRouteToken(t *testing.T) {
	_, err := ParseDirective("ROUTE=weather\nPERGUNTA_ORIGINAL=vai chover?\nPERSONA=x\nCLARIFY=")

	var re *RoutingError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "weather", re.Token)
}

func TestParseDirectiveMultilineClarify(t *testing.T) {
	raw := "CLARIFY=Qual período você quer?\nPode ser um mês ou um dia específico."

	d, err := ParseDirective(raw)
	require.NoError(t, err)

	assert.Equal(t, core.DirectiveClarify, d.Kind)
	assert.Contains(t, d.Clarify, "Qual período você quer?")
}

func TestParseDirectiveAllRoutes(t *testing.T) {
	for _, route := range []string{"finance", "schedule", "fitness", "nutrition", "faq"} {
		d, err := ParseDirective("ROUTE=" + route + "\nPERGUNTA_ORIGINAL=x\nPERSONA=y\nCLARIFY=")
		require.NoError(t, err, route)
		assert.Equal(t, core.Route(route), d.Route)
	}
}
