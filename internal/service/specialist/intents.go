package specialist

import (
	"fmt"

	"github.com/LucaLucareli/assessor/internal/core"
)

// Closed intent enumerations per domain. A result carrying an intent
// outside its domain's set is rejected before rendering.
var intentsByRoute = map[core.Route][]string{
	core.RouteFinance:   {"consultar", "inserir", "atualizar", "deletar", "resumo"},
	core.RouteSchedule:  {"consultar", "criar", "atualizar", "cancelar", "listar", "disponibilidade", "conflitos"},
	core.RouteFitness:   {"planejar", "ajustar", "registrar", "avaliar"},
	core.RouteNutrition: {"sugerir", "registrar", "avaliar"},
}

func validateResult(route core.Route, r core.SpecialistResult) error {
	if r.Reply == "" {
		return fmt.Errorf("resultado sem resposta principal")
	}
	if r.Domain != route {
		return fmt.Errorf("dominio %q não corresponde à rota %q", r.Domain, route)
	}

	allowed, ok := intentsByRoute[route]
	if !ok {
		return fmt.Errorf("rota %q não tem especialista", route)
	}
	for _, intent := range allowed {
		if r.Intent == intent {
			return nil
		}
	}
	return fmt.Errorf("intencao %q inválida para o domínio %q", r.Intent, r.Domain)
}
