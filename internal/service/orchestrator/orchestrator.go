// Package orchestrator turns a specialist result into the final
// user-visible text. Formatting is deterministic: no rewriting of
// numbers or dates, no content beyond what the result supplied.
package orchestrator

import (
	"strings"

	"github.com/LucaLucareli/assessor/internal/core"
)

// Render formats one result. The first line is the primary statement
// verbatim; the recommendation section appears only when non-empty; the
// follow-up section prefers the clarifying question over the follow-up.
func Render(result core.SpecialistResult) string {
	var b strings.Builder
	b.WriteString(result.Reply)

	if rec := strings.TrimSpace(result.Recommendation); rec != "" {
		b.WriteString("\n- *Recomendação*: ")
		b.WriteString(rec)
	}

	followUp := strings.TrimSpace(result.Clarify)
	if followUp == "" {
		followUp = strings.TrimSpace(result.FollowUp)
	}
	if followUp != "" {
		b.WriteString("\n- *Acompanhamento* (opcional): ")
		b.WriteString(followUp)
	}

	return b.String()
}
