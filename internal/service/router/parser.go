package router

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/LucaLucareli/assessor/internal/core"
)

// RoutingError is a recognized handoff block carrying a route token
// outside the enumeration. Surfaced verbatim as a configuration error.
type RoutingError struct {
	Token string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("rota desconhecida %q", e.Token)
}

var (
	clarifyRe = regexp.MustCompile(`(?s)CLARIFY=(.*)`)
	routeRe   = regexp.MustCompile(`ROUTE=(\w+)`)
	origRe    = regexp.MustCompile(`(?m)^PERGUNTA_ORIGINAL=(.*)$`)
	personaRe = regexp.MustCompile(`(?s)PERSONA=(.*?)(?:\nCLARIFY=|\z)`)
)

// ParseDirective applies the handoff grammar to the classifier's raw
// output. A non-empty CLARIFY field wins over everything else; absence
// of a ROUTE field means the whole output is a direct reply; a ROUTE
// token outside the enumeration is a RoutingError, never a guess.
func ParseDirective(raw string) (core.Directive, error) {
	if m := clarifyRe.FindStringSubmatch(raw); m != nil {
		if q := strings.TrimSpace(m[1]); q != "" {
			return core.Directive{Kind: core.DirectiveClarify, Clarify: q, Raw: raw}, nil
		}
	}

	m := routeRe.FindStringSubmatch(raw)
	if m == nil {
		return core.Directive{Kind: core.DirectiveDirectReply, Reply: strings.TrimSpace(raw), Raw: raw}, nil
	}

	route, err := core.ParseRoute(m[1])
	if err != nil {
		return core.Directive{}, &RoutingError{Token: m[1]}
	}

	d := core.Directive{Kind: core.DirectiveRoute, Route: route, Raw: raw}
	if om := origRe.FindStringSubmatch(raw); om != nil {
		d.OriginalQuestion = strings.TrimSpace(om[1])
	}
	if pm := personaRe.FindStringSubmatch(raw); pm != nil {
		d.Persona = strings.TrimSpace(pm[1])
	}
	return d, nil
}
