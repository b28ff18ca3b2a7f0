package core

import "fmt"

// Route selects which specialist handles a turn.
type Route string

const (
	RouteFinance   Route = "finance"
	RouteSchedule  Route = "schedule"
	RouteFitness   Route = "fitness"
	RouteNutrition Route = "nutrition"
	RouteFAQ       Route = "faq"
)

var routes = map[Route]bool{
	RouteFinance:   true,
	RouteSchedule:  true,
	RouteFitness:   true,
	RouteNutrition: true,
	RouteFAQ:       true,
}

func ParseRoute(token string) (Route, error) {
	r := Route(token)
	if !routes[r] {
		return "", fmt.Errorf("unknown route %q", token)
	}
	return r, nil
}

type DirectiveKind int

const (
	DirectiveDirectReply DirectiveKind = iota
	DirectiveClarify
	DirectiveRoute
)

// Directive is the router's decision for one turn. Exactly one of
// Reply, Clarify or Route is meaningful, selected by Kind. Clarify
// always wins over Route when the router emits both.
type Directive struct {
	Kind DirectiveKind

	// DirectiveDirectReply: the router answered the user itself.
	Reply string

	// DirectiveClarify: one minimal question back to the user.
	Clarify string

	// DirectiveRoute: hand off to a specialist.
	Route            Route
	OriginalQuestion string
	Persona          string

	// Raw is the router's verbatim output, forwarded to the specialist
	// so it sees the full handoff block.
	Raw string
}
