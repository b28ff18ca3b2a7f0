package core

// TimeWindow is an optional period attached to a specialist answer.
// Field names follow the wire contract the specialists emit.
type TimeWindow struct {
	From  string `json:"de"`
	To    string `json:"ate"`
	Label string `json:"rotulo"`
}

// WriteReceipt reports a store write performed by a specialist.
type WriteReceipt struct {
	Operation string `json:"operacao"`
	ID        int64  `json:"id"`
}

// EventDetails carries schedule-domain structured extras.
type EventDetails struct {
	Title    string `json:"titulo"`
	Date     string `json:"data"`
	Start    string `json:"inicio"`
	End      string `json:"fim"`
	Location string `json:"local,omitempty"`
}

// SpecialistResult is the structured answer every specialist returns.
// Reply is mandatory; everything else is optional. Domain must equal
// the route that produced the result.
type SpecialistResult struct {
	Domain         Route         `json:"dominio"`
	Intent         string        `json:"intencao"`
	Reply          string        `json:"resposta"`
	Recommendation string        `json:"recomendacao,omitempty"`
	FollowUp       string        `json:"acompanhamento,omitempty"`
	Clarify        string        `json:"esclarecer,omitempty"`
	Window         *TimeWindow   `json:"janela_tempo,omitempty"`
	Event          *EventDetails `json:"evento,omitempty"`
	Write          *WriteReceipt `json:"escrita,omitempty"`
}
