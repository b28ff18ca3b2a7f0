package command

import (
	"context"
	"fmt"

	"github.com/LucaLucareli/assessor/internal/session"
)

// SessaoCommand shows the current session and its history length.
type SessaoCommand struct {
	sessions  *session.Store
	formatter *ResponseFormatter
}

func NewSessaoCommand(sessions *session.Store) *SessaoCommand {
	return &SessaoCommand{
		sessions:  sessions,
		formatter: NewResponseFormatter(),
	}
}

func (c *SessaoCommand) Name() string {
	return "sessao"
}

func (c *SessaoCommand) Description() string {
	return "Mostra a sessão atual e o tamanho do histórico"
}

func (c *SessaoCommand) Execute(_ context.Context, sessionID string, _ []string) (string, error) {
	sess := c.sessions.GetOrCreate(sessionID)

	sections := []string{
		c.formatter.Info("Sessão"),
		c.formatter.Label("ID", sess.ID),
		c.formatter.Label("Turnos", fmt.Sprintf("%d", len(sess.Turns))),
	}
	if n := len(sess.Turns); n > 0 {
		last := sess.Turns[n-1]
		sections = append(sections, c.formatter.Label("Último turno", last.Timestamp.Format("2006-01-02 15:04:05")))
	}
	return c.formatter.Combine(sections...), nil
}
