package command

import (
	"github.com/LucaLucareli/assessor/internal/core"
	"github.com/LucaLucareli/assessor/internal/ledger"
	"github.com/LucaLucareli/assessor/internal/session"
)

func NewCommands(lg *ledger.Ledger, sessions *session.Store) []core.Command {
	return []core.Command{
		NewSaldoCommand(lg),
		NewSessaoCommand(sessions),
	}
}
