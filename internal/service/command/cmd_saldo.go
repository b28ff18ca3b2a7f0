package command

import (
	"context"
	"fmt"

	"github.com/LucaLucareli/assessor/internal/ledger"
)

// SaldoCommand shows the total balance without a round-trip through the
// language model. "/saldo YYYY-MM-DD" shows one day instead.
type SaldoCommand struct {
	ledger    *ledger.Ledger
	formatter *ResponseFormatter
}

func NewSaldoCommand(lg *ledger.Ledger) *SaldoCommand {
	return &SaldoCommand{
		ledger:    lg,
		formatter: NewResponseFormatter(),
	}
}

func (c *SaldoCommand) Name() string {
	return "saldo"
}

func (c *SaldoCommand) Description() string {
	return "Mostra o saldo total ou o saldo de um dia (/saldo 2025-08-01)"
}

func (c *SaldoCommand) Execute(ctx context.Context, _ string, args []string) (string, error) {
	if len(args) > 0 {
		balance, err := c.ledger.DailyBalance(ctx, args[0])
		if err != nil {
			return "", err
		}
		return c.formatter.Combine(
			c.formatter.Info("Saldo do dia "+balance.DateLocal),
			c.formatter.Label("Receitas", money(balance.TotalIncome)),
			c.formatter.Label("Despesas", money(balance.TotalExpenses)),
			c.formatter.Label("Saldo", money(balance.Balance)),
		), nil
	}

	balance, err := c.ledger.TotalBalance(ctx)
	if err != nil {
		return "", err
	}
	return c.formatter.Combine(
		c.formatter.Info("Saldo total"),
		c.formatter.Label("Receitas", money(balance.TotalIncome)),
		c.formatter.Label("Despesas", money(balance.TotalExpenses)),
		c.formatter.Label("Saldo", money(balance.Balance)),
	), nil
}

func money(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}
