package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LucaLucareli/assessor/internal/core"
)

// Tool names exposed to the model.
const (
	ToolAddTransaction    = "add_transaction"
	ToolAddWorkout        = "add_workout"
	ToolAddMeal           = "add_meal"
	ToolQueryTransactions = "query_transactions"
	ToolTotalBalance      = "total_balance"
	ToolDailyBalance      = "daily_balance"
	ToolUpdateTransaction = "update_transaction"
)

func def(name, description, schema string) core.Tool {
	return core.Tool{
		Type: "function",
		Function: core.Function{
			Name:        name,
			Description: description,
			Parameters:  json.RawMessage(schema),
		},
	}
}

// Definitions returns the tool schemas the specialists hand to the model.
func Definitions() []core.Tool {
	return []core.Tool{
		def(ToolAddTransaction, "Insere uma transação financeira no banco.", `{
			"type": "object",
			"properties": {
				"amount": {"type": "number", "description": "Valor da transação (use positivo)."},
				"source_text": {"type": "string", "description": "Texto original do usuário."},
				"occurred_at": {"type": "string", "description": "Timestamp ISO 8601; se ausente, usa o horário atual."},
				"type_id": {"type": "integer", "description": "ID em transaction_types (1=INCOME, 2=EXPENSES, 3=TRANSFER)."},
				"type_name": {"type": "string", "description": "Nome do tipo: INCOME | EXPENSES | TRANSFER."},
				"category_id": {"type": "integer", "description": "FK de categories (opcional)."},
				"category_name": {"type": "string", "description": "Nome da categoria (comida, besteira, estudo, férias, transporte, moradia, saúde, lazer, contas, investimento, presente, outros)."},
				"description": {"type": "string", "description": "Descrição (opcional)."},
				"payment_method": {"type": "string", "description": "Forma de pagamento (opcional)."}
			},
			"required": ["amount", "source_text"]
		}`),
		def(ToolAddWorkout, "Insere um treino no banco.", `{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Nome do treino (ex: 'Treino A - Peito e Tríceps')."},
				"notes": {"type": "string", "description": "Observações do treino."},
				"scheduled_at": {"type": "string", "description": "Timestamp ISO 8601; se ausente, usa o horário atual."},
				"duration_min": {"type": "integer", "description": "Duração em minutos."}
			},
			"required": ["title"]
		}`),
		def(ToolAddMeal, "Insere uma refeição no banco.", `{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Nome da refeição (ex: 'Café da manhã')."},
				"occurred_at": {"type": "string", "description": "Timestamp ISO 8601; se ausente, usa o horário atual."},
				"notes": {"type": "string", "description": "Observações da refeição."}
			},
			"required": ["title"]
		}`),
		def(ToolQueryTransactions, "Consulta transações com filtros opcionais.", `{
			"type": "object",
			"properties": {
				"text": {"type": "string", "description": "Texto para busca em source_text ou description."},
				"type_name": {"type": "string", "description": "Nome do tipo de transação."},
				"date_local": {"type": "string", "description": "Data exata (YYYY-MM-DD)."},
				"date_from_local": {"type": "string", "description": "Data inicial do intervalo (YYYY-MM-DD)."},
				"date_to_local": {"type": "string", "description": "Data final do intervalo (YYYY-MM-DD)."},
				"limit": {"type": "integer", "description": "Quantidade máxima de registros."}
			}
		}`),
		def(ToolTotalBalance, "Retorna o saldo total, ignorando transferências.", `{
			"type": "object",
			"properties": {}
		}`),
		def(ToolDailyBalance, "Retorna o saldo do dia informado (YYYY-MM-DD).", `{
			"type": "object",
			"properties": {
				"date_local": {"type": "string", "description": "Dia local no formato YYYY-MM-DD."}
			},
			"required": ["date_local"]
		}`),
		def(ToolUpdateTransaction, "Atualiza uma transação existente por id ou por (match_text + date_local).", `{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "ID da transação a atualizar."},
				"match_text": {"type": "string", "description": "Texto para localizar a transação quando id não for informado."},
				"date_local": {"type": "string", "description": "Data local (YYYY-MM-DD); usada junto com match_text."},
				"amount": {"type": "number", "description": "Novo valor."},
				"type_id": {"type": "integer", "description": "Novo type_id (1/2/3)."},
				"type_name": {"type": "string", "description": "Novo tipo: INCOME | EXPENSES | TRANSFER."},
				"category_id": {"type": "integer", "description": "Nova categoria (id)."},
				"category_name": {"type": "string", "description": "Nova categoria (nome)."},
				"description": {"type": "string", "description": "Nova descrição."},
				"payment_method": {"type": "string", "description": "Novo meio de pagamento."},
				"occurred_at": {"type": "string", "description": "Novo timestamp ISO 8601."}
			}
		}`),
	}
}

// Call dispatches one tool invocation from the model. The result is the
// JSON the model sees; taxonomy errors bubble up so the specialist can
// terminate the turn with a user-facing error line.
func (l *Ledger) Call(ctx context.Context, name, argsJSON string) (string, error) {
	unmarshal := func(v any) error {
		if argsJSON == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(argsJSON), v); err != nil {
			return fmt.Errorf("%s: bad arguments: %w", name, err)
		}
		return nil
	}

	var result any
	switch name {
	case ToolAddTransaction:
		var args InsertTransactionArgs
		if err := unmarshal(&args); err != nil {
			return "", err
		}
		receipt, err := l.InsertTransaction(ctx, args)
		if err != nil {
			return "", err
		}
		result = receipt
	case ToolAddWorkout:
		var args InsertWorkoutArgs
		if err := unmarshal(&args); err != nil {
			return "", err
		}
		receipt, err := l.InsertWorkout(ctx, args)
		if err != nil {
			return "", err
		}
		result = receipt
	case ToolAddMeal:
		var args InsertMealArgs
		if err := unmarshal(&args); err != nil {
			return "", err
		}
		receipt, err := l.InsertMeal(ctx, args)
		if err != nil {
			return "", err
		}
		result = receipt
	case ToolQueryTransactions:
		var args QueryTransactionsArgs
		if err := unmarshal(&args); err != nil {
			return "", err
		}
		records, err := l.QueryTransactions(ctx, args)
		if err != nil {
			return "", err
		}
		result = map[string]any{"transactions": records}
	case ToolTotalBalance:
		balance, err := l.TotalBalance(ctx)
		if err != nil {
			return "", err
		}
		result = balance
	case ToolDailyBalance:
		var args struct {
			DateLocal string `json:"date_local"`
		}
		if err := unmarshal(&args); err != nil {
			return "", err
		}
		balance, err := l.DailyBalance(ctx, args.DateLocal)
		if err != nil {
			return "", err
		}
		result = balance
	case ToolUpdateTransaction:
		var args UpdateTransactionArgs
		if err := unmarshal(&args); err != nil {
			return "", err
		}
		receipt, err := l.UpdateTransaction(ctx, args)
		if err != nil {
			return "", err
		}
		result = receipt
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("%s: marshal result: %w", name, err)
	}
	return string(data), nil
}
