package ledger

import "errors"

// Tool-layer error taxonomy. All are recoverable at the specialist
// boundary; the pipeline renders them as a user-visible error line.
var (
	// ErrInvalidType: a named transaction type did not resolve on insert
	// or update. Type is mandatory metadata, so this is a hard failure.
	ErrInvalidType = errors.New("tipo inválido (use type_id ou type_name: INCOME/EXPENSES/TRANSFER)")

	// ErrNoFields: an update carried no field to change.
	ErrNoFields = errors.New("nada para atualizar: forneça pelo menos um campo")

	// ErrNotFound: an update without id matched no record.
	ErrNotFound = errors.New("nenhuma transação encontrada para os filtros fornecidos")
)
