package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// typeAliases maps canonicalized user-facing type names to the canonical
// rows of transaction_types. Read-only at runtime.
var typeAliases = map[string]string{
	"INCOME":        "INCOME",
	"ENTRADA":       "INCOME",
	"RECEITA":       "INCOME",
	"SALARIO":       "INCOME",
	"EXPENSE":       "EXPENSES",
	"EXPENSES":      "EXPENSES",
	"DESPESA":       "EXPENSES",
	"GASTO":         "EXPENSES",
	"TRANSFER":      "TRANSFER",
	"TRANSFERENCIA": "TRANSFER",
}

// defaultTypeID is EXPENSES: a transaction with no type information is
// assumed to be an expense.
const defaultTypeID = 2

// resolveTypeID maps a type reference to a transaction_types id. A named
// type that fails alias mapping plus lookup is ErrInvalidType; an
// explicit id is trusted; neither yields the default (expenses).
func resolveTypeID(ctx context.Context, q querier, typeID int64, typeName string) (int64, error) {
	if typeName != "" {
		name := Canonicalize(strings.TrimSpace(typeName))
		if canonical, ok := typeAliases[name]; ok {
			name = canonical
		}
		var id int64
		err := q.QueryRowContext(ctx,
			`SELECT id FROM transaction_types WHERE UPPER(type) = ? LIMIT 1`, name,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidType, typeName)
		}
		if err != nil {
			return 0, fmt.Errorf("resolve type: %w", err)
		}
		return id, nil
	}
	if typeID != 0 {
		return typeID, nil
	}
	return defaultTypeID, nil
}

// resolveCategoryID maps a category reference to a categories id.
// Category is optional metadata: an unmatched name degrades to NULL
// instead of failing.
func resolveCategoryID(ctx context.Context, q querier, categoryID int64, categoryName string) (sql.NullInt64, error) {
	if categoryID != 0 {
		return sql.NullInt64{Int64: categoryID, Valid: true}, nil
	}
	if categoryName == "" {
		return sql.NullInt64{}, nil
	}

	rows, err := q.QueryContext(ctx, `SELECT id, name FROM categories`)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("resolve category: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return sql.NullInt64{}, fmt.Errorf("resolve category: %w", err)
		}
		byName[Canonicalize(name)] = id
	}
	if err := rows.Err(); err != nil {
		return sql.NullInt64{}, fmt.Errorf("resolve category: %w", err)
	}

	if id, ok := byName[Canonicalize(strings.TrimSpace(categoryName))]; ok {
		return sql.NullInt64{Int64: id, Valid: true}, nil
	}
	return sql.NullInt64{}, nil
}
