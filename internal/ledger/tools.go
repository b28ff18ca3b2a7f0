// Package ledger is the side-effecting tool layer of the assistant: a
// fixed set of operations over the transactional store (transactions,
// workouts, meals) plus the name resolution that maps fuzzy user-facing
// references to canonical rows. Every operation is one unit of work:
// it opens its own transaction scope, commits on success and rolls back
// on any error.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LucaLucareli/assessor/pkg/log"
)

type Ledger struct {
	db *sql.DB
}

func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

type InsertTransactionArgs struct {
	Amount        float64 `json:"amount"`
	SourceText    string  `json:"source_text"`
	OccurredAt    string  `json:"occurred_at,omitempty"`
	TypeID        int64   `json:"type_id,omitempty"`
	TypeName      string  `json:"type_name,omitempty"`
	CategoryID    int64   `json:"category_id,omitempty"`
	CategoryName  string  `json:"category_name,omitempty"`
	Description   string  `json:"description,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

type InsertReceipt struct {
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InsertTransaction resolves type (hard) and category (soft) before the
// insert. A missing occurred_at defaults to the current time.
func (l *Ledger) InsertTransaction(ctx context.Context, args InsertTransactionArgs) (InsertReceipt, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return InsertReceipt{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	typeID, err := resolveTypeID(ctx, tx, args.TypeID, args.TypeName)
	if err != nil {
		return InsertReceipt{}, err
	}
	categoryID, err := resolveCategoryID(ctx, tx, args.CategoryID, args.CategoryName)
	if err != nil {
		return InsertReceipt{}, err
	}

	occurred := time.Now()
	if args.OccurredAt != "" {
		if occurred, err = parseWhen(args.OccurredAt); err != nil {
			return InsertReceipt{}, err
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (amount, type, category_id, description, payment_method, occurred_at, source_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		args.Amount, typeID, categoryID, nullString(args.Description), nullString(args.PaymentMethod),
		occurred.Unix(), args.SourceText,
	)
	if err != nil {
		return InsertReceipt{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return InsertReceipt{}, err
	}
	if err := tx.Commit(); err != nil {
		return InsertReceipt{}, fmt.Errorf("commit: %w", err)
	}

	log.FromCtx(ctx).Debug().Int64("id", id).Float64("amount", args.Amount).Msg("transaction inserted")
	return InsertReceipt{ID: id, OccurredAt: occurred.In(localZone)}, nil
}

type InsertWorkoutArgs struct {
	Title       string `json:"title"`
	Notes       string `json:"notes,omitempty"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
	DurationMin int64  `json:"duration_min,omitempty"`
}

type WorkoutReceipt struct {
	ID          int64     `json:"id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (l *Ledger) InsertWorkout(ctx context.Context, args InsertWorkoutArgs) (WorkoutReceipt, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkoutReceipt{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	scheduled := time.Now()
	if args.ScheduledAt != "" {
		if scheduled, err = parseWhen(args.ScheduledAt); err != nil {
			return WorkoutReceipt{}, err
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO workouts (title, notes, scheduled_at, duration_min, source_text)
		 VALUES (?, ?, ?, ?, ?)`,
		args.Title, nullString(args.Notes), scheduled.Unix(), nullInt(args.DurationMin), args.Title,
	)
	if err != nil {
		return WorkoutReceipt{}, fmt.Errorf("insert workout: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return WorkoutReceipt{}, err
	}
	if err := tx.Commit(); err != nil {
		return WorkoutReceipt{}, fmt.Errorf("commit: %w", err)
	}
	return WorkoutReceipt{ID: id, ScheduledAt: scheduled.In(localZone)}, nil
}

type InsertMealArgs struct {
	Title      string `json:"title"`
	OccurredAt string `json:"occurred_at,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func (l *Ledger) InsertMeal(ctx context.Context, args InsertMealArgs) (InsertReceipt, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return InsertReceipt{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	occurred := time.Now()
	if args.OccurredAt != "" {
		if occurred, err = parseWhen(args.OccurredAt); err != nil {
			return InsertReceipt{}, err
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO meals (title, occurred_at, notes, source_text) VALUES (?, ?, ?, ?)`,
		args.Title, occurred.Unix(), nullString(args.Notes), args.Title,
	)
	if err != nil {
		return InsertReceipt{}, fmt.Errorf("insert meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return InsertReceipt{}, err
	}
	if err := tx.Commit(); err != nil {
		return InsertReceipt{}, fmt.Errorf("commit: %w", err)
	}
	return InsertReceipt{ID: id, OccurredAt: occurred.In(localZone)}, nil
}

type QueryTransactionsArgs struct {
	Text          string `json:"text,omitempty"`
	TypeName      string `json:"type_name,omitempty"`
	DateLocal     string `json:"date_local,omitempty"`
	DateFromLocal string `json:"date_from_local,omitempty"`
	DateToLocal   string `json:"date_to_local,omitempty"`
	Limit         int    `json:"limit,omitempty"`
}

type Transaction struct {
	ID            int64     `json:"id"`
	Amount        float64   `json:"amount"`
	Type          string    `json:"type"`
	Category      string    `json:"category,omitempty"`
	Description   string    `json:"description,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	SourceText    string    `json:"source_text"`
}

const defaultQueryLimit = 20

// QueryTransactions applies conjunctive optional filters. Text is a
// case-insensitive substring search over source_text or description.
// A from/to range is inclusive and switches the sort to ascending;
// otherwise results come newest-first.
func (l *Ledger) QueryTransactions(ctx context.Context, args QueryTransactionsArgs) ([]Transaction, error) {
	var filters []string
	var params []any

	if args.Text != "" {
		filters = append(filters,
			`(instr(lower(t.source_text), lower(?)) > 0 OR instr(lower(COALESCE(t.description, '')), lower(?)) > 0)`)
		params = append(params, args.Text, args.Text)
	}
	if args.TypeName != "" {
		name := Canonicalize(strings.TrimSpace(args.TypeName))
		if canonical, ok := typeAliases[name]; ok {
			name = canonical
		}
		filters = append(filters, `t.type = (SELECT id FROM transaction_types WHERE UPPER(type) = ?)`)
		params = append(params, name)
	}
	if args.DateLocal != "" {
		start, end, err := dayBounds(args.DateLocal)
		if err != nil {
			return nil, err
		}
		filters = append(filters, `t.occurred_at >= ? AND t.occurred_at < ?`)
		params = append(params, start, end)
	}
	ranged := false
	if args.DateFromLocal != "" && args.DateToLocal != "" {
		start, _, err := dayBounds(args.DateFromLocal)
		if err != nil {
			return nil, err
		}
		_, end, err := dayBounds(args.DateToLocal)
		if err != nil {
			return nil, err
		}
		filters = append(filters, `t.occurred_at >= ? AND t.occurred_at < ?`)
		params = append(params, start, end)
		ranged = true
	}

	where := ""
	if len(filters) > 0 {
		where = "WHERE " + strings.Join(filters, " AND ")
	}
	order := "ORDER BY t.occurred_at DESC, t.id DESC"
	if ranged || args.DateFromLocal != "" || args.DateToLocal != "" {
		order = "ORDER BY t.occurred_at ASC, t.id ASC"
	}
	limit := args.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	params = append(params, limit)

	query := fmt.Sprintf(
		`SELECT t.id, t.amount, tt.type, COALESCE(c.name, ''), COALESCE(t.description, ''),
		        COALESCE(t.payment_method, ''), t.occurred_at, t.source_text
		 FROM transactions t
		 JOIN transaction_types tt ON t.type = tt.id
		 LEFT JOIN categories c ON c.id = t.category_id
		 %s %s LIMIT ?`, where, order)

	rows, err := l.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tr Transaction
		var epoch int64
		if err := rows.Scan(&tr.ID, &tr.Amount, &tr.Type, &tr.Category, &tr.Description,
			&tr.PaymentMethod, &epoch, &tr.SourceText); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tr.OccurredAt = time.Unix(epoch, 0).In(localZone)
		out = append(out, tr)
	}
	return out, rows.Err()
}

type Balance struct {
	DateLocal     string  `json:"date_local,omitempty"`
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	Balance       float64 `json:"balance"`
}

const sumByTypeSQL = `
	SELECT COALESCE(SUM(CASE WHEN type = 1 THEN amount ELSE 0 END), 0),
	       COALESCE(SUM(CASE WHEN type = 2 THEN amount ELSE 0 END), 0)
	FROM transactions
	WHERE type != 3`

// TotalBalance sums all non-transfer records. Balance here is
// expenses − income, the opposite convention from DailyBalance; both
// are contract and must stay as they are.
func (l *Ledger) TotalBalance(ctx context.Context) (Balance, error) {
	var income, expenses float64
	if err := l.db.QueryRowContext(ctx, sumByTypeSQL).Scan(&income, &expenses); err != nil {
		return Balance{}, fmt.Errorf("total balance: %w", err)
	}
	return Balance{TotalIncome: income, TotalExpenses: expenses, Balance: expenses - income}, nil
}

// DailyBalance restricts the sums to one local calendar day. Balance
// here is income − expenses.
func (l *Ledger) DailyBalance(ctx context.Context, dateLocal string) (Balance, error) {
	start, end, err := dayBounds(dateLocal)
	if err != nil {
		return Balance{}, err
	}
	var income, expenses float64
	if err := l.db.QueryRowContext(ctx,
		sumByTypeSQL+` AND occurred_at >= ? AND occurred_at < ?`, start, end,
	).Scan(&income, &expenses); err != nil {
		return Balance{}, fmt.Errorf("daily balance: %w", err)
	}
	return Balance{DateLocal: dateLocal, TotalIncome: income, TotalExpenses: expenses, Balance: income - expenses}, nil
}

type UpdateTransactionArgs struct {
	ID            int64    `json:"id,omitempty"`
	MatchText     string   `json:"match_text,omitempty"`
	DateLocal     string   `json:"date_local,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	TypeID        int64    `json:"type_id,omitempty"`
	TypeName      string   `json:"type_name,omitempty"`
	CategoryID    int64    `json:"category_id,omitempty"`
	CategoryName  string   `json:"category_name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	PaymentMethod *string  `json:"payment_method,omitempty"`
	OccurredAt    string   `json:"occurred_at,omitempty"`
}

func (a UpdateTransactionArgs) hasChanges() bool {
	return a.Amount != nil || a.TypeID != 0 || a.TypeName != "" ||
		a.CategoryID != 0 || a.CategoryName != "" ||
		a.Description != nil || a.PaymentMethod != nil || a.OccurredAt != ""
}

type UpdateReceipt struct {
	RowsAffected int64        `json:"rows_affected"`
	ID           int64        `json:"id"`
	Updated      *Transaction `json:"updated,omitempty"`
}

// UpdateTransaction changes an existing record. With an id the record is
// updated directly; without one, match_text plus date_local locate the
// single most recent record whose description or source text contains
// the match (case-insensitive) on that local day. Only supplied fields
// change; the full updated record is re-read and returned.
func (l *Ledger) UpdateTransaction(ctx context.Context, args UpdateTransactionArgs) (UpdateReceipt, error) {
	if !args.hasChanges() {
		return UpdateReceipt{}, ErrNoFields
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return UpdateReceipt{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	targetID := args.ID
	if targetID == 0 {
		if args.MatchText == "" || args.DateLocal == "" {
			return UpdateReceipt{}, fmt.Errorf("%w: sem id, informe match_text e date_local", ErrNotFound)
		}
		start, end, err := dayBounds(args.DateLocal)
		if err != nil {
			return UpdateReceipt{}, err
		}
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM transactions
			 WHERE (instr(lower(source_text), lower(?)) > 0 OR instr(lower(COALESCE(description, '')), lower(?)) > 0)
			   AND occurred_at >= ? AND occurred_at < ?
			 ORDER BY occurred_at DESC, id DESC
			 LIMIT 1`,
			args.MatchText, args.MatchText, start, end,
		).Scan(&targetID)
		if errors.Is(err, sql.ErrNoRows) {
			return UpdateReceipt{}, ErrNotFound
		}
		if err != nil {
			return UpdateReceipt{}, fmt.Errorf("locate transaction: %w", err)
		}
	}

	var sets []string
	var params []any
	if args.Amount != nil {
		sets = append(sets, "amount = ?")
		params = append(params, *args.Amount)
	}
	if args.TypeID != 0 || args.TypeName != "" {
		typeID, err := resolveTypeID(ctx, tx, args.TypeID, args.TypeName)
		if err != nil {
			return UpdateReceipt{}, err
		}
		sets = append(sets, "type = ?")
		params = append(params, typeID)
	}
	if args.CategoryID != 0 || args.CategoryName != "" {
		categoryID, err := resolveCategoryID(ctx, tx, args.CategoryID, args.CategoryName)
		if err != nil {
			return UpdateReceipt{}, err
		}
		if categoryID.Valid {
			sets = append(sets, "category_id = ?")
			params = append(params, categoryID.Int64)
		}
	}
	if args.Description != nil {
		sets = append(sets, "description = ?")
		params = append(params, *args.Description)
	}
	if args.PaymentMethod != nil {
		sets = append(sets, "payment_method = ?")
		params = append(params, *args.PaymentMethod)
	}
	if args.OccurredAt != "" {
		occurred, err := parseWhen(args.OccurredAt)
		if err != nil {
			return UpdateReceipt{}, err
		}
		sets = append(sets, "occurred_at = ?")
		params = append(params, occurred.Unix())
	}
	if len(sets) == 0 {
		// Every supplied field degraded away (e.g. category name miss).
		return UpdateReceipt{}, ErrNoFields
	}
	params = append(params, targetID)

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE transactions SET %s WHERE id = ?`, strings.Join(sets, ", ")), params...)
	if err != nil {
		return UpdateReceipt{}, fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return UpdateReceipt{}, err
	}

	var updated Transaction
	var epoch int64
	err = tx.QueryRowContext(ctx,
		`SELECT t.id, t.amount, tt.type, COALESCE(c.name, ''), COALESCE(t.description, ''),
		        COALESCE(t.payment_method, ''), t.occurred_at, t.source_text
		 FROM transactions t
		 JOIN transaction_types tt ON tt.id = t.type
		 LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.id = ?`, targetID,
	).Scan(&updated.ID, &updated.Amount, &updated.Type, &updated.Category, &updated.Description,
		&updated.PaymentMethod, &epoch, &updated.SourceText)
	if errors.Is(err, sql.ErrNoRows) {
		return UpdateReceipt{}, ErrNotFound
	}
	if err != nil {
		return UpdateReceipt{}, fmt.Errorf("reread transaction: %w", err)
	}
	updated.OccurredAt = time.Unix(epoch, 0).In(localZone)

	if err := tx.Commit(); err != nil {
		return UpdateReceipt{}, fmt.Errorf("commit: %w", err)
	}

	log.FromCtx(ctx).Debug().Int64("id", targetID).Int64("rows", affected).Msg("transaction updated")
	return UpdateReceipt{RowsAffected: affected, ID: targetID, Updated: &updated}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}
