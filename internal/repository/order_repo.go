package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ycfang/orderbot/internal/domain/entity"
	"go.uber.org/zap"
)

// OrderRepository persists orders and answers the filtered list/sum
// queries the report handlers aggregate over. Sums are always computed
// fresh from the matching rows; nothing is denormalized.
type OrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{db: db, logger: logger}
}

// detailColumns is the join every report query selects through: the
// order row plus orderer, payer (left join, survives payer deletion)
// and menu slot.
const detailColumns = `
	SELECT o.id, o.user_id, o.menu_id, o.items, o.amount, o.paid, o.note, o.payer_id, o.created_at,
		u.user_code, u.name,
		IFNULL(p.user_code, ''), IFNULL(p.name, ''),
		m.menu_date, m.meal_type
	FROM orders o
	JOIN users u ON u.id = o.user_id
	JOIN menus m ON m.id = o.menu_id
	LEFT JOIN users p ON p.id = o.payer_id
`

// Create inserts an order
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (user_id, menu_id, items, amount, paid, note, payer_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		order.UserID, order.MenuID, order.Items, order.Amount, order.Paid, order.Note, order.PayerID)
	if err != nil {
		r.logger.Error("Failed to create order", zap.Int64("user_id", order.UserID), zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	order.ID = id
	return nil
}

// GetByID retrieves one order with its references. Returns nil when absent.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*entity.OrderDetail, error) {
	rows, err := r.query(ctx, detailColumns+` WHERE o.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// GetByMenuAndUser retrieves the first order a user placed against a
// menu slot. Returns nil when the user never ordered from it.
func (r *OrderRepository) GetByMenuAndUser(ctx context.Context, menuID, userID int64) (*entity.Order, error) {
	query := `
		SELECT id, user_id, menu_id, items, amount, paid, note, payer_id, created_at
		FROM orders
		WHERE menu_id = ? AND user_id = ?
		ORDER BY id
		LIMIT 1
	`

	var o entity.Order
	err := executorFrom(ctx, r.db).QueryRowContext(ctx, query, menuID, userID).Scan(
		&o.ID, &o.UserID, &o.MenuID, &o.Items, &o.Amount, &o.Paid, &o.Note, &o.PayerID, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// UpdateAmount sets an order's amount
func (r *OrderRepository) UpdateAmount(ctx context.Context, id int64, amount float64) error {
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, `UPDATE orders SET amount = ? WHERE id = ?`, amount, id)
	if err != nil {
		r.logger.Error("Failed to update order amount", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update order amount: %w", err)
	}
	return nil
}

// SetPaid sets an order's paid flag
func (r *OrderRepository) SetPaid(ctx context.Context, id int64, paid bool) error {
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, `UPDATE orders SET paid = ? WHERE id = ?`, paid, id)
	if err != nil {
		return fmt.Errorf("failed to update order paid flag: %w", err)
	}
	return nil
}

// Delete removes an order
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// ListByUserOnDate returns a user's orders for one calendar day.
func (r *OrderRepository) ListByUserOnDate(ctx context.Context, userID int64, date time.Time) ([]*entity.OrderDetail, error) {
	return r.query(ctx, detailColumns+`
		WHERE o.user_id = ? AND m.menu_date = ?
		ORDER BY m.meal_type, o.id`, userID, formatDate(date))
}

// ListUnpaidByUser returns a user's unpaid orders, newest slot first.
func (r *OrderRepository) ListUnpaidByUser(ctx context.Context, userID int64) ([]*entity.OrderDetail, error) {
	return r.query(ctx, detailColumns+`
		WHERE o.user_id = ? AND o.paid = 0
		ORDER BY m.menu_date DESC, o.id`, userID)
}

// ListUnpaidByPayer returns the unpaid orders a payer fronted, newest
// slot first.
func (r *OrderRepository) ListUnpaidByPayer(ctx context.Context, payerID int64) ([]*entity.OrderDetail, error) {
	return r.query(ctx, detailColumns+`
		WHERE o.payer_id = ? AND o.paid = 0
		ORDER BY m.menu_date DESC, o.id`, payerID)
}

// ListUnpaidAll returns every unpaid order.
func (r *OrderRepository) ListUnpaidAll(ctx context.Context) ([]*entity.OrderDetail, error) {
	return r.query(ctx, detailColumns+`
		WHERE o.paid = 0
		ORDER BY m.menu_date DESC, o.id`)
}

// ListByDate returns every order on one calendar day, grouped naturally
// by meal then numeric user code.
func (r *OrderRepository) ListByDate(ctx context.Context, date time.Time) ([]*entity.OrderDetail, error) {
	return r.query(ctx, detailColumns+`
		WHERE m.menu_date = ?
		ORDER BY m.meal_type, CAST(u.user_code AS INTEGER), o.id`, formatDate(date))
}

// ListByMenu returns every order of one menu slot ordered by numeric
// user code.
func (r *OrderRepository) ListByMenu(ctx context.Context, menuID int64) ([]*entity.OrderDetail, error) {
	return r.query(ctx, detailColumns+`
		WHERE o.menu_id = ?
		ORDER BY CAST(u.user_code AS INTEGER), o.id`, menuID)
}

// ListPage returns one page of the full history, newest slot first.
func (r *OrderRepository) ListPage(ctx context.Context, limit, offset int) ([]*entity.OrderDetail, error) {
	return r.query(ctx, detailColumns+`
		ORDER BY m.menu_date DESC, o.created_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
}

// Count returns the total number of orders
func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := executorFrom(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

// SumUnpaidByUser computes a user's total outstanding amount.
func (r *OrderRepository) SumUnpaidByUser(ctx context.Context, userID int64) (float64, error) {
	var total float64
	err := executorFrom(ctx, r.db).QueryRowContext(ctx,
		`SELECT IFNULL(SUM(amount), 0) FROM orders WHERE user_id = ? AND paid = 0`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum unpaid orders: %w", err)
	}
	return total, nil
}

// MarkPaidScope settles every unpaid order of a user inside the given
// scope: nil date means all-time, date alone means that day, date plus
// meal means that single slot. Returns the number of settled orders and
// the sum of their amounts. Run inside a transaction (WithTx) so the
// select and the update see the same rows.
func (r *OrderRepository) MarkPaidScope(ctx context.Context, userID int64, date *time.Time, mealType string) (int, float64, error) {
	where := `o.user_id = ? AND o.paid = 0`
	args := []interface{}{userID}
	if date != nil {
		where += ` AND m.menu_date = ?`
		args = append(args, formatDate(*date))
		if mealType != "" {
			where += ` AND m.meal_type = ?`
			args = append(args, mealType)
		}
	}

	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, `
		SELECT o.id, o.amount
		FROM orders o
		JOIN menus m ON m.id = o.menu_id
		WHERE `+where, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to resolve checkout scope: %w", err)
	}
	defer rows.Close()

	var ids []interface{}
	var total float64
	for rows.Next() {
		var id int64
		var amount float64
		if err := rows.Scan(&id, &amount); err != nil {
			return 0, 0, fmt.Errorf("failed to scan checkout row: %w", err)
		}
		ids = append(ids, id)
		total += amount
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}
	if len(ids) == 0 {
		return 0, 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	_, err = executorFrom(ctx, r.db).ExecContext(ctx,
		`UPDATE orders SET paid = 1 WHERE id IN (`+placeholders+`)`, ids...)
	if err != nil {
		r.logger.Error("Failed to settle checkout scope", zap.Int64("user_id", userID), zap.Error(err))
		return 0, 0, fmt.Errorf("failed to settle orders: %w", err)
	}

	return len(ids), total, nil
}

func (r *OrderRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.OrderDetail, error) {
	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query orders", zap.Error(err))
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var details []*entity.OrderDetail
	for rows.Next() {
		var d entity.OrderDetail
		var menuDate string
		err := rows.Scan(
			&d.ID, &d.UserID, &d.MenuID, &d.Items, &d.Amount, &d.Paid, &d.Note, &d.PayerID, &d.CreatedAt,
			&d.UserCode, &d.UserName,
			&d.PayerCode, &d.PayerName,
			&menuDate, &d.MealType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		d.MenuDate = parseDate(menuDate)
		details = append(details, &d)
	}
	return details, rows.Err()
}
