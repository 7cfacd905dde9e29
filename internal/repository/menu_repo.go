package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/ycfang/orderbot/internal/domain/entity"
	"go.uber.org/zap"
)

// MenuRepository persists menu slots
type MenuRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *sql.DB, logger *zap.Logger) *MenuRepository {
	return &MenuRepository{db: db, logger: logger}
}

// GetBySlot retrieves the menu for a (date, meal) slot. Returns nil
// when the slot has never been referenced.
func (r *MenuRepository) GetBySlot(ctx context.Context, date time.Time, mealType string) (*entity.Menu, error) {
	query := `
		SELECT id, meal_type, menu_date, description, filename, created_at
		FROM menus
		WHERE menu_date = ? AND meal_type = ?
	`
	return r.scanOne(executorFrom(ctx, r.db).QueryRowContext(ctx, query, formatDate(date), mealType))
}

// GetByID retrieves a menu by ID. Returns nil when absent.
func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*entity.Menu, error) {
	query := `
		SELECT id, meal_type, menu_date, description, filename, created_at
		FROM menus
		WHERE id = ?
	`
	return r.scanOne(executorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
}

// Create inserts a menu slot
func (r *MenuRepository) Create(ctx context.Context, menu *entity.Menu) error {
	query := `INSERT INTO menus (meal_type, menu_date, description, filename) VALUES (?, ?, ?, ?)`

	result, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		menu.MealType, formatDate(menu.MenuDate), menu.Description, menu.Filename)
	if err != nil {
		return fmt.Errorf("failed to create menu: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	menu.ID = id
	return nil
}

// GetOrCreate returns the menu for the slot, creating it lazily on
// first reference. Two commands racing on the same slot both pass the
// existence check; the unique (menu_date, meal_type) index rejects the
// loser, which then refetches the winner's row.
func (r *MenuRepository) GetOrCreate(ctx context.Context, date time.Time, mealType, description string) (*entity.Menu, error) {
	menu, err := r.GetBySlot(ctx, date, mealType)
	if err != nil {
		return nil, err
	}
	if menu != nil {
		return menu, nil
	}

	menu = &entity.Menu{
		MealType:    mealType,
		MenuDate:    date,
		Description: description,
	}
	if err := r.Create(ctx, menu); err != nil {
		if isUniqueViolation(err) {
			return r.GetBySlot(ctx, date, mealType)
		}
		r.logger.Error("Failed to create menu slot",
			zap.String("date", formatDate(date)), zap.String("meal_type", mealType), zap.Error(err))
		return nil, err
	}
	return menu, nil
}

// UpdateFilename sets the menu image filename
func (r *MenuRepository) UpdateFilename(ctx context.Context, id int64, filename string) error {
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, `UPDATE menus SET filename = ? WHERE id = ?`, filename, id)
	if err != nil {
		return fmt.Errorf("failed to update menu filename: %w", err)
	}
	return nil
}

// Delete removes a menu slot and, by cascade, its orders
func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	return nil
}

func (r *MenuRepository) scanOne(row *sql.Row) (*entity.Menu, error) {
	var m entity.Menu
	var menuDate string
	err := row.Scan(&m.ID, &m.MealType, &menuDate, &m.Description, &m.Filename, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	m.MenuDate = parseDate(menuDate)
	return &m, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
