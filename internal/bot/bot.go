// Package bot implements the ledger engine behind the chat commands:
// order intake, amount entry, settlement and the query reports. Every
// handler takes raw command text, parses it, runs its store writes in
// one transaction and returns the reply text to send back. User-level
// mistakes (unknown codes, bad dates) come back as reply text, never
// as errors; errors are reserved for store and infrastructure faults.
package bot

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ycfang/orderbot/internal/config"
	"github.com/ycfang/orderbot/internal/parser"
	"github.com/ycfang/orderbot/internal/repository"
	"github.com/ycfang/orderbot/internal/storage"
	"github.com/ycfang/orderbot/pkg/database"
)

// OrderBot holds the repositories and parsers shared by all command
// handlers.
type OrderBot struct {
	db      *database.DB
	users   *repository.UserRepository
	menus   *repository.MenuRepository
	orders  *repository.OrderRepository
	meals   *parser.MealResolver
	library *storage.MenuLibrary
	cfg     config.BotConfig
	loc     *time.Location
	logger  *zap.Logger

	// now is swapped out in tests to pin the meal-type clock fallback.
	now func() time.Time
}

// New creates the bot service.
func New(
	db *database.DB,
	users *repository.UserRepository,
	menus *repository.MenuRepository,
	orders *repository.OrderRepository,
	library *storage.MenuLibrary,
	cfg config.BotConfig,
	logger *zap.Logger,
) (*OrderBot, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &OrderBot{
		db:      db,
		users:   users,
		menus:   menus,
		orders:  orders,
		meals:   parser.NewMealResolver(cfg.MealKeywords, loc),
		library: library,
		cfg:     cfg,
		loc:     loc,
		logger:  logger,
		now:     func() time.Time { return time.Now().In(loc) },
	}, nil
}

const sectionRule = "=============================="
const lineRule = "------------------------------"

// today returns the current date at midnight in the bot's timezone.
func (b *OrderBot) today() time.Time {
	now := b.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, b.loc)
}

// mealName maps a meal type to its display name.
func (b *OrderBot) mealName(mealType string) string {
	if name, ok := b.cfg.MealNames[mealType]; ok {
		return name
	}
	return "未知"
}

// stripCommand removes a leading command prefix (any of names, with a
// half- or full-width bang, ASCII case-insensitive) and trims the rest.
func stripCommand(text string, names ...string) string {
	t := strings.TrimSpace(text)
	for _, name := range names {
		for _, bang := range []string{"!", "！"} {
			p := bang + name
			if len(t) >= len(p) && strings.EqualFold(t[:len(p)], p) {
				return strings.TrimSpace(t[len(p):])
			}
		}
	}
	return t
}

// splitFields splits on whitespace into at most max fields; the last
// field keeps the untouched remainder.
func splitFields(s string, max int) []string {
	var fields []string
	s = strings.TrimSpace(s)
	for s != "" && len(fields) < max-1 {
		i := strings.IndexFunc(s, isSpace)
		if i < 0 {
			break
		}
		fields = append(fields, s[:i])
		s = strings.TrimLeftFunc(s[i:], isSpace)
	}
	if s != "" {
		fields = append(fields, s)
	}
	return fields
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '　'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// formatAmount renders dollar amounts without a trailing ".0" but keeps
// real fractions (85.5 stays 85.5).
func formatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}

func shortDate(t time.Time) string {
	return t.Format("01/02")
}

func fullDate(t time.Time) string {
	return t.Format("2006/01/02")
}
