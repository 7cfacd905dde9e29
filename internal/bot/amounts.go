package bot

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ycfang/orderbot/internal/parser"
	"github.com/ycfang/orderbot/internal/repository"
)

// HandleAmount batch-enters amounts against an existing menu slot. The
// first line optionally narrows the slot with a date and a meal
// keyword (defaults: today, lunch); every following line is
// "<code>[.|space]<amount>". Lines without any digit are skipped
// silently so free-text remarks can ride along in the same message.
func (b *OrderBot) HandleAmount(ctx context.Context, text string) (string, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	args := strings.Fields(stripCommand(lines[0], "amount", "金額", "價錢"))

	targetDate := b.today()
	mealType := "lunch"
	for _, arg := range args {
		if strings.Contains(arg, "/") {
			if d, err := parser.ParseDate(arg, b.now()); err == nil {
				targetDate = d
			}
			continue
		}
		if m, ok := b.meals.ResolveKeyword(arg); ok {
			mealType = m
		}
	}

	menu, err := b.menus.GetBySlot(ctx, targetDate, mealType)
	if err != nil {
		return "", err
	}
	if menu == nil {
		return fmt.Sprintf("❌ 找不到菜單\n日期：%s\n餐別：%s\n請先建立訂單後再輸入金額。",
			fullDate(targetDate), b.mealName(mealType)), nil
	}

	var updated []string
	var problems []string

	err = b.db.WithTransaction(func(tx *sql.Tx) error {
		txCtx := repository.WithTx(ctx, tx)

		for _, raw := range lines[1:] {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}

			parsed, kind := parser.ParseAmountLine(line)
			switch kind {
			case parser.AmountLineBlank:
				continue
			case parser.AmountLineMalformed:
				problems = append(problems, "格式錯誤："+line)
				continue
			}

			user, err := b.users.GetByCode(txCtx, parsed.UserCode)
			if err != nil {
				return err
			}
			if user == nil {
				problems = append(problems, fmt.Sprintf("代號 %s 不存在", parsed.UserCode))
				continue
			}

			order, err := b.orders.GetByMenuAndUser(txCtx, menu.ID, user.ID)
			if err != nil {
				return err
			}
			if order == nil {
				problems = append(problems, fmt.Sprintf("%s. %s 沒點餐", parsed.UserCode, user.Name))
				continue
			}

			if err := b.orders.UpdateAmount(txCtx, order.ID, parsed.Amount); err != nil {
				return err
			}
			updated = append(updated, fmt.Sprintf("✅ %s. %s: $%s",
				parsed.UserCode, user.Name, formatAmount(parsed.Amount)))
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	reply.WriteString("💰 金額更新完成\n")
	fmt.Fprintf(&reply, "📅 %s %s\n", fullDate(targetDate), b.mealName(mealType))
	reply.WriteString("----------------\n")
	for _, u := range updated {
		reply.WriteString(u + "\n")
	}
	if len(updated) == 0 && len(problems) == 0 {
		reply.WriteString("⚠️ 沒有讀取到任何金額資料")
	}
	if len(problems) > 0 {
		reply.WriteString("\n⚠️ 異常：\n")
		for _, p := range problems {
			reply.WriteString("• " + p + "\n")
		}
	}
	return reply.String(), nil
}

// HandleCheckout settles a user's unpaid orders. The scope narrows
// with the optional arguments: code alone settles all history, code
// plus date settles that day, code plus date plus meal keyword settles
// that single slot.
func (b *OrderBot) HandleCheckout(ctx context.Context, text string) (string, error) {
	parts := strings.Fields(stripCommand(text, "checkout", "結清", "收款"))
	if len(parts) < 1 {
		return "❌ 格式錯誤！\n請輸入代號，例如：!結清 2", nil
	}
	code := parts[0]

	var targetDate *time.Time
	if len(parts) >= 2 {
		d, err := parser.ParseDate(parts[1], b.now())
		if err != nil {
			return "❌ 日期格式錯誤 (請用 11/26 或 2025/11/26)", nil
		}
		targetDate = &d
	}

	mealType := ""
	if len(parts) >= 3 {
		m, ok := b.meals.ResolveKeyword(parts[2])
		if !ok {
			return "❌ 無法識別餐別！\n請使用：早餐、午餐、中餐、晚餐、飲料、點心", nil
		}
		mealType = m
	}

	user, err := b.users.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if user == nil {
		return fmt.Sprintf("❌ 代號 %s 不存在", code), nil
	}

	scope := "「所有歷史欠款」"
	if targetDate != nil {
		if mealType != "" {
			scope = fmt.Sprintf("「%s %s」", shortDate(*targetDate), b.mealName(mealType))
		} else {
			scope = fmt.Sprintf("「%s 全天」", shortDate(*targetDate))
		}
	}

	var count int
	var total float64
	err = b.db.WithTransaction(func(tx *sql.Tx) error {
		txCtx := repository.WithTx(ctx, tx)
		var err error
		count, total, err = b.orders.MarkPaidScope(txCtx, user.ID, targetDate, mealType)
		return err
	})
	if err != nil {
		return "", err
	}

	if count == 0 {
		return fmt.Sprintf("✅ 代號 %s 在 %s 範圍內沒有未付款訂單。", code, scope), nil
	}

	var reply strings.Builder
	reply.WriteString("💰 結帳成功！\n")
	fmt.Fprintf(&reply, "👤 對象：%s. %s\n", user.UserCode, user.Name)
	fmt.Fprintf(&reply, "範圍：%s\n", scope)
	fmt.Fprintf(&reply, "🧾 筆數：%d 筆\n", count)
	fmt.Fprintf(&reply, "💵 總金額：$%s\n", formatAmount(total))
	reply.WriteString("✅ 狀態已更新為 [已付款]")
	return reply.String(), nil
}
