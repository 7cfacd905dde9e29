package bot

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ycfang/orderbot/internal/domain/entity"
	"github.com/ycfang/orderbot/internal/parser"
	"github.com/ycfang/orderbot/internal/repository"
)

// HandleOrder processes a batch order. The first line optionally names
// a meal keyword and a default payer code; every following line is one
// order in "<code>. <items> [payer]" form. All writes of the batch
// share one transaction; per-line problems are collected and reported
// without aborting the rest of the batch.
func (b *OrderBot) HandleOrder(ctx context.Context, text string) (string, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	first := stripCommand(lines[0], "order", "點餐")
	parts := strings.Fields(first)

	mealArg := ""
	if len(parts) > 0 {
		mealArg = parts[0]
	}
	mealType := b.meals.Resolve(mealArg, b.now())

	payerCode := b.cfg.DefaultPayerCode
	if len(parts) >= 2 && isDigits(parts[1]) {
		payerCode = parts[1]
	}

	defaultPayer, err := b.users.GetByCode(ctx, payerCode)
	if err != nil {
		return "", err
	}
	if defaultPayer == nil {
		return fmt.Sprintf("❌ 代墊人代號 %s 不存在！\n\n請檢查代號是否正確", payerCode), nil
	}

	today := b.today()
	var added []string
	var problems []string

	err = b.db.WithTransaction(func(tx *sql.Tx) error {
		txCtx := repository.WithTx(ctx, tx)

		menu, err := b.menus.GetOrCreate(txCtx, today, mealType,
			fullDate(today)+" "+b.mealName(mealType))
		if err != nil {
			return err
		}

		for _, raw := range lines[1:] {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}

			parsed, ok := parser.ParseOrderLine(line)
			if !ok {
				problems = append(problems, "無法解析："+line)
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

			payer := defaultPayer
			if parsed.PayerCode != "" {
				p, err := b.users.GetByCode(txCtx, parsed.PayerCode)
				if err != nil {
					return err
				}
				if p == nil {
					problems = append(problems, fmt.Sprintf("代墊人 %s 不存在", parsed.PayerCode))
					continue
				}
				payer = p
			}

			payerID := payer.ID
			order := &entity.Order{
				UserID:  user.ID,
				MenuID:  menu.ID,
				Items:   parsed.Items,
				PayerID: &payerID,
			}
			if err := b.orders.Create(txCtx, order); err != nil {
				return err
			}

			entry := fmt.Sprintf("%s. %s - %s", parsed.UserCode, user.Name, parsed.Items)
			if payer.ID != defaultPayer.ID {
				entry += fmt.Sprintf(" [代墊: %s]", payer.UserCode)
			}
			added = append(added, entry)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	fmt.Fprintf(&reply, "✅ 已記錄 %d 筆訂單\n", len(added))
	fmt.Fprintf(&reply, "【%s - %s】\n", b.mealName(mealType), shortDate(today))
	fmt.Fprintf(&reply, "💳 代墊人：%s. %s\n\n", defaultPayer.UserCode, defaultPayer.Name)
	for _, entry := range added {
		reply.WriteString(entry + "\n")
	}
	if len(problems) > 0 {
		reply.WriteString("\n⚠️ 錯誤：\n")
		for _, p := range problems {
			reply.WriteString("• " + p + "\n")
		}
	}
	reply.WriteString("\n💡 請至網頁後台輸入金額")
	return reply.String(), nil
}

// HandleAdd records one order for the current meal slot, inferred from
// the clock alone. The payer is always the configured default; when
// that code does not exist the order is still recorded, just without
// debt attribution.
func (b *OrderBot) HandleAdd(ctx context.Context, text string) (string, error) {
	parts := splitFields(stripCommand(text, "add", "加點"), 2)
	if len(parts) < 2 {
		return "❌ 格式錯誤！\n\n正確格式：\n!add 2 雞腿便當", nil
	}
	code, items := parts[0], parts[1]

	user, err := b.users.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if user == nil {
		return fmt.Sprintf("❌ 代號 %s 不存在", code), nil
	}

	defaultPayer, err := b.users.GetByCode(ctx, b.cfg.DefaultPayerCode)
	if err != nil {
		return "", err
	}

	mealType := b.meals.ByClock(b.now())
	today := b.today()

	err = b.db.WithTransaction(func(tx *sql.Tx) error {
		txCtx := repository.WithTx(ctx, tx)

		menu, err := b.menus.GetOrCreate(txCtx, today, mealType,
			fullDate(today)+" "+b.mealName(mealType))
		if err != nil {
			return err
		}

		order := &entity.Order{UserID: user.ID, MenuID: menu.ID, Items: items}
		if defaultPayer != nil {
			payerID := defaultPayer.ID
			order.PayerID = &payerID
		}
		return b.orders.Create(txCtx, order)
	})
	if err != nil {
		return "", err
	}

	reply := fmt.Sprintf("✅ 已新增訂單\n\n【%s】\n%s. %s - %s",
		b.mealName(mealType), code, user.Name, items)
	if defaultPayer != nil {
		reply += fmt.Sprintf("\n💳 代墊人：%s號", defaultPayer.UserCode)
	}
	return reply, nil
}

// HandleEnter backfills an order into a past slot: date, explicit meal
// keyword, user code, item text and an optional trailing payer code.
// Unlike the batch command this fails fast, nothing is written unless
// every field resolves.
func (b *OrderBot) HandleEnter(ctx context.Context, text string) (string, error) {
	parts := splitFields(stripCommand(text, "enter", "補登", "輸入"), 4)
	if len(parts) < 4 {
		return "❌ 格式錯誤！\n\n正確格式：\n!enter 2025/10/24 中餐 20 牛肉飯\n或\n!enter 10/24 午餐 20 牛肉飯 9", nil
	}
	dateTok, mealTok, code := parts[0], parts[1], parts[2]

	// A trailing all-digit token on the item text is the payer code.
	items := parts[3]
	var payer *entity.User
	if i := strings.LastIndexFunc(items, isSpace); i >= 0 {
		if last := strings.TrimSpace(items[i:]); isDigits(last) {
			p, err := b.users.GetByCode(ctx, last)
			if err != nil {
				return "", err
			}
			if p == nil {
				return fmt.Sprintf("❌ 代墊人代號 %s 不存在", last), nil
			}
			payer = p
			items = strings.TrimSpace(items[:i])
		}
	}

	targetDate, err := parser.ParseDate(dateTok, b.now())
	if err != nil {
		return "❌ 日期格式錯誤！\n請使用：2025/10/24 或 10/24", nil
	}

	mealType, ok := b.meals.ResolveKeyword(mealTok)
	if !ok {
		return "❌ 無法識別餐別！\n請使用：早餐、午餐、中餐、晚餐、飲料、點心", nil
	}

	user, err := b.users.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if user == nil {
		return fmt.Sprintf("❌ 代號 %s 不存在", code), nil
	}

	err = b.db.WithTransaction(func(tx *sql.Tx) error {
		txCtx := repository.WithTx(ctx, tx)

		menu, err := b.menus.GetOrCreate(txCtx, targetDate, mealType,
			fullDate(targetDate)+" "+b.mealName(mealType))
		if err != nil {
			return err
		}

		order := &entity.Order{UserID: user.ID, MenuID: menu.ID, Items: items}
		if payer != nil {
			payerID := payer.ID
			order.PayerID = &payerID
		}
		return b.orders.Create(txCtx, order)
	})
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	reply.WriteString("✅ 已補登記訂單\n\n")
	fmt.Fprintf(&reply, "📅 日期：%s\n", fullDate(targetDate))
	fmt.Fprintf(&reply, "🍽️ 餐別：%s\n", b.mealName(mealType))
	fmt.Fprintf(&reply, "👤 %s. %s\n", code, user.Name)
	fmt.Fprintf(&reply, "🍱 %s\n", items)
	if payer != nil {
		fmt.Fprintf(&reply, "💳 代墊人：%s. %s\n", payer.UserCode, payer.Name)
	}
	return reply.String(), nil
}
