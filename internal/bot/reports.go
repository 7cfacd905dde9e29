package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ycfang/orderbot/internal/domain/entity"
	"github.com/ycfang/orderbot/internal/parser"
)

func statusMark(paid bool) string {
	if paid {
		return "✅"
	}
	return "⏳"
}

// HandleBill reports one user's bill: today's consumption plus total
// outstanding debt grouped by who fronted the money. Also answers the
// bare-digit shorthand.
func (b *OrderBot) HandleBill(ctx context.Context, text string) (string, error) {
	code := stripCommand(text, "bill", "結帳", "帳單")
	if !isDigits(code) {
		return "❌ 請輸入正確的代號\n\n範例：!bill 2 或直接輸入 2", nil
	}

	user, err := b.users.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if user == nil {
		return fmt.Sprintf("❌ 代號 %s 不存在", code), nil
	}

	today := b.today()
	todayOrders, err := b.orders.ListByUserOnDate(ctx, user.ID, today)
	if err != nil {
		return "", err
	}
	unpaid, err := b.orders.ListUnpaidByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}

	var todayTotal, todayUnpaid float64
	for _, o := range todayOrders {
		todayTotal += o.Amount
		if !o.Paid {
			todayUnpaid += o.Amount
		}
	}
	todayPaid := todayTotal - todayUnpaid

	// Debt grouped by payer, first-seen order. Rows whose payer was
	// deleted carry no attribution and drop out of the debt view.
	var payerKeys []string
	debtByPayer := make(map[string]float64)
	var totalUnpaid float64
	for _, o := range unpaid {
		if !o.HasPayer() {
			continue
		}
		key := o.PayerCode + ". " + o.PayerName
		if _, seen := debtByPayer[key]; !seen {
			payerKeys = append(payerKeys, key)
		}
		debtByPayer[key] += o.Amount
		totalUnpaid += o.Amount
	}

	var reply strings.Builder
	fmt.Fprintf(&reply, "📋 %s號 %s 的帳單\n", code, user.Name)
	reply.WriteString(sectionRule + "\n\n")

	if len(todayOrders) > 0 {
		fmt.Fprintf(&reply, "【今日消費 %s】\n", shortDate(today))
		for _, o := range todayOrders {
			payerInfo := ""
			if o.HasPayer() {
				payerInfo = fmt.Sprintf(" (代墊: %s號)", o.PayerCode)
			}
			fmt.Fprintf(&reply, "%s %s: $%s%s\n",
				statusMark(o.Paid), b.mealName(o.MealType), formatAmount(o.Amount), payerInfo)
		}
		reply.WriteString(lineRule + "\n")
		fmt.Fprintf(&reply, "今日已付：$%s\n", formatAmount(todayPaid))
		fmt.Fprintf(&reply, "今日未付：$%s\n", formatAmount(todayUnpaid))
		reply.WriteString("\n")
	}

	if len(payerKeys) > 0 {
		reply.WriteString("【總欠款】\n")
		for _, key := range payerKeys {
			fmt.Fprintf(&reply, "欠 %s：$%s\n", key, formatAmount(debtByPayer[key]))
		}
		reply.WriteString(lineRule + "\n")
		fmt.Fprintf(&reply, "💰 總計：$%s\n\n", formatAmount(totalUnpaid))
	} else {
		reply.WriteString("✅ 目前沒有欠款\n\n")
	}

	if totalUnpaid > 0 {
		fmt.Fprintf(&reply, "\n💡 使用 !結清 %s 進行付款", code)
	}
	return reply.String(), nil
}

// HandleToday summarizes all of today's orders grouped by meal.
func (b *OrderBot) HandleToday(ctx context.Context) (string, error) {
	today := b.today()
	rows, err := b.orders.ListByDate(ctx, today)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return fmt.Sprintf("📋 今日 (%s) 還沒有訂單", shortDate(today)), nil
	}

	var mealKeys []string
	byMeal := make(map[string][]*entity.OrderDetail)
	for _, o := range rows {
		if _, seen := byMeal[o.MealType]; !seen {
			mealKeys = append(mealKeys, o.MealType)
		}
		byMeal[o.MealType] = append(byMeal[o.MealType], o)
	}

	var reply strings.Builder
	fmt.Fprintf(&reply, "📋 今日訂單摘要 (%s)\n\n", shortDate(today))

	var totalAmount, totalPaid float64
	for _, meal := range mealKeys {
		orders := byMeal[meal]
		fmt.Fprintf(&reply, "【%s】共 %d 筆\n", b.mealName(meal), len(orders))
		for _, o := range orders {
			fmt.Fprintf(&reply, "%s %s. %s - %s ($%s)\n",
				statusMark(o.Paid), o.UserCode, o.UserName, o.Items, formatAmount(o.Amount))
			totalAmount += o.Amount
			if o.Paid {
				totalPaid += o.Amount
			}
		}
		reply.WriteString("\n")
	}

	fmt.Fprintf(&reply, "💰 今日總計：$%s\n", formatAmount(totalAmount))
	fmt.Fprintf(&reply, "✅ 已收款：$%s\n", formatAmount(totalPaid))
	fmt.Fprintf(&reply, "⏳ 未收款：$%s", formatAmount(totalAmount-totalPaid))
	return reply.String(), nil
}

// HandleShow lists the orders of one (date, meal) slot with paid and
// unpaid totals. The meal defaults to lunch when omitted.
func (b *OrderBot) HandleShow(ctx context.Context, text string) (string, error) {
	parts := strings.Fields(stripCommand(text, "show", "查詢", "看單"))
	if len(parts) < 1 {
		return "❌ 格式錯誤！\n\n正確格式：\n!show 2025/10/24 中餐\n或\n!show 10/24 午餐", nil
	}

	targetDate, err := parser.ParseDate(parts[0], b.now())
	if err != nil {
		return "❌ 日期格式錯誤！\n請使用：2025/10/24 或 10/24", nil
	}

	mealType := entity.MealLunch
	if len(parts) >= 2 {
		if m, ok := b.meals.ResolveKeyword(parts[1]); ok {
			mealType = m
		}
	}

	header := fmt.Sprintf("📋 %s %s", fullDate(targetDate), b.mealName(mealType))

	menu, err := b.menus.GetBySlot(ctx, targetDate, mealType)
	if err != nil {
		return "", err
	}
	if menu == nil {
		return header + "\n\n尚無訂單記錄", nil
	}

	rows, err := b.orders.ListByMenu(ctx, menu.ID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return header + "\n\n尚無訂單", nil
	}

	var reply strings.Builder
	reply.WriteString(header + "\n\n")

	var total, paid, unpaid float64
	for _, o := range rows {
		fmt.Fprintf(&reply, "%s %s. %s\n", statusMark(o.Paid), o.UserCode, o.UserName)
		fmt.Fprintf(&reply, "   %s - $%s\n", o.Items, formatAmount(o.Amount))
		total += o.Amount
		if o.Paid {
			paid += o.Amount
		} else {
			unpaid += o.Amount
		}
	}

	fmt.Fprintf(&reply, "\n💰 總計：$%s", formatAmount(total))
	fmt.Fprintf(&reply, "\n✅ 已付：$%s", formatAmount(paid))
	fmt.Fprintf(&reply, "\n⏳ 未付：$%s", formatAmount(unpaid))
	return reply.String(), nil
}

// HandleShowPayer reports fronted money. Without an argument it ranks
// every payer by outstanding total; with a code it lists that payer's
// uncollected orders grouped by date.
func (b *OrderBot) HandleShowPayer(ctx context.Context, text string) (string, error) {
	rest := stripCommand(text, "show payer", "代墊", "show", "查詢")
	rest = strings.NewReplacer("payer", "", "代墊", "").Replace(rest)
	parts := strings.Fields(rest)

	if len(parts) > 0 && isDigits(parts[0]) {
		return b.showPayerDetail(ctx, parts[0])
	}

	rows, err := b.orders.ListUnpaidAll(ctx)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "✅ 目前沒有未付款的訂單", nil
	}

	type payerStat struct {
		key    string
		amount float64
		count  int
	}
	var keys []string
	stats := make(map[string]*payerStat)
	for _, o := range rows {
		if !o.HasPayer() {
			continue
		}
		key := o.PayerCode + ". " + o.PayerName
		s, seen := stats[key]
		if !seen {
			s = &payerStat{key: key}
			stats[key] = s
			keys = append(keys, key)
		}
		s.amount += o.Amount
		s.count++
	}
	if len(stats) == 0 {
		return "✅ 目前沒有代墊記錄", nil
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return stats[keys[i]].amount > stats[keys[j]].amount
	})

	var reply strings.Builder
	reply.WriteString("💳 代墊統計總覽\n")
	reply.WriteString(sectionRule + "\n\n")
	for _, key := range keys {
		s := stats[key]
		fmt.Fprintf(&reply, "👤 %s\n", s.key)
		fmt.Fprintf(&reply, "   未收：$%s (%d筆)\n\n", formatAmount(s.amount), s.count)
	}
	reply.WriteString("💡 使用 !show payer [代號] 查看明細")
	return reply.String(), nil
}

func (b *OrderBot) showPayerDetail(ctx context.Context, code string) (string, error) {
	payer, err := b.users.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if payer == nil {
		return fmt.Sprintf("❌ 代號 %s 不存在", code), nil
	}

	rows, err := b.orders.ListUnpaidByPayer(ctx, payer.ID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return fmt.Sprintf("✅ %s號 %s 目前沒有未收款的代墊訂單", payer.UserCode, payer.Name), nil
	}

	// Rows arrive newest-date first; keep that grouping order.
	var dateKeys []string
	byDate := make(map[string][]*entity.OrderDetail)
	var total float64
	for _, o := range rows {
		key := shortDate(o.MenuDate)
		if _, seen := byDate[key]; !seen {
			dateKeys = append(dateKeys, key)
		}
		byDate[key] = append(byDate[key], o)
		total += o.Amount
	}

	var reply strings.Builder
	fmt.Fprintf(&reply, "💳 代墊統計 - %s號 %s\n", payer.UserCode, payer.Name)
	reply.WriteString(sectionRule + "\n\n")
	reply.WriteString("【未收款明細】\n")
	for _, key := range dateKeys {
		fmt.Fprintf(&reply, "\n📅 %s\n", key)
		for _, o := range byDate[key] {
			fmt.Fprintf(&reply, "  • %s號 %s: $%s (%s)\n",
				o.UserCode, o.UserName, formatAmount(o.Amount), o.Items)
		}
	}
	reply.WriteString("\n" + sectionRule + "\n")
	fmt.Fprintf(&reply, "💰 總計未收：$%s", formatAmount(total))
	return reply.String(), nil
}

// HandleShowDebt reports who one user owes, grouped by payer with the
// backing orders listed under each.
func (b *OrderBot) HandleShowDebt(ctx context.Context, text string) (string, error) {
	rest := stripCommand(text, "show debt", "欠款", "show", "查詢")
	rest = strings.NewReplacer("debt", "", "欠款", "").Replace(rest)
	parts := strings.Fields(rest)

	if len(parts) == 0 || !isDigits(parts[0]) {
		return "❌ 請指定代號\n\n範例：!show debt 2", nil
	}
	code := parts[0]

	user, err := b.users.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if user == nil {
		return fmt.Sprintf("❌ 代號 %s 不存在", code), nil
	}

	rows, err := b.orders.ListUnpaidByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return fmt.Sprintf("✅ %s號 %s 目前沒有欠款", user.UserCode, user.Name), nil
	}

	type debt struct {
		amount float64
		orders []*entity.OrderDetail
	}
	var keys []string
	byPayer := make(map[string]*debt)
	var total float64
	for _, o := range rows {
		if !o.HasPayer() {
			continue
		}
		key := o.PayerCode + ". " + o.PayerName
		d, seen := byPayer[key]
		if !seen {
			d = &debt{}
			byPayer[key] = d
			keys = append(keys, key)
		}
		d.amount += o.Amount
		d.orders = append(d.orders, o)
		total += o.Amount
	}
	if len(byPayer) == 0 {
		return fmt.Sprintf("✅ %s號 %s 沒有代墊欠款", user.UserCode, user.Name), nil
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return byPayer[keys[i]].amount > byPayer[keys[j]].amount
	})

	var reply strings.Builder
	fmt.Fprintf(&reply, "📋 欠款明細 - %s號 %s\n", user.UserCode, user.Name)
	reply.WriteString(sectionRule + "\n\n")
	for _, key := range keys {
		d := byPayer[key]
		fmt.Fprintf(&reply, "💳 欠 %s：$%s\n", key, formatAmount(d.amount))
		for _, o := range d.orders {
			fmt.Fprintf(&reply, "  • %s %s: $%s\n",
				shortDate(o.MenuDate), b.mealName(o.MealType), formatAmount(o.Amount))
		}
		reply.WriteString("\n")
	}
	reply.WriteString(sectionRule + "\n")
	fmt.Fprintf(&reply, "💰 總欠款：$%s\n\n", formatAmount(total))
	fmt.Fprintf(&reply, "💡 使用 !結清 %s 進行付款", code)
	return reply.String(), nil
}
