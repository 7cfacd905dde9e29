package bot

import (
	"context"

	"github.com/ycfang/orderbot/internal/dispatcher"
)

// Routes builds the bot's command table. Ordering matters: "show
// payer" and "show debt" must precede the plain "show" prefix, and the
// bare-digit bill shorthand comes after every named command.
func (b *OrderBot) Routes() []dispatcher.Route {
	return []dispatcher.Route{
		{
			Name:  "groupid",
			Match: dispatcher.Exact("!groupid", "！groupid"),
			Handle: func(ctx context.Context, req *dispatcher.Request) (dispatcher.Reply, error) {
				if req.GroupID == "" {
					return dispatcher.Reply{}, nil
				}
				return dispatcher.Reply{Text: "群組 ID：" + req.GroupID}, nil
			},
		},
		b.textRoute("order", dispatcher.Prefix("order", "點餐"), b.HandleOrder),
		b.textRoute("add", dispatcher.Prefix("add", "加點"), b.HandleAdd),
		b.textRoute("bill", dispatcher.Prefix("bill", "結帳", "帳單"), b.HandleBill),
		{
			Name:  "today",
			Match: dispatcher.Prefix("today", "今日", "今天"),
			Handle: func(ctx context.Context, req *dispatcher.Request) (dispatcher.Reply, error) {
				text, err := b.HandleToday(ctx)
				return dispatcher.Reply{Text: text}, err
			},
		},
		{
			Name: "help",
			Match: dispatcher.Any(
				dispatcher.Prefix("help"),
				dispatcher.Exact("說明", "指令", "!說明", "！說明", "!指令", "！指令"),
			),
			Handle: func(ctx context.Context, req *dispatcher.Request) (dispatcher.Reply, error) {
				return dispatcher.Reply{Text: b.HandleHelp()}, nil
			},
		},
		b.textRoute("show payer", dispatcher.Prefix("show payer", "代墊"), b.HandleShowPayer),
		b.textRoute("show debt", dispatcher.Prefix("show debt", "欠款"), b.HandleShowDebt),
		b.textRoute("show", dispatcher.Prefix("show", "查詢", "看單"), b.HandleShow),
		b.textRoute("enter", dispatcher.Prefix("enter", "補登", "輸入"), b.HandleEnter),
		b.textRoute("checkout", dispatcher.Prefix("checkout", "結清", "收款"), b.HandleCheckout),
		b.textRoute("amount", dispatcher.Prefix("amount", "金額", "價錢"), b.HandleAmount),
		{
			Name:  "menu",
			Match: dispatcher.Prefix("menu", "菜單", "蔡單", "看菜單"),
			Handle: func(ctx context.Context, req *dispatcher.Request) (dispatcher.Reply, error) {
				imageURL, message := b.HandleMenuLookup(req.Text)
				return dispatcher.Reply{Text: message, ImageURL: imageURL}, nil
			},
		},
		{
			Name:  "eat what",
			Match: dispatcher.Prefix("eat what", "吃什麼"),
			Handle: func(ctx context.Context, req *dispatcher.Request) (dispatcher.Reply, error) {
				imageURL, message, err := b.HandleEatWhat(req.Text)
				return dispatcher.Reply{Text: message, ImageURL: imageURL}, err
			},
		},
		b.textRoute("bill shorthand", dispatcher.Digits(), b.HandleBill),
		{
			Name:  "test digest",
			Match: dispatcher.Exact("!test_daily", "！test_daily", "!測試統計", "！測試統計"),
			Handle: func(ctx context.Context, req *dispatcher.Request) (dispatcher.Reply, error) {
				summary, ok, err := b.DailyUnpaidSummary(ctx)
				if err != nil {
					return dispatcher.Reply{}, err
				}
				if !ok {
					return dispatcher.Reply{Text: "【測試模式】目前沒有未付款訂單，所以不會發送通知。"}, nil
				}
				return dispatcher.Reply{Text: "【這是測試預覽，不會發送到群組】\n\n" + summary}, nil
			},
		},
	}
}

func (b *OrderBot) textRoute(name string, match dispatcher.MatchFunc, fn func(context.Context, string) (string, error)) dispatcher.Route {
	return dispatcher.Route{
		Name:  name,
		Match: match,
		Handle: func(ctx context.Context, req *dispatcher.Request) (dispatcher.Reply, error) {
			text, err := fn(ctx, req.Text)
			return dispatcher.Reply{Text: text}, err
		},
	}
}
