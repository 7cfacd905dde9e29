package bot

import (
	"context"
	"fmt"
	"strings"
)

// DailyUnpaidSummary builds the nightly reminder listing every
// non-admin member with outstanding orders. ok is false when nobody
// owes anything, in which case nothing should be pushed at all.
func (b *OrderBot) DailyUnpaidSummary(ctx context.Context) (summary string, ok bool, err error) {
	users, err := b.users.ListWithUnpaid(ctx)
	if err != nil {
		return "", false, err
	}
	if len(users) == 0 {
		return "", false, nil
	}

	var reply strings.Builder
	fmt.Fprintf(&reply, "📊 每日帳務提醒 (%s %s)\n\n", fullDate(b.today()), b.cfg.DigestTime)

	listed := false
	for _, u := range users {
		total, err := b.orders.SumUnpaidByUser(ctx, u.ID)
		if err != nil {
			return "", false, err
		}
		if total <= 0 {
			continue
		}
		fmt.Fprintf(&reply, "%s. %s - 未付款 $%s\n", u.UserCode, u.Name, formatAmount(total))
		listed = true
	}
	if !listed {
		return "", false, nil
	}
	return reply.String(), true, nil
}
