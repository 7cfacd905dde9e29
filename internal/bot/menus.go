package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ycfang/orderbot/internal/storage"
)

// HandleEatWhat picks a random menu image for the requested meal. The
// meal keyword is mandatory here; there is no clock fallback for a
// recommendation. Returns an image URL, or a text reply when no image
// can be served.
func (b *OrderBot) HandleEatWhat(text string) (imageURL, message string, err error) {
	rest := strings.ToLower(stripCommand(text, "eat what", "吃什麼"))

	mealType, ok := "", false
	if rest != "" {
		mealType, ok = b.meals.ResolveKeyword(rest)
	}
	if !ok {
		return "", "❌ 請指定餐別！\n格式：!eat what 午餐\n(支援：早餐、午餐、晚餐、飲料)", nil
	}

	url, err := b.library.RandomImage(mealType)
	switch {
	case errors.Is(err, storage.ErrNoFolder):
		return "", fmt.Sprintf("❌ 找不到 %s 的圖片資料夾，請確認後台設定。", mealType), nil
	case errors.Is(err, storage.ErrNoImages):
		return "", fmt.Sprintf("📂 %s 資料夾內沒有圖片，請放入菜單圖片！", rest), nil
	case err != nil:
		return "", "", err
	}
	return url, "", nil
}

// HandleMenuLookup finds a stored menu image by keyword: configured
// aliases first, then a fuzzy filename search across all meal folders.
func (b *OrderBot) HandleMenuLookup(text string) (imageURL, message string) {
	parts := splitFields(strings.TrimSpace(text), 2)
	keyword := ""
	if len(parts) == 2 {
		keyword = strings.TrimSpace(parts[1])
	}
	if keyword == "" {
		return "", "❌ 請輸入想查詢的菜單關鍵字!\n範例:!menu 米糕"
	}

	if url, ok := b.library.FindByKeyword(keyword); ok {
		return url, ""
	}

	msg := fmt.Sprintf("❌ 找不到與「%s」相關的菜單。", keyword)
	if aliases := b.library.Aliases(5); len(aliases) > 0 {
		msg += "\n\n💡 可用關鍵字範例:\n" + strings.Join(aliases, "、")
	}
	return "", msg
}
