package parser

import (
	"strings"
	"time"

	"github.com/ycfang/orderbot/internal/config"
	"github.com/ycfang/orderbot/internal/domain/entity"
)

// MealResolver infers a canonical meal type from keyword text, falling
// back to time-of-day bucketing when no keyword matches. It never fails.
type MealResolver struct {
	keywords []config.MealKeyword
	loc      *time.Location
}

// NewMealResolver builds a resolver over an ordered keyword table.
// Table order is the tie-break: the first entry whose keyword occurs as
// a substring of the text wins.
func NewMealResolver(keywords []config.MealKeyword, loc *time.Location) *MealResolver {
	return &MealResolver{keywords: keywords, loc: loc}
}

// ResolveKeyword scans text for a meal keyword. The boolean reports
// whether a keyword actually matched; callers that must distinguish "no
// meal given" from a default use this form.
func (r *MealResolver) ResolveKeyword(text string) (string, bool) {
	for _, kw := range r.keywords {
		if strings.Contains(text, kw.Keyword) {
			return kw.Meal, true
		}
	}
	return "", false
}

// Resolve returns the meal type for text, using the time-of-day windows
// when no keyword matches:
//
//	[05:00,10:30) breakfast, [10:30,14:30) lunch,
//	[14:30,17:30) snack,     [17:30,21:00) dinner, else lunch.
func (r *MealResolver) Resolve(text string, now time.Time) string {
	if meal, ok := r.ResolveKeyword(text); ok {
		return meal
	}
	return r.ByClock(now)
}

// ByClock buckets the current local time into a meal type.
func (r *MealResolver) ByClock(now time.Time) string {
	local := now.In(r.loc)
	minutes := local.Hour()*60 + local.Minute()

	switch {
	case minutes >= 5*60 && minutes < 10*60+30:
		return entity.MealBreakfast
	case minutes >= 10*60+30 && minutes < 14*60+30:
		return entity.MealLunch
	case minutes >= 14*60+30 && minutes < 17*60+30:
		return entity.MealSnack
	case minutes >= 17*60+30 && minutes < 21*60:
		return entity.MealDinner
	default:
		// deep night defaults to lunch
		return entity.MealLunch
	}
}
