// Package dispatcher classifies inbound chat text into commands by
// prefix matching and routes to the registered handler. Routes are an
// explicit prioritized list evaluated in fixed order; ordering is part
// of the dispatch contract because some command prefixes are textual
// prefixes of others ("!show payer" and "!show debt" must be tested
// before "!show").
package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Request is one inbound text message.
type Request struct {
	Text    string
	UserID  string
	GroupID string
}

// Reply is a handler's outbound message: plain text or one image.
type Reply struct {
	Text     string
	ImageURL string
}

// Empty reports whether there is nothing to send.
func (r Reply) Empty() bool {
	return r.Text == "" && r.ImageURL == ""
}

// Handler processes one recognized command.
type Handler func(ctx context.Context, req *Request) (Reply, error)

// MatchFunc reports whether text belongs to a route.
type MatchFunc func(text string) bool

// Route pairs a matcher with its handler.
type Route struct {
	Name   string
	Match  MatchFunc
	Handle Handler
}

// internalErrorReply is what users see when a handler faults. No
// command is allowed to propagate an unhandled error to the transport.
const internalErrorReply = "❌ 處理指令時發生錯誤，請檢查格式"

// Dispatcher evaluates routes in registration order.
type Dispatcher struct {
	routes []Route
	logger *zap.Logger
}

// New creates a dispatcher over an ordered route list.
func New(routes []Route, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{routes: routes, logger: logger}
}

// Dispatch routes the request to the first matching handler. The
// boolean reports whether any route recognized the text; unrecognized
// messages are left to the caller (audit only, no reply). Handler
// errors and panics are converted to the generic format-error reply.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (Reply, bool) {
	text := strings.TrimSpace(req.Text)
	for _, route := range d.routes {
		if !route.Match(text) {
			continue
		}

		d.logger.Info("Dispatching command",
			zap.String("command", route.Name),
			zap.String("user_id", req.UserID))

		reply, err := d.safeExecute(ctx, route, req)
		if err != nil {
			d.logger.Error("Command handler failed",
				zap.String("command", route.Name),
				zap.Error(err))
			return Reply{Text: internalErrorReply}, true
		}
		return reply, true
	}
	return Reply{}, false
}

func (d *Dispatcher) safeExecute(ctx context.Context, route Route, req *Request) (reply Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return route.Handle(ctx, req)
}

// Prefix matches text beginning with "!" or full-width "！" followed by
// any of the given words (ASCII case-insensitive).
func Prefix(words ...string) MatchFunc {
	return func(text string) bool {
		for _, w := range words {
			for _, bang := range []string{"!", "！"} {
				p := bang + w
				if len(text) >= len(p) && strings.EqualFold(text[:len(p)], p) {
					return true
				}
			}
		}
		return false
	}
}

// Exact matches any of the given literals (ASCII case-insensitive).
func Exact(literals ...string) MatchFunc {
	return func(text string) bool {
		for _, lit := range literals {
			if strings.EqualFold(text, lit) {
				return true
			}
		}
		return false
	}
}

// Digits matches a bare all-digit message.
func Digits() MatchFunc {
	return func(text string) bool {
		if text == "" {
			return false
		}
		for _, r := range text {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
}

// Any combines matchers.
func Any(matchers ...MatchFunc) MatchFunc {
	return func(text string) bool {
		for _, m := range matchers {
			if m(text) {
				return true
			}
		}
		return false
	}
}
