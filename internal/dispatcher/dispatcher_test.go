package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func echoRoute(name string, match MatchFunc) Route {
	return Route{
		Name:  name,
		Match: match,
		Handle: func(ctx context.Context, req *Request) (Reply, error) {
			return Reply{Text: name}, nil
		},
	}
}

func testRoutes() []Route {
	return []Route{
		echoRoute("order", Prefix("order", "點餐")),
		echoRoute("bill", Prefix("bill", "結帳", "帳單")),
		echoRoute("show payer", Prefix("show payer", "代墊")),
		echoRoute("show debt", Prefix("show debt", "欠款")),
		echoRoute("show", Prefix("show", "查詢", "看單")),
		echoRoute("bill shorthand", Digits()),
	}
}

func TestDispatcher_RouteOrder(t *testing.T) {
	d := New(testRoutes(), zap.NewNop())

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "order prefix", text: "!order 午餐", expected: "order"},
		{name: "full width bang", text: "！order 午餐", expected: "order"},
		{name: "chinese alias", text: "!點餐 午餐", expected: "order"},
		{name: "uppercase ascii", text: "!Order 午餐", expected: "order"},
		{name: "show payer wins over show", text: "!show payer 3", expected: "show payer"},
		{name: "show payer chinese", text: "!代墊 15", expected: "show payer"},
		{name: "show debt wins over show", text: "!show debt 2", expected: "show debt"},
		{name: "plain show", text: "!show 10/24 午餐", expected: "show"},
		{name: "bare digits hit the shorthand", text: "2", expected: "bill shorthand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, matched := d.Dispatch(context.Background(), &Request{Text: tt.text})
			assert.True(t, matched)
			assert.Equal(t, tt.expected, reply.Text)
		})
	}
}

func TestDispatcher_Unmatched(t *testing.T) {
	d := New(testRoutes(), zap.NewNop())

	for _, text := range []string{"hello", "order without bang", "2a", ""} {
		reply, matched := d.Dispatch(context.Background(), &Request{Text: text})
		assert.False(t, matched, text)
		assert.True(t, reply.Empty(), text)
	}
}

func TestDispatcher_HandlerErrorBecomesGenericReply(t *testing.T) {
	routes := []Route{{
		Name:  "boom",
		Match: Prefix("boom"),
		Handle: func(ctx context.Context, req *Request) (Reply, error) {
			return Reply{}, errors.New("store offline")
		},
	}}
	d := New(routes, zap.NewNop())

	reply, matched := d.Dispatch(context.Background(), &Request{Text: "!boom"})
	assert.True(t, matched)
	assert.Equal(t, internalErrorReply, reply.Text)
}

func TestDispatcher_HandlerPanicIsRecovered(t *testing.T) {
	routes := []Route{{
		Name:  "panic",
		Match: Prefix("panic"),
		Handle: func(ctx context.Context, req *Request) (Reply, error) {
			panic("unexpected")
		},
	}}
	d := New(routes, zap.NewNop())

	reply, matched := d.Dispatch(context.Background(), &Request{Text: "!panic now"})
	assert.True(t, matched)
	assert.Equal(t, internalErrorReply, reply.Text)
}
