package metrics

import (
	"context"
	"time"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
)

type instrumentedGateway struct {
	next    gatekeeper.Gateway
	metrics *Metrics
}

// InstrumentGateway counts and times every call made through next.
func InstrumentGateway(next gatekeeper.Gateway, m *Metrics) gatekeeper.Gateway {
	return &instrumentedGateway{next: next, metrics: m}
}

func (g *instrumentedGateway) RestrictMember(ctx context.Context, chatID, memberID int64, perms gatekeeper.Permissions) (err error) {
	defer func(start time.Time) { g.metrics.observe("restrict", start, err) }(time.Now())
	return g.next.RestrictMember(ctx, chatID, memberID, perms)
}

func (g *instrumentedGateway) UnrestrictMember(ctx context.Context, chatID, memberID int64, perms gatekeeper.Permissions) (err error) {
	defer func(start time.Time) { g.metrics.observe("unrestrict", start, err) }(time.Now())
	return g.next.UnrestrictMember(ctx, chatID, memberID, perms)
}

func (g *instrumentedGateway) SendMessage(ctx context.Context, msg gatekeeper.OutgoingMessage) (id int64, err error) {
	defer func(start time.Time) { g.metrics.observe("send", start, err) }(time.Now())
	return g.next.SendMessage(ctx, msg)
}

func (g *instrumentedGateway) EditMessageText(ctx context.Context, chatID, messageID int64, text string) (err error) {
	defer func(start time.Time) { g.metrics.observe("edit", start, err) }(time.Now())
	return g.next.EditMessageText(ctx, chatID, messageID, text)
}

func (g *instrumentedGateway) DeleteMessage(ctx context.Context, chatID, messageID int64) (err error) {
	defer func(start time.Time) { g.metrics.observe("delete", start, err) }(time.Now())
	return g.next.DeleteMessage(ctx, chatID, messageID)
}
