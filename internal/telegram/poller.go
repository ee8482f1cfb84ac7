package telegram

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Processor consumes updates from an intake.
type Processor interface {
	Handle(ctx context.Context, upd Update)
}

const (
	minPollBackoff = time.Second
	maxPollBackoff = 30 * time.Second
)

// Poller receives updates with getUpdates long polling. Updates are
// handled in order on the polling goroutine.
type Poller struct {
	client  *Client
	handler Processor
	timeout time.Duration
	log     *logrus.Entry

	offset int64
}

func NewPoller(client *Client, handler Processor, timeout time.Duration, log *logrus.Entry) *Poller {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Poller{
		client:  client,
		handler: handler,
		timeout: timeout,
		log:     log.WithField("component", "poller"),
	}
}

// Run polls until ctx is canceled. A webhook left over from an earlier
// deployment is removed first since getUpdates is refused while one is set.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.client.DeleteWebhook(ctx); err != nil {
		p.log.WithError(err).Warn("delete webhook failed")
	}
	p.log.WithField("timeout", p.timeout).Info("long polling started")

	backoff := minPollBackoff
	for {
		if ctx.Err() != nil {
			p.log.Info("long polling stopped")
			return nil
		}

		updates, err := p.client.GetUpdates(ctx, p.offset, int(p.timeout/time.Second))
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.log.WithError(err).WithField("retry_in", backoff).Warn("getUpdates failed")
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxPollBackoff {
				backoff = maxPollBackoff
			}
			continue
		}
		backoff = minPollBackoff

		for _, upd := range updates {
			if upd.UpdateID >= p.offset {
				p.offset = upd.UpdateID + 1
			}
			p.handler.Handle(ctx, upd)
		}
	}
}
