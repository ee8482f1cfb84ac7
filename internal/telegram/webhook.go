package telegram

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

func tokenSecret(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h[:16])
}

// WebhookReceiver registers a Bot API webhook and accepts its updates on
// a gin route. Each update is handled on its own goroutine.
type WebhookReceiver struct {
	client  *Client
	handler Processor
	baseURL string
	secret  string
	path    string
	log     *logrus.Entry
}

func NewWebhookReceiver(client *Client, handler Processor, baseURL, secret string, log *logrus.Entry) *WebhookReceiver {
	return &WebhookReceiver{
		client:  client,
		handler: handler,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		path:    "/webhook/bot/" + tokenSecret(client.token),
		log:     log.WithField("component", "webhook"),
	}
}

// Path is the route the webhook must be mounted on.
func (w *WebhookReceiver) Path() string { return w.path }

// Run registers the webhook and blocks until ctx is canceled, then
// removes it.
func (w *WebhookReceiver) Run(ctx context.Context) error {
	url := w.baseURL + w.path
	if err := w.client.SetWebhook(ctx, url, w.secret); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	w.log.WithField("url", w.baseURL+"/webhook/bot/...").Info("webhook registered")

	<-ctx.Done()

	cleanup, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := w.client.DeleteWebhook(cleanup); err != nil {
		w.log.WithError(err).Warn("delete webhook failed")
	}
	return nil
}

func (w *WebhookReceiver) HandleWebhook(c *gin.Context) {
	if w.secret != "" {
		got := c.GetHeader(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(w.secret)) != 1 {
			c.Status(http.StatusUnauthorized)
			return
		}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var upd Update
	if err := json.Unmarshal(body, &upd); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	// the request context ends with the response
	go w.handler.Handle(context.WithoutCancel(c.Request.Context()), upd)

	c.Status(http.StatusOK)
}
