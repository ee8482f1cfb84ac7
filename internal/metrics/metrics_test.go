package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
	"github.com/savf/gatekeeper-bot/internal/gatekeeper/mock"
)

func TestListener_TracksPendingAndOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	m.OnChallengeEvent(ctx, gatekeeper.Event{Kind: gatekeeper.EventStarted})
	m.OnChallengeEvent(ctx, gatekeeper.Event{Kind: gatekeeper.EventStarted})
	assert.Equal(t, float64(2), testutil.ToFloat64(m.PendingChallenges))

	m.OnChallengeEvent(ctx, gatekeeper.Event{Kind: gatekeeper.EventSuperseded})
	m.OnChallengeEvent(ctx, gatekeeper.Event{
		Kind:   gatekeeper.EventApproved,
		Record: gatekeeper.Record{CreatedAt: created, ResolvedAt: created.Add(12 * time.Second)},
	})

	assert.Equal(t, float64(0), testutil.ToFloat64(m.PendingChallenges))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ChallengeEvents.WithLabelValues("started")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ChallengeEvents.WithLabelValues("approved")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ResolutionDuration))
}

func TestInstrumentGateway(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mock.NewMockGateway(ctrl)
	m := New(prometheus.NewRegistry())
	gw := InstrumentGateway(next, m)
	ctx := context.Background()

	next.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(int64(5), nil)
	next.EXPECT().DeleteMessage(gomock.Any(), int64(1), int64(5)).Return(errors.New("forbidden"))

	id, err := gw.SendMessage(ctx, gatekeeper.OutgoingMessage{ChatID: 1, Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Error(t, gw.DeleteMessage(ctx, 1, 5))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.GatewayCalls.WithLabelValues("send", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GatewayCalls.WithLabelValues("delete", "error")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.GatewayCalls.WithLabelValues("delete", "ok")))
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.PendingChallenges.Set(3)

	r := gin.New()
	r.GET("/metrics", Handler(reg))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gatekeeper_pending_challenges 3")
}
