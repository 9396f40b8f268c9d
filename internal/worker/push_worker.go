package worker

// push_worker.go
// Processes mobile notification jobs from QueuePush. Calls the push gateway
// through the circuit breaker; jobs dropped while the breaker is open land
// in the DLQ so they can be inspected (notifications are not re-delivered,
// a stale low-stock alert is worse than none).

import (
	"context"
	"encoding/json"

	"depotpos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// PushJobPayload is the job envelope sent to QueuePush.
type PushJobPayload struct {
	TenantID string `json:"tenant_id"`
	Event    string `json:"event"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

type PushWorker struct {
	client *infra.PushClient
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewPushWorker(client *infra.PushClient, cb *infra.CircuitBreaker, rdb *redis.Client) *PushWorker {
	return &PushWorker{client: client, cb: cb, rdb: rdb}
}

// Process delivers one notification through the circuit breaker.
func (w *PushWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload PushJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("push_worker: invalid payload")
		return
	}

	cbErr := w.cb.Execute(func() error {
		_, err := w.client.Send(ctx, infra.PushPayload{
			TenantID: payload.TenantID,
			Event:    payload.Event,
			Title:    payload.Title,
			Body:     payload.Body,
		})
		return err
	})
	if cbErr != nil {
		log.Warn().
			Err(cbErr).
			Str("tenant_id", payload.TenantID).
			Str("event", payload.Event).
			Msg("push_worker: delivery failed")
		SendToDLQ(ctx, w.rdb, QueuePush, "push", raw, cbErr.Error(), 1)
		return
	}
	log.Info().Str("tenant_id", payload.TenantID).Str("event", payload.Event).Msg("push_worker: notification delivered")
}
