package worker

// aviso_worker.go
// Processes member notification jobs from QueueAvisos: payment receipts and
// overdue notices. Sends go through the circuit breaker so a downed SMTP
// relay fails fast instead of tying up the pool.

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// AvisoPayload is the job envelope sent to QueueAvisos.
type AvisoPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// AvisoWorker sends member notices via SMTP.
type AvisoWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewAvisoWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *AvisoWorker {
	return &AvisoWorker{mailer: mailer, cb: cb}
}

// Process sends one notice. A returned error means the job should be retried.
func (w *AvisoWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AvisoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("aviso_worker: invalid payload, discarding")
		return nil // malformed payloads never succeed on retry
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("aviso_worker: empty to_email, skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendAviso(payload.ToEmail, payload.Subject, payload.Body)
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			log.Warn().Str("to", payload.ToEmail).Msg("aviso_worker: circuit open, deferring send")
		} else {
			log.Error().Err(err).Str("to", payload.ToEmail).Msg("aviso_worker: send failed")
		}
		return err
	}
	log.Info().Str("to", payload.ToEmail).Msg("aviso_worker: aviso enviado")
	return nil
}
