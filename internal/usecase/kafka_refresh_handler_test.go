package usecase

import (
	"context"
	"testing"

	"FinDash/internal/domain/models"
	pkgkafka "FinDash/pkg/kafka"
	"FinDash/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type countingRunner struct {
	calls   int
	outcome models.CycleOutcome
}

func (r *countingRunner) RunCycle(context.Context) models.CycleReport {
	r.calls++
	return models.CycleReport{CycleID: uint64(r.calls), Outcome: r.outcome}
}

func TestRefreshCommandHandler(t *testing.T) {
	r := &countingRunner{outcome: models.OutcomeSettled}
	h := NewRefreshCommandHandler("findash.refresh", r, logger.Nop())
	assert.Equal(t, "findash.refresh", h.Topic())

	assert.NoError(t, h.Handle(context.Background(), []byte(`{"reason":"ops"}`)))
	assert.NoError(t, h.Handle(context.Background(), nil))
	assert.Equal(t, 2, r.calls)

	err := h.Handle(context.Background(), []byte(`{bad`))
	assert.ErrorIs(t, err, pkgkafka.ErrPermanent)
	assert.Equal(t, 2, r.calls, "undecodable commands do not trigger a cycle")

	r.outcome = models.OutcomeClosed
	assert.ErrorIs(t, h.Handle(context.Background(), nil), pkgkafka.ErrPermanent)
}
