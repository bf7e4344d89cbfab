package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"FinDash/internal/domain/models"
	pkgkafka "FinDash/pkg/kafka"
	"FinDash/pkg/logger"
)

// CycleRunner runs one refresh cycle synchronously.
type CycleRunner interface {
	RunCycle(ctx context.Context) models.CycleReport
}

// RefreshCommandHandler runs a cycle for every message on the refresh topic.
// Payload is optional: {"reason": "..."}.
type RefreshCommandHandler struct {
	topic  string
	runner CycleRunner
	log    *logger.Logger
}

func NewRefreshCommandHandler(topic string, runner CycleRunner, log *logger.Logger) *RefreshCommandHandler {
	return &RefreshCommandHandler{topic: topic, runner: runner, log: log}
}

func (h *RefreshCommandHandler) Topic() string { return h.topic }

func (h *RefreshCommandHandler) Handle(ctx context.Context, b []byte) error {
	var cmd struct {
		Reason string `json:"reason"`
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &cmd); err != nil {
			return fmt.Errorf("decode refresh command: %v: %w", err, pkgkafka.ErrPermanent)
		}
	}

	report := h.runner.RunCycle(ctx)
	h.log.Info("refresh command handled",
		logger.String("reason", cmd.Reason),
		logger.Uint64("cycle", report.CycleID),
		logger.String("outcome", string(report.Outcome)))

	if report.Outcome == models.OutcomeClosed {
		return fmt.Errorf("orchestrator stopped: %w", pkgkafka.ErrPermanent)
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*RefreshCommandHandler)(nil)
