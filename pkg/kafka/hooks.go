package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook observes message handling. Returning an error from BeforeHandle
// skips the handler and counts as a failed attempt.
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, km kafka.Message) (context.Context, error)
	AfterHandle(ctx context.Context, km kafka.Message, err error)
}

// NoopHook does nothing.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, _ kafka.Message) (context.Context, error) {
	return ctx, nil
}

func (NoopHook) AfterHandle(context.Context, kafka.Message, error) {}

// HookFuncs adapts plain functions; nil functions are no-ops.
type HookFuncs struct {
	Before func(context.Context, kafka.Message) (context.Context, error)
	After  func(context.Context, kafka.Message, error)
}

func (h HookFuncs) BeforeHandle(ctx context.Context, km kafka.Message) (context.Context, error) {
	if h.Before == nil {
		return ctx, nil
	}
	return h.Before(ctx, km)
}

func (h HookFuncs) AfterHandle(ctx context.Context, km kafka.Message, err error) {
	if h.After != nil {
		h.After(ctx, km, err)
	}
}

type ctxKey string

// CtxTraceID holds the correlation id taken from the "trace_id" header.
const CtxTraceID ctxKey = "kafka_trace_id"

// TraceHook copies the trace_id header into the context.
func TraceHook() ConsumerHook {
	return HookFuncs{Before: func(ctx context.Context, km kafka.Message) (context.Context, error) {
		if id := HeaderValue(km, "trace_id"); id != "" {
			ctx = context.WithValue(ctx, CtxTraceID, id)
		}
		return ctx, nil
	}}
}

// TraceID returns the id stored by TraceHook, or "".
func TraceID(ctx context.Context) string {
	s, _ := ctx.Value(CtxTraceID).(string)
	return s
}

func HeaderValue(km kafka.Message, key string) string {
	for _, h := range km.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// safeCall runs fn and converts a panic into an error so a hook or handler cannot kill the reader loop.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
