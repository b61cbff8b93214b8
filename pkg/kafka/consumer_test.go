package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type fakeHandler struct {
	topic string
	fail  bool
	calls int
}

func (h *fakeHandler) Topic() string { return h.topic }

func (h *fakeHandler) Handle(_ context.Context, _ []byte) error {
	h.calls++
	if h.fail {
		return errors.New("boom")
	}
	return nil
}

type fakeCommitter struct {
	commits int
}

func (f *fakeCommitter) CommitMessages(_ context.Context, _ ...kafka.Message) error {
	f.commits++
	return nil
}

func newTestConsumer(hook ConsumerHook) *Consumer {
	if hook == nil {
		hook = NoopHook{}
	}
	return &Consumer{
		cfg: &ConsumerConfig{
			RetryMax:   1,
			BackoffMin: time.Millisecond,
			BackoffMax: 2 * time.Millisecond,
		},
		stopChan: make(chan struct{}),
		hook:     hook,
	}
}

func TestHandleMessageCommitsOnSuccess(t *testing.T) {
	c := newTestConsumer(nil)
	h := &fakeHandler{topic: "ticks"}
	fc := &fakeCommitter{}

	c.handleMessage("ticks", h, fc, kafka.Message{Value: []byte(`{}`)})

	if h.calls != 1 {
		t.Fatalf("expected 1 handler call, got %d", h.calls)
	}
	if fc.commits != 1 {
		t.Fatalf("expected 1 commit, got %d", fc.commits)
	}
}

func TestHandleMessageHoldsOffsetOnFailureWithoutDLQ(t *testing.T) {
	c := newTestConsumer(nil)
	h := &fakeHandler{topic: "ticks", fail: true}
	fc := &fakeCommitter{}

	c.handleMessage("ticks", h, fc, kafka.Message{Value: []byte(`{}`)})

	if h.calls != 2 {
		t.Fatalf("expected initial attempt plus 1 retry, got %d calls", h.calls)
	}
	// Without a DLQ the offset must stay put so the message is redelivered.
	if fc.commits != 0 {
		t.Fatalf("failed message without DLQ must not be committed, got %d commits", fc.commits)
	}
}

func TestMetricsHookRejectsEmptyPayload(t *testing.T) {
	c := newTestConsumer(MetricsHook())
	h := &fakeHandler{topic: "ticks"}
	fc := &fakeCommitter{}

	c.handleMessage("ticks", h, fc, kafka.Message{})

	if h.calls != 0 {
		t.Fatalf("handler must not run on an empty payload, got %d calls", h.calls)
	}
	if fc.commits != 0 {
		t.Fatalf("rejected message without DLQ must not be committed, got %d commits", fc.commits)
	}
}

func TestHookErrorClassification(t *testing.T) {
	herr := &HookError{Code: "ERR_DECODE", Err: errors.New("bad json")}
	wrapped := errors.Join(errors.New("outer"), herr)

	var got *HookError
	if !errors.As(wrapped, &got) {
		t.Fatalf("expected HookError to unwrap")
	}
	if got.Code != "ERR_DECODE" {
		t.Fatalf("expected code ERR_DECODE, got %s", got.Code)
	}
	if herr.Error() != "ERR_DECODE: bad json" {
		t.Fatalf("unexpected error string: %s", herr.Error())
	}
}
