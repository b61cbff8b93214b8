package binance

import (
	"context"
	"runtime"
	"testing"
	"time"
)

func TestReadPingLoopStopsOnClose(t *testing.T) {
	c := &Client{pingInterval: 5 * time.Millisecond}
	before := runtime.NumGoroutine()

	// Each Read/Close cycle mimics a reconnect; the ping goroutine from the
	// previous cycle must be gone before the next one starts.
	for i := 0; i < 5; i++ {
		c.Read(context.Background())
		if err := c.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before+1 {
		if time.Now().After(deadline) {
			t.Fatalf("ping goroutines leaked: before=%d now=%d", before, runtime.NumGoroutine())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCloseIdempotent(t *testing.T) {
	c := &Client{pingInterval: time.Second}
	c.Read(context.Background())
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
