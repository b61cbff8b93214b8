package usecase

import (
	"context"

	"PairPulse/internal/domain/models"
	drepo "PairPulse/internal/domain/repository"
	mid "PairPulse/internal/middleware"
)

// TickCollector pulls ticks from the market stream and drives the pipeline.
// The consume loop is the single logical writer: every tick is processed on
// this goroutine in arrival order.
type TickCollector struct {
	stream  drepo.MarketStream
	proc    *TickProcessor
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline
}

// NewTickCollector creates a new TickCollector instance.
func NewTickCollector(stream drepo.MarketStream, proc *TickProcessor, metrics drepo.Metrics, pipe *mid.RealtimePipeline) *TickCollector {
	return &TickCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the market stream is connected.
func (c *TickCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *TickCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *TickCollector) consume(ctx context.Context, tickCh <-chan *models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				// Reconnect backs off internally; stale windows simply hold
				// their last values until fresh ticks resume.
				if rerr := c.stream.Reconnect(ctx); rerr != nil {
					c.metrics.RecordError("reconnect")
				}
				tickCh, errCh = c.stream.Read(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			c.metrics.RecordTick("websocket", t.Symbol)
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.proc.Process(ctx, t)
			}
		}
	}
}

// Processor returns the underlying TickProcessor for lifecycle management.
func (c *TickCollector) Processor() *TickProcessor { return c.proc }

// Shutdown closes the stream; in-flight processing finishes on the consume
// goroutine before it observes the closed channel.
func (c *TickCollector) Shutdown(ctx context.Context) error {
	return c.stream.Close()
}
