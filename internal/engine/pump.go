package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"algodash/internal/logger"
	"algodash/internal/wire"
)

// DecodeRecorder counts frames the decoder rejected.
type DecodeRecorder interface {
	RecordDecodeError(reason string)
}

// Pump decodes raw backend frames and feeds the engine queue.
// A rejected frame is counted and skipped; it never stops the pump.
type Pump struct {
	decoder *wire.Decoder
	engine  *Engine
	metrics DecodeRecorder
}

func NewPump(dec *wire.Decoder, eng *Engine, rec DecodeRecorder) *Pump {
	return &Pump{decoder: dec, engine: eng, metrics: rec}
}

// Run consumes frames until ctx is done or the channel is closed.
func (p *Pump) Run(ctx context.Context, frames <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-frames:
			if !ok {
				return nil
			}
			if err := p.Feed(ctx, raw); err != nil {
				if errors.Is(err, ErrStopped) || errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	}
}

// Feed decodes one frame and dispatches it.
func (p *Pump) Feed(ctx context.Context, raw []byte) error {
	evt, err := p.decoder.Decode(raw)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, wire.ErrUnknownKind) {
			reason = "unknown_kind"
		}
		if p.metrics != nil {
			p.metrics.RecordDecodeError(reason)
		}
		typ := wire.PeekType(raw)
		logger.LogWireRejected(fmt.Sprintf("%v (type=%q)", err, typ), raw)
		if logger.Enabled(slog.LevelDebug) {
			logger.Debugf("Pump rejected frame type=%q size=%d: %v", typ, len(raw), err)
		}
		return nil
	}
	logger.LogWireInbound(string(evt.Kind), evt.ID, raw)
	return p.engine.Dispatch(ctx, evt)
}
