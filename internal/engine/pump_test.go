package engine

import (
	"bytes"
	"context"
	"testing"

	"algodash/internal/logger"
	"algodash/internal/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeCounter struct {
	reasons []string
}

func (c *decodeCounter) RecordDecodeError(reason string) { c.reasons = append(c.reasons, reason) }

func TestPump_Feed(t *testing.T) {
	ctx := context.Background()
	eng, _ := startEngine(t)
	dec, err := wire.NewDecoder()
	require.NoError(t, err)
	counter := &decodeCounter{}
	pump := NewPump(dec, eng, counter)

	require.NoError(t, pump.Feed(ctx, []byte(`{not json`)))
	require.NoError(t, pump.Feed(ctx, []byte(`{"type":"mystery","payload":{}}`)))
	assert.Equal(t, []string{"malformed", "unknown_kind"}, counter.reasons)

	frame := `{"type":"strategy_list","payload":{"batches":[{"batch_id":"b1","strategies":[{"strategy_id":"s1","symbol_periods":[{"symbol":"BTCUSDT","period_s":[60]}]}]}]}}`
	require.NoError(t, pump.Feed(ctx, []byte(frame)))
	require.NoError(t, eng.Flush(ctx))

	snap := eng.Snapshot()
	assert.True(t, snap.Attached)
	require.Len(t, snap.Batches, 1)
	assert.Equal(t, "b1", snap.Batches[0].BatchID)
}

func TestPump_RunStopsOnClosedChannel(t *testing.T) {
	ctx := context.Background()
	eng, _ := startEngine(t)
	dec, err := wire.NewDecoder()
	require.NoError(t, err)

	frames := make(chan []byte, 2)
	frames <- []byte(`{"type":"loading","payload":null}`)
	close(frames)

	require.NoError(t, NewPump(dec, eng, nil).Run(ctx, frames))
	require.NoError(t, eng.Flush(ctx))
	assert.True(t, eng.Snapshot().Loading)
}

func TestPump_RejectedFrameDumpNamesType(t *testing.T) {
	var buf bytes.Buffer
	logger.SetWireWriter(&buf)
	defer logger.SetWireWriter(nil)

	eng, _ := startEngine(t)
	dec, err := wire.NewDecoder()
	require.NoError(t, err)

	require.NoError(t, NewPump(dec, eng, nil).Feed(context.Background(), []byte(`{"type":"mystery","payload":{}}`)))
	assert.Contains(t, buf.String(), `type="mystery"`)
	assert.Contains(t, buf.String(), "--- REASON ---")
}
