package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopics(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]string
		wantErr bool
	}{
		{"empty file", "", map[string]string{}, false},
		{"mapping", "topics:\n  chart_request: ChartRequest\n  strategy_list: ' StrategyList '\n",
			map[string]string{"chart_request": "ChartRequest", "strategy_list": "StrategyList"}, false},
		{"unknown key", "topic:\n  a: b\n", nil, true},
		{"empty target", "topics:\n  a: ''\n", nil, true},
		{"duplicate target", "topics:\n  a: X\n  b: X\n", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTopics([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopicSnapshot(t *testing.T) {
	snap := TopicSnapshot{Topics: map[string]string{"order": "OrderEvent"}}
	assert.Equal(t, "OrderEvent", snap.Get("order"))
	assert.Equal(t, "chart", snap.Get("chart"))
	assert.Equal(t, map[string]string{"OrderEvent": "order"}, snap.Inbound())
}

func TestTopicLoader_LoadAndSubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("topics:\n  app_request: AppRequest\n"), 0o644))

	l, err := NewTopicLoader(path)
	require.NoError(t, err)
	assert.Equal(t, "AppRequest", l.Get("app_request"))
	assert.Equal(t, int64(1), l.Snapshot().Version)

	got := make(chan TopicSnapshot, 1)
	l.Subscribe(func(s TopicSnapshot) { got <- s })
	select {
	case s := <-got:
		assert.Equal(t, "AppRequest", s.Get("app_request"))
	case <-time.After(time.Second):
		t.Fatal("subscriber not called")
	}

	snap := l.Snapshot()
	snap.Topics["app_request"] = "mutated"
	assert.Equal(t, "AppRequest", l.Get("app_request"))
}

func TestStatic(t *testing.T) {
	l := Static(nil)
	assert.Equal(t, "order", l.Get("order"))
}

func TestNewTopicLoader_MissingFile(t *testing.T) {
	_, err := NewTopicLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
