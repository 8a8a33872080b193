package config

import (
	"strings"
	"time"
)

// Config 是 algodash 的主配置载体。
type Config struct {
	App     AppConfig     `toml:"app"`
	Backend BackendConfig `toml:"backend"`
	Engine  EngineConfig  `toml:"engine"`
}

type AppConfig struct {
	Env         string `toml:"env"`
	LogLevel    string `toml:"log_level"`
	HTTPAddr    string `toml:"http_addr"`
	LogPath     string `toml:"log_path"`
	WireLogPath string `toml:"wire_log_path"`
	// Timezone 用于订单表时间显示。
	Timezone string `toml:"timezone"`
}

// BackendConfig 描述到策略后端的 websocket 链路与命令限速。
type BackendConfig struct {
	URL          string        `toml:"url"`
	ReconnectMin time.Duration `toml:"reconnect_min"`
	ReconnectMax time.Duration `toml:"reconnect_max"`
	CommandRate  float64       `toml:"command_rate"`
	CommandBurst int           `toml:"command_burst"`
	CommandQueue int           `toml:"command_queue"`
	TopicsPath   string        `toml:"topics_path"`
}

type EngineConfig struct {
	QueueSize         int           `toml:"queue_size"`
	SnapshotThrottle  time.Duration `toml:"snapshot_throttle"`
	StrictCorrelation bool          `toml:"strict_correlation"`
	// JournalPath 为空时不记录事件日志。
	JournalPath   string `toml:"journal_path"`
	JournalBuffer int    `toml:"journal_buffer"`
}

// JournalEnabled reports whether decoded events should be journaled.
func (e EngineConfig) JournalEnabled() bool {
	return strings.TrimSpace(e.JournalPath) != ""
}

// keySet 用于追踪配置文件中显式设置的字段路径。
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault 描述单个字段的默认值设置规则。
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
