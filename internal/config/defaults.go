package config

import (
	"strings"
	"time"
)

// 默认值常量
const (
	defaultAppEnv            = "dev"
	defaultAppLogLevel       = "info"
	defaultAppHTTPAddr       = ":9991"
	defaultAppLogPath        = "data/logs/algodash.log"
	defaultAppTimezone       = "America/New_York"
	defaultBackendURL        = "ws://127.0.0.1:8765/ws"
	defaultReconnectMin      = time.Second
	defaultReconnectMax      = 30 * time.Second
	defaultCommandRate       = 20
	defaultCommandBurst      = 5
	defaultCommandQueue      = 64
	defaultTopicsPath        = "configs/topics.yaml"
	defaultEngineQueueSize   = 1024
	defaultSnapshotThrottle  = 100 * time.Millisecond
	defaultStrictCorrelation = false
	defaultJournalBuffer     = 256
)

// applyDefaults 为所有子配置应用默认值。
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Backend.applyDefaults(keys)
	c.Engine.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
		stringFieldDefault("app.log_path", &a.LogPath, defaultAppLogPath),
		stringFieldDefault("app.timezone", &a.Timezone, defaultAppTimezone),
	)
	a.LogLevel = strings.ToLower(strings.TrimSpace(a.LogLevel))
}

func (b *BackendConfig) applyDefaults(keys keySet) {
	if b == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("backend.url", &b.URL, defaultBackendURL),
		durationFieldDefault("backend.reconnect_min", &b.ReconnectMin, defaultReconnectMin),
		durationFieldDefault("backend.reconnect_max", &b.ReconnectMax, defaultReconnectMax),
		fieldDefault{
			key:   "backend.command_rate",
			need:  func() bool { return b.CommandRate == 0 },
			apply: func() { b.CommandRate = defaultCommandRate },
		},
		intFieldDefault("backend.command_burst", &b.CommandBurst, defaultCommandBurst),
		intFieldDefault("backend.command_queue", &b.CommandQueue, defaultCommandQueue),
		stringFieldDefault("backend.topics_path", &b.TopicsPath, defaultTopicsPath),
	)
}

func (e *EngineConfig) applyDefaults(keys keySet) {
	if e == nil {
		return
	}
	applyFieldDefaults(keys,
		intFieldDefault("engine.queue_size", &e.QueueSize, defaultEngineQueueSize),
		durationFieldDefault("engine.snapshot_throttle", &e.SnapshotThrottle, defaultSnapshotThrottle),
		boolFieldDefault("engine.strict_correlation", &e.StrictCorrelation, defaultStrictCorrelation),
		intFieldDefault("engine.journal_buffer", &e.JournalBuffer, defaultJournalBuffer),
	)
}

// Helper functions

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func intFieldDefault(key string, target *int, def int) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil && *target <= 0 },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func durationFieldDefault(key string, target *time.Duration, def time.Duration) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil && *target <= 0 },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
