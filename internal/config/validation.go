package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"
)

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Backend.validate(); err != nil {
		return err
	}
	if err := c.Engine.validate(); err != nil {
		return err
	}
	return nil
}

func (a *AppConfig) validate() error {
	switch a.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug/info/warn/error, got %q", a.LogLevel)
	}
	if strings.TrimSpace(a.HTTPAddr) == "" {
		return fmt.Errorf("app.http_addr cannot be empty")
	}
	if _, err := time.LoadLocation(a.Timezone); err != nil {
		return fmt.Errorf("app.timezone invalid: %w", err)
	}
	return nil
}

func (b *BackendConfig) validate() error {
	u, err := url.Parse(strings.TrimSpace(b.URL))
	if err != nil {
		return fmt.Errorf("backend.url invalid: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("backend.url must use ws:// or wss://, got %q", b.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend.url missing host")
	}
	if b.ReconnectMin <= 0 {
		return fmt.Errorf("backend.reconnect_min must be > 0")
	}
	if b.ReconnectMax < b.ReconnectMin {
		return fmt.Errorf("backend.reconnect_max (%s) must be >= reconnect_min (%s)", b.ReconnectMax, b.ReconnectMin)
	}
	if b.CommandRate < 0 {
		return fmt.Errorf("backend.command_rate must be >= 0")
	}
	if b.CommandBurst <= 0 {
		return fmt.Errorf("backend.command_burst must be > 0")
	}
	if b.CommandQueue <= 0 {
		return fmt.Errorf("backend.command_queue must be > 0")
	}
	return nil
}

func (e *EngineConfig) validate() error {
	if e.QueueSize <= 0 {
		return fmt.Errorf("engine.queue_size must be > 0")
	}
	if e.SnapshotThrottle < 0 {
		return fmt.Errorf("engine.snapshot_throttle must be >= 0")
	}
	if e.JournalEnabled() && e.JournalBuffer <= 0 {
		return fmt.Errorf("engine.journal_buffer must be > 0 when journal_path is set")
	}
	return nil
}
