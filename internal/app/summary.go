package app

import (
	"fmt"
	"sort"
	"strings"

	"algodash/internal/config"
	cfgloader "algodash/internal/config/loader"
)

type StartupSummary struct {
	Env        string
	HTTPAddr   string
	Timezone   string
	Backend    BackendSummary
	Engine     EngineSummary
	TopicRemap map[string]string
}

type BackendSummary struct {
	URL          string
	Reconnect    string
	CommandRate  float64
	CommandBurst int
}

type EngineSummary struct {
	QueueSize         int
	SnapshotThrottle  string
	StrictCorrelation bool
	Journal           string
}

func buildSummary(cfg *config.Config, topics cfgloader.TopicSnapshot) *StartupSummary {
	journal := "(disabled)"
	if cfg.Engine.JournalEnabled() {
		journal = cfg.Engine.JournalPath
	}
	return &StartupSummary{
		Env:      cfg.App.Env,
		HTTPAddr: cfg.App.HTTPAddr,
		Timezone: cfg.App.Timezone,
		Backend: BackendSummary{
			URL:          cfg.Backend.URL,
			Reconnect:    fmt.Sprintf("%s ~ %s", cfg.Backend.ReconnectMin, cfg.Backend.ReconnectMax),
			CommandRate:  cfg.Backend.CommandRate,
			CommandBurst: cfg.Backend.CommandBurst,
		},
		Engine: EngineSummary{
			QueueSize:         cfg.Engine.QueueSize,
			SnapshotThrottle:  cfg.Engine.SnapshotThrottle.String(),
			StrictCorrelation: cfg.Engine.StrictCorrelation,
			Journal:           journal,
		},
		TopicRemap: topics.Topics,
	}
}

func (s *StartupSummary) Print() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%*s\n", 40+len("启动配置摘要 (STARTUP SUMMARY)")/2, "启动配置摘要 (STARTUP SUMMARY)")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Println("[应用 (APP)]")
	fmt.Printf("  环境: %s\n", s.Env)
	fmt.Printf("  HTTP: %s\n", s.HTTPAddr)
	fmt.Printf("  时区: %s\n", s.Timezone)
	fmt.Println()

	fmt.Println("[后端链路 (BACKEND)]")
	fmt.Printf("  地址: %s\n", s.Backend.URL)
	fmt.Printf("  重连: %s\n", s.Backend.Reconnect)
	if s.Backend.CommandRate > 0 {
		fmt.Printf("  命令限速: %.1f/s (burst %d)\n", s.Backend.CommandRate, s.Backend.CommandBurst)
	} else {
		fmt.Println("  命令限速: 不限")
	}
	fmt.Println()

	fmt.Println("[引擎 (ENGINE)]")
	fmt.Printf("  队列: %d\n", s.Engine.QueueSize)
	fmt.Printf("  快照节流: %s\n", s.Engine.SnapshotThrottle)
	fmt.Printf("  严格关联: %v\n", s.Engine.StrictCorrelation)
	fmt.Printf("  事件日志: %s\n", s.Engine.Journal)
	fmt.Println()

	fmt.Println("[Topic 映射 (TOPICS)]")
	if len(s.TopicRemap) == 0 {
		fmt.Println("  (无配置)")
	} else {
		names := make([]string, 0, len(s.TopicRemap))
		for name := range s.TopicRemap {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s -> %s\n", name, s.TopicRemap[name])
		}
	}
	fmt.Println(strings.Repeat("=", 80))
}
