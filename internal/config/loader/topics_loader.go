package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"algodash/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileConfig 是 topic 重命名文件的完整结构。
type FileConfig struct {
	Topics map[string]string `yaml:"topics"`
}

// TopicSnapshot 对外暴露的只读快照。
type TopicSnapshot struct {
	Version  int64
	LoadedAt time.Time
	// Topics 默认消息名 -> 后端消息名。
	Topics map[string]string
}

// Get returns the backend name for a default message name, or the name itself.
func (s TopicSnapshot) Get(name string) string {
	if mapped, ok := s.Topics[name]; ok {
		return mapped
	}
	return name
}

// Inbound returns the reverse mapping, backend name -> default name.
func (s TopicSnapshot) Inbound() map[string]string {
	out := make(map[string]string, len(s.Topics))
	for def, mapped := range s.Topics {
		out[mapped] = def
	}
	return out
}

// ChangeListener 在配置变更时被调用。
type ChangeListener func(TopicSnapshot)

// TopicLoader 负责加载 topic 重命名表，并监听热更新。
type TopicLoader struct {
	path string
	v    *viper.Viper

	mu        sync.RWMutex
	snapshot  TopicSnapshot
	listeners []ChangeListener
}

// NewTopicLoader 读取文件并开始监听 FS 事件。
func NewTopicLoader(path string) (*TopicLoader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("topic loader requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read topic config failed: %w", err)
	}
	loader := &TopicLoader{path: path, v: v}
	if err := loader.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := loader.reload(); err != nil {
			logger.Errorf("topic reload failed (%s): %v", evt.Name, err)
			return
		}
		loader.notify()
	})
	v.WatchConfig()
	return loader, nil
}

// Static 返回不监听文件的固定映射，主要用于未配置 topic 文件的场景。
func Static(topics map[string]string) *TopicLoader {
	l := &TopicLoader{}
	l.snapshot = TopicSnapshot{Version: 1, LoadedAt: time.Now(), Topics: cloneTopics(topics)}
	return l
}

// Get maps a default message name through the current snapshot.
func (l *TopicLoader) Get(name string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot.Get(name)
}

// Snapshot 返回当前配置快照（深拷贝）。
func (l *TopicLoader) Snapshot() TopicSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneSnapshot(l.snapshot)
}

// Subscribe 注册监听器，并立即收到一次完整快照。
func (l *TopicLoader) Subscribe(fn ChangeListener) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	snap := cloneSnapshot(l.snapshot)
	l.mu.Unlock()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("topic listener panic: %v", r)
			}
		}()
		fn(snap)
	}()
}

func (l *TopicLoader) notify() {
	l.mu.RLock()
	snap := cloneSnapshot(l.snapshot)
	listeners := append([]ChangeListener(nil), l.listeners...)
	l.mu.RUnlock()
	for _, fn := range listeners {
		go func(cb ChangeListener) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("topic listener panic: %v", r)
				}
			}()
			cb(snap)
		}(fn)
	}
}

func (l *TopicLoader) reload() error {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("read topic config failed: %w", err)
	}
	topics, err := ParseTopics(raw)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.snapshot = TopicSnapshot{
		Version:  l.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Topics:   topics,
	}
	l.mu.Unlock()
	logger.Infof("Topic loader reloaded %d topics from %s", len(topics), filepath.Base(l.path))
	return nil
}

// ParseTopics decodes a topic file strictly: unknown top-level keys are rejected,
// names are trimmed and two defaults may not share one backend name.
func ParseTopics(raw []byte) (map[string]string, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var file FileConfig
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("parse topic config failed: %w", err)
	}
	out := make(map[string]string, len(file.Topics))
	owner := make(map[string]string, len(file.Topics))
	keys := make([]string, 0, len(file.Topics))
	for k := range file.Topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		def := strings.TrimSpace(k)
		mapped := strings.TrimSpace(file.Topics[k])
		if def == "" || mapped == "" {
			return nil, fmt.Errorf("topic %q: empty name", k)
		}
		if prev, ok := owner[mapped]; ok {
			return nil, fmt.Errorf("topics %q and %q both map to %q", prev, def, mapped)
		}
		owner[mapped] = def
		out[def] = mapped
	}
	return out, nil
}

func cloneTopics(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneSnapshot(s TopicSnapshot) TopicSnapshot {
	s.Topics = cloneTopics(s.Topics)
	return s
}
