package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvConfigPath 指定配置文件路径的环境变量。
const EnvConfigPath = "ALGODASH_CONFIG"

// DefaultConfigPath 在未设置 EnvConfigPath 时使用。
const DefaultConfigPath = "configs/config.toml"

// Load 读取 path 及其 include 列出的覆盖文件，应用默认值并校验。
// include 只展开一层：覆盖文件先合并，主文件最后合并，主文件的值优先。
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	root, err := readFile(path)
	if err != nil {
		return nil, err
	}
	overlays, err := overlayPaths(path, root.GetStringSlice("include"))
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	for _, file := range overlays {
		sub, err := readFile(file)
		if err != nil {
			return nil, err
		}
		if sub.IsSet("include") {
			return nil, fmt.Errorf("nested include not supported (%s)", file)
		}
		if err := v.MergeConfigMap(sub.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging %s failed: %w", file, err)
		}
	}
	if err := v.MergeConfigMap(root.AllSettings()); err != nil {
		return nil, fmt.Errorf("merging %s failed: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	setKeys := make(keySet)
	for _, key := range v.AllKeys() {
		setKeys.mark(key)
	}
	cfg.applyDefaults(setKeys)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	return v, nil
}

// overlayPaths 将 include 条目解析为相对主文件目录的绝对路径，拒绝自引用与重复条目。
func overlayPaths(mainPath string, includes []string) ([]string, error) {
	self, err := filepath.Abs(mainPath)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(self)
	seen := make(map[string]bool, len(includes))
	out := make([]string, 0, len(includes))
	for _, inc := range includes {
		inc = strings.TrimSpace(inc)
		if inc == "" {
			continue
		}
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(dir, inc)
		}
		inc = filepath.Clean(inc)
		switch {
		case inc == self:
			return nil, fmt.Errorf("config includes itself: %s", inc)
		case seen[inc]:
			return nil, fmt.Errorf("duplicate include: %s", inc)
		}
		seen[inc] = true
		out = append(out, inc)
	}
	return out, nil
}

// PathFromEnv 返回 EnvConfigPath 指定的路径，未设置时返回 DefaultConfigPath。
func PathFromEnv() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return DefaultConfigPath
}
