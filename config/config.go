// Package config 读取 ecgplot 的 TOML 配置文件。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/ecgplot/export"
	"github.com/ByLCY/ecgplot/layout"
	"github.com/ByLCY/ecgplot/renderer"
)

const appName = "ecgplot"

// Config 是配置文件内容。命令行参数优先于这里的值。
type Config struct {
	OutputDir   string  `toml:"output_dir"`
	DPI         float64 `toml:"dpi"`
	Layout      string  `toml:"layout"`
	Style       string  `toml:"style"`
	Font        string  `toml:"font"`
	ViewerDir   string  `toml:"viewer_dir"`
	OpenCommand string  `toml:"open_command"`
}

// Default 返回未提供配置文件时的取值。
func Default() Config {
	return Config{
		OutputDir: export.DefaultPath,
		DPI:       renderer.DefaultDPI,
		Layout:    export.LayoutTight,
		Style:     layout.StyleDefault,
		ViewerDir: os.TempDir() + string(filepath.Separator),
	}
}

// DefaultPath 返回 $XDG_CONFIG_HOME/ecgplot/config.toml，未设置时使用 ~/.config。
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load 读取 path 指向的配置；path 为空时读取默认位置，默认位置不存在时返回 Default()。
// 显式指定的文件不存在时返回错误。
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return Default(), fmt.Errorf("配置 %s 含未知字段 %q", path, keys[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("配置 %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("dpi 必须为正数，实际 %g", c.DPI)
	}
	switch c.Style {
	case layout.StyleDefault, layout.StyleBW:
	default:
		return fmt.Errorf("未知的配色 %q", c.Style)
	}
	return nil
}
