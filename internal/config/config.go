package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName 配置文件名
const FileName = "codon.toml"

// Config codon 项目配置
type Config struct {
	Build       BuildConfig       `toml:"build"`
	Toolchain   ToolchainConfig   `toml:"toolchain"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

// BuildConfig 构建配置
type BuildConfig struct {
	TargetTriple string `toml:"target_triple"` // 为空时 IR 不写 target triple
	OutputDir    string `toml:"output_dir"`    // 为空时输出到源文件旁
}

// ToolchainConfig 外部工具链
type ToolchainConfig struct {
	Runner string   `toml:"runner"` // 直接执行 .ll，如 lli
	CC     string   `toml:"cc"`     // -native 时用于编译链接
	Flags  []string `toml:"flags"`  // 传给 cc 的额外参数
}

// DiagnosticsConfig 诊断输出
type DiagnosticsConfig struct {
	Language string `toml:"language"` // "en" / "zh"，为空时按环境检测
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Toolchain: ToolchainConfig{
			Runner: "lli",
			CC:     "clang",
			Flags:  []string{"-lm"},
		},
	}
}

// FindAndLoad 从指定目录向上查找 codon.toml 并加载
func FindAndLoad(startDir string) (*Config, string, error) {
	configPath := FindConfigFile(startDir)
	if configPath == "" {
		// 没找到配置文件，返回默认配置
		return DefaultConfig(), "", nil
	}

	config, err := Load(configPath)
	if err != nil {
		return nil, "", err
	}

	return config, configPath, nil
}

// FindConfigFile 从指定目录向上查找 codon.toml
func FindConfigFile(startDir string) string {
	dir := startDir

	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// 已到根目录
			return ""
		}
		dir = parent
	}
}

// Load 加载配置文件，未设置的项取默认值
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	config.Toolchain.Flags = nil
	meta, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	if config.Toolchain.Runner == "" {
		config.Toolchain.Runner = defaults.Toolchain.Runner
	}
	if config.Toolchain.CC == "" {
		config.Toolchain.CC = defaults.Toolchain.CC
	}
	if !meta.IsDefined("toolchain", "flags") {
		config.Toolchain.Flags = defaults.Toolchain.Flags
	}
	return config, nil
}

// ProjectRoot 获取项目根目录（codon.toml 所在目录）
func ProjectRoot(configPath string) string {
	if configPath == "" {
		return ""
	}
	return filepath.Dir(configPath)
}

// OutputDir 解析构建输出目录；相对路径基于项目根目录
func (c *Config) OutputDir(configPath, sourceDir string) string {
	dir := c.Build.OutputDir
	switch {
	case dir == "":
		return sourceDir
	case filepath.IsAbs(dir):
		return dir
	case configPath != "":
		return filepath.Join(ProjectRoot(configPath), dir)
	}
	return filepath.Join(sourceDir, dir)
}
