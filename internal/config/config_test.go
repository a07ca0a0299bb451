package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	err := os.WriteFile(path, []byte(content), 0o644)
	be.Err(t, err, nil)
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	be.Equal(t, cfg.Toolchain.Runner, "lli")
	be.Equal(t, cfg.Toolchain.CC, "clang")
	be.Equal(t, cfg.Toolchain.Flags, []string{"-lm"})
	be.Equal(t, cfg.Build.TargetTriple, "")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[build]
target_triple = "x86_64-pc-linux-gnu"
output_dir = "out"

[toolchain]
cc = "gcc"

[diagnostics]
language = "zh"
`)
	cfg, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Build.TargetTriple, "x86_64-pc-linux-gnu")
	be.Equal(t, cfg.Build.OutputDir, "out")
	be.Equal(t, cfg.Toolchain.CC, "gcc")
	// 未设置的项取默认值
	be.Equal(t, cfg.Toolchain.Runner, "lli")
	be.Equal(t, cfg.Toolchain.Flags, []string{"-lm"})
	be.Equal(t, cfg.Diagnostics.Language, "zh")
}

func TestLoadExplicitEmptyFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[toolchain]\nflags = []\n")
	cfg, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, len(cfg.Toolchain.Flags), 0)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[build\ntarget_triple = 1")
	_, err := Load(path)
	be.Err(t, err)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	be.Err(t, err)
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "[toolchain]\nrunner = \"lli-17\"\n")
	nested := filepath.Join(root, "src", "bio")
	be.Err(t, os.MkdirAll(nested, 0o755), nil)

	be.Equal(t, FindConfigFile(nested), path)

	cfg, found, err := FindAndLoad(nested)
	be.Err(t, err, nil)
	be.Equal(t, found, path)
	be.Equal(t, cfg.Toolchain.Runner, "lli-17")
	be.Equal(t, ProjectRoot(found), root)
}

func TestFindAndLoadWithoutFile(t *testing.T) {
	dir := t.TempDir()
	if FindConfigFile(dir) != "" {
		t.Skip("a codon.toml exists above the temp dir")
	}
	cfg, found, err := FindAndLoad(dir)
	be.Err(t, err, nil)
	be.Equal(t, found, "")
	be.Equal(t, cfg.Toolchain.Runner, "lli")
	be.Equal(t, ProjectRoot(""), "")
}

func TestOutputDir(t *testing.T) {
	root := t.TempDir()
	configPath := filepath.Join(root, FileName)
	src := filepath.Join(root, "src")
	abs := filepath.Join(root, "abs")

	tests := []struct {
		name       string
		outputDir  string
		configPath string
		want       string
	}{
		{"unset", "", configPath, src},
		{"absolute", abs, configPath, abs},
		{"relative to project", "build", configPath, filepath.Join(root, "build")},
		{"relative without project", "build", "", filepath.Join(src, "build")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Build.OutputDir = tt.outputDir
			be.Equal(t, cfg.OutputDir(tt.configPath, src), tt.want)
		})
	}
}
