// Package i18n looks up compiler diagnostics and CLI text by message key.
//
// The active language is detected once from the environment (CODON_LANG
// first, then the usual POSIX locale variables) and can be overridden with
// SetLanguage, typically from the [diagnostics] section of codon.toml.
// Keys missing from a catalogue fall back to English, and unknown keys are
// returned unchanged so a missing translation never hides a diagnostic.
package i18n

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Language is a catalogue identifier.
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// catalogs 每种语言的消息表
var catalogs = map[Language]map[string]string{
	LangEnglish: enMessages,
	LangChinese: zhMessages,
}

// languageEnv 按顺序检查的环境变量
var languageEnv = []string{"CODON_LANG", "LC_ALL", "LC_MESSAGES", "LANG", "LANGUAGE"}

var (
	current    Language
	detectOnce sync.Once
)

// Init detects the language from the environment. It runs at most once and
// is called implicitly by T and Current.
func Init() {
	detectOnce.Do(func() {
		if current == "" {
			current = detect()
		}
	})
}

// SetLanguage overrides the detected language.
func SetLanguage(lang Language) {
	detectOnce.Do(func() {})
	current = lang
}

// Current returns the active language.
func Current() Language {
	Init()
	return current
}

// ParseLanguage maps a locale string such as "zh_CN.UTF-8", "en-US" or "zh"
// to a supported language.
func ParseLanguage(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, lang := range []Language{LangChinese, LangEnglish} {
		if strings.HasPrefix(code, string(lang)) {
			return lang, true
		}
	}
	return "", false
}

// T formats the message for key in the active language.
func T(key string, args ...any) string {
	Init()
	template, ok := catalogs[current][key]
	if !ok {
		if template, ok = enMessages[key]; !ok {
			return key
		}
	}
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// detect 取第一个可识别的环境变量，都没有时用英文
func detect() Language {
	for _, name := range languageEnv {
		if lang, ok := ParseLanguage(os.Getenv(name)); ok {
			return lang
		}
	}
	return LangEnglish
}
