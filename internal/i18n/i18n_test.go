package i18n

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestTranslate(t *testing.T) {
	defer SetLanguage(Current())

	SetLanguage(LangEnglish)
	be.Equal(t, T(ErrArityMismatch, "add", 2, 1), "Function 'add' expects 2 args but received 1")
	be.Equal(t, T(MsgKindSyntax), "syntax error")

	SetLanguage(LangChinese)
	be.Equal(t, T(MsgKindSyntax), "语法错误")
	be.Equal(t, T(MsgDiagnostic, 1, 2, "SEM003", "x"), "第 1 行第 2 列: [SEM003] x")

	// 未知键原样返回
	be.Equal(t, T("no.such.key"), "no.such.key")
}

func TestCatalogsMatch(t *testing.T) {
	for key, en := range enMessages {
		zh, ok := zhMessages[key]
		if !ok {
			t.Errorf("missing zh message for %s", key)
			continue
		}
		be.Equal(t, strings.Count(zh, "%"), strings.Count(en, "%"))
	}
	for key := range zhMessages {
		if _, ok := enMessages[key]; !ok {
			t.Errorf("zh message %s has no en fallback", key)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		code string
		want Language
		ok   bool
	}{
		{"zh_CN.UTF-8", LangChinese, true},
		{"zh-TW", LangChinese, true},
		{" zh ", LangChinese, true},
		{"en_US.UTF-8", LangEnglish, true},
		{"EN", LangEnglish, true},
		{"fr_FR", "", false},
		{"C", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		lang, ok := ParseLanguage(tt.code)
		be.Equal(t, lang, tt.want)
		be.Equal(t, ok, tt.ok)
	}
}

func TestDetect(t *testing.T) {
	for _, name := range languageEnv {
		t.Setenv(name, "")
	}
	be.Equal(t, detect(), LangEnglish)

	t.Setenv("LANG", "zh_CN.UTF-8")
	be.Equal(t, detect(), LangChinese)

	// CODON_LANG 优先
	t.Setenv("CODON_LANG", "en")
	be.Equal(t, detect(), LangEnglish)
}
