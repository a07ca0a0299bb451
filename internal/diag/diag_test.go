package diag

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/codon/internal/i18n"
)

func TestList(t *testing.T) {
	i18n.SetLanguage(i18n.LangEnglish)

	var l List
	be.Equal(t, l.HasErrors(), false)
	be.Equal(t, l.Codes(), []string{})
	be.Equal(t, l.Error(), "no diagnostics")

	l.Add(Lexical, CodeLexical, 1, 3, "unrecognized character '@'")
	l.Add(Semantic, CodeUndefinedVariable, 2, 7, "use of undefined variable 'z'")
	be.True(t, l.HasErrors())
	be.Equal(t, l.Codes(), []string{"LEX000", "SEM003"})
	be.Equal(t, l.Error(), "line 1:3: [LEX000] unrecognized character '@'\n"+
		"line 2:7: [SEM003] use of undefined variable 'z'")
}

func TestKindString(t *testing.T) {
	i18n.SetLanguage(i18n.LangEnglish)
	be.Equal(t, Lexical.String(), "lexical error")
	be.Equal(t, Syntax.String(), "syntax error")
	be.Equal(t, Semantic.String(), "semantic error")
	be.Equal(t, Kind(9).String(), "unknown")
}
