package linkfind

import "strings"

// Heading selects a phrase list.
type Heading int

const (
	Next Heading = iota
	Prev
)

func (h Heading) String() string {
	if h == Prev {
		return "prev"
	}
	return "next"
}

// defaultPhrases holds the built-in phrase lists keyed by primary language
// subtag. Order matters: earlier phrases win when several match.
var defaultPhrases = map[string][2]string{
	"en": {
		"next,more results,more,newer,>,›,→,»,≫,>>",
		"prev,previous,back,older,<,‹,←,«,≪,<<",
	},
	"de": {
		"weiter,nächste,vorwärts,mehr,>,›,→,»,≫,>>",
		"zurück,vorherige,vorige,<,‹,←,«,≪,<<",
	},
	"fr": {
		"suivant,suivante,plus,>,›,→,»,≫,>>",
		"précédent,précédente,retour,<,‹,←,«,≪,<<",
	},
	"es": {
		"siguiente,próxima,más,>,›,→,»,≫,>>",
		"anterior,atrás,<,‹,←,«,≪,<<",
	},
	"pt": {
		"próximo,próxima,seguinte,mais,>,›,→,»,≫,>>",
		"anterior,voltar,<,‹,←,«,≪,<<",
	},
	"ja": {
		"次へ,次のページ,次,>,›,→,»,≫,>>",
		"前へ,前のページ,前,<,‹,←,«,≪,<<",
	},
	"zh": {
		"下一页,下一頁,下页,更多,>,›,→,»,≫,>>",
		"上一页,上一頁,上页,<,‹,←,«,≪,<<",
	},
}

// Phrases returns the phrase list for a heading. A non-empty override (comma
// separated) replaces the language defaults; unknown languages fall back to
// English.
func Phrases(lang string, h Heading, override string) []string {
	if list := SplitPhrases(override); len(list) > 0 {
		return list
	}
	lists, ok := defaultPhrases[primaryTag(lang)]
	if !ok {
		lists = defaultPhrases["en"]
	}
	return SplitPhrases(lists[h])
}

// SplitPhrases splits a comma separated list and drops blank entries.
func SplitPhrases(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func primaryTag(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}
