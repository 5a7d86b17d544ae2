package flatten

import (
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Noun readings win over the verb lemmas the dictionary prefers for these.
var irregularNouns = map[string]string{
	"people":   "person",
	"lives":    "life",
	"leaves":   "leaf",
	"data":     "data",
	"series":   "series",
	"species":  "species",
	"media":    "media",
	"children": "child",
}

var ieNouns = map[string]bool{"movie": true, "cookie": true, "calorie": true, "zombie": true, "rookie": true, "prairie": true}

var (
	lemmaOnce sync.Once
	lemmas    *golem.Lemmatizer
)

func dictionary() *golem.Lemmatizer {
	lemmaOnce.Do(func() {
		l, err := golem.New(en.New())
		if err == nil {
			lemmas = l
		}
	})
	return lemmas
}

// Lemmatize reduces a lower-case English word to its dictionary form. Capitalised words are
// proper-noun candidates and are returned unchanged.
func Lemmatize(word string) string {
	lower := strings.ToLower(word)
	if lower != word {
		return word
	}
	if lemma, ok := irregularNouns[word]; ok {
		return lemma
	}
	if l := dictionary(); l != nil {
		if lemma := l.Lemma(word); lemma != "" && lemma != word {
			return lemma
		}
		return word
	}
	return singular(word)
}

// singular is used only when the dictionary cannot be loaded.
func singular(word string) string {
	if len(word) <= 3 {
		return word
	}
	switch {
	case strings.HasSuffix(word, "ies"):
		if len(word) <= 5 || ieNouns[word[:len(word)-1]] {
			return word[:len(word)-1]
		}
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"), strings.HasSuffix(word, "shes"), strings.HasSuffix(word, "ches"),
		strings.HasSuffix(word, "xes"), strings.HasSuffix(word, "zes"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "uses"), strings.HasSuffix(word, "ases"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ss"), strings.HasSuffix(word, "us"), strings.HasSuffix(word, "is"):
		return word
	case strings.HasSuffix(word, "s"):
		return word[:len(word)-1]
	}
	return word
}

// Tokens strips '.' and '?' from the sentence, splits it on whitespace and lemmatises each token.
func Tokens(sentence string) []string {
	cleaned := strings.NewReplacer(".", "", "?", "").Replace(sentence)
	fields := strings.Fields(cleaned)
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = Lemmatize(f)
	}
	return out
}
