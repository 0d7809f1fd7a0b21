package translator

import (
	"strings"

	"github.com/hanvq/nungdict/internal/dictionary"
)

// InferenceStrategy attempts to resolve a span the dictionary has no entry
// for by composing translations of smaller known fragments. Implementations
// must be side-effect free; the resolver treats them as pure functions.
type InferenceStrategy interface {
	TryInfer(dict *dictionary.Dictionary, lang dictionary.Language, span string) (string, bool)
}

const (
	// minInferSpanRunes guards against inferring from very short spans,
	// where fragment matches are almost always coincidence.
	minInferSpanRunes = 3
	// minFragmentRunes keeps single characters from counting as known
	// fragments.
	minFragmentRunes = 2
)

// FragmentComposer infers a span by greedily decomposing each of its words
// into a concatenation of known dictionary keys (classifier + noun
// compounds and similar agglutinations) and composing the fragment scripts
// in order. A span is inferred only when every word decomposes completely.
type FragmentComposer struct{}

func NewFragmentComposer() *FragmentComposer {
	return &FragmentComposer{}
}

func (c *FragmentComposer) TryInfer(dict *dictionary.Dictionary, lang dictionary.Language, span string) (string, bool) {
	span = strings.TrimSpace(span)
	if len([]rune(span)) < minInferSpanRunes {
		return "", false
	}

	var scripts []string
	for _, word := range strings.Fields(span) {
		fragments, ok := decompose(dict, lang, word)
		if !ok {
			return "", false
		}
		scripts = append(scripts, fragments...)
	}
	if len(scripts) == 0 {
		return "", false
	}
	return strings.Join(scripts, " "), true
}

// decompose splits a single word into known fragments, longest prefix
// first. The whole word must be covered; a partial decomposition is
// rejected rather than padded with the unknown remainder.
func decompose(dict *dictionary.Dictionary, lang dictionary.Language, word string) ([]string, bool) {
	runes := []rune(word)
	var scripts []string

	for pos := 0; pos < len(runes); {
		matched := false
		for end := len(runes); end-pos >= minFragmentRunes; end-- {
			fragment := string(runes[pos:end])
			if entry, ok := dict.Lookup(lang, fragment); ok {
				scripts = append(scripts, entry.Script)
				pos = end
				matched = true
				break
			}
		}
		if !matched {
			return nil, false
		}
	}
	return scripts, true
}

var _ InferenceStrategy = (*FragmentComposer)(nil)
