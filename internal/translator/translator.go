// Package translator implements the tiered translation resolver: curated
// dictionary lookups first, inference over known fragments second, one
// batched remote model call as the last resort.
package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/hanvq/nungdict/internal/dictionary"
	"github.com/hanvq/nungdict/internal/inference"
)

var ErrEmptyInput = errors.New("input text must not be empty")

// Resolver resolves free text against an immutable dictionary snapshot with
// a remote model as fallback. Safe for concurrent use; all state is
// request-scoped.
type Resolver struct {
	dict     *dictionary.Dictionary
	client   inference.Client
	strategy InferenceStrategy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithInferenceStrategy replaces the default fragment-composition strategy.
func WithInferenceStrategy(strategy InferenceStrategy) Option {
	return func(r *Resolver) {
		r.strategy = strategy
	}
}

// NewResolver creates a Resolver. A nil client disables the remote tier:
// spans the local tiers cannot resolve are reported as unknown.
func NewResolver(dict *dictionary.Dictionary, client inference.Client, opts ...Option) *Resolver {
	resolver := &Resolver{
		dict:     dict,
		client:   client,
		strategy: NewFragmentComposer(),
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// token is one whitespace-delimited word with edge punctuation split off.
// Matching uses the lower-cased core; lead/trail are re-attached to the
// composed output in place.
type token struct {
	core  string
	lead  string
	trail string
}

func tokenize(text string) []token {
	words := strings.Fields(text)
	tokens := make([]token, 0, len(words))
	for _, word := range words {
		runes := []rune(word)
		start, end := 0, len(runes)
		for start < end && isEdgePunct(runes[start]) {
			start++
		}
		for end > start && isEdgePunct(runes[end-1]) {
			end--
		}
		tokens = append(tokens, token{
			lead:  string(runes[:start]),
			core:  strings.ToLower(string(runes[start:end])),
			trail: string(runes[end:]),
		})
	}
	return tokens
}

func isEdgePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// span is a contiguous run of tokens resolved as one unit.
type span struct {
	tokens []token
	entry  *BreakdownEntry // nil for punctuation-only spans
}

func (s span) text() string {
	cores := make([]string, 0, len(s.tokens))
	for _, tok := range s.tokens {
		if tok.core != "" {
			cores = append(cores, tok.core)
		}
	}
	return strings.Join(cores, " ")
}

// original re-renders the span's tokens with their edge punctuation in
// place, so an untranslated span keeps interior commas, quotes and
// punctuation-only words.
func (s span) original() string {
	words := make([]string, 0, len(s.tokens))
	for _, tok := range s.tokens {
		if word := tok.lead + tok.core + tok.trail; word != "" {
			words = append(words, word)
		}
	}
	return strings.Join(words, " ")
}

// Resolve translates text into the target language, preferring curated data
// over the remote model, and reports how each span was resolved.
func (r *Resolver) Resolve(ctx context.Context, text, targetLang string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	lang, err := dictionary.ParseLanguage(targetLang)
	if err != nil {
		return nil, fmt.Errorf("dictionary.ParseLanguage() > %w", err)
	}

	started := time.Now()

	spans := r.resolveLocal(lang, tokenize(text))
	r.resolveInferred(lang, spans)
	r.resolveRemote(ctx, lang, spans)

	result := assemble(text, spans)
	result.TimeTakenMs = time.Since(started).Milliseconds()
	return result, nil
}

// resolveLocal runs the longest-match-wins window over the dictionary.
// At each position the widest window that matches a key wins, so compound
// keys ("con lợn") shadow their component words ("lợn"). Unmatched tokens
// are grouped into contiguous unresolved spans for the later tiers.
func (r *Resolver) resolveLocal(lang dictionary.Language, tokens []token) []*span {
	maxWindow := r.dict.MaxKeyWords(lang)
	if maxWindow < 1 {
		maxWindow = 1
	}

	var spans []*span
	var pending []token // unmatched tokens accumulated into one span

	flushPending := func() {
		if len(pending) == 0 {
			return
		}
		unresolved := &span{tokens: pending}
		if unresolved.text() != "" {
			unresolved.entry = &BreakdownEntry{Word: unresolved.text(), Note: NoteUnknown}
		}
		spans = append(spans, unresolved)
		pending = nil
	}

	for i := 0; i < len(tokens); {
		if tokens[i].core == "" {
			// punctuation-only token, carried through untranslated
			pending = append(pending, tokens[i])
			i++
			continue
		}

		matched := false
		window := maxWindow
		if remaining := len(tokens) - i; window > remaining {
			window = remaining
		}
		for ; window >= 1; window-- {
			key := joinCores(tokens[i : i+window])
			if key == "" {
				continue
			}
			entry, ok := r.dict.Lookup(lang, key)
			if !ok {
				continue
			}

			flushPending()
			spans = append(spans, &span{
				tokens: tokens[i : i+window],
				entry: &BreakdownEntry{
					Word:        key,
					Translation: entry.Script,
					Phonetic:    entry.Phonetic,
					Note:        NoteDirect,
				},
			})
			i += window
			matched = true
			break
		}
		if !matched {
			pending = append(pending, tokens[i])
			i++
		}
	}
	flushPending()

	return spans
}

func joinCores(tokens []token) string {
	cores := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.core == "" {
			return "" // a window crossing punctuation-only tokens never matches
		}
		cores = append(cores, tok.core)
	}
	return strings.Join(cores, " ")
}

// resolveInferred offers every still-unresolved span to the inference
// strategy.
func (r *Resolver) resolveInferred(lang dictionary.Language, spans []*span) {
	if r.strategy == nil {
		return
	}
	for _, s := range spans {
		if s.entry == nil || s.entry.Note != NoteUnknown {
			continue
		}
		if inferred, ok := r.strategy.TryInfer(r.dict, lang, s.entry.Word); ok {
			s.entry.Translation = inferred
			s.entry.Note = NoteInferred
		}
	}
}

// resolveRemote batches every remaining unresolved span into a single model
// call. A failed or unparseable call degrades those spans to unknown; it is
// never surfaced to the caller.
func (r *Resolver) resolveRemote(ctx context.Context, lang dictionary.Language, spans []*span) {
	if r.client == nil {
		return
	}

	var unresolved []*span
	var words []string
	for _, s := range spans {
		if s.entry != nil && s.entry.Note == NoteUnknown {
			unresolved = append(unresolved, s)
			words = append(words, s.entry.Word)
		}
	}
	if len(unresolved) == 0 {
		return
	}

	response, err := r.client.TranslateWords(ctx, inference.TranslateWordsRequest{
		Words:      words,
		TargetLang: string(lang),
	})
	if err != nil {
		slog.Default().Warn("remote translation failed, leaving spans unresolved",
			"wordCount", len(words),
			"error", err)
		return
	}

	for _, s := range unresolved {
		if translation, ok := response.Translations[s.entry.Word]; ok && strings.TrimSpace(translation) != "" {
			s.entry.Translation = translation
			s.entry.Note = NoteAPI
		}
	}
}

// assemble composes the final translation in original left-to-right span
// order and derives the aggregate stats.
func assemble(text string, spans []*span) *Result {
	result := &Result{OriginalText: text}

	var parts []string
	for _, s := range spans {
		if s.entry != nil {
			result.Breakdown = append(result.Breakdown, *s.entry)
			switch s.entry.Note {
			case NoteDirect:
				result.Stats.LocalHits++
			case NoteInferred:
				result.Stats.Inferred++
			case NoteAPI:
				result.Stats.APICalls++
			case NoteUnknown:
				result.Stats.Unknown++
			}
		}

		rendered := ""
		if s.entry != nil && s.entry.Translation != "" {
			// the translation replaces the whole span; only the outer
			// punctuation survives
			rendered = s.tokens[0].lead + s.entry.Translation + s.tokens[len(s.tokens)-1].trail
		} else {
			// unknown spans keep their original wording so the sentence
			// stays readable
			rendered = s.original()
		}
		if rendered != "" {
			parts = append(parts, rendered)
		}
	}

	result.Translation = strings.Join(parts, " ")
	result.APICalled = result.Stats.APICalls > 0
	return result
}
