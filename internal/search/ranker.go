// Package search provides a simple, deterministic, concurrency-safe
// relevance ranker for text queries over stored records. It is intentionally
// small and dependency-free, but engineered with production-grade ergonomics:
//
//   - No logging in the library (callers decide how/what to log)
//   - Clear, documented types and functional options (Option pattern)
//   - Unicode-aware tokenization with optional stop-word removal
//   - Stateless scoring (safe for concurrent use, nothing to rebuild)
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set and each
// record's token set: score = |Q ∩ D| / |Q ∪ D|, with a configurable boost
// for title hits so a match in the title outranks the same match buried in
// the body.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Document is one rankable record: an identifier plus the two text fields
// covered by the full-text contract (title and body).
type Document struct {
	ID    string
	Title string
	Body  string
}

// Result is a ranked document ID with its similarity score.
type Result struct {
	ID    string
	Score float64
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	stopwords  map[string]struct{}
	titleBoost float64
	minScore   float64
}

func defaultConfig() config {
	return config{
		stopwords:  nil,
		titleBoost: 0.25,
		minScore:   0,
	}
}

// WithStopwords removes the given words from both query and document token
// sets before scoring.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithTitleBoost sets the additive weight applied to the query/title
// similarity. Negative values are ignored.
func WithTitleBoost(w float64) Option {
	return func(c *config) {
		if w >= 0 {
			c.titleBoost = w
		}
	}
}

// WithMinScore drops results scoring below the floor. Values outside (0,1]
// are ignored.
func WithMinScore(s float64) Option {
	return func(c *config) {
		if s > 0 && s <= 1 {
			c.minScore = s
		}
	}
}

// ----------------------------------------------------------------------------
// Ranker

// Ranker scores and orders documents against a text query. The zero-config
// ranker (NewRanker()) is ready to use; a Ranker is immutable after
// construction and safe for concurrent use.
type Ranker struct {
	cfg config
}

// NewRanker constructs a Ranker with the given options applied over the
// defaults.
func NewRanker(opts ...Option) *Ranker {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Ranker{cfg: cfg}
}

// Score computes the relevance of d against query in [0, 1+titleBoost).
// A zero score means no token overlap at all.
func (r *Ranker) Score(query string, d Document) float64 {
	qTokens := tokenize(query, r.cfg.stopwords)
	if len(qTokens) == 0 {
		return 0
	}
	return r.score(qTokens, d)
}

func (r *Ranker) score(qTokens map[string]struct{}, d Document) float64 {
	titleTokens := tokenize(d.Title, r.cfg.stopwords)
	bodyTokens := tokenize(d.Body, r.cfg.stopwords)

	// Body set includes the title so title-only documents still rank.
	all := make(map[string]struct{}, len(bodyTokens)+len(titleTokens))
	for t := range bodyTokens {
		all[t] = struct{}{}
	}
	for t := range titleTokens {
		all[t] = struct{}{}
	}

	base := jaccard(qTokens, all)
	if base == 0 {
		return 0
	}
	boost := r.cfg.titleBoost * jaccard(qTokens, titleTokens)
	return base + boost
}

// Rank returns the documents matching query ordered by relevance
// descending. Documents with zero overlap (or scoring under the configured
// floor) are omitted. Ties break deterministically: shorter body first,
// then ID ascending.
func (r *Ranker) Rank(query string, docs []Document) []Result {
	qTokens := tokenize(query, r.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}

	type scored struct {
		id       string
		score    float64
		lenRunes int
	}
	buf := make([]scored, 0, len(docs))
	for _, d := range docs {
		s := r.score(qTokens, d)
		if s <= 0 || s < r.cfg.minScore {
			continue
		}
		buf = append(buf, scored{
			id:       d.ID,
			score:    s,
			lenRunes: utf8.RuneCountInString(d.Body),
		})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].score != buf[b].score {
			return buf[a].score > buf[b].score
		}
		if buf[a].lenRunes != buf[b].lenRunes {
			return buf[a].lenRunes < buf[b].lenRunes
		}
		return buf[a].id < buf[b].id
	})

	out := make([]Result, len(buf))
	for i := range buf {
		out[i] = Result{ID: buf[i].id, Score: buf[i].score}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
