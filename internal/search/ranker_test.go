package search

import (
	"testing"
)

// ---------- Options + defaultConfig ----------

func TestOptionsAndDefaults(t *testing.T) {
	def := defaultConfig()
	if def.titleBoost != 0.25 || def.stopwords != nil || def.minScore != 0 {
		t.Fatalf("defaultConfig unexpected: %#v", def)
	}

	cfg := def
	WithStopwords([]string{"  The ", "", "An"})(&cfg)
	if _, ok := cfg.stopwords["the"]; !ok {
		t.Fatalf("WithStopwords failed (missing 'the'): %#v", cfg.stopwords)
	}
	if _, ok := cfg.stopwords["an"]; !ok {
		t.Fatalf("WithStopwords failed (missing 'an'): %#v", cfg.stopwords)
	}

	cfg2 := def
	WithStopwords(nil)(&cfg2)
	if cfg2.stopwords != nil {
		t.Fatalf("empty stopwords should remain nil")
	}

	WithTitleBoost(0.5)(&cfg)
	if cfg.titleBoost != 0.5 {
		t.Fatalf("WithTitleBoost failed: %v", cfg.titleBoost)
	}
	WithTitleBoost(-1)(&cfg) // no-op
	if cfg.titleBoost != 0.5 {
		t.Fatalf("negative title boost should be ignored")
	}

	WithMinScore(0.1)(&cfg)
	if cfg.minScore != 0.1 {
		t.Fatalf("WithMinScore failed: %v", cfg.minScore)
	}
	WithMinScore(1.5)(&cfg) // no-op
	if cfg.minScore != 0.1 {
		t.Fatalf("out-of-range min score should be ignored")
	}
}

// ---------- tokenize ----------

func TestTokenize(t *testing.T) {
	got := tokenize("The Price, the price AND elasticity q3!", map[string]struct{}{"the": {}, "and": {}})
	for _, want := range []string{"price", "elasticity", "q3"} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing token %q in %v", want, got)
		}
	}
	if _, ok := got["the"]; ok {
		t.Errorf("stopword survived: %v", got)
	}
	if len(got) != 3 {
		t.Errorf("duplicates or extras: %v", got)
	}

	if got := tokenize("", nil); len(got) != 0 {
		t.Errorf("empty input should yield no tokens: %v", got)
	}
}

// ---------- Score ----------

func TestScore(t *testing.T) {
	r := NewRanker()

	d := Document{ID: "d1", Title: "Pricing", Body: "price elasticity"}
	if s := r.Score("", d); s != 0 {
		t.Fatalf("empty query score = %v, want 0", s)
	}
	if s := r.Score("logistics", d); s != 0 {
		t.Fatalf("no-overlap score = %v, want 0", s)
	}
	if s := r.Score("price", d); s <= 0 {
		t.Fatalf("overlap score = %v, want > 0", s)
	}
}

func TestScore_TitleBoost(t *testing.T) {
	r := NewRanker()

	inTitle := Document{ID: "t", Title: "price", Body: "filler words here"}
	inBody := Document{ID: "b", Title: "filler words here", Body: "price"}
	if st, sb := r.Score("price", inTitle), r.Score("price", inBody); st <= sb {
		t.Fatalf("title match should outrank body match: title=%v body=%v", st, sb)
	}
}

// ---------- Rank ----------

func TestRank_OrderAndOmission(t *testing.T) {
	r := NewRanker(WithStopwords(DefaultStopwords))

	docs := []Document{
		{ID: "exact", Title: "price elasticity", Body: "price elasticity"},
		{ID: "partial", Title: "demand", Body: "price varies with advertising spend"},
		{ID: "none", Title: "logistics", Body: "shipping capacity limits"},
	}
	got := r.Rank("price elasticity", docs)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %+v", got)
	}
	if got[0].ID != "exact" || got[1].ID != "partial" {
		t.Fatalf("relevance order wrong: %+v", got)
	}
	if got[0].Score <= got[1].Score {
		t.Fatalf("scores not descending: %+v", got)
	}

	if out := r.Rank("   ", docs); out != nil {
		t.Fatalf("blank query should rank nothing: %+v", out)
	}
	if out := r.Rank("q", nil); out != nil {
		t.Fatalf("no docs should rank nothing: %+v", out)
	}
}

func TestRank_TieBreaks(t *testing.T) {
	r := NewRanker()

	// Identical token sets; the shorter body wins, then ID ascending.
	docs := []Document{
		{ID: "b-long", Title: "", Body: "price price price"},
		{ID: "a-short", Title: "", Body: "price"},
		{ID: "c-short", Title: "", Body: "price"},
	}
	got := r.Rank("price", docs)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %+v", got)
	}
	if got[0].ID != "a-short" || got[1].ID != "c-short" || got[2].ID != "b-long" {
		t.Fatalf("tie-break order wrong: %+v", got)
	}
}

func TestRank_MinScoreFloor(t *testing.T) {
	r := NewRanker(WithMinScore(0.9))

	docs := []Document{
		{ID: "exact", Title: "", Body: "price"},
		{ID: "weak", Title: "", Body: "price plus many other unrelated tokens diluting overlap"},
	}
	got := r.Rank("price", docs)
	if len(got) != 1 || got[0].ID != "exact" {
		t.Fatalf("min-score floor not applied: %+v", got)
	}
}
