package matching

import (
	"fmt"
	"sort"
)

const (
	DefaultTeamThreshold   = 0.80
	DefaultPlayerThreshold = 0.85
)

// MatchType tags how a name was resolved.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchAlias MatchType = "alias"
	MatchFuzzy MatchType = "fuzzy"
	MatchNone  MatchType = "none"
)

// Candidate is an existing entity a name may resolve to.
type Candidate struct {
	ID   int64
	Name string
}

type indexedCandidate struct {
	Candidate
	key       string
	canonical string
	aliased   bool
}

// Index is the normalized-name lookup over one candidate universe.
type Index struct {
	byKey map[string][]Candidate
	all   []indexedCandidate

	// Set when canonical names were filled in by Resolver.NewIndex.
	aliases *Registry
	kind    Kind
}

// NewIndex normalizes every candidate once. Candidates sharing a key are kept
// ordered by ID so lookups are stable across runs.
func NewIndex(candidates []Candidate) *Index {
	idx := &Index{
		byKey: make(map[string][]Candidate, len(candidates)),
		all:   make([]indexedCandidate, 0, len(candidates)),
	}
	for _, c := range candidates {
		key := Normalize(c.Name)
		idx.byKey[key] = append(idx.byKey[key], c)
		idx.all = append(idx.all, indexedCandidate{Candidate: c, key: key})
	}
	for key := range idx.byKey {
		rows := idx.byKey[key]
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	}
	sort.Slice(idx.all, func(i, j int) bool { return idx.all[i].ID < idx.all[j].ID })
	return idx
}

// NewIndex builds an index whose candidates carry their alias canonical
// names, so Resolve does not look them up per query.
func (r *Resolver) NewIndex(candidates []Candidate) *Index {
	idx := NewIndex(candidates)
	idx.aliases = r.aliases
	idx.kind = r.kind
	for i := range idx.all {
		idx.all[i].canonical, idx.all[i].aliased = r.aliases.Lookup(r.kind, idx.all[i].Name)
	}
	return idx
}

func (r *Resolver) canonicalOf(idx *Index, c indexedCandidate) (string, bool) {
	if idx.aliases == r.aliases && idx.kind == r.kind {
		return c.canonical, c.aliased
	}
	return r.aliases.Lookup(r.kind, c.Name)
}

// Len reports the number of candidates.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.all)
}

func (idx *Index) first(key string) (Candidate, bool) {
	rows := idx.byKey[key]
	if key == "" || len(rows) == 0 {
		return Candidate{}, false
	}
	return rows[0], true
}

// Result is the outcome of one resolution. Score is the accepted score for
// matches and the best score seen for MatchNone; Best is the closest
// candidate in that case, kept for manual review.
type Result struct {
	Type      MatchType
	Candidate Candidate
	Score     float64
	Best      Candidate
}

// Matched reports whether a candidate was found.
func (r Result) Matched() bool {
	return r.Type != MatchNone
}

// Resolver runs the exact, alias and fuzzy cascade for one entity kind.
type Resolver struct {
	kind      Kind
	threshold float64
	aliases   *Registry
	scorer    Scorer
}

func NewResolver(kind Kind, threshold float64, aliases *Registry, scorer Scorer) (*Resolver, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("%s match threshold must be in (0,1], got %v", kind, threshold)
	}
	if scorer == nil {
		scorer = BlockRatio{}
	}
	return &Resolver{
		kind:      kind,
		threshold: threshold,
		aliases:   aliases,
		scorer:    scorer,
	}, nil
}

func (r *Resolver) Kind() Kind {
	return r.kind
}

func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Resolve finds the existing candidate for name. It never fails: an empty
// index or an empty name yields MatchNone.
func (r *Resolver) Resolve(name string, idx *Index) Result {
	key := Normalize(name)
	if key == "" || idx.Len() == 0 {
		return Result{Type: MatchNone}
	}

	if c, ok := idx.first(key); ok {
		return Result{Type: MatchExact, Candidate: c, Score: 1}
	}

	canonical, known := r.aliases.Lookup(r.kind, name)
	if known {
		for _, variant := range r.aliases.Variants(r.kind, canonical) {
			if c, ok := idx.first(Normalize(variant)); ok {
				return Result{Type: MatchAlias, Candidate: c, Score: 1}
			}
		}
	}

	best := Result{Type: MatchNone}
	seen := false
	for _, c := range idx.all {
		// Names the alias table files under different canonicals never fuzzy-match.
		if known {
			if other, ok := r.canonicalOf(idx, c); ok && other != canonical {
				continue
			}
		}
		score := r.scorer.Score(key, c.key)
		// idx.all is ordered by ID, so strict comparison keeps the lowest ID on ties.
		if !seen || score > best.Score {
			seen = true
			best.Score = score
			best.Best = c.Candidate
		}
	}
	if best.Score >= r.threshold {
		return Result{Type: MatchFuzzy, Candidate: best.Best, Score: best.Score, Best: best.Best}
	}
	return best
}
