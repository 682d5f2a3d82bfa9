package domain

// SearchMode selects how the ranking engine scores candidates.
type SearchMode string

const (
	// SearchModeVector ranks purely by cosine similarity to the query vector.
	SearchModeVector SearchMode = "vector"

	// SearchModeKeywordBoost ranks by vector similarity plus additive boosts
	// for query tokens appearing in the title or AI description.
	SearchModeKeywordBoost SearchMode = "keywordBoost"

	// SearchModeHybrid fuses vector similarity with lexical relevance.
	// This is the default.
	SearchModeHybrid SearchMode = "hybrid"
)

// Valid reports whether the mode is a known selector.
func (m SearchMode) Valid() bool {
	switch m {
	case SearchModeVector, SearchModeKeywordBoost, SearchModeHybrid:
		return true
	}
	return false
}

// Default fusion weights. Callers may override; weights must be non-negative
// and are used as given - there is no renormalization to sum to 1.
const (
	DefaultVectorWeight  = 0.7
	DefaultLexicalWeight = 0.3
)

// SearchOptions configures a ranking query.
type SearchOptions struct {
	// Scope is the set of folder ids the caller may see. An empty scope
	// yields an empty result set without calling the embedding capability.
	Scope []string

	// FolderID optionally narrows the scope to a single folder.
	FolderID *string

	// Mode selects the scoring model. Empty means hybrid.
	Mode SearchMode

	// Limit is the maximum number of results (default 10).
	Limit int

	// MinScore drops results scoring below it. Applied as a post-filter
	// after ranking, never as a query predicate.
	MinScore *float64

	// VectorWeight and LexicalWeight override the hybrid fusion weights
	// when non-nil. Both must be non-negative.
	VectorWeight  *float64
	LexicalWeight *float64
}

// EffectiveMode resolves the default mode.
func (o SearchOptions) EffectiveMode() SearchMode {
	if o.Mode == "" {
		return SearchModeHybrid
	}
	return o.Mode
}

// Weights resolves the fusion weights, falling back to the defaults.
func (o SearchOptions) Weights() (vector, lexical float64) {
	vector, lexical = DefaultVectorWeight, DefaultLexicalWeight
	if o.VectorWeight != nil {
		vector = *o.VectorWeight
	}
	if o.LexicalWeight != nil {
		lexical = *o.LexicalWeight
	}
	return vector, lexical
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	// Item is the matched record.
	Item Item

	// Score is the mode-specific composite score the ordering is based on.
	Score float64

	// VectorScore is the cosine similarity component.
	VectorScore float64

	// LexicalScore is the normalized lexical relevance component.
	// Zero outside hybrid mode.
	LexicalScore float64

	// ReadURL is a short-lived URL for the media blob, when available.
	ReadURL string
}
