package domain

import "strings"

// transcriptLimit caps how many transcript characters enter the embedding
// text, so title and description dominate the vector over transcript noise.
const transcriptLimit = 2000

// ComposeEmbeddingText builds the text that is embedded for an item.
// Non-empty fields are concatenated in priority order under labeled sections.
// Returns "" when every field is empty; empty text must not be embedded.
func ComposeEmbeddingText(title, descriptionAI, transcript string, tags []string) string {
	var parts []string

	if t := strings.TrimSpace(title); t != "" {
		parts = append(parts, "Title: "+t)
	}
	if d := strings.TrimSpace(descriptionAI); d != "" {
		parts = append(parts, "Description: "+d)
	}
	if tr := strings.TrimSpace(transcript); tr != "" {
		// Truncate on runes, not bytes, or a multi-byte character
		// straddling the cut leaves invalid UTF-8 in the request.
		if runes := []rune(tr); len(runes) > transcriptLimit {
			tr = string(runes[:transcriptLimit]) + "..."
		}
		parts = append(parts, "Transcript: "+tr)
	}
	if len(tags) > 0 {
		clean := make([]string, 0, len(tags))
		for _, tag := range tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				clean = append(clean, tag)
			}
		}
		if len(clean) > 0 {
			parts = append(parts, "Tags: "+strings.Join(clean, " "))
		}
	}

	return strings.Join(parts, "\n")
}

// Lexical field weights. Title must outweigh descriptions, and descriptions
// must outweigh the transcript, so exact title matches always dominate the
// lexical score.
const (
	lexWeightTitle       = 3.0
	lexWeightDescription = 2.0
	lexWeightTranscript  = 1.0
)

// LexicalDoc is the weighted full-text representation of an item, derived
// deterministically from its text fields at query time. It never lives in
// storage, so it cannot diverge from the fields it is built from.
type LexicalDoc struct {
	title       string
	description string
	transcript  string
}

// NewLexicalDoc builds the lexical representation from the item's text
// fields. The manual description shares the AI description's weight tier.
func NewLexicalDoc(title, descriptionAI, descriptionManual, transcript string) LexicalDoc {
	return LexicalDoc{
		title:       strings.ToLower(title),
		description: strings.ToLower(descriptionAI + " " + descriptionManual),
		transcript:  strings.ToLower(transcript),
	}
}

// Score returns the normalized lexical relevance of the doc for the given
// query tokens, in [0,1]. Each token contributes the weight of the heaviest
// field tier it appears in; the sum is normalized by the best possible score
// so single-field titles can still reach 1.0 on exact matches.
func (d LexicalDoc) Score(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}

	var total float64
	for _, tok := range tokens {
		switch {
		case strings.Contains(d.title, tok):
			total += lexWeightTitle
		case strings.Contains(d.description, tok):
			total += lexWeightDescription
		case strings.Contains(d.transcript, tok):
			total += lexWeightTranscript
		}
	}

	return total / (lexWeightTitle * float64(len(tokens)))
}

// maxQueryTokens bounds how many query tokens participate in lexical and
// keyword-boost scoring.
const maxQueryTokens = 5

// minTokenLength drops short stop-ish tokens from boost matching.
const minTokenLength = 3

// QueryTokens lowercases and splits a query, keeping at most maxQueryTokens
// tokens of at least minTokenLength characters.
func QueryTokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := make([]string, 0, maxQueryTokens)
	for _, f := range fields {
		if len(f) < minTokenLength {
			continue
		}
		tokens = append(tokens, f)
		if len(tokens) == maxQueryTokens {
			break
		}
	}
	return tokens
}
