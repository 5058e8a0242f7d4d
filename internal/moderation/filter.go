// Package moderation detects profanity in chat messages.
//
// Every pattern targets one obscene root and is assembled from letter classes
// that accept visually similar latin letters and digits, repeated letters and
// a punctuation mark between letters. Detection is heuristic: it blocks the
// common spellings and the simple evasions, nothing more.
package moderation

import (
	"regexp"
	"strings"
)

// letter classes, matched against lower-cased text
const (
	cA  = `[аa@]`
	cB  = `[б6]`
	cD  = `[дd]`
	cE  = `[еe]`
	cG  = `[гr]`
	cI  = `[иiu1*]`
	cK  = `[кk]`
	cL  = `[лl]`
	cM  = `[мm]`
	cN  = `[нh]`
	cO  = `[оo0]`
	cP  = `[пn]`
	cR  = `[рp]`
	cS  = `[сc$]`
	cU  = `[уy]`
	cH  = `[хx]`
	cZ  = `[з3z]`
	cCh = `[ч4]`
	cSh = `[шw]`
	cJu = `[юu]`
)

// gap tolerates a single punctuation mark or symbol inserted between letters
const gap = `[^\p{L}\p{N}\s]?`

// start anchors a root at the beginning of a word for roots that occur inside common words
const start = `(?:^|[^\p{L}])`

// seq joins letter classes allowing repeats and a gap between them
func seq(classes ...string) string {
	parts := make([]string, len(classes))
	for idx, c := range classes {
		parts[idx] = c + "+"
	}
	return strings.Join(parts, gap)
}

var defaultPatterns = []string{
	// хуй, хуе, хуя with prefixes, anchored to keep страхуем and психуешь
	start + `(?:на|по|о|а|от|за|вы|до|ни)?` + seq(cH, cU, `[йеяюиi]`),
	// пизд
	seq(cP, `[иie1u*е]`, cZ, cD),
	// еб with verb prefixes, standalone "еб" included
	start + `(?:за|вы|по|от|на|у|до|про|при|раз[ъь]?|из[ъь]?|с[ъь]|в[ъь]?)?` + seq(cE, cB) + `(?:[аa@уyиiоo0лlне]|ть|$|[^\p{L}])`,
	// бля
	start + seq(cB, cL) + `я`,
	// сука, суки, сукин, сучка
	start + seq(cS, cU) + gap + `(?:` + cK + `+[аa@иiуyоo0]|` + cCh + `+` + cK + `)`,
	// мудак, мудила, мудозвон
	seq(cM, cU, cD) + `(?:` + cA + cK + `|` + cA + cCh + `|` + cI + cL + `|` + cO + cZ + `)`,
	// пидор, пидар, педр
	seq(cP, `[иie1uе*]`, cD) + `[оo0аa@]?` + cR,
	// залупа
	seq(cZ, cA, cL, cU, cP),
	// гандон
	seq(cG, cA, cN, cD, cO, cN),
	// шлюха
	seq(cSh, cL, cJu, cH),
	// дрочить
	seq(cD, cR, cO, cCh),
}

// DefaultPatterns returns a copy of the built-in pattern list
func DefaultPatterns() []string {
	out := make([]string, len(defaultPatterns))
	copy(out, defaultPatterns)
	return out
}

// Filter is safe for concurrent use, its patterns are never modified after construction
type Filter struct {
	patterns []*regexp.Regexp
}

// NewFilter returns a Filter with the built-in patterns
func NewFilter() *Filter {
	f, err := NewFilterWithPatterns(defaultPatterns)
	if err != nil {
		panic(err)
	}
	return f
}

// NewFilterWithPatterns compiles custom patterns, matching is always case-insensitive
func NewFilterWithPatterns(exprs []string) (*Filter, error) {
	f := &Filter{patterns: make([]*regexp.Regexp, 0, len(exprs))}
	for _, expr := range exprs {
		re, err := regexp.Compile(`(?i)` + expr)
		if err != nil {
			return nil, err
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// IsProfane reports whether text matches any pattern
func (f *Filter) IsProfane(text string) bool {
	normalized := Normalize(text)
	for _, re := range f.patterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

var yoReplacer = strings.NewReplacer("ё", "е", "Ё", "е")

// Normalize lower-cases text and folds "ё" into "е"
func Normalize(text string) string {
	return yoReplacer.Replace(strings.ToLower(text))
}
