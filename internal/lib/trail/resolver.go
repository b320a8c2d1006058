package trail

import (
	"regexp"
	"sort"
	"strings"
)

// Resolver maps free text to a trail code using a synonym table
type Resolver struct {
	pattern  *regexp.Regexp
	synonyms map[string]string
	codes    []string
}

// NewResolver builds a case-insensitive resolver. The synonyms map is keyed by
// phrase (e.g. "Colorado Trail") with the trail code as value. Every code is
// also a synonym of itself.
func NewResolver(synonyms map[string]string) *Resolver {
	r := &Resolver{synonyms: make(map[string]string)}

	seenCodes := make(map[string]bool)
	for phrase, code := range synonyms {
		r.synonyms[strings.ToLower(phrase)] = code
		r.synonyms[strings.ToLower(code)] = code
		if !seenCodes[code] {
			seenCodes[code] = true
			r.codes = append(r.codes, code)
		}
	}
	sort.Strings(r.codes)

	phrases := make([]string, 0, len(r.synonyms))
	for phrase := range r.synonyms {
		phrases = append(phrases, phrase)
	}
	// Longer phrases first so "pacific crest trail" wins over shorter overlaps
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})

	quoted := make([]string, len(phrases))
	for i, phrase := range phrases {
		quoted[i] = regexp.QuoteMeta(phrase)
	}
	if len(quoted) > 0 {
		r.pattern = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	}
	return r
}

// Resolve returns the trail code for the leftmost synonym found in text
func (r *Resolver) Resolve(text string) (string, bool) {
	if r.pattern == nil {
		return "", false
	}
	match := r.pattern.FindString(text)
	if match == "" {
		return "", false
	}
	code, ok := r.synonyms[strings.ToLower(match)]
	return code, ok
}

// Codes returns every resolvable trail code, sorted
func (r *Resolver) Codes() []string {
	return append([]string(nil), r.codes...)
}
