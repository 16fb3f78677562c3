// Package broll matches transcript text to stock footage: keyword
// extraction, query caching, clip scoring, and coverage reporting.
package broll

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var wordRe = regexp.MustCompile(`[a-zA-Zа-яА-ЯёЁ]+`)

// stopwords filtered from script keyword extraction, English and Russian.
var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "been": {},
	"were": {}, "they": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"there": {}, "their": {}, "about": {}, "which": {}, "when": {}, "what": {},
	"your": {}, "more": {}, "some": {}, "into": {}, "only": {}, "other": {},
	"than": {}, "then": {}, "very": {}, "just": {}, "also": {}, "back": {},
	"after": {},
	"это": {}, "этот": {}, "эта": {}, "быть": {}, "было": {}, "были": {},
	"есть": {}, "если": {}, "для": {}, "как": {}, "так": {}, "что": {},
	"чтобы": {}, "при": {}, "или": {}, "все": {}, "всё": {}, "они": {},
	"она": {}, "его": {}, "него": {}, "неё": {}, "них": {}, "ним": {},
	"ней": {}, "нем": {}, "которые": {}, "который": {}, "которая": {},
	"которое": {}, "между": {}, "через": {},
}

// ExtractKeywords pulls search keywords from script text: words of four or
// more letters, lowercased, stopwords removed, first occurrence order kept,
// capped at ten. A style hint is prepended when given; an empty result falls
// back to generic queries.
func ExtractKeywords(text, style string) []string {
	var keywords []string
	seen := make(map[string]struct{})

	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(w) < 4 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
		if len(keywords) == 10 {
			break
		}
	}

	if style != "" {
		keywords = append([]string{style}, keywords...)
	}
	if len(keywords) == 0 {
		return []string{"video", "background"}
	}
	return keywords
}

// segmentStopwords is the broader stop list used when keywording individual
// transcript segments for footage search.
var segmentStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "shall": {}, "can": {},
	"need": {}, "to": {}, "of": {}, "in": {}, "for": {}, "on": {}, "with": {},
	"at": {}, "by": {}, "from": {}, "as": {}, "into": {}, "through": {},
	"during": {}, "before": {}, "after": {}, "above": {}, "below": {},
	"between": {}, "under": {}, "again": {}, "further": {}, "then": {},
	"once": {}, "here": {}, "there": {}, "when": {}, "where": {}, "why": {},
	"how": {}, "all": {}, "each": {}, "few": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "no": {}, "nor": {}, "not": {},
	"only": {}, "own": {}, "same": {}, "so": {}, "than": {}, "too": {},
	"very": {}, "just": {}, "and": {}, "but": {}, "if": {}, "or": {},
	"because": {}, "until": {}, "while": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "i": {}, "you": {}, "he": {}, "she": {},
	"it": {}, "we": {}, "they": {}, "what": {}, "which": {}, "who": {},
	"whom": {}, "its": {}, "his": {}, "her": {}, "their": {}, "my": {},
	"your": {},
	"и": {}, "в": {}, "на": {}, "с": {}, "к": {}, "у": {}, "о": {}, "а": {},
	"но": {}, "да": {}, "не": {}, "что": {}, "это": {}, "как": {}, "он": {},
	"она": {}, "они": {}, "мы": {}, "вы": {}, "я": {}, "его": {}, "её": {},
	"их": {}, "мой": {}, "твой": {}, "наш": {}, "ваш": {}, "свой": {},
	"который": {}, "какой": {}, "такой": {}, "этот": {}, "тот": {},
	"весь": {}, "сам": {}, "один": {}, "другой": {}, "всё": {}, "так": {},
	"же": {}, "ещё": {}, "уже": {}, "ли": {}, "бы": {}, "для": {}, "от": {},
	"до": {}, "по": {}, "за": {}, "из": {}, "над": {}, "под": {},
}

// SegmentKeywords extracts keywords from one transcript segment, favoring
// longer (more specific) words. Returns at most ten.
func SegmentKeywords(text string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(w) < 3 {
			continue
		}
		if _, stop := segmentStopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return utf8.RuneCountInString(keywords[i]) > utf8.RuneCountInString(keywords[j])
	})
	if len(keywords) > 10 {
		keywords = keywords[:10]
	}
	return keywords
}
