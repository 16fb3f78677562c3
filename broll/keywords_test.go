package broll

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractKeywords(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		style string
		want  []string
	}{
		{
			name: "filters short words and stopwords",
			text: "The ocean waves crash against this rocky shore",
			want: []string{"ocean", "waves", "crash", "against", "rocky", "shore"},
		},
		{
			name:  "style prepended",
			text:  "mountain sunrise",
			style: "cinematic",
			want:  []string{"cinematic", "mountain", "sunrise"},
		},
		{
			name: "deduplicates keeping first occurrence",
			text: "forest forest river FOREST river",
			want: []string{"forest", "river"},
		},
		{
			name: "empty text falls back",
			text: "a an of",
			want: []string{"video", "background"},
		},
		{
			name: "cyrillic",
			text: "Горы покрыты снегом",
			want: []string{"горы", "покрыты", "снегом"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractKeywords(tc.text, tc.style)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ExtractKeywords = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtractKeywordsCap(t *testing.T) {
	words := []string{
		"ocean", "mountain", "forest", "river", "desert", "glacier",
		"volcano", "canyon", "valley", "meadow", "tundra", "prairie",
	}
	got := ExtractKeywords(strings.Join(words, " "), "")
	if len(got) != 10 {
		t.Fatalf("got %d keywords, want cap of 10", len(got))
	}
	if !reflect.DeepEqual(got, words[:10]) {
		t.Errorf("keywords = %v, want first ten in order", got)
	}
}

func TestSegmentKeywords(t *testing.T) {
	got := SegmentKeywords("The economy is growing because technology investments pay off")
	if len(got) == 0 {
		t.Fatal("no keywords extracted")
	}
	// Longest (most specific) words come first.
	for i := 1; i < len(got); i++ {
		if utf8.RuneCountInString(got[i]) > utf8.RuneCountInString(got[i-1]) {
			t.Errorf("keywords not sorted by length: %v", got)
			break
		}
	}
	for _, kw := range got {
		if _, stop := segmentStopwords[kw]; stop {
			t.Errorf("stopword %q survived extraction", kw)
		}
	}
	if got[0] != "investments" {
		t.Errorf("first keyword = %q, want investments (longest)", got[0])
	}
}

func TestSegmentKeywordsEmpty(t *testing.T) {
	if got := SegmentKeywords("is a the of"); len(got) != 0 {
		t.Errorf("stopword-only text produced %v", got)
	}
}
