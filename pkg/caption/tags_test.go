package caption

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxTags int
		want    []string
	}{
		{
			name:    "dedupes preserving first-seen order",
			text:    "Great day! #Property #Investment #Property",
			maxTags: 10,
			want:    []string{"Property", "Investment"},
		},
		{
			name:    "strips trailing punctuation",
			text:    "Check this out #realestate! And also #sydney, right?",
			maxTags: 10,
			want:    []string{"realestate", "sydney"},
		},
		{
			name:    "caps at maxTags",
			text:    "#one #two #three #four",
			maxTags: 2,
			want:    []string{"one", "two"},
		},
		{
			name:    "case sensitive dedupe keeps both spellings",
			text:    "#Home #home",
			maxTags: 10,
			want:    []string{"Home", "home"},
		},
		{
			name:    "no hashtags",
			text:    "nothing to see here",
			maxTags: 10,
			want:    nil,
		},
		{
			name:    "bare hash is ignored",
			text:    "# #!! #ok",
			maxTags: 10,
			want:    []string{"ok"},
		},
		{
			name:    "zero maxTags returns nothing",
			text:    "#one",
			maxTags: 0,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractTags(tt.text, tt.maxTags))
		})
	}
}
