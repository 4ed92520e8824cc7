package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeSlug(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		existing []string
		want     string
	}{
		{name: "simple title", title: "Chicken Rice", want: "chicken-rice"},
		{name: "punctuation becomes hyphens", title: "Mom's Best Pasta!", want: "mom-s-best-pasta"},
		{name: "first collision appends -1", title: "Chicken Rice", existing: []string{"chicken-rice"}, want: "chicken-rice-1"},
		{name: "suffix skips taken numbers", title: "Chicken Rice", existing: []string{"chicken-rice", "chicken-rice-1", "chicken-rice-2"}, want: "chicken-rice-3"},
		{name: "empty title falls back", title: "!!!", want: "recipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taken := make(map[string]bool, len(tt.existing))
			for _, s := range tt.existing {
				taken[s] = true
			}
			got := MakeSlug(tt.title, func(slug string) bool { return taken[slug] })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMakeSlugNilExists(t *testing.T) {
	assert.Equal(t, "pad-thai", MakeSlug("Pad Thai", nil))
}
