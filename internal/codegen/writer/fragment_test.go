package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFragment_String(t *testing.T) {
	tests := []struct {
		name     string
		fragment *Fragment
		expected string
	}{
		{
			name:     "leaf",
			fragment: Text("a", "alpha"),
			expected: "alpha",
		},
		{
			name:     "empty join",
			fragment: Join("list", "\n"),
			expected: "",
		},
		{
			name:     "separator between children only",
			fragment: Join("list", ", ", Text("", "a"), Text("", "b"), Text("", "c")),
			expected: "a, b, c",
		},
		{
			name: "own text before children",
			fragment: &Fragment{
				Text:     "head:",
				Sep:      "|",
				Children: []*Fragment{Text("", "x"), Text("", "y")},
			},
			expected: "head:x|y",
		},
		{
			name: "nested",
			fragment: Join("module", "",
				Text("header", "# header\n"),
				Join("body", "\n", Text("", "one\n"), Text("", "two\n"))),
			expected: "# header\none\n\ntwo\n",
		},
		{
			name:     "nil child",
			fragment: Join("list", "-", Text("", "a"), nil, Text("", "b")),
			expected: "a--b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fragment.String())
		})
	}
}

func TestFragment_Add(t *testing.T) {
	f := Join("list", ",")
	got := f.Add(Text("", "a")).Add(Text("", "b"), Text("", "c"))

	assert.Same(t, f, got)
	assert.Len(t, f.Children, 3)
	assert.Equal(t, "a,b,c", f.String())
}
