package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{"note", "note"},
		{"note.md", "note"},
		{"/note.md", "note"},
		{"a/b/note.md", "a/b/note"},
		{"a/b/note.md/", "a/b/note"},
		{"", ""},
		{".", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.raw).String())
		})
	}
}

func Test_Key_Parent(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{"a/b/note", "a/b"},
		{"note", ""},
		{"", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.raw).Parent().String())
		})
	}
}

func Test_Key_Base(t *testing.T) {
	assert.Equal(t, "note", New("a/b/note").Base())
	assert.Equal(t, "note", New("note").Base())
}

func Test_Key_Join(t *testing.T) {
	testCases := []struct {
		from string
		rel  string
		want string
	}{
		{"a/b/note", "sibling", "a/b/sibling"},
		{"a/b/note", "../up", "a/up"},
		{"a/b/note", "/root-relative", "root-relative"},
		{"note", "sibling", "sibling"},
		{"a/b/note", "", "a/b/note"},
	}
	for _, tc := range testCases {
		t.Run(tc.from+"+"+tc.rel, func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.from).Join(tc.rel).String())
		})
	}
}

func Test_Key_Child(t *testing.T) {
	testCases := []struct {
		parent string
		rel    string
		want   string
	}{
		{"a/b", "note", "a/b/note"},
		{"", "note", "note"},
		{"journal", "2026-07-30", "journal/2026-07-30"},
	}
	for _, tc := range testCases {
		t.Run(tc.parent+"+"+tc.rel, func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.parent).Child(tc.rel).String())
		})
	}
}

// Child treats its receiver as the directory itself; Join treats the
// receiver as a document and resolves against its parent. The two diverge
// whenever the receiver is already a directory-like key, which is exactly
// why Graph.RandomKey and AttachKey need Child rather than Join.
func Test_Key_Child_vs_Join_divergence(t *testing.T) {
	parent := New("journal")
	assert.Equal(t, "journal/2026-07-30", parent.Child("2026-07-30").String())
	assert.Equal(t, "2026-07-30", parent.Join("2026-07-30").String())
}

func Test_Key_Equal(t *testing.T) {
	assert.True(t, New("a/b").Equal(New("a/b.md")))
	assert.False(t, New("a/b").Equal(New("a/c")))
}

func Test_Key_IsEmpty(t *testing.T) {
	assert.True(t, Empty.IsEmpty())
	assert.True(t, New("").IsEmpty())
	assert.False(t, New("note").IsEmpty())
}

func Test_Key_WithExtension(t *testing.T) {
	assert.Equal(t, "note.md", New("note").WithExtension(".md"))
	assert.Equal(t, "note", New("note").WithExtension(""))
}

func Test_Key_Less(t *testing.T) {
	assert.True(t, New("a").Less(New("b")))
	assert.False(t, New("b").Less(New("a")))
}
