package todo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	record := Record{
		ID:        "a1b2c3d4",
		Title:     "Fix flaky watcher test",
		Tags:      []string{"tests", "ci"},
		Status:    "open",
		CreatedAt: "2026-08-01T10:00:00Z",
		Body:      "Seen twice on main.\n",
	}

	got := Serialize(record)

	want := `---
id: a1b2c3d4
title: "Fix flaky watcher test"
tags:
  - "tests"
  - "ci"
status: "open"
created_at: 2026-08-01T10:00:00Z
---
Seen twice on main.
`
	assert.Equal(t, want, got)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Record
	}{
		{
			name: "block tag list",
			content: `---
id: abc123
title: "My record"
tags:
  - "one"
  - "two"
status: "open"
created_at: 2026-08-01T10:00:00Z
---
body text
`,
			want: Record{
				ID:        "abc123",
				Title:     "My record",
				Tags:      []string{"one", "two"},
				Status:    "open",
				CreatedAt: "2026-08-01T10:00:00Z",
				Body:      "body text\n",
			},
		},
		{
			name: "inline tag list",
			content: `---
id: abc123
title: inline
tags: [one, two]
status: open
created_at: 2026-08-01T10:00:00Z
---
`,
			want: Record{
				ID:        "abc123",
				Title:     "inline",
				Tags:      []string{"one", "two"},
				Status:    "open",
				CreatedAt: "2026-08-01T10:00:00Z",
			},
		},
		{
			name:    "no front matter is all body",
			content: "# Just notes\nno metadata here\n",
			want:    Record{Body: "# Just notes\nno metadata here\n"},
		},
		{
			name: "malformed front matter is all body",
			content: `---
: : : not yaml [
---
rest
`,
			want: Record{Body: "---\n: : : not yaml [\n---\nrest\n"},
		},
		{
			name: "leading blank lines in body are trimmed",
			content: `---
id: x1
title: "t"
tags: []
status: "open"
created_at: 2026-08-01T10:00:00Z
---



actual body
`,
			want: Record{
				ID:        "x1",
				Title:     "t",
				Status:    "open",
				CreatedAt: "2026-08-01T10:00:00Z",
				Body:      "actual body\n",
			},
		},
		{
			name:    "empty content",
			content: "",
			want:    Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.content))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	records := []Record{
		{
			ID:        "deadbeef",
			Title:     "plain title",
			Tags:      []string{"a", "b"},
			Status:    "open",
			CreatedAt: "2026-08-27T09:30:00Z",
			Body:      "line one\n\nline two\n",
		},
		{
			ID:        "00ff00ff",
			Title:     `colons: and "quotes" and back\slashes`,
			Tags:      nil,
			Status:    "in-progress",
			CreatedAt: "2026-01-02T03:04:05Z",
			Body:      "",
		},
		{
			ID:        "12345678",
			Title:     "done already",
			Tags:      []string{"x"},
			Status:    "Closed",
			CreatedAt: "2025-12-31T23:59:59Z",
			Body:      "wrapped up\n",
		},
	}

	for _, r := range records {
		t.Run(r.ID, func(t *testing.T) {
			got := Parse(Serialize(r))
			assert.Equal(t, r, got)
		})
	}
}

func TestParse_EmptyTagListIsNil(t *testing.T) {
	r := Record{
		ID:        "beefcafe",
		Title:     "no tags",
		Status:    "open",
		CreatedAt: "2026-08-01T10:00:00Z",
	}

	got := Parse(Serialize(r))
	assert.Nil(t, got.Tags)
	assert.Equal(t, r, got)

	assert.Nil(t, ParseHeader(Serialize(r)).Tags)
}

func TestParseHeader_SkipsBody(t *testing.T) {
	content := Serialize(Record{
		ID:        "abcd1234",
		Title:     "header only",
		Status:    "open",
		CreatedAt: "2026-08-01T10:00:00Z",
		Body:      strings.Repeat("big body\n", 100),
	})

	got := ParseHeader(content)
	require.Equal(t, "abcd1234", got.ID)
	assert.Empty(t, got.Body)
}

func TestNormalizeBody(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"\n\n\n", ""},
		{"x", "x\n"},
		{"x\n", "x\n"},
		{"\n\nx\n\n\n", "x\n"},
		{"x  \t\n", "x\n"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBody(tt.in), "NormalizeBody(%q)", tt.in)
	}
}

func TestIsClosed(t *testing.T) {
	assert.True(t, IsClosed("closed"))
	assert.True(t, IsClosed("Done"))
	assert.True(t, IsClosed(" CLOSED "))
	assert.False(t, IsClosed("open"))
	assert.False(t, IsClosed("blocked"))
	assert.False(t, IsClosed(""))
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "abc123", NormalizeID("abc123"))
	assert.Equal(t, "abc123", NormalizeID("#abc123"))
	assert.Equal(t, "abc123", NormalizeID("todo-abc123"))
	assert.Equal(t, "abc123", NormalizeID("#TODO-abc123"))
	assert.Equal(t, "abc123", NormalizeID("  abc123  "))
}
