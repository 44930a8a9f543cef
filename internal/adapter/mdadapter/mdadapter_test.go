package mdadapter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter(t *testing.T) {
	src := []byte(`---
title: "Release files"
author: "Build team"
files:
  report.pdf: "Quarterly report"
---
# Downloads

Everything published this quarter.
`)

	header, err := NewMDAdapter().Parse(src)
	require.NoError(t, err)

	require.Equal(t, "Release files", header.Title)
	require.Equal(t, "Build team", header.Author)
	require.Equal(t, map[string]string{"report.pdf": "Quarterly report"}, header.Files)
	require.Contains(t, header.ContentHTML, "<h1>Downloads</h1>")
	require.Contains(t, header.ContentHTML, "Everything published this quarter.")
	require.NotContains(t, header.ContentHTML, "title:")
}

func TestParseWithoutFrontmatter(t *testing.T) {
	header, err := NewMDAdapter().Parse([]byte("Just text"))
	require.NoError(t, err)

	require.Empty(t, header.Title)
	require.Nil(t, header.Files)
	require.Equal(t, "<p>Just text</p>\n", header.ContentHTML)
}

func TestParseFileLinks(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "plain",
			src:      "Get [[report.pdf]] now",
			expected: `<p>Get <a class="file-link" href="/?file=report.pdf">report.pdf</a> now</p>`,
		},
		{
			name:     "with description",
			src:      "Get [[report.pdf|the report]] now",
			expected: `<p>Get <a class="file-link" href="/?file=report.pdf">the report</a> now</p>`,
		},
		{
			name:     "spaces and traversal",
			src:      "[[../my file.txt]]",
			expected: `<p><a class="file-link" href="/?file=my+file.txt">../my file.txt</a></p>`,
		},
		{
			name:     "escaped",
			src:      `[[<b>.txt|<i>x</i>]]`,
			expected: `<p><a class="file-link" href="/?file=%3Cb%3E.txt">&lt;i&gt;x&lt;/i&gt;</a></p>`,
		},
		{
			name:     "unclosed",
			src:      "[[report.pdf",
			expected: `<p>[[report.pdf</p>`,
		},
	}

	a := NewMDAdapter()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			header, err := a.Parse([]byte(tc.src))
			require.NoError(t, err)
			require.Equal(t, tc.expected+"\n", header.ContentHTML)
		})
	}
}
