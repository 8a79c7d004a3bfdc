package parser

import (
	"testing"

	"resume-parser-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructLines(t *testing.T) {
	fragments := []types.TextFragment{
		{Text: "Jane", BaselineY: 700, FontSize: 20},
		{Text: "Doe", BaselineY: 701.4, FontSize: 18},
		{Text: "Senior Engineer", BaselineY: 680, FontSize: 12},
		{Text: "   ", BaselineY: 650, FontSize: 10},
		{Text: "jane@x.com", BaselineY: 679, FontSize: 10},
	}

	lines := ReconstructLines(fragments)
	require.Len(t, lines, 2, "空白片段应被丢弃，抖动在容差内的片段应归为同一行")
	assert.Equal(t, "Jane Doe", lines[0].Text)
	assert.Equal(t, 20.0, lines[0].MaxFontSize)
	assert.Equal(t, "Senior Engineer jane@x.com", lines[1].Text)
	assert.Equal(t, 12.0, lines[1].MaxFontSize)
}

func TestReconstructLines_Tolerance(t *testing.T) {
	t.Run("超出容差另起一行", func(t *testing.T) {
		lines := ReconstructLines([]types.TextFragment{
			{Text: "a", BaselineY: 100},
			{Text: "b", BaselineY: 103},
		})
		require.Len(t, lines, 2)
		assert.Equal(t, "b", lines[0].Text, "纵坐标大的在上")
		assert.Equal(t, "a", lines[1].Text)
	})

	t.Run("距离相同时归入先建立的行", func(t *testing.T) {
		lines := ReconstructLines([]types.TextFragment{
			{Text: "low", BaselineY: 100},
			{Text: "high", BaselineY: 104},
			{Text: "mid", BaselineY: 102},
		})
		require.Len(t, lines, 2)
		assert.Equal(t, "high", lines[0].Text)
		assert.Equal(t, "low mid", lines[1].Text)
	})

	t.Run("空输入", func(t *testing.T) {
		assert.Empty(t, ReconstructLines(nil))
	})
}

func TestJoinPages(t *testing.T) {
	pages := [][]types.TextFragment{
		{
			{Text: "Jane Doe", BaselineY: 700, FontSize: 20},
			{Text: "Senior Engineer", BaselineY: 680, FontSize: 12},
		},
		{
			{Text: "Experience", BaselineY: 500, FontSize: 12},
		},
	}
	assert.Equal(t, "Jane Doe\nSenior Engineer\nExperience\n", JoinPages(pages))
}

func TestExtractNameHint(t *testing.T) {
	tests := []struct {
		name  string
		pages [][]types.TextFragment
		want  string
	}{
		{
			name: "取字号最大的行",
			pages: [][]types.TextFragment{{
				{Text: "Backend Engineer", BaselineY: 720, FontSize: 14},
				{Text: "Jane Doe", BaselineY: 700, FontSize: 26},
			}},
			want: "Jane Doe",
		},
		{
			name: "跳过包含邮箱或章节词的行",
			pages: [][]types.TextFragment{{
				{Text: "john.doe@example.com", BaselineY: 700, FontSize: 30},
				{Text: "Professional Summary", BaselineY: 690, FontSize: 28},
				{Text: "John Doe", BaselineY: 650, FontSize: 20},
			}},
			want: "John Doe",
		},
		{
			name: "只看第一页",
			pages: [][]types.TextFragment{
				{{Text: "a b c d e f g", BaselineY: 700, FontSize: 10}},
				{{Text: "Second Page", BaselineY: 700, FontSize: 40}},
			},
			want: "",
		},
		{
			name:  "没有页面",
			pages: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractNameHint(tt.pages))
		})
	}
}

func TestNormalizeLines(t *testing.T) {
	text := "  Skills  \r• Go\t and   Python\n\n▪ Docker ¦ Kubernetes\fA|B"
	assert.Equal(t, []string{
		"Skills",
		"- Go and Python",
		"- Docker | Kubernetes",
		"A | B",
	}, NormalizeLines(text))
}
