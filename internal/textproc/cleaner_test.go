package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "plain text unchanged",
			input: "マーケティングの基礎を学びます",
			want:  "マーケティングの基礎を学びます",
		},
		{
			name:  "bracket tags removed",
			input: "[zmH08]本文です[びpho]",
			want:  "本文です",
		},
		{
			name:  "brace tags removed",
			input: "{center}タイトル{bold}",
			want:  "タイトル",
		},
		{
			name:  "html tags stripped",
			input: "<div>本文<br/>続き</div>",
			want:  "本文続き",
		},
		{
			name:  "style block removed with content",
			input: "<style type=\"text/css\">.a { color: red; }</style>本文",
			want:  "本文",
		},
		{
			name:  "script block removed with content",
			input: "before<script>alert('x')</script>after",
			want:  "beforeafter",
		},
		{
			name:  "image url replaced with placeholder",
			input: "図: https://firebasestorage.googleapis.com/v0/b/app/o/img.png?alt=media",
			want:  "図: [画像]",
		},
		{
			name:  "img placeholder removed",
			input: "本文 --- img 続き",
			want:  "本文 続き",
		},
		{
			name:  "full-width space normalized",
			input: "顧客　価値",
			want:  "顧客 価値",
		},
		{
			name:  "repeated spaces collapsed",
			input: "a    b\t\tc",
			want:  "a b c",
		},
		{
			name:  "excess newlines collapsed to two",
			input: "one\n\n\n\n\ntwo",
			want:  "one\n\ntwo",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  本文  \n",
			want:  "本文",
		},
		{
			name:  "zero-width characters removed",
			input: "a​b\uFEFFc",
			want:  "abc",
		},
		{
			name:  "control characters removed but newline kept",
			input: "a\x01b\nc",
			want:  "ab\nc",
		},
		{
			name:  "tag removal precedes whitespace collapse",
			input: "本文 [tag1] [tag2] 続き",
			want:  "本文 続き",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"[tag]<b>本文</b>  with\n\n\n\nspace　and more",
		"https://firebasestorage.googleapis.com/x --- img",
		"plain text",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestNormalizeWithOptions(t *testing.T) {
	input := "[tag] <b>本文</b>  extra"

	opts := DefaultOptions()
	opts.RemoveCustomTags = false
	got := NormalizeWith(input, opts)
	assert.Contains(t, got, "[tag]")
	assert.NotContains(t, got, "<b>")

	opts = DefaultOptions()
	opts.RemoveHTMLTags = false
	got = NormalizeWith(input, opts)
	assert.Contains(t, got, "<b>")
	assert.NotContains(t, got, "[tag]")

	opts = DefaultOptions()
	opts.NormalizeWhitespace = false
	got = NormalizeWith(input, opts)
	assert.Contains(t, got, "  ")
}

func TestProcessByType(t *testing.T) {
	t.Run("survey appends choices", func(t *testing.T) {
		got := ProcessByType("どれを選びますか", "survey", "A. はい\nB. いいえ")
		assert.Equal(t, "どれを選びますか\n\n選択肢:\nA. はい\nB. いいえ", got)
	})

	t.Run("multiple_choice appends choices", func(t *testing.T) {
		got := ProcessByType("設問", "multiple_choice", "1\n2")
		assert.Contains(t, got, "選択肢:")
	})

	t.Run("survey without choices passes through", func(t *testing.T) {
		got := ProcessByType("設問のみ", "survey", "")
		assert.Equal(t, "設問のみ", got)
	})

	t.Run("narrative types pass through", func(t *testing.T) {
		for _, typ := range []string{"Lecture", "description", "text", "article"} {
			assert.Equal(t, "本文", ProcessByType("本文", typ, "ignored"))
		}
	})

	t.Run("unknown type passes through", func(t *testing.T) {
		assert.Equal(t, "本文", ProcessByType("本文", "mystery", "ignored"))
	})

	t.Run("content is normalized first", func(t *testing.T) {
		assert.Equal(t, "本文", ProcessByType("[tag] 本文 ", "text", ""))
	})
}

func TestIsValidContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \n ", false},
		{"too short", "短い", false},
		{"symbols only", "!!??--==++**//||", false},
		{"valid japanese", "マーケティングとは何かを学ぶ", true},
		{"valid english", "marketing fundamentals", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidContent(tt.input, MinContentLength))
		})
	}
}
