package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{value: "action", want: "Action"},
		{value: "sci-fi", want: "Sci-Fi"},
		{value: "slice of life", want: "Slice Of Life"},
		{value: "  padded   words  ", want: "Padded Words"},
		{value: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Capitalize(tt.value), tt.value)
	}
}

func TestReverseNameOrder(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{value: "Yamada, Taro", want: "Taro Yamada"},
		{value: "Yamada Taro", want: "Taro Yamada"},
		{value: "Madonna", want: "Madonna"},
		{value: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReverseNameOrder(tt.value), tt.value)
	}
}

func TestCleanTextQuotes(t *testing.T) {
	got := CleanText("He said “hello” and she said ‘hi’… — done")
	assert.NotContains(t, got, "“")
	assert.NotContains(t, got, "”")
	assert.NotContains(t, got, "…")
	assert.Contains(t, got, `"hello"`)
}

func TestCleanTextStripsHTML(t *testing.T) {
	got := CleanText("<p>First line<br/>Second &amp; last</p>")
	assert.Equal(t, "First line\nSecond & last", got)
}

func TestCleanTextAniDBLinks(t *testing.T) {
	got := CleanText("Based on https://anidb.net/ch12345 [Taro Yamada] and friends.")
	assert.Equal(t, "Based on Taro Yamada and friends.", got)
}

func TestCleanTextDropsTrailerLines(t *testing.T) {
	input := "An actual plot line.\nSource: Wikipedia\nNote: season two pending\n* another plot line *"
	got := CleanText(input)
	assert.Equal(t, "An actual plot line.\nanother plot line", got)
}

func TestCleanTextSqueezesSpaces(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("a  b   c"))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain", StripHTML("plain"))
	assert.Equal(t, "a\nb", StripHTML("a<br>b"))
	assert.Equal(t, "bold text", StripHTML("<b>bold</b> text"))
}

func TestCollectStaff(t *testing.T) {
	staff := map[string][]string{
		"Direction":          {"Taro Yamada"},
		"Chief Direction":    {"Hanako Suzuki", "Taro Yamada"},
		"Music":              {"Yoko Kanno"},
		"Original Work":      {"Somebody Else"},
		"Series Composition": {"Keiko Nobumoto"},
	}

	assert.Equal(t, []string{"Hanako Suzuki", "Taro Yamada"}, CollectStaff(staff, "direction", "director"))
	assert.Equal(t, []string{"Yoko Kanno"}, CollectStaff(staff, "music"))
	assert.Equal(t, []string{"Keiko Nobumoto"}, CollectStaff(staff, "composition"))
	assert.Nil(t, CollectStaff(staff, "photography"))
}
