package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessageShort(t *testing.T) {
	parts := SplitMessage("hello", 4096)
	assert.Equal(t, []string{"hello"}, parts)
}

func TestSplitMessagePrefersNewlines(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("• 10 монет — свободна\n")
	}
	text := sb.String()

	parts := SplitMessage(text, 500)
	require.Greater(t, len(parts), 1)

	var total int
	for _, p := range parts {
		assert.LessOrEqual(t, len([]rune(p)), 500)
		total += len(p)
	}
	assert.Equal(t, len(text), total)
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `ivan\_the\_great`, EscapeMarkdown("ivan_the_great"))
	assert.Equal(t, "\\*bold\\* \\[x\\] \\`code\\`", EscapeMarkdown("*bold* [x] `code`"))
	assert.Equal(t, "plain name", EscapeMarkdown("plain name"))
}
