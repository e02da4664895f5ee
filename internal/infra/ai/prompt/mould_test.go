package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemPromptNamesBothMarkers(t *testing.T) {
	p := GetSystemPrompt()
	// the classifier keys on these phrases, the instruction has to ask for them
	require.Contains(t, p, "urgent request")
	require.Contains(t, p, "standard request")
	require.Contains(t, p, "no mould was detected")
	require.Contains(t, strings.ToLower(p), "bedroom")
}

func TestUserPrompt(t *testing.T) {
	require.Equal(t, "Is there any mould in this image?", GetUserPrompt())
}
