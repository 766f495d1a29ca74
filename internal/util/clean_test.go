package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTranscript_StripsBOMAndSmartQuotes(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("“fala” do ‘canal’")...)

	out, err := CleanTranscript(raw, "test")
	require.NoError(t, err)
	assert.Equal(t, `"fala" do 'canal'`, out)
}

func TestCleanTranscript_RepairsInvalidUTF8(t *testing.T) {
	raw := []byte{'o', 'i', 0xFF, '!'}

	out, err := CleanTranscript(raw, "test")
	require.NoError(t, err)
	assert.Contains(t, out, "oi")
	assert.Contains(t, out, "�")
}

func TestCleanTranscript_ReplacesC1TypographicChars(t *testing.T) {
	raw := []byte("abc d e")

	out, err := CleanTranscript(raw, "test")
	require.NoError(t, err)
	assert.Equal(t, `a-b--c 'd' "e"`, out)
}

func TestCleanTranscript_TrimsWhitespace(t *testing.T) {
	out, err := CleanTranscript([]byte("  texto \n"), "test")
	require.NoError(t, err)
	assert.Equal(t, "texto", out)
}
