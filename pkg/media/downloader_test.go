package media

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudioPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "audio", "100.mp3"), AudioPath(filepath.Join("out", "audio"), "100"))
}

func TestNewYTDLPDefaults(t *testing.T) {
	d := NewYTDLP("", "audio", 0)
	assert.Equal(t, "yt-dlp", d.Binary)
	assert.Nil(t, d.Limiter)

	d = NewYTDLP("/opt/yt-dlp", "audio", 30)
	assert.Equal(t, "/opt/yt-dlp", d.Binary)
	assert.NotNil(t, d.Limiter)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "ERROR: timeout", firstLine("ERROR: timeout\nmore context\n"))
	assert.Equal(t, "one", firstLine("  one  "))
	assert.Equal(t, "", firstLine("\n\n"))
}
