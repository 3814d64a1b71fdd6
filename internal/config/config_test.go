package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Master", cfg.Worklist.Sheet)
	assert.Equal(t, 1, cfg.Worklist.SkipRows)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "yt-dlp", cfg.Download.Binary)
	assert.Equal(t, 1, cfg.Download.Workers)
	assert.Equal(t, "whisper-ctranslate2", cfg.Transcribe.Binary)
	assert.Equal(t, "small", cfg.Transcribe.Model)
	assert.Equal(t, "de", cfg.Transcribe.Language)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRANSKRIPTOR_TRANSCRIBE_MODEL", "large-v3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "large-v3", cfg.Transcribe.Model)
}

func TestLoadRejectsInvalidLanguage(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRANSKRIPTOR_TRANSCRIBE_LANGUAGE", "!!")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "language")
}

func TestOutputPaths(t *testing.T) {
	out := OutputConfig{Dir: "work"}
	assert.Equal(t, filepath.Join("work", "audio"), out.AudioDir())
	assert.Equal(t, filepath.Join("work", "progress.json"), out.CheckpointPath())
	assert.Equal(t, filepath.Join("work", "ergebnisse.xlsx"), out.ExcelPath())
	assert.Equal(t, filepath.Join("work", "ergebnisse.csv"), out.CSVPath())
	assert.Equal(t, filepath.Join("work", "runs.db"), out.HistoryPath())
}
