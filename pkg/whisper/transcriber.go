// Package whisper transcribes audio files through a faster-whisper
// compatible CLI.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Result is the transcript of one audio file.
type Result struct {
	Text         string
	AudioSeconds float64
}

// Transcriber converts one audio file into text plus the source duration.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// CLI shells out to a faster-whisper CLI (whisper-ctranslate2 by default)
// and reads the JSON transcript it writes next to the audio file.
type CLI struct {
	Binary   string // defaults to "whisper-ctranslate2"
	Model    string // tiny, small, medium, large-v3
	Language string // e.g. "de"
	WorkDir  string // where the CLI drops its JSON output

	// Device forces "cuda" or "cpu"; empty means autodetect.
	Device string
}

// NewCLI constructs a transcriber for the given model and language,
// writing intermediate output into workDir.
func NewCLI(binary, model, language, workDir string) *CLI {
	if binary == "" {
		binary = "whisper-ctranslate2"
	}
	return &CLI{Binary: binary, Model: model, Language: language, WorkDir: workDir}
}

// transcriptFile mirrors the JSON document the whisper CLI emits.
type transcriptFile struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe runs the whisper CLI on one file. VAD filtering and beam size
// match what worked best for spoken course material.
func (c *CLI) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	device := c.Device
	if device == "" {
		device, _ = DetectDevice()
	}
	computeType := "int8"
	if device == "cuda" {
		computeType = "float16"
	}

	if err := os.MkdirAll(c.WorkDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "whisper: create work dir")
	}

	args := []string{
		audioPath,
		"--model", c.Model,
		"--language", c.Language,
		"--device", device,
		"--compute_type", computeType,
		"--beam_size", "5",
		"--vad_filter", "True",
		"--output_format", "json",
		"--output_dir", c.WorkDir,
	}

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return nil, eris.Errorf("whisper: %s", msg)
		}
		return nil, eris.Wrap(err, "whisper: run")
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	outPath := filepath.Join(c.WorkDir, stem+".json")
	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, eris.Wrap(err, "whisper: read transcript")
	}

	var doc transcriptFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "whisper: parse transcript")
	}
	return doc.result(), nil
}

// result flattens the CLI document into a Result. Some CLI versions omit
// the top-level text or duration, so both fall back to the segments.
func (d *transcriptFile) result() *Result {
	res := &Result{Text: strings.TrimSpace(d.Text), AudioSeconds: d.Duration}

	if res.Text == "" {
		parts := make([]string, 0, len(d.Segments))
		for _, seg := range d.Segments {
			if t := strings.TrimSpace(seg.Text); t != "" {
				parts = append(parts, t)
			}
		}
		res.Text = strings.Join(parts, " ")
	}
	if res.AudioSeconds == 0 && len(d.Segments) > 0 {
		res.AudioSeconds = d.Segments[len(d.Segments)-1].End
	}
	return res
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
