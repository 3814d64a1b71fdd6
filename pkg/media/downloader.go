// Package media downloads the audio track of remote videos via yt-dlp.
package media

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Downloader fetches the audio track for one video and returns the artifact
// path. Implementations report failure through the error; callers verify
// the artifact on disk independently.
type Downloader interface {
	Download(ctx context.Context, key, url string) (string, error)
}

// YTDLP shells out to the yt-dlp binary, extracting a 128K mp3 per video.
type YTDLP struct {
	Binary   string // defaults to "yt-dlp"
	AudioDir string

	// Limiter throttles download starts; nil disables throttling.
	Limiter *rate.Limiter
}

// NewYTDLP constructs a downloader writing into audioDir. perMinute > 0
// enables a politeness limit on download starts.
func NewYTDLP(binary, audioDir string, perMinute int) *YTDLP {
	if binary == "" {
		binary = "yt-dlp"
	}
	d := &YTDLP{Binary: binary, AudioDir: audioDir}
	if perMinute > 0 {
		d.Limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
	}
	return d
}

// AudioPath returns the artifact path for a video key inside dir.
func AudioPath(dir, key string) string {
	return filepath.Join(dir, key+".mp3")
}

// Download runs yt-dlp for one video. The returned path is where the mp3 is
// expected; yt-dlp's own postprocessor produces the final file, so callers
// must stat it rather than trust the return value.
func (d *YTDLP) Download(ctx context.Context, key, url string) (string, error) {
	if d.Limiter != nil {
		if err := d.Limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "media: rate limit wait")
		}
	}
	if err := os.MkdirAll(d.AudioDir, 0o755); err != nil {
		return "", eris.Wrap(err, "media: create audio dir")
	}

	target := AudioPath(d.AudioDir, key)
	args := []string{
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "128K",
		"--output", filepath.Join(d.AudioDir, key+".%(ext)s"),
		"--quiet",
		"--no-warnings",
		"--no-progress",
		url,
	}

	cmd := exec.CommandContext(ctx, d.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := firstLine(stderr.String()); msg != "" {
			return "", eris.Errorf("media: yt-dlp: %s", msg)
		}
		return "", eris.Wrap(err, "media: yt-dlp")
	}
	return target, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
