package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kurswerk/transkriptor/pkg/whisper"
)

// --- Downloader Mock ---

type mockDownloader struct {
	mock.Mock
}

func (m *mockDownloader) Download(ctx context.Context, key, url string) (string, error) {
	args := m.Called(ctx, key, url)
	return args.String(0), args.Error(1)
}

// --- Transcriber Mock ---

type mockTranscriber struct {
	mock.Mock
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string) (*whisper.Result, error) {
	args := m.Called(ctx, audioPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*whisper.Result), args.Error(1)
}
