package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/prasetyadi/meeting-summarizer/internal/summarizer"
)

// MockTranscriber is a mock implementation of transcriber.Transcriber.
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error) {
	args := m.Called(ctx, audio, filename, language)
	return args.String(0), args.Error(1)
}

func (m *MockTranscriber) CheckHealth(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// MockSummarizer is a mock implementation of summarizer.Summarizer.
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) GenerateInitial(ctx context.Context, transcript string) (string, error) {
	args := m.Called(ctx, transcript)
	return args.String(0), args.Error(1)
}

func (m *MockSummarizer) Converse(ctx context.Context, req summarizer.Request) (summarizer.Reply, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(summarizer.Reply), args.Error(1)
}
