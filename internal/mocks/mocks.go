// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"context"

	"tube-bite/internal/types"

	"github.com/stretchr/testify/mock"
)

// MockTranscriber is a mock implementation of types.Transcriber
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioFile string) ([]types.TranscriptSegment, error) {
	args := m.Called(ctx, audioFile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TranscriptSegment), args.Error(1)
}

// MockChatCompleter is a mock implementation of types.ChatCompleter
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) ChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	args := m.Called(ctx, model, prompt)
	return args.String(0), args.Error(1)
}

// MockAssetStore is a mock implementation of types.AssetStore
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Put(ctx context.Context, localPath, remoteName string) (string, error) {
	args := m.Called(ctx, localPath, remoteName)
	return args.String(0), args.Error(1)
}

func (m *MockAssetStore) Remove(ctx context.Context, remoteName string) error {
	args := m.Called(ctx, remoteName)
	return args.Error(0)
}
