package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zoeklicht/zoeklicht/internal/db"
	"github.com/zoeklicht/zoeklicht/internal/domain"
)

type mockStore struct {
	data map[string][]byte

	getErr error
	setErr error

	setTTL time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.setTTL = ttl
	return m.Set(context.Background(), key, value)
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &mockEmbedder{
		result: domain.EmbeddingResult{
			Embedding:    []float32{0.1, 0.2, 0.3},
			PromptTokens: 7,
			TotalTokens:  7,
		},
	}
	cached := New(inner, newMockStore(), 0, zap.NewNop())

	first, err := cached.Embed(context.Background(), "some page summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalTokens != 7 {
		t.Errorf("expected 7 tokens on miss, got %d", first.TotalTokens)
	}

	second, err := cached.Embed(context.Background(), "some page summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("expected 0 tokens on hit, got %d", second.TotalTokens)
	}
	if len(second.Embedding) != 3 || second.Embedding[1] != 0.2 {
		t.Errorf("unexpected cached embedding: %v", second.Embedding)
	}
}

func TestEmbed_DistinctTextsDistinctKeys(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	cached := New(inner, newMockStore(), 0, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cached.Embed(context.Background(), "second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 inner calls, got %d", inner.calls)
	}
}

func TestEmbed_TTLApplied(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	ms := newMockStore()
	cached := New(inner, ms, 24*time.Hour, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.setTTL != 24*time.Hour {
		t.Errorf("expected 24h TTL, got %v", ms.setTTL)
	}
}

func TestEmbed_StoreErrorFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}, TotalTokens: 3}}
	ms := newMockStore()
	ms.getErr = errors.New("redis down")
	ms.setErr = errors.New("redis down")
	cached := New(inner, ms, 0, zap.NewNop())

	got, err := cached.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalTokens != 3 {
		t.Errorf("expected inner result, got %+v", got)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	wantErr := errors.New("provider unavailable")
	inner := &mockEmbedder{err: wantErr}
	cached := New(inner, newMockStore(), 0, zap.NewNop())

	_, err := cached.Embed(context.Background(), "text")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped inner error, got %v", err)
	}
}

func TestBytesToVector_RejectsBadLength(t *testing.T) {
	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for non-multiple-of-4 data")
	}
}
