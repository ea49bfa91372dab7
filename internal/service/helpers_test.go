package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/pkg/logger"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/contract"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/unitofwork"
	"github.com/YasasBanuka/document-insight-backend/pkg/llm"
)

// nopLogger silences service logging in tests.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

var _ logger.ILogger = nopLogger{}

// fakeEmbedder returns a fixed vector per call and can be armed to fail
// on the Nth call (1-based).
type fakeEmbedder struct {
	vector []float32
	calls  int
	failAt int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		return nil, errors.New("embedding backend unavailable")
	}
	if f.vector != nil {
		return f.vector, nil
	}
	return []float32{1, 0, 0}, nil
}

// fakeLLM records the prompt it was given and replies with a canned
// answer or fragment sequence.
type fakeLLM struct {
	answer      string
	fragments   []string
	lastPrompt  string
	generateErr error
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.answer, nil
}

func (f *fakeLLM) GenerateStream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan string, error) {
	f.lastPrompt = prompt
	out := make(chan string)
	go func() {
		defer close(out)
		for _, fragment := range f.fragments {
			select {
			case out <- fragment:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// fakeExtractor bypasses real file decoding.
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, path string, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// failingDocFactory wraps a repository factory so document record
// creation fails, for exercising the compensating file delete.
type failingDocFactory struct {
	inner unitofwork.RepositoryFactory
}

func (f *failingDocFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &failingDocUnit{UnitOfWork: f.inner.NewUnitOfWork(ctx)}
}

type failingDocUnit struct {
	unitofwork.UnitOfWork
}

func (u *failingDocUnit) DocumentRepository() contract.DocumentRepository {
	return &failingDocRepo{DocumentRepository: u.UnitOfWork.DocumentRepository()}
}

type failingDocRepo struct {
	contract.DocumentRepository
}

func (r *failingDocRepo) Create(ctx context.Context, doc *entity.Document) error {
	return fmt.Errorf("insert rejected")
}
