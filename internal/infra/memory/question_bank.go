package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"knowledge-quiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches question lists from a backing store (SQLite, fixtures).
type BankLoader interface {
	QuestionsOfType(ctx context.Context, kind domain.QuestionKind) ([]domain.Question, error)
}

// CachedBank caches per-kind question lists with TTL to avoid repeated
// store reads while a user navigates the menu.
type CachedBank struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[domain.QuestionKind]cachedList
}

type cachedList struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewCachedBank(loader BankLoader, ttl time.Duration) *CachedBank {
	return &CachedBank{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.QuestionKind]cachedList),
	}
}

func (b *CachedBank) QuestionsOfType(ctx context.Context, kind domain.QuestionKind) ([]domain.Question, error) {
	now := b.clock()

	b.mu.RLock()
	if entry, ok := b.cache[kind]; ok && entry.expiresAt.After(now) {
		b.mu.RUnlock()
		return entry.questions, nil
	}
	b.mu.RUnlock()

	result, err, _ := b.sf.Do(string(kind), func() (interface{}, error) {
		now := b.clock()
		b.mu.RLock()
		if entry, ok := b.cache[kind]; ok && entry.expiresAt.After(now) {
			b.mu.RUnlock()
			return entry.questions, nil
		}
		b.mu.RUnlock()

		questions, err := b.loader.QuestionsOfType(ctx, kind)
		if err != nil {
			return nil, err
		}

		b.mu.Lock()
		b.cache[kind] = cachedList{
			questions: questions,
			expiresAt: now.Add(b.ttlWithJitter()),
		}
		b.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (b *CachedBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}

// StaticLoader is a simple loader backed by an in-memory question list
// (useful for tests and demos). It returns an empty slice, not an error,
// when no questions of a kind exist.
type StaticLoader struct {
	questions []domain.Question
}

func NewStaticLoader(questions []domain.Question) *StaticLoader {
	return &StaticLoader{questions: questions}
}

func (l *StaticLoader) QuestionsOfType(_ context.Context, kind domain.QuestionKind) ([]domain.Question, error) {
	matched := make([]domain.Question, 0)
	for _, q := range l.questions {
		if q.Kind == kind {
			matched = append(matched, q)
		}
	}
	return matched, nil
}
