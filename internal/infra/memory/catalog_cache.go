package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"eduquiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogSource fetches catalog content from a backing store.
type CatalogSource interface {
	LoadQuestion(ctx context.Context, id int64) (domain.Question, error)
	LoadSubject(ctx context.Context, id int64) (domain.Subject, error)
}

// CatalogCache caches questions and subjects with TTL to avoid repeated
// backing-store hits on the grading path.
type CatalogCache struct {
	source CatalogSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	questions map[int64]cachedQuestion
	subjects  map[int64]cachedSubject
}

type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

type cachedSubject struct {
	subject   domain.Subject
	expiresAt time.Time
}

func NewCatalogCache(source CatalogSource, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		source:    source,
		ttl:       ttl,
		clock:     time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		questions: make(map[int64]cachedQuestion),
		subjects:  make(map[int64]cachedSubject),
	}
}

func (c *CatalogCache) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.questions[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.question, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(questionKey(id), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.questions[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.question, nil
		}
		c.mu.RUnlock()

		question, err := c.source.LoadQuestion(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}

		c.mu.Lock()
		c.questions[id] = cachedQuestion{question: question, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return question, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (c *CatalogCache) GetSubject(ctx context.Context, id int64) (domain.Subject, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.subjects[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.subject, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(subjectKey(id), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.subjects[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.subject, nil
		}
		c.mu.RUnlock()

		subject, err := c.source.LoadSubject(ctx, id)
		if err != nil {
			return domain.Subject{}, err
		}

		c.mu.Lock()
		c.subjects[id] = cachedSubject{subject: subject, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return subject, nil
	})
	if err != nil {
		return domain.Subject{}, err
	}
	return result.(domain.Subject), nil
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func questionKey(id int64) string {
	return "question:" + strconv.FormatInt(id, 10)
}

func subjectKey(id int64) string {
	return "subject:" + strconv.FormatInt(id, 10)
}
