package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"eduquiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogSource fetches catalog content from a backing store.
type CatalogSource interface {
	LoadQuestion(ctx context.Context, id int64) (domain.Question, error)
	LoadSubject(ctx context.Context, id int64) (domain.Subject, error)
}

// CatalogCache caches question and subject records as JSON in Redis and falls
// back to a loader on cache miss. Keys:
//
//	SET catalog:question:{id} {json}
//	SET catalog:subject:{id}  {json}
type CatalogCache struct {
	client *redis.Client
	source CatalogSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogCache(client *redis.Client, source CatalogSource, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	key := c.questionKey(id)

	var cached domain.Question
	if ok, err := c.lookup(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		var cached domain.Question
		if ok, err := c.lookup(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}

		question, err := c.source.LoadQuestion(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}
		c.fill(ctx, key, question)
		return question, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (c *CatalogCache) GetSubject(ctx context.Context, id int64) (domain.Subject, error) {
	key := c.subjectKey(id)

	var cached domain.Subject
	if ok, err := c.lookup(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		var cached domain.Subject
		if ok, err := c.lookup(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}

		subject, err := c.source.LoadSubject(ctx, id)
		if err != nil {
			return domain.Subject{}, err
		}
		c.fill(ctx, key, subject)
		return subject, nil
	})
	if err != nil {
		return domain.Subject{}, err
	}
	return result.(domain.Subject), nil
}

func (c *CatalogCache) lookup(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// fill is best-effort: a cache write failure never fails the read.
func (c *CatalogCache) fill(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
}

func (c *CatalogCache) questionKey(id int64) string {
	return "catalog:question:" + strconv.FormatInt(id, 10)
}

func (c *CatalogCache) subjectKey(id int64) string {
	return "catalog:subject:" + strconv.FormatInt(id, 10)
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
