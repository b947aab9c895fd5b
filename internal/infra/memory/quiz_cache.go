package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizhub-service/internal/app"
	"quizhub-service/internal/domain"
)

// QuizCache caches title lookups with a TTL in front of another QuizStore,
// so repeated submissions for the same quiz do not hit the database.
type QuizCache struct {
	next  app.QuizStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedQuiz
	// gen counts invalidations per title; a fill started before an
	// invalidation is not stored.
	gen map[string]uint64
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(next app.QuizStore, ttl time.Duration) *QuizCache {
	return &QuizCache{
		next:  next,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedQuiz),
		gen:   make(map[string]uint64),
	}
}

func (c *QuizCache) FindByTitle(ctx context.Context, title string) (domain.Quiz, error) {
	if quiz, ok := c.lookup(title); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(title, func() (interface{}, error) {
		if quiz, ok := c.lookup(title); ok {
			return quiz, nil
		}

		c.mu.RLock()
		gen := c.gen[title]
		c.mu.RUnlock()

		quiz, err := c.next.FindByTitle(ctx, title)
		if err != nil {
			return domain.Quiz{}, err
		}

		now := c.clock()
		c.mu.Lock()
		if c.gen[title] == gen && c.ttl > 0 {
			c.cache[title] = cachedQuiz{
				quiz:      quiz.Clone(),
				expiresAt: now.Add(c.ttlWithJitterLocked()),
			}
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz).Clone(), nil
}

func (c *QuizCache) lookup(title string) (domain.Quiz, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.cache[title]; ok && entry.expiresAt.After(now) {
		return entry.quiz.Clone(), true
	}
	return domain.Quiz{}, false
}

func (c *QuizCache) FindByID(ctx context.Context, id string) (domain.Quiz, error) {
	return c.next.FindByID(ctx, id)
}

func (c *QuizCache) FindByQuestionID(ctx context.Context, questionID string) (domain.Quiz, error) {
	return c.next.FindByQuestionID(ctx, questionID)
}

func (c *QuizCache) List(ctx context.Context) ([]domain.Quiz, error) {
	return c.next.List(ctx)
}

// Save writes through and drops the cached copy of the quiz.
func (c *QuizCache) Save(ctx context.Context, quiz domain.Quiz) error {
	if err := c.next.Save(ctx, quiz); err != nil {
		return err
	}
	c.Invalidate(quiz.Title)
	return nil
}

// Invalidate drops the cached quiz and discards any load already in flight
// for the title, so later lookups read the store again.
func (c *QuizCache) Invalidate(title string) {
	c.mu.Lock()
	delete(c.cache, title)
	c.gen[title]++
	c.mu.Unlock()
	c.sf.Forget(title)
}

func (c *QuizCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
