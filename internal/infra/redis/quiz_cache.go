package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"quizhub-service/internal/app"
	"quizhub-service/internal/domain"
)

// QuizCache caches whole quizzes in Redis and falls back to the wrapped store on a miss.
// Quizzes are stored as: SET quiz:title:{title} {quiz JSON} EX ttl
// quiz:gen:{title} is bumped on every invalidation; a fill only lands when
// it is unchanged since the fill started.
type QuizCache struct {
	client *redis.Client
	next   app.QuizStore
	ttl    time.Duration
	sf     singleflight.Group
	log    logrus.FieldLogger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuizCache(client *redis.Client, next app.QuizStore, ttl time.Duration, log logrus.FieldLogger) *QuizCache {
	return &QuizCache{
		client: client,
		next:   next,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) FindByTitle(ctx context.Context, title string) (domain.Quiz, error) {
	if quiz, ok := c.get(ctx, title); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(title, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := c.get(ctx, title); ok {
			return quiz, nil
		}

		gen, genErr := c.generation(ctx, c.client, title)

		quiz, err := c.next.FindByTitle(ctx, title)
		if err != nil {
			return domain.Quiz{}, err
		}
		if genErr != nil {
			c.log.WithError(genErr).WithField("quiz", title).Warn("quiz cache fill skipped")
			return quiz, nil
		}
		if err := c.fill(ctx, title, quiz, gen); err != nil {
			c.log.WithError(err).WithField("quiz", title).Warn("quiz cache fill failed")
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz).Clone(), nil
}

var errStaleFill = errors.New("quiz invalidated during fill")

// fill stores quiz unless title was invalidated after gen was read.
func (c *QuizCache) fill(ctx context.Context, title string, quiz domain.Quiz, gen int64) error {
	ttl := c.ttlWithJitter()
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx, title)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, titleKey(title), raw, ttl)
			return nil
		})
		return err
	}, genKey(title))
	if errors.Is(err, errStaleFill) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *QuizCache) generation(ctx context.Context, cmd getter, title string) (int64, error) {
	gen, err := cmd.Get(ctx, genKey(title)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// get treats any Redis failure as a miss; the wrapped store stays authoritative.
func (c *QuizCache) get(ctx context.Context, title string) (domain.Quiz, bool) {
	raw, err := c.client.Get(ctx, titleKey(title)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("quiz", title).Warn("quiz cache read failed")
		}
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		c.log.WithError(err).WithField("quiz", title).Warn("dropping corrupt quiz cache entry")
		_ = c.client.Del(ctx, titleKey(title)).Err()
		return domain.Quiz{}, false
	}
	return quiz, true
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

// Save writes through and deletes the cached copy of the quiz. Once the store
// has accepted the write, cache failures are only logged.
func (c *QuizCache) Save(ctx context.Context, quiz domain.Quiz) error {
	if err := c.next.Save(ctx, quiz); err != nil {
		return err
	}
	if err := c.Invalidate(ctx, quiz.Title); err != nil {
		c.log.WithError(err).WithField("quiz", quiz.Title).Warn("quiz cache invalidation failed")
	}
	return nil
}

// Invalidate bumps the title generation and deletes the cached quiz.
func (c *QuizCache) Invalidate(ctx context.Context, title string) error {
	c.sf.Forget(title)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(title))
		pipe.Del(ctx, titleKey(title))
		return nil
	})
	return err
}

// Ping reports whether Redis is reachable.
func (c *QuizCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func titleKey(title string) string {
	return "quiz:title:" + title
}

func genKey(title string) string {
	return "quiz:gen:" + title
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
