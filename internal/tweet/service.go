package tweet

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sundayezeilo/tweets/internal/errx"
)

// Counter names emitted by the service.
const (
	CounterPublished = "published-tweets"
	CounterQueried   = "times-queried-tweets"
	CounterDiscarded = "discarded-tweets"
)

// The messages of these errors are returned verbatim to API clients, which
// match on them, so they keep their historical wording.
var (
	ErrInvalidTweet  = errors.New("Tweet must not be greater than 140 characters")
	ErrTweetNotFound = errors.New("The selected tweet does not exists")
)

// Counter receives the service's usage counters.
type Counter interface {
	Increment(ctx context.Context, name string, delta int64) error
}

// Service defines the tweet operations.
type Service interface {
	PublishTweet(ctx context.Context, publisher, text string) error
	// GetTweet returns nil and no error when the tweet does not exist.
	// Discarded tweets are still returned.
	GetTweet(ctx context.Context, id int64) (*Tweet, error)
	ListAllTweets(ctx context.Context) ([]Tweet, error)
	ListDiscardedTweets(ctx context.Context) ([]Tweet, error)
	DiscardTweet(ctx context.Context, id int64) error
}

type service struct {
	repo    Repository
	counter Counter
	logger  *slog.Logger
}

// ServiceConfig holds optional collaborators for the service.
type ServiceConfig struct {
	Counter Counter
	Logger  *slog.Logger
}

type nopCounter struct{}

func (nopCounter) Increment(context.Context, string, int64) error { return nil }

// NewService creates a new service instance.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	var counter Counter = nopCounter{}
	if config.Counter != nil {
		counter = config.Counter
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		repo:    repo,
		counter: counter,
		logger:  logger,
	}
}

func (s *service) PublishTweet(ctx context.Context, publisher, text string) error {
	const op = "tweet.service.PublishTweet"

	// Both causes share one message; the log keeps them apart.
	if reason := rejectReason(publisher, text); reason != "" {
		s.logger.WarnContext(ctx, "tweet rejected",
			"reason", reason,
			"publisher", publisher,
		)
		return errx.E(op, errx.Invalid, ErrInvalidTweet)
	}

	var created Tweet
	err := s.repo.WithinTx(ctx, func(r Repository) error {
		var err error
		created, err = r.Create(ctx, Tweet{Publisher: publisher, Text: text})
		return err
	})
	if err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}

	s.increment(ctx, CounterPublished)
	s.logger.DebugContext(ctx, "tweet published", "tweet_id", created.ID, "publisher", publisher)
	return nil
}

func (s *service) GetTweet(ctx context.Context, id int64) (*Tweet, error) {
	const op = "tweet.service.GetTweet"

	var found *Tweet
	err := s.repo.WithinTx(ctx, func(r Repository) error {
		var err error
		found, err = lookup(ctx, r, id)
		return err
	})
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return found, nil
}

func (s *service) ListAllTweets(ctx context.Context) ([]Tweet, error) {
	const op = "tweet.service.ListAllTweets"

	s.increment(ctx, CounterQueried)

	result := []Tweet{}
	err := s.repo.WithinTx(ctx, func(r Repository) error {
		ids, err := r.ListVisibleIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			t, err := lookup(ctx, r, id)
			if err != nil {
				return err
			}
			if t != nil {
				result = append(result, *t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return result, nil
}

func (s *service) ListDiscardedTweets(ctx context.Context) ([]Tweet, error) {
	const op = "tweet.service.ListDiscardedTweets"

	var result []Tweet
	err := s.repo.WithinTx(ctx, func(r Repository) error {
		var err error
		result, err = r.ListDiscarded(ctx)
		return err
	})
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	if result == nil {
		result = []Tweet{}
	}
	return result, nil
}

// DiscardTweet hides a tweet from listings. Discarding an already discarded
// tweet succeeds and is counted again.
func (s *service) DiscardTweet(ctx context.Context, id int64) error {
	const op = "tweet.service.DiscardTweet"

	err := s.repo.WithinTx(ctx, func(r Repository) error {
		t, err := lookup(ctx, r, id)
		if err != nil {
			return err
		}
		if t == nil {
			return errx.E(op, errx.Invalid, ErrTweetNotFound)
		}

		t.Discarded = true
		_, err = r.Update(ctx, *t)
		return err
	})
	switch {
	case err == nil:
	case errx.OpOf(err) == op:
		// rejected above, already wrapped
		return err
	default:
		return errx.E(op, errx.KindOf(err), err)
	}

	s.increment(ctx, CounterDiscarded)
	s.logger.DebugContext(ctx, "tweet discarded", "tweet_id", id)
	return nil
}

// lookup turns a NotFound from the repository into an absent tweet.
func lookup(ctx context.Context, r Repository, id int64) (*Tweet, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		if errx.KindOf(err) == errx.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func rejectReason(publisher, text string) string {
	switch {
	case publisher == "":
		return "empty_publisher"
	case !IsValid(text):
		return "invalid_text"
	default:
		return ""
	}
}

// increment never fails the operation: by the time it runs the change is
// already committed.
func (s *service) increment(ctx context.Context, name string) {
	if err := s.counter.Increment(ctx, name, 1); err != nil {
		s.logger.ErrorContext(ctx, "failed to increment counter",
			"counter", name,
			"error", err.Error(),
		)
	}
}
