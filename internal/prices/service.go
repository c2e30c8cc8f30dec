package prices

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rrumi/backoffice/internal/pricing"
)

const quoteCacheKey = "prices:quote"

// FeedClient abstracts the upstream fetch for the service.
type FeedClient interface {
	Fetch(ctx context.Context) (pricing.Quote, error)
}

// RefreshRecorder counts quote refresh outcomes for observability.
type RefreshRecorder interface {
	QuoteRefreshed(source string)
}

// Service owns the current spot quote. Refreshes apply in completion order
// with a generation counter so a slow response never overwrites a quote set
// by a newer one, and every failure degrades to the last known quote or the
// fixed fallback rather than an error.
type Service struct {
	client   FeedClient
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
	recorder RefreshRecorder

	mu         sync.Mutex
	latest     pricing.Quote
	haveLatest bool
	fetchSeq   uint64
	appliedSeq uint64
}

// NewService builds a quote service. The Redis client is optional; without
// it the quote lives only in process memory.
func NewService(client FeedClient, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger, recorder RefreshRecorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Second
	}
	return &Service{client: client, cache: cache, cacheTTL: cacheTTL, logger: logger, recorder: recorder}
}

// Refresh fetches a fresh quote from the feed. On failure it returns the
// last applied quote, or the fixed fallback if none exists yet. The returned
// quote is always usable.
func (s *Service) Refresh(ctx context.Context) pricing.Quote {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	quote, err := s.client.Fetch(ctx)
	if err != nil {
		s.logger.Warn("quote fetch failed, using fallback", slog.Any("error", err))
		s.record("fallback")
		return s.lastOrFallback()
	}

	s.mu.Lock()
	if seq <= s.appliedSeq {
		// A newer request already completed; discard this response.
		applied := s.latest
		s.mu.Unlock()
		s.record("stale")
		return applied
	}
	s.appliedSeq = seq
	s.latest = quote
	s.haveLatest = true
	s.mu.Unlock()

	s.storeCached(ctx, quote)
	s.record("refresh")
	return quote
}

// Current returns the freshest quote available: the shared cache if warm,
// otherwise a synchronous refresh.
func (s *Service) Current(ctx context.Context) pricing.Quote {
	if quote, ok := s.loadCached(ctx); ok {
		return quote
	}
	return s.Refresh(ctx)
}

// Payload renders a quote in the upstream feed shape for the front end.
func Payload(quote pricing.Quote) FeedPayload {
	return FeedPayload{Items: []FeedItem{{
		XauPrice: quote.Gold,
		XagPrice: quote.Silver,
		XptPrice: quote.Platinum,
		DiaPrice: quote.Diamond,
		Curr:     quote.Currency,
	}}}
}

func (s *Service) lastOrFallback() pricing.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.haveLatest {
		return s.latest
	}
	return FallbackQuote()
}

func (s *Service) loadCached(ctx context.Context) (pricing.Quote, bool) {
	if s.cache == nil {
		return pricing.Quote{}, false
	}
	data, err := s.cache.Get(ctx, quoteCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("quote cache read", slog.Any("error", err))
		}
		return pricing.Quote{}, false
	}
	var quote pricing.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		s.logger.Warn("quote cache decode", slog.Any("error", err))
		return pricing.Quote{}, false
	}
	s.mu.Lock()
	if !s.haveLatest {
		s.latest = quote
		s.haveLatest = true
	}
	s.mu.Unlock()
	return quote, true
}

func (s *Service) storeCached(ctx context.Context, quote pricing.Quote) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, quoteCacheKey, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("quote cache write", slog.Any("error", err))
	}
}

func (s *Service) record(source string) {
	if s.recorder != nil {
		s.recorder.QuoteRefreshed(source)
	}
}
