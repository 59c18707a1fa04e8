package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/betfaro/betstats/internal/platform/cache"
	"github.com/betfaro/betstats/internal/platform/textnorm"
)

// parsedIntentTTL bounds how long a parse result is reused for the same
// query text.
const parsedIntentTTL = 5 * time.Minute

// CachingParser memoizes another parser's results keyed by the folded query
// text, so repeats of the same question skip the expensive parse (typically
// an LLM round trip). Parse failures are not cached.
type CachingParser struct {
	next  IntentParser
	cache *cache.Store
}

func NewCachingParser(next IntentParser, store *cache.Store) *CachingParser {
	if store == nil {
		store = cache.NewStore()
	}
	return &CachingParser{next: next, cache: store}
}

func (p *CachingParser) Parse(ctx context.Context, text string) (Intent, error) {
	key := "parsed_intent_" + textnorm.Fold(text)
	value, err := p.cache.GetOrLoad(ctx, key, parsedIntentTTL, func(ctx context.Context) (any, error) {
		return p.next.Parse(ctx, text)
	})
	if err != nil {
		return Intent{}, err
	}

	intent, ok := value.(Intent)
	if !ok {
		return Intent{}, fmt.Errorf("%w: unexpected cache payload", ErrDependencyUnavailable)
	}
	return intent, nil
}
