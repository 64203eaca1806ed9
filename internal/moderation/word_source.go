package moderation

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const wordListKey = "banned_words"

// WordLister loads the current banned word set from storage.
type WordLister interface {
	ListWords(ctx context.Context) ([]string, error)
}

// Filter screens user-submitted text against the admin-managed banned word
// list. Every submission consults the list, so the list is cached for a
// short TTL; admin mutations call Invalidate to drop the cached copy.
type Filter struct {
	words WordLister
	cache *gocache.Cache
}

func NewFilter(words WordLister, ttl time.Duration) *Filter {
	return &Filter{
		words: words,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Screen returns the banned word found in text, if any.
func (f *Filter) Screen(ctx context.Context, text string) (string, bool, error) {
	words, err := f.currentWords(ctx)
	if err != nil {
		return "", false, err
	}
	word, flagged := Match(text, words)
	return word, flagged, nil
}

func (f *Filter) Invalidate() {
	f.cache.Delete(wordListKey)
}

func (f *Filter) currentWords(ctx context.Context) ([]string, error) {
	if cached, ok := f.cache.Get(wordListKey); ok {
		if words, ok := cached.([]string); ok {
			return words, nil
		}
	}

	words, err := f.words.ListWords(ctx)
	if err != nil {
		return nil, err
	}
	f.cache.SetDefault(wordListKey, words)
	return words, nil
}
