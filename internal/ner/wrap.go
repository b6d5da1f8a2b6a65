package ner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// WithTimeout bounds every call to r. A recognizer that ignores its context
// is abandoned once the deadline passes.
func WithTimeout(r Recognizer, d time.Duration) Recognizer {
	if d <= 0 {
		return r
	}
	return RecognizerFunc(func(ctx context.Context, text string) ([]Entity, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type result struct {
			ents []Entity
			err  error
		}
		done := make(chan result, 1)
		go func() {
			ents, err := r.Recognize(ctx, text)
			done <- result{ents, err}
		}()
		select {
		case res := <-done:
			return res.ents, res.err
		case <-ctx.Done():
			return nil, fmt.Errorf("recognize: %w", ctx.Err())
		}
	})
}

const defaultCacheSize = 512

type cached struct {
	delegate Recognizer
	cache    *lru.Cache[string, []Entity]
}

// Cached memoizes successful results by input text. The model is read-only
// at request time, so a text always yields the same entities.
func Cached(r Recognizer, size int) Recognizer {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[string, []Entity](size)
	if err != nil {
		return r
	}
	return &cached{delegate: r, cache: c}
}

func (c *cached) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if ents, ok := c.cache.Get(text); ok {
		return append([]Entity(nil), ents...), nil
	}
	ents, err := c.delegate.Recognize(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, append([]Entity(nil), ents...))
	return ents, nil
}

var ErrNotLoaded = errors.New("ner model not loaded")

// Handle is a lazily loaded, process-wide recognizer. The loader runs once
// on first use; its error, if any, is returned on every later call.
type Handle struct {
	load func() (Recognizer, error)

	once sync.Once
	r    Recognizer
	err  error
}

func Shared(load func() (Recognizer, error)) *Handle {
	return &Handle{load: load}
}

func (h *Handle) Get() (Recognizer, error) {
	h.once.Do(func() {
		if h.load == nil {
			h.err = ErrNotLoaded
			return
		}
		h.r, h.err = h.load()
		if h.err == nil && h.r == nil {
			h.err = ErrNotLoaded
		}
	})
	return h.r, h.err
}

func (h *Handle) Recognize(ctx context.Context, text string) ([]Entity, error) {
	r, err := h.Get()
	if err != nil {
		return nil, fmt.Errorf("load ner model: %w", err)
	}
	return r.Recognize(ctx, text)
}

// Fallback answers from secondary whenever primary fails, so a remote model
// outage degrades to dictionary matching instead of no entities.
func Fallback(primary, secondary Recognizer, logger *zap.Logger) Recognizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return RecognizerFunc(func(ctx context.Context, text string) ([]Entity, error) {
		ents, err := primary.Recognize(ctx, text)
		if err == nil {
			return ents, nil
		}
		logger.Debug("primary recognizer failed, using fallback", zap.Error(err))
		return secondary.Recognize(ctx, text)
	})
}
