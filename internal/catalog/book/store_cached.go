// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	cache "github.com/taibuivan/bookshelf/internal/platform/redis"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// LookupRecorder counts cache hits and misses.
type LookupRecorder interface {
	RecordCacheLookup(hit bool)
}

type noopLookups struct{}

func (noopLookups) RecordCacheLookup(bool) {}

// CachedRepository is a read-through cache in front of another [Repository].
//
// Cache failures never fail a read: they are logged and the call falls back
// to the wrapped repository.
type CachedRepository struct {
	next    Repository
	cache   cache.Cache
	lookups LookupRecorder
}

// NewCachedRepository wraps next. A nil recorder disables hit counting.
func NewCachedRepository(next Repository, store cache.Cache, lookups LookupRecorder) *CachedRepository {
	if lookups == nil {
		lookups = noopLookups{}
	}
	return &CachedRepository{next: next, cache: store, lookups: lookups}
}

// BookKey is the cache key of a book detail.
func BookKey(id int64) string {
	return constants.RedisPrefixBook + strconv.FormatInt(id, 10)
}

// List is not cached: search terms make the key space unbounded.
func (repository *CachedRepository) List(ctx context.Context, filter Filter, page pagination.Params) ([]*Book, int, error) {
	return repository.next.List(ctx, filter, page)
}

func (repository *CachedRepository) FindByID(ctx context.Context, id int64) (*Book, error) {
	key := BookKey(id)

	var cached Book
	if repository.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	book, err := repository.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	repository.store(ctx, key, book, constants.BookCacheTTL)
	return book, nil
}

func (repository *CachedRepository) Genres(ctx context.Context) ([]string, error) {
	var cached []string
	if repository.lookup(ctx, constants.RedisKeyGenres, &cached) {
		return cached, nil
	}

	genres, err := repository.next.Genres(ctx)
	if err != nil {
		return nil, err
	}

	repository.store(ctx, constants.RedisKeyGenres, genres, constants.GenreListCacheTTL)
	return genres, nil
}

// Insert writes through and drops the genre list when a row was added.
func (repository *CachedRepository) Insert(ctx context.Context, book *Book) (bool, error) {
	inserted, err := repository.next.Insert(ctx, book)
	if err != nil || !inserted {
		return inserted, err
	}

	repository.evict(ctx, constants.RedisKeyGenres)
	return true, nil
}

// Invalidate drops the cached detail of a book whose aggregates changed.
func (repository *CachedRepository) Invalidate(ctx context.Context, bookID int64) {
	repository.evict(ctx, BookKey(bookID))
}

// # Cache Helpers

func (repository *CachedRepository) lookup(ctx context.Context, key string, target any) bool {
	err := repository.cache.Get(ctx, key, target)
	if err == nil {
		repository.lookups.RecordCacheLookup(true)
		return true
	}

	repository.lookups.RecordCacheLookup(false)
	if !errors.Is(err, cache.ErrCacheMiss) {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_read_failed", slog.String("key", key), slog.Any("error", err))
	}
	return false
}

func (repository *CachedRepository) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := repository.cache.Set(ctx, key, value, ttl); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (repository *CachedRepository) evict(ctx context.Context, key string) {
	if err := repository.cache.Delete(ctx, key); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_evict_failed", slog.String("key", key), slog.Any("error", err))
	}
}
