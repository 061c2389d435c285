package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/danie1k/anime-metadata/internal/domain"
)

// CacheRepo implements domain.CacheRepo on top of the providers_cache table.
// Payloads are opaque bytes; the repo never parses them.
type CacheRepo struct {
	log zerolog.Logger
	db  *DB
	ttl time.Duration

	// now is swapped in tests to simulate clock advance.
	now func() time.Time
}

// NewCacheRepo creates a cache repository with the given entry TTL.
func NewCacheRepo(log zerolog.Logger, db *DB, ttl time.Duration) domain.CacheRepo {
	if ttl <= 0 {
		ttl = domain.DefaultCacheTTL
	}
	return &CacheRepo{
		log: log.With().Str("repo", "cache").Logger(),
		db:  db,
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the payload for key. Both a missing row and a row older than
// the TTL report domain.ErrCacheMiss; stale data is never returned.
func (r *CacheRepo) Get(ctx context.Context, key domain.CacheKey) ([]byte, error) {
	queryBuilder := r.db.squirrel.
		Select("data", "last_update").
		From("providers_cache").
		Where(sq.Eq{"provider": key.Provider, "id": key.ID, "data_type": key.DataType})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Get")

	var (
		data       []byte
		lastUpdate string
	)
	row := r.db.handler.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&data, &lastUpdate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCacheMiss
		}
		return nil, errors.Wrap(err, "error scanning row")
	}

	updatedAt, err := time.Parse(time.RFC3339, lastUpdate)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing last_update")
	}

	if !updatedAt.Add(r.ttl).After(r.now()) {
		r.log.Debug().
			Str("provider", key.Provider).
			Str("id", key.ID).
			Str("data_type", key.DataType).
			Time("last_update", updatedAt).
			Msg("cache entry expired")
		return nil, domain.ErrCacheMiss
	}

	return data, nil
}

// Set upserts the payload for key. The prior entry, if any, is fully replaced
// together with its timestamp.
func (r *CacheRepo) Set(ctx context.Context, key domain.CacheKey, data []byte) error {
	queryBuilder := r.db.squirrel.
		Replace("providers_cache").
		Columns("provider", "id", "data_type", "data", "last_update").
		Values(key.Provider, key.ID, key.DataType, data, r.now().UTC().Format(time.RFC3339))

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Msg("Set")

	_, err = r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// Fetch wraps one get-then-maybe-fill-then-set sequence for a single key. A
// fill error propagates unchanged and no cache write occurs; a cache miss
// never surfaces past this boundary.
func (r *CacheRepo) Fetch(ctx context.Context, key domain.CacheKey, fill domain.FillFunc) ([]byte, error) {
	data, err := r.Get(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		return nil, err
	}

	data, err = fill(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.Set(ctx, key, data); err != nil {
		return nil, errors.Wrap(err, "error caching payload")
	}

	return data, nil
}
