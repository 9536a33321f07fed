package content

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Provider supplies source material for generative question sourcing.
type Provider interface {
	MaterialFor(ctx context.Context, category string) (string, error)
}

// Store reads and writes source material rows (news digests, current-affairs
// summaries) used as grounding for generated questions.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// MaterialFor concatenates the most recent material rows for a category,
// newest first. An empty result is not an error: the generator falls back to
// syllabus knowledge when no material is supplied.
func (s *Store) MaterialFor(ctx context.Context, category string) (string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content FROM source_materials
		 WHERE category = $1
		 ORDER BY created_at DESC
		 LIMIT 10`,
		category,
	)
	if err != nil {
		return "", fmt.Errorf("get source material: %w", err)
	}
	defer rows.Close()

	var parts []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return "", fmt.Errorf("scan source material: %w", err)
		}
		parts = append(parts, content)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return strings.Join(parts, "\n\n"), nil
}

func (s *Store) AddMaterial(ctx context.Context, category, content string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO source_materials (category, content) VALUES ($1, $2) RETURNING id`,
		category, content,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add source material: %w", err)
	}
	return id, nil
}

// CachedProvider wraps a Provider with an owned per-category cache. Each
// entry records when it was fetched; entries older than the TTL are refetched.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	material  string
	fetchedAt time.Time
}

func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedProvider) MaterialFor(ctx context.Context, category string) (string, error) {
	c.mu.Lock()
	entry, ok := c.entries[category]
	c.mu.Unlock()

	if ok && time.Since(entry.fetchedAt) < c.ttl {
		return entry.material, nil
	}

	material, err := c.inner.MaterialFor(ctx, category)
	if err != nil {
		// Serve a stale entry over failing the sourcing task.
		if ok {
			return entry.material, nil
		}
		return "", err
	}

	c.mu.Lock()
	c.entries[category] = cacheEntry{material: material, fetchedAt: time.Now()}
	c.mu.Unlock()

	return material, nil
}
