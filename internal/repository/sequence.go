package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type postgresSequence struct {
	db *sqlx.DB
}

// NewPostgresSequence allocates numbers from the document_sequences table,
// one row per year, advanced with a single upsert.
func NewPostgresSequence(db *sqlx.DB) SequenceAllocator {
	return &postgresSequence{db: db}
}

func (s *postgresSequence) Next(ctx context.Context, year int) (int64, error) {
	query := `
		INSERT INTO document_sequences (year, value)
		VALUES ($1, $2 + 1)
		ON CONFLICT (year) DO UPDATE SET value = document_sequences.value + 1
		RETURNING value
	`

	// A fresh year starts after the documents already numbered for it, so
	// numbers created before the counter existed are never reissued.
	seed, err := s.seed(ctx, year)
	if err != nil {
		return 0, err
	}

	var value int64
	if err := s.db.GetContext(ctx, &value, query, year, seed); err != nil {
		return 0, err
	}
	return value, nil
}

func (s *postgresSequence) Ensure(ctx context.Context, year int) error {
	seed, err := s.seed(ctx, year)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO document_sequences (year, value)
		VALUES ($1, $2)
		ON CONFLICT (year) DO NOTHING
	`, year, seed)
	return err
}

func (s *postgresSequence) seed(ctx context.Context, year int) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM end_of_work_documents WHERE document_number LIKE $1`,
		fmt.Sprintf("DFT-%d-%%", year))
	return count, err
}

// YearCounter reports how many documents already exist for a year. It seeds
// counters that are created after documents were numbered.
type YearCounter interface {
	CountByYear(ctx context.Context, year int) (int64, error)
}

type redisSequence struct {
	client *redis.Client
	counts YearCounter
	prefix string
}

// NewRedisSequence allocates numbers with INCR on one key per year.
func NewRedisSequence(client *redis.Client, counts YearCounter) SequenceAllocator {
	return &redisSequence{client: client, counts: counts, prefix: "settlement:sequence:"}
}

func (s *redisSequence) key(year int) string {
	return fmt.Sprintf("%s%d", s.prefix, year)
}

func (s *redisSequence) Next(ctx context.Context, year int) (int64, error) {
	if err := s.Ensure(ctx, year); err != nil {
		return 0, err
	}
	return s.client.Incr(ctx, s.key(year)).Result()
}

func (s *redisSequence) Ensure(ctx context.Context, year int) error {
	exists, err := s.client.Exists(ctx, s.key(year)).Result()
	if err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}

	count, err := s.counts.CountByYear(ctx, year)
	if err != nil {
		return err
	}
	// SETNX keeps the first seed if two callers race here
	return s.client.SetNX(ctx, s.key(year), count, 0).Err()
}
