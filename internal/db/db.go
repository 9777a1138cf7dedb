package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mithrel/aicode/pkg/api"
)

// Store persists reviewed queries and their results.
type Store interface {
	SaveReview(ctx context.Context, r api.Review) (api.Review, error)
	GetReview(ctx context.Context, id string) (api.Review, error)
	ListReviews(ctx context.Context, q api.ListQuery) ([]api.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Open returns a Store based on a URL (sqlite://path or mem://).
func Open(ctx context.Context, dsn string) (Store, io.Closer, error) {
	switch {
	case strings.HasPrefix(dsn, "mem://"):
		return newMemStore(), nopCloser{}, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return openSQLite(ctx, dsn)
	default:
		return nil, nil, fmt.Errorf("unsupported store url %q", dsn)
	}
}

// prepare fills ID, hash and creation time before a review is stored.
func prepare(r api.Review) api.Review {
	if r.ID == "" {
		r.ID = api.NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Hash = r.ComputeHash()
	return r
}

const defaultListLimit = 50

func listLimit(n int) int {
	if n <= 0 {
		return defaultListLimit
	}
	return n
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
