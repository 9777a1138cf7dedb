package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mithrel/aicode/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) SaveReview(ctx context.Context, r api.Review) (api.Review, error) {
	r = prepare(r)
	resultJSON, err := json.Marshal(r.Result)
	if err != nil {
		return api.Review{}, err
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO reviews(id, query, result, hash, type, created_at) VALUES(?,?,?,?,?,?)`,
		r.ID, r.Query, string(resultJSON), r.Hash, string(r.Result.Type), r.CreatedAt.UTC()); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			err = ErrConflict
		}
		return api.Review{}, err
	}
	return r, nil
}

func (s *sqliteStore) GetReview(ctx context.Context, id string) (api.Review, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, query, result, hash, created_at FROM reviews WHERE id=?`, id)
	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return api.Review{}, ErrNotFound
	}
	return r, err
}

func (s *sqliteStore) ListReviews(ctx context.Context, q api.ListQuery) ([]api.Review, error) {
	query := `SELECT id, query, result, hash, created_at FROM reviews`
	conds := []string{}
	args := []any{}
	if !q.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, q.Since.UTC())
	}
	if !q.Until.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, q.Until.UTC())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, listLimit(q.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []api.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) DeleteReview(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(sc rowScanner) (api.Review, error) {
	var r api.Review
	var resultJSON string
	if err := sc.Scan(&r.ID, &r.Query, &resultJSON, &r.Hash, &r.CreatedAt); err != nil {
		return api.Review{}, err
	}
	if err := json.Unmarshal([]byte(resultJSON), &r.Result); err != nil {
		return api.Review{}, err
	}
	return r, nil
}

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (Store, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	return &sqliteStore{db: dbh}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  query TEXT NOT NULL,
  result TEXT NOT NULL,
  hash TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_created_id ON reviews(created_at DESC, id);
CREATE INDEX IF NOT EXISTS idx_reviews_hash ON reviews(hash);
`)
	return err
}
