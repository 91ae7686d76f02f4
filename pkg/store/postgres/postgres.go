// Package postgres mirrors the local document store into PostgreSQL so
// a congregation's records survive the machine the tool runs on. The
// schema is a jsonb document table shaped like the local one.
package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const templateKey = "weekly"

// Store provides document operations backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL-backed store.
func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// RunMigrations executes all pending SQL migration files in order.
// Applied migrations are tracked in a schema_migrations table.
func (s *Store) RunMigrations(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration filename: %w", err)
		}
		applied[filename] = true
	}
	rows.Close()

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, filename := range sqlFiles {
		if applied[filename] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, "migrations/"+filename)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for %s: %w", filename, err)
		}

		_, err = tx.Exec(ctx, string(content))
		if err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		_, err = tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, filename)
		if err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", filename, err)
		}
	}

	return nil
}

func (s *Store) getDoc(ctx context.Context, collection, key string, out any) error {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT doc FROM documents WHERE collection = $1 AND key = $2
	`, collection, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("corrupt document %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) setDoc(ctx context.Context, collection, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, key, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, key, doc, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, key)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
	`, collection, key, raw)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) deleteDoc(ctx context.Context, collection, key string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM documents WHERE collection = $1 AND key = $2
	`, collection, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, key, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) eachDoc(ctx context.Context, collection string, fn func(key string, raw []byte) error) error {
	rows, err := s.pool.Query(ctx, `
		SELECT key, doc FROM documents WHERE collection = $1 ORDER BY key
	`, collection)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", collection, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	return rows.Err()
}

// GetMembers returns the full roster sorted by name.
func (s *Store) GetMembers(ctx context.Context) ([]*model.Member, error) {
	var members []*model.Member
	err := s.eachDoc(ctx, store.CollectionMembers, func(key string, raw []byte) error {
		var m model.Member
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("corrupt member %s: %w", key, err)
		}
		members = append(members, &m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	model.SortRoster(members)
	return members, nil
}

// ReplaceMembers swaps the whole roster in one transaction.
func (s *Store) ReplaceMembers(ctx context.Context, members []*model.Member) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin roster replacement: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE collection = $1`, store.CollectionMembers); err != nil {
		return fmt.Errorf("failed to clear roster: %w", err)
	}
	for _, m := range members {
		raw, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to encode member %s: %w", m.ID, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO documents (collection, key, doc) VALUES ($1, $2, $3)
		`, store.CollectionMembers, m.ID, raw); err != nil {
			return fmt.Errorf("failed to write member %s: %w", m.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit roster replacement: %w", err)
	}
	return nil
}

// GetSchedules returns every saved month schedule keyed by "YYYY-MM".
func (s *Store) GetSchedules(ctx context.Context) (map[string]*schedule.Month, error) {
	out := make(map[string]*schedule.Month)
	err := s.eachDoc(ctx, store.CollectionSchedules, func(key string, raw []byte) error {
		var m schedule.Month
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("corrupt schedule %s: %w", key, err)
		}
		out[key] = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetSchedule returns one month schedule or store.ErrNotFound.
func (s *Store) GetSchedule(ctx context.Context, key string) (*schedule.Month, error) {
	var m schedule.Month
	if err := s.getDoc(ctx, store.CollectionSchedules, key, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetSchedule upserts a month schedule under its own key.
func (s *Store) SetSchedule(ctx context.Context, m *schedule.Month) error {
	return s.setDoc(ctx, store.CollectionSchedules, m.Key(), m)
}

// DeleteSchedule removes a month schedule.
func (s *Store) DeleteSchedule(ctx context.Context, key string) error {
	return s.deleteDoc(ctx, store.CollectionSchedules, key)
}

// GetPublicMeetingMonth returns a month of public-talk records.
func (s *Store) GetPublicMeetingMonth(ctx context.Context, key string) (model.PublicMeetingMonth, error) {
	var data model.PublicMeetingMonth
	if err := s.getDoc(ctx, store.CollectionPublicMeetings, key, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// SetPublicMeetingMonth upserts a month of public-talk records.
func (s *Store) SetPublicMeetingMonth(ctx context.Context, key string, data model.PublicMeetingMonth) error {
	return s.setDoc(ctx, store.CollectionPublicMeetings, key, data)
}

// GetMidweekProgramMonth returns a month of midweek programs.
func (s *Store) GetMidweekProgramMonth(ctx context.Context, key string) (model.MidweekProgramMonth, error) {
	var data model.MidweekProgramMonth
	if err := s.getDoc(ctx, store.CollectionMidweekPrograms, key, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// SetMidweekProgramMonth upserts a month of midweek programs.
func (s *Store) SetMidweekProgramMonth(ctx context.Context, key string, data model.MidweekProgramMonth) error {
	return s.setDoc(ctx, store.CollectionMidweekPrograms, key, data)
}

// GetFieldServiceMonth returns a month of field-service plans.
func (s *Store) GetFieldServiceMonth(ctx context.Context, key string) (model.FieldServiceMonth, error) {
	var data model.FieldServiceMonth
	if err := s.getDoc(ctx, store.CollectionFieldService, key, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// SetFieldServiceMonth upserts a month of field-service plans.
func (s *Store) SetFieldServiceMonth(ctx context.Context, key string, data model.FieldServiceMonth) error {
	return s.setDoc(ctx, store.CollectionFieldService, key, data)
}

// GetWeeklyTemplate returns the field-service weekly template.
func (s *Store) GetWeeklyTemplate(ctx context.Context) (model.WeeklyTemplate, error) {
	var tpl model.WeeklyTemplate
	if err := s.getDoc(ctx, store.CollectionTemplates, templateKey, &tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// SetWeeklyTemplate upserts the field-service weekly template.
func (s *Store) SetWeeklyTemplate(ctx context.Context, tpl model.WeeklyTemplate) error {
	return s.setDoc(ctx, store.CollectionTemplates, templateKey, tpl)
}

// GetManagedList returns an operator-managed list sorted by name.
func (s *Store) GetManagedList(ctx context.Context, collection string) ([]model.ManagedListItem, error) {
	var items []model.ManagedListItem
	err := s.getDoc(ctx, collection, "all", &items)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	model.SortManagedList(items)
	return items, nil
}

// SetManagedList replaces an operator-managed list.
func (s *Store) SetManagedList(ctx context.Context, collection string, items []model.ManagedListItem) error {
	return s.setDoc(ctx, collection, "all", items)
}

// ClearAll wipes every persisted collection.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, collection := range store.Collections {
		if _, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1`, collection); err != nil {
			return fmt.Errorf("failed to clear %s: %w", collection, err)
		}
	}
	return nil
}
