// Package localstore is the SQLite-backed document store that serves as
// the source of truth for the current session. It plays the role the
// browser's local storage played in the original tool: small JSON
// documents grouped into collections, read and written synchronously.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/store"
)

// templateKey is the single key of the weekly field-service template.
const templateKey = "weekly"

// Store is a SQLite-backed document store.
type Store struct {
	db *sql.DB
}

// Open opens (and if necessary creates) the store at path. Use
// ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping local store: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			key        TEXT NOT NULL,
			doc        TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (collection, key)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// getDoc unmarshals one document into out. Returns store.ErrNotFound
// when the key has no document.
func (s *Store) getDoc(ctx context.Context, collection, key string, out any) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT doc FROM documents WHERE collection = ? AND key = ?
	`, collection, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("corrupt document %s/%s: %w", collection, key, err)
	}
	return nil
}

// setDoc upserts one document.
func (s *Store) setDoc(ctx context.Context, collection, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, key, doc, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (collection, key)
		DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP
	`, collection, key, string(raw))
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, key, err)
	}
	return nil
}

// deleteDoc removes one document. Returns store.ErrNotFound when no
// document existed under the key.
func (s *Store) deleteDoc(ctx context.Context, collection, key string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM documents WHERE collection = ? AND key = ?
	`, collection, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// eachDoc iterates all documents of a collection in key order.
func (s *Store) eachDoc(ctx context.Context, collection string, fn func(key, raw string) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, doc FROM documents WHERE collection = ? ORDER BY key
	`, collection)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, raw string
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
	err := s.eachDoc(ctx, store.CollectionMembers, func(key, raw string) error {
		var m model.Member
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
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

// ReplaceMembers swaps the whole roster atomically.
func (s *Store) ReplaceMembers(ctx context.Context, members []*model.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin roster replacement: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, store.CollectionMembers); err != nil {
		return fmt.Errorf("failed to clear roster: %w", err)
	}
	for _, m := range members {
		raw, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to encode member %s: %w", m.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (collection, key, doc) VALUES (?, ?, ?)
		`, store.CollectionMembers, m.ID, string(raw)); err != nil {
			return fmt.Errorf("failed to write member %s: %w", m.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit roster replacement: %w", err)
	}
	return nil
}

// GetSchedules returns every saved month schedule keyed by "YYYY-MM".
func (s *Store) GetSchedules(ctx context.Context) (map[string]*schedule.Month, error) {
	out := make(map[string]*schedule.Month)
	err := s.eachDoc(ctx, store.CollectionSchedules, func(key, raw string) error {
		var m schedule.Month
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
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

// ClearAll wipes every collection. This backs the cascading
// "clear all data" operation.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, collection := range store.Collections {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, collection); err != nil {
			return fmt.Errorf("failed to clear %s: %w", collection, err)
		}
	}
	return nil
}
