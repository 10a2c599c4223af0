// Package storage provides the durable local key-value store backing the
// ledger: the full record collection serialized under one fixed key and the
// configured sync endpoint URL under a second one. The key names themselves
// mark the schema generation.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DaviiSA/AppControle/internal/core"

	_ "modernc.org/sqlite"
)

const (
	recordsKey  = "appcontrole.transactions.v1"
	endpointKey = "appcontrole.sync_endpoint.v1"
)

type KVStore struct {
	db *sql.DB
}

func NewKVStore(dbPath string) (*KVStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &KVStore{db: db}, nil
}

func (s *KVStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRecords serializes the full collection under the ledger key,
// replacing whatever was there. Implements ledger.Persister.
func (s *KVStore) SaveRecords(ctx context.Context, records []core.TransactionRecord) error {
	if records == nil {
		records = []core.TransactionRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := s.set(ctx, recordsKey, string(data)); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	slog.DebugContext(ctx, "Ledger persisted", "records", len(records))
	return nil
}

// LoadRecords returns the persisted collection, or nil when nothing has
// been stored yet.
func (s *KVStore) LoadRecords(ctx context.Context) ([]core.TransactionRecord, error) {
	value, ok, err := s.get(ctx, recordsKey)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var records []core.TransactionRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// SaveEndpoint persists the user-configured sync endpoint URL.
func (s *KVStore) SaveEndpoint(ctx context.Context, url string) error {
	if err := s.set(ctx, endpointKey, url); err != nil {
		return fmt.Errorf("save endpoint: %w", err)
	}
	return nil
}

// LoadEndpoint returns the persisted endpoint URL, empty when unset.
func (s *KVStore) LoadEndpoint(ctx context.Context) (string, error) {
	value, ok, err := s.get(ctx, endpointKey)
	if err != nil {
		return "", fmt.Errorf("load endpoint: %w", err)
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

func (s *KVStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}

func (s *KVStore) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
