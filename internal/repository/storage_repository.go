package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

type postgresStorage struct {
	db *sqlx.DB
}

type storageItem struct {
	Key       string    `db:"storage_key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

func NewPostgresStorage(db *sqlx.DB) LocalStorage {
	return &postgresStorage{db: db}
}

func (s *postgresStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string

	query := `SELECT value FROM local_storage WHERE storage_key = $1`

	err := s.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("ошибка при чтении ключа %s: %w", key, err)
	}

	return value, true, nil
}

func (s *postgresStorage) SetItem(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO local_storage (storage_key, value, updated_at)
		VALUES (:storage_key, :value, :updated_at)
		ON CONFLICT (storage_key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	item := storageItem{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	_, err := s.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("ошибка при записи ключа %s: %w", key, err)
	}

	return nil
}

func (s *postgresStorage) RemoveItem(ctx context.Context, key string) error {
	query := `DELETE FROM local_storage WHERE storage_key = $1`

	// removing a missing key is not an error
	_, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("ошибка при удалении ключа %s: %w", key, err)
	}

	return nil
}

type memoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStorage() LocalStorage {
	return &memoryStorage{items: make(map[string]string)}
}

func (s *memoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	return value, ok, nil
}

func (s *memoryStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

func (s *memoryStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}
