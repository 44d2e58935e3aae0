// Package sqlite persists word-vector models in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/textgrain/textgrain/pkg/textgrain/dataset"
	"github.com/textgrain/textgrain/pkg/textgrain/internalerr"
	"github.com/textgrain/textgrain/pkg/textgrain/store"
	"github.com/textgrain/textgrain/pkg/textgrain/wordvec"
)

// sqliteStore implements store.Store on a SQLite database.
type sqliteStore struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite model store with WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS models (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	words_to_keep INTEGER NOT NULL,
	relation TEXT,
	label_index INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS model_words (
	model_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	word TEXT NOT NULL,
	PRIMARY KEY(model_id, idx),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS model_attrs (
	model_id TEXT NOT NULL,
	pos INTEGER NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	labels TEXT,
	PRIMARY KEY(model_id, pos),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveModel persists a model in one transaction and returns its ULID.
func (s *sqliteStore) SaveModel(ctx context.Context, m wordvec.Model) (string, error) {
	if m.Input == nil {
		return "", fmt.Errorf("save model: missing input schema: %w", internalerr.ErrInvalidConfig)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := store.NewID()
	createdAt := time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO models (id, created_at, words_to_keep, relation, label_index) VALUES (?, ?, ?, ?, ?)`,
		id, createdAt.Format(time.RFC3339), m.WordsToKeep, m.Input.Relation, m.Input.LabelIndex,
	)
	if err != nil {
		return "", err
	}

	wordStmt, err := tx.PrepareContext(ctx, `INSERT INTO model_words (model_id, idx, word) VALUES (?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer wordStmt.Close()
	for i, word := range m.Words {
		if _, err := wordStmt.ExecContext(ctx, id, i, word); err != nil {
			return "", err
		}
	}

	attrStmt, err := tx.PrepareContext(ctx, `INSERT INTO model_attrs (model_id, pos, name, type, labels) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer attrStmt.Close()
	for pos, attr := range m.Input.Attrs {
		var labels sql.NullString
		if len(attr.Labels) > 0 {
			data, err := json.Marshal(attr.Labels)
			if err != nil {
				return "", err
			}
			labels = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := attrStmt.ExecContext(ctx, id, pos, attr.Name, attr.Type.String(), labels); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// GetModel loads a model by ID.
func (s *sqliteStore) GetModel(ctx context.Context, id string) (store.Record, error) {
	var (
		createdAt   string
		wordsToKeep int
		relation    string
		labelIndex  int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, words_to_keep, relation, label_index FROM models WHERE id = ?`, id,
	).Scan(&createdAt, &wordsToKeep, &relation, &labelIndex)
	if err == sql.ErrNoRows {
		return store.Record{}, internalerr.ErrNotFound
	}
	if err != nil {
		return store.Record{}, err
	}

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return store.Record{}, fmt.Errorf("parse created_at for model %s: %w", id, err)
	}

	words, err := s.loadWords(ctx, id)
	if err != nil {
		return store.Record{}, err
	}
	attrs, err := s.loadAttrs(ctx, id)
	if err != nil {
		return store.Record{}, err
	}

	return store.Record{
		ID:        id,
		CreatedAt: ts,
		Model: wordvec.Model{
			WordsToKeep: wordsToKeep,
			Words:       words,
			Input: &dataset.Schema{
				Relation:   relation,
				Attrs:      attrs,
				LabelIndex: labelIndex,
			},
		},
	}, nil
}

func (s *sqliteStore) loadWords(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word FROM model_words WHERE model_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, rows.Err()
}

func (s *sqliteStore) loadAttrs(ctx context.Context, id string) ([]dataset.Attribute, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, type, labels FROM model_attrs WHERE model_id = ? ORDER BY pos`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attrs []dataset.Attribute
	for rows.Next() {
		var (
			name     string
			typeName string
			labels   sql.NullString
		)
		if err := rows.Scan(&name, &typeName, &labels); err != nil {
			return nil, err
		}
		attrType, err := dataset.ParseAttrType(typeName)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", id, err)
		}
		attr := dataset.Attribute{Name: name, Type: attrType}
		if labels.Valid {
			if err := json.Unmarshal([]byte(labels.String), &attr.Labels); err != nil {
				return nil, fmt.Errorf("model %s attribute %s labels: %w", id, name, err)
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs, rows.Err()
}

// ListModels returns summaries of stored models, newest first.
func (s *sqliteStore) ListModels(ctx context.Context) ([]store.Info, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT m.id, m.created_at, m.words_to_keep, m.relation,
       (SELECT COUNT(*) FROM model_words w WHERE w.model_id = m.id)
FROM models m
ORDER BY m.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []store.Info
	for rows.Next() {
		var (
			info      store.Info
			createdAt string
		)
		if err := rows.Scan(&info.ID, &createdAt, &info.WordsToKeep, &info.Relation, &info.DictSize); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for model %s: %w", info.ID, err)
		}
		info.CreatedAt = ts
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteModel removes a model; word and attribute rows cascade.
func (s *sqliteStore) DeleteModel(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return internalerr.ErrNotFound
	}
	return nil
}
