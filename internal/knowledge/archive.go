package knowledge

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Archive persists knowledge store snapshots to SQLite so a session's learned
// records survive a restart. The live store remains the source of truth; the
// archive is written on demand and read once at startup.
type Archive struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenArchive opens (or creates) the archive database at path.
func OpenArchive(path string, logger *zap.Logger) (*Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge archive: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS knowledge_records (
			persona    TEXT NOT NULL,
			topic      TEXT NOT NULL,
			content    TEXT NOT NULL,
			source     TEXT NOT NULL,
			learned_at TEXT NOT NULL,
			PRIMARY KEY (persona, topic)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create knowledge_records table: %w", err)
	}
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_records_persona ON knowledge_records(persona)`)

	return &Archive{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Save writes the store's current contents, replacing any prior snapshot.
func (a *Archive) Save(s *Store) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM knowledge_records`); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear prior snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO knowledge_records (persona, topic, content, source, learned_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	saved := 0
	s.mu.RLock()
	for _, key := range s.order {
		for _, topic := range s.inserted[key] {
			rec := s.buckets[key][topic]
			if _, err := stmt.Exec(key, rec.Topic, rec.Content, string(rec.Source), rec.LearnedAt.Format(time.RFC3339)); err != nil {
				s.mu.RUnlock()
				tx.Rollback()
				return fmt.Errorf("failed to snapshot record %s/%s: %w", key, topic, err)
			}
			saved++
		}
	}
	s.mu.RUnlock()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	a.logger.Info("knowledge snapshot saved", zap.Int("records", saved))
	return nil
}

// Load replays an archived snapshot into the store. Records for personas the
// store does not know are skipped. Timestamps are preserved from the archive.
func (a *Archive) Load(s *Store) error {
	rows, err := a.db.Query(`SELECT persona, topic, content, source, learned_at FROM knowledge_records ORDER BY learned_at`)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var personaKey, topic, content, source, learnedAt string
		if err := rows.Scan(&personaKey, &topic, &content, &source, &learnedAt); err != nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339, learnedAt)
		if err != nil {
			ts = time.Now()
		}
		s.restore(personaKey, Record{
			Topic:     topic,
			Content:   content,
			Source:    Source(source),
			LearnedAt: ts,
		})
		loaded++
	}
	a.logger.Info("knowledge snapshot loaded", zap.Int("records", loaded))
	return rows.Err()
}
