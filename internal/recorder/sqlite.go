package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists AnalysisAuditRecords to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS analysis_audit (
		id         TEXT PRIMARY KEY,
		timestamp  INTEGER NOT NULL,
		tool       TEXT,
		symbol     TEXT,
		timeframe  TEXT,
		risk       TEXT,
		verdict    TEXT,
		confidence REAL
	)`)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_audit_ts ON analysis_audit(timestamp)`)
	return err
}

// RecordAnalysis inserts one audit row, assigning a uuid if the caller left
// ID empty.
func (r *SQLiteRecorder) RecordAnalysis(rec *AnalysisAuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.db.Exec(`INSERT INTO analysis_audit
		(id, timestamp, tool, symbol, timeframe, risk, verdict, confidence)
		VALUES (?,?,?,?,?,?,?,?)`,
		id, rec.Timestamp.Unix(), rec.Tool, rec.Symbol, rec.Timeframe, rec.Risk, rec.Verdict, rec.Confidence,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
