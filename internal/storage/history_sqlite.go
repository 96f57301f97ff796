package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"countdown/internal/core/countdown"

	_ "github.com/mattn/go-sqlite3"
)

const historyFileName = "history.db"

// Outcome describes how a cycle ended.
type Outcome string

const (
	OutcomeExpired Outcome = "expired"
	OutcomeStopped Outcome = "stopped"
)

// CycleRecord is one finished countdown cycle.
type CycleRecord struct {
	ID             int64
	StartedAt      time.Time
	EndedAt        time.Time
	Outcome        Outcome
	Extended       bool
	Pauses         int
	ElapsedSeconds int
}

// Summary aggregates cycles finished since a point in time.
type Summary struct {
	Cycles   int
	Expired  int
	Stopped  int
	Extended int
}

// History is the SQLite journal of finished cycles.
type History struct {
	db *sql.DB
}

// HistoryPath returns the default journal location for appName.
func HistoryPath(appName string) (string, error) {
	return resolveConfigPath(appName, historyFileName)
}

// OpenHistory opens or creates the journal database at path.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}

	history := &History{db: db}
	if err := history.initTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return history, nil
}

func (history *History) initTables() error {
	_, err := history.db.Exec(`
        CREATE TABLE IF NOT EXISTS cycles (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            started_at INTEGER NOT NULL,
            ended_at INTEGER NOT NULL,
            outcome TEXT NOT NULL,
            extended INTEGER NOT NULL DEFAULT 0,
            pauses INTEGER NOT NULL DEFAULT 0,
            elapsed_seconds INTEGER NOT NULL DEFAULT 0
        )
    `)
	if err != nil {
		return fmt.Errorf("create cycles table: %w", err)
	}

	_, err = history.db.Exec(`CREATE INDEX IF NOT EXISTS idx_cycles_ended_at ON cycles(ended_at)`)
	if err != nil {
		return fmt.Errorf("create cycles index: %w", err)
	}
	return nil
}

// Close releases the database.
func (history *History) Close() error {
	return history.db.Close()
}

// Save stores a finished cycle and returns its id.
func (history *History) Save(ctx context.Context, record CycleRecord) (int64, error) {
	result, err := history.db.ExecContext(ctx, `
        INSERT INTO cycles (started_at, ended_at, outcome, extended, pauses, elapsed_seconds)
        VALUES (?, ?, ?, ?, ?, ?)
    `,
		record.StartedAt.UnixMilli(),
		record.EndedAt.UnixMilli(),
		string(record.Outcome),
		boolToInt(record.Extended),
		record.Pauses,
		record.ElapsedSeconds,
	)
	if err != nil {
		return 0, fmt.Errorf("insert cycle: %w", err)
	}
	return result.LastInsertId()
}

// Recent returns up to limit cycles, newest first.
func (history *History) Recent(ctx context.Context, limit int) ([]CycleRecord, error) {
	rows, err := history.db.QueryContext(ctx, `
        SELECT id, started_at, ended_at, outcome, extended, pauses, elapsed_seconds
        FROM cycles
        ORDER BY ended_at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var records []CycleRecord
	for rows.Next() {
		var (
			record    CycleRecord
			startedAt int64
			endedAt   int64
			outcome   string
			extended  int
		)
		if err := rows.Scan(&record.ID, &startedAt, &endedAt, &outcome, &extended, &record.Pauses, &record.ElapsedSeconds); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		record.StartedAt = time.UnixMilli(startedAt)
		record.EndedAt = time.UnixMilli(endedAt)
		record.Outcome = Outcome(outcome)
		record.Extended = extended != 0
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return records, nil
}

// Summary counts cycles that ended at or after since.
func (history *History) Summary(ctx context.Context, since time.Time) (Summary, error) {
	var summary Summary
	err := history.db.QueryRowContext(ctx, `
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(extended), 0)
        FROM cycles
        WHERE ended_at >= ?
    `, string(OutcomeExpired), string(OutcomeStopped), since.UnixMilli()).Scan(
		&summary.Cycles,
		&summary.Expired,
		&summary.Stopped,
		&summary.Extended,
	)
	if err != nil {
		return summary, fmt.Errorf("summarize cycles: %w", err)
	}
	return summary, nil
}

// CycleTracker folds engine events into cycle records.
type CycleTracker struct {
	active  bool
	current CycleRecord
}

// Observe consumes one event and returns a record when a cycle finishes.
func (tracker *CycleTracker) Observe(event countdown.Event) (CycleRecord, bool) {
	switch event.Type {
	case countdown.EventStateChange:
		switch {
		case event.State.Status == countdown.StatusRunning && !tracker.active:
			tracker.active = true
			tracker.current = CycleRecord{
				StartedAt: event.At,
				Extended:  event.State.ExtensionUsed,
			}
		case event.State.Status == countdown.StatusPaused && tracker.active:
			tracker.current.Pauses++
		}
	case countdown.EventTick:
		if tracker.active {
			tracker.current.ElapsedSeconds++
		}
	case countdown.EventExtended:
		if tracker.active {
			tracker.current.Extended = true
		}
	case countdown.EventExpired:
		if tracker.active {
			tracker.current.ElapsedSeconds++
			return tracker.finish(OutcomeExpired, event.At), true
		}
	case countdown.EventReset:
		if tracker.active {
			return tracker.finish(OutcomeStopped, event.At), true
		}
	}
	return CycleRecord{}, false
}

func (tracker *CycleTracker) finish(outcome Outcome, at time.Time) CycleRecord {
	record := tracker.current
	record.Outcome = outcome
	record.EndedAt = at
	tracker.active = false
	tracker.current = CycleRecord{}
	return record
}

// Record journals finished cycles from events until ctx is done or events
// is closed. Write failures are logged and never reach the engine.
func (history *History) Record(ctx context.Context, events <-chan countdown.Event, onSaved func(CycleRecord)) {
	var tracker CycleTracker
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			record, done := tracker.Observe(event)
			if !done {
				continue
			}
			id, err := history.Save(ctx, record)
			if err != nil {
				log.Printf("history: %v", err)
				continue
			}
			record.ID = id
			if onSaved != nil {
				onSaved(record)
			}
		}
	}
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
