package counter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteDriverName = "sqlite3"
	sqliteDSNParams  = "?_busy_timeout=5000&_journal_mode=WAL"

	queryCreateTable = `CREATE TABLE IF NOT EXISTS downloads (
	file  TEXT PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 0
)`
	querySelectAll = `SELECT file, count FROM downloads`
	queryIncrement = `INSERT INTO downloads (file, count) VALUES (?, 1)
ON CONFLICT(file) DO UPDATE SET count = count + 1
RETURNING count`
)

type sqliteRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSQLiteRepository(path string, log *slog.Logger) (*sqliteRepository, error) {
	db, err := sql.Open(sqliteDriverName, "file:"+path+sqliteDSNParams)
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite database %s: %w", path, err)
	}

	// One writer at a time; sqlite would answer SQLITE_BUSY otherwise.
	db.SetMaxOpenConns(1)

	return &sqliteRepository{
		db:  db,
		log: log.With(slog.String("item", "SQLiteCounterRepository")),
	}, nil
}

func (r *sqliteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, queryCreateTable); err != nil {
		return fmt.Errorf("cannot create downloads table: %w", err)
	}

	return nil
}

func (r *sqliteRepository) LoadAll(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, querySelectAll)
	if err != nil {
		return nil, fmt.Errorf("cannot query counters: %w", err)
	}
	defer rows.Close()

	counters := make(map[string]int64)
	for rows.Next() {
		var (
			name  string
			count int64
		)

		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("cannot scan counter row: %w", err)
		}

		counters[name] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot read counters: %w", err)
	}

	return counters, nil
}

func (r *sqliteRepository) Increment(ctx context.Context, name string) (int64, error) {
	var counter int64
	if err := r.db.QueryRowContext(ctx, queryIncrement, name).Scan(&counter); err != nil {
		return 0, fmt.Errorf("cannot increment file %s counter: %w", name, err)
	}

	return counter, nil
}

func (r *sqliteRepository) Close() error {
	return r.db.Close()
}
