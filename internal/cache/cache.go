// Package cache implements spec §11.2: a compile cache keyed by source
// text plus optimization level and target triple, backed by database/sql exactly the way
// the teacher's internal/database.DBManager maps a database type string
// to a driver name and opens a DSN connection. Skipping an unchanged
// file's parse/optimize/speculate work is the only thing this package
// does; it has no bearing on any §4 contract.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Entry is what gets cached for a given source+flags key: the rendered
// optimized IR (stored as text only; it is not parsed back into a
// Program), the warnings the optimizer raised, and the captured
// speculative-execution output and state.
type Entry struct {
	RenderedIR string
	Warnings   []string
	Outputs    []byte
	CellPtr    int
	Cells      []int8
	StartInstr []int // nil means the program ran to completion
	CreatedAt  time.Time
}

// Store is a compile cache backed by a SQL database.
type Store struct {
	db *sql.DB
}

// Open maps dbType the same way internal/database.DBManager.Connect
// does and opens dsn, creating the cache table if it does not already
// exist. driver "" / "sqlite" (default) uses modernc.org/sqlite, a
// pure-Go, cgo-free driver, so a cache directory needs no C toolchain;
// "sqlite3" selects github.com/mattn/go-sqlite3's cgo-based driver
// instead, registered under its own driver name, for installations that
// already pay the cgo cost and want its more mature locking behavior.
func Open(dbType, dsn string) (*Store, error) {
	var driverName string
	switch dbType {
	case "", "sqlite":
		driverName = "sqlite"
	case "sqlite3":
		driverName = "sqlite3"
	case "postgres", "postgresql":
		driverName = "postgres"
	case "mysql":
		driverName = "mysql"
	case "mssql", "sqlserver":
		driverName = "sqlserver"
	default:
		return nil, fmt.Errorf("unsupported cache database type: %s", dbType)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache table: %w", err)
	}

	return &Store{db: db}, nil
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS compile_cache (
	key TEXT PRIMARY KEY,
	rendered_ir TEXT NOT NULL,
	warnings TEXT NOT NULL,
	outputs BLOB NOT NULL,
	cell_ptr INTEGER NOT NULL,
	cells BLOB NOT NULL,
	start_instr TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// Key hashes the source text and every flag that affects compilation
// output into a cache lookup key.
func Key(source string, optLevel int, targetTriple string) string {
	h := sha256.New()
	h.Write([]byte(source))
	fmt.Fprintf(h, "\x00opt=%d\x00target=%s", optLevel, targetTriple)
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the cached entry for key, if any.
func (s *Store) Lookup(key string) (Entry, bool, error) {
	var e Entry
	var warnings, startInstr string
	var cells []byte
	row := s.db.QueryRow(
		`SELECT rendered_ir, warnings, outputs, cell_ptr, cells, start_instr, created_at
		   FROM compile_cache WHERE key = ?`, key)
	err := row.Scan(&e.RenderedIR, &warnings, &e.Outputs, &e.CellPtr, &cells, &startInstr, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("querying cache: %w", err)
	}
	e.Warnings = splitNonEmpty(warnings, '\n')
	e.Cells = bytesToInt8(cells)
	e.StartInstr = parsePath(startInstr)
	return e, true, nil
}

// Put stores (or replaces) the cached entry for key. The upsert syntax
// below is sqlite's; a mysql/postgres/mssql-backed cache needs its own
// dialect here, same as db_manager.go never abstracted dialect
// differences beyond driver selection.
func (s *Store) Put(key string, e Entry) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO compile_cache
		   (key, rendered_ir, warnings, outputs, cell_ptr, cells, start_instr, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key, e.RenderedIR, joinLines(e.Warnings), e.Outputs, e.CellPtr,
		int8ToBytes(e.Cells), formatPath(e.StartInstr), time.Now())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

func splitNonEmpty(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func int8ToBytes(cells []int8) []byte {
	out := make([]byte, len(cells))
	for i, c := range cells {
		out[i] = byte(c)
	}
	return out
}

func bytesToInt8(b []byte) []int8 {
	out := make([]int8, len(b))
	for i, c := range b {
		out[i] = int8(c)
	}
	return out
}

func formatPath(path []int) string {
	if path == nil {
		return "none"
	}
	out := ""
	for i, p := range path {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%d", p)
	}
	return out
}

func parsePath(s string) []int {
	if s == "none" || s == "" {
		return nil
	}
	parts := splitNonEmpty(s, ',')
	out := make([]int, len(parts))
	for i, p := range parts {
		fmt.Sscanf(p, "%d", &out[i])
	}
	return out
}
