// Package persistence stores save slots and the archived news log in SQLite.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"airline_tycoon/internal/models"
)

var (
	ErrSlotNotFound = errors.New("save slot not found")
	// ErrBadSnapshot marks a slot whose stored blob cannot be decoded.
	ErrBadSnapshot = errors.New("save slot snapshot is unreadable")
)

// DB wraps a SQLite connection holding save slots.
type DB struct {
	conn *sqlx.DB
	log  *slog.Logger
}

// SlotInfo describes a save slot without its snapshot.
type SlotInfo struct {
	ID            string  `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	GameID        string  `db:"game_id" json:"game_id"`
	Year          int     `db:"year" json:"year"`
	Quarter       int     `db:"quarter" json:"quarter"`
	Cash          float64 `db:"cash" json:"cash"`
	SchemaVersion int     `db:"schema_version" json:"schema_version"`
	CreatedAt     int64   `db:"created_at" json:"created_at"`
}

func (s SlotInfo) Created() time.Time {
	return time.Unix(s.CreatedAt, 0)
}

// Open opens or creates a SQLite database at the given path. A nil logger
// falls back to slog.Default.
func Open(path string, logger *slog.Logger) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	db := &DB{conn: conn, log: logger}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		game_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		quarter INTEGER NOT NULL,
		cash REAL NOT NULL,
		schema_version INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		snapshot BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS news (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		quarter INTEGER NOT NULL,
		message TEXT NOT NULL,
		UNIQUE (game_id, year, quarter, message)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_created ON saves(created_at);
	CREATE INDEX IF NOT EXISTS idx_news_game ON news(game_id);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}
	return db.SaveMeta("schema_version", strconv.Itoa(models.SchemaVersion))
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", key, value)
	return err
}

func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// SaveSlot writes a new slot holding st and archives its news log. The
// archive keeps entries the bounded in-game log has already dropped.
func (db *DB) SaveSlot(name string, st models.GameState) (SlotInfo, error) {
	snapshot, err := EncodeSnapshot(st)
	if err != nil {
		return SlotInfo{}, fmt.Errorf("encode snapshot: %w", err)
	}
	if name == "" {
		name = fmt.Sprintf("Q%d %d", st.Quarter, st.Year)
	}
	info := SlotInfo{
		ID:            uuid.NewString(),
		Name:          name,
		GameID:        st.GameID,
		Year:          st.Year,
		Quarter:       st.Quarter,
		Cash:          st.Cash,
		SchemaVersion: st.SchemaVersion,
		CreatedAt:     time.Now().Unix(),
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return SlotInfo{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO saves
		(id, name, game_id, year, quarter, cash, schema_version, created_at, snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.ID, info.Name, info.GameID, info.Year, info.Quarter, info.Cash,
		info.SchemaVersion, info.CreatedAt, snapshot)
	if err != nil {
		return SlotInfo{}, fmt.Errorf("insert save: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO news (game_id, year, quarter, message) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return SlotInfo{}, err
	}
	defer stmt.Close()
	for _, n := range st.News {
		if _, err := stmt.Exec(st.GameID, n.Year, n.Quarter, n.Message); err != nil {
			return SlotInfo{}, fmt.Errorf("archive news: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return SlotInfo{}, err
	}
	db.log.Info("game saved", "slot", info.ID, "name", info.Name, "game_id", info.GameID, "bytes", len(snapshot))
	return info, nil
}

// ListSlots returns every slot, newest first.
func (db *DB) ListSlots() ([]SlotInfo, error) {
	slots := []SlotInfo{}
	err := db.conn.Select(&slots, `SELECT id, name, game_id, year, quarter, cash, schema_version, created_at
		FROM saves ORDER BY created_at DESC, rowid DESC`)
	return slots, err
}

// LoadSlot decodes the snapshot stored under id. Schema compatibility is
// left to the caller restoring the state.
func (db *DB) LoadSlot(id string) (models.GameState, error) {
	var blob []byte
	err := db.conn.Get(&blob, "SELECT snapshot FROM saves WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GameState{}, fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	if err != nil {
		return models.GameState{}, err
	}
	st, err := DecodeSnapshot(blob)
	if err != nil {
		return models.GameState{}, fmt.Errorf("%w: %s: %v", ErrBadSnapshot, id, err)
	}
	return st, nil
}

func (db *DB) DeleteSlot(id string) error {
	res, err := db.conn.Exec("DELETE FROM saves WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	return nil
}

// NewsArchive returns up to limit archived entries for a game, oldest first.
func (db *DB) NewsArchive(gameID string, limit int) ([]models.NewsEntry, error) {
	news := []models.NewsEntry{}
	err := db.conn.Select(&news, `SELECT year, quarter, message FROM (
			SELECT id, year, quarter, message FROM news WHERE game_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id`, gameID, limit)
	return news, err
}
