package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db            *sql.DB
	byRarityStmt  *sql.Stmt
	invTotalStmt  *sql.Stmt
	invUpsertStmt *sql.Stmt
	countIncrStmt *sql.Stmt
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db path: %w", err)
	}

	// DSN notes:
	// - _pragma=busy_timeout sets a lock wait
	// - _pragma=journal_mode(WAL) enables the write-ahead log
	// - _pragma=synchronous(NORMAL) sets the disk synchronizing
	//	 mode to NORMAL (recommended with WAL enabled)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", filepath.Clean(dbPath))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	byRarity, err := db.Prepare(`
		SELECT id, name, rarity, price
		FROM fish
		WHERE rarity = ?
	`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	invTotal, err := db.Prepare(`
		SELECT COALESCE(SUM(count), 0)
		FROM inventory
		WHERE user_id = ?
	`)
	if err != nil {
		_ = byRarity.Close()
		_ = db.Close()
		return nil, err
	}

	invUpsert, err := db.Prepare(`
		INSERT INTO inventory (user_id, fish_id, count)
		VALUES (?,?,1)
		ON CONFLICT(user_id, fish_id) DO UPDATE SET count = count + 1
	`)
	if err != nil {
		_ = byRarity.Close()
		_ = invTotal.Close()
		_ = db.Close()
		return nil, err
	}

	countIncr, err := db.Prepare(`
		INSERT INTO users (user_id, fishing_count)
		VALUES (?,1)
		ON CONFLICT(user_id) DO UPDATE SET fishing_count = fishing_count + 1
	`)
	if err != nil {
		_ = byRarity.Close()
		_ = invTotal.Close()
		_ = invUpsert.Close()
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{
		db:            db,
		byRarityStmt:  byRarity,
		invTotalStmt:  invTotal,
		invUpsertStmt: invUpsert,
		countIncrStmt: countIncr,
	}, nil
}

func (s *SQLiteStore) Close() error {
	if s.byRarityStmt != nil {
		_ = s.byRarityStmt.Close()
	}
	if s.invTotalStmt != nil {
		_ = s.invTotalStmt.Close()
	}
	if s.invUpsertStmt != nil {
		_ = s.invUpsertStmt.Close()
	}
	if s.countIncrStmt != nil {
		_ = s.countIncrStmt.Close()
	}

	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	// The users.inventory column predates the inventory table and is kept
	// for old rows; nothing reads or writes it anymore.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS fish (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			name    TEXT    NOT NULL UNIQUE,
			rarity  INTEGER NOT NULL,
			price   INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS users (
			user_id        BIGINT  PRIMARY KEY,
			balance        INTEGER NOT NULL DEFAULT 0,
			fishing_count  INTEGER NOT NULL DEFAULT 0,
			fishing_rod    TEXT    NOT NULL DEFAULT 'Old Rod',
			inventory      TEXT    NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS inventory (
			user_id  BIGINT  NOT NULL,
			fish_id  INTEGER NOT NULL REFERENCES fish(id),
			count    INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (user_id, fish_id)
		);

		CREATE INDEX IF NOT EXISTS idx_fish_rarity
			ON fish (rarity);

		CREATE INDEX IF NOT EXISTS idx_users_fishing_count
			ON users (fishing_count DESC);
	`)
	return err
}

// SeedCatalog inserts the given definitions when the fish table is empty.
// An already-populated catalog is left untouched.
func (s *SQLiteStore) SeedCatalog(ctx context.Context, defs []fish.Definition) (int, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fish`).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	inserted := 0
	for _, d := range defs {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO fish (name, rarity, price) VALUES (?,?,?)`,
			d.Name, int(d.Rarity), d.Price,
		); err != nil {
			return inserted, fmt.Errorf("seeding %q: %w", d.Name, err)
		}
		inserted++
	}
	return inserted, nil
}

func (s *SQLiteStore) AddFish(ctx context.Context, name string, rarity fish.Rarity, price int64) (fish.Definition, error) {
	if s == nil || s.db == nil {
		return fish.Definition{}, errors.New("store not initialized")
	}

	if price < 0 {
		return fish.Definition{}, fmt.Errorf("price must be non-negative, got %d", price)
	}
	if !rarity.Valid() {
		return fish.Definition{}, fmt.Errorf("unknown rarity %d", int(rarity))
	}

	// Admin mutations are rare; the connection pool is a single
	// connection, so check-then-insert cannot interleave.
	var existing int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM fish WHERE name = ?`, name).Scan(&existing)
	if err == nil {
		return fish.Definition{}, ErrDuplicateName
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fish.Definition{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO fish (name, rarity, price) VALUES (?,?,?)`,
		name, int(rarity), price,
	)
	if err != nil {
		return fish.Definition{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fish.Definition{}, err
	}

	return fish.Definition{ID: id, Name: name, Rarity: rarity, Price: price}, nil
}

func (s *SQLiteStore) RemoveFish(ctx context.Context, name string) (fish.Definition, error) {
	if s == nil || s.db == nil {
		return fish.Definition{}, errors.New("store not initialized")
	}

	var d fish.Definition
	var rarity int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, rarity, price FROM fish WHERE name = ?`, name,
	).Scan(&d.ID, &d.Name, &rarity, &d.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return fish.Definition{}, ErrNotFound
	}
	if err != nil {
		return fish.Definition{}, err
	}
	d.Rarity = fish.Rarity(rarity)

	// Inventory rows referencing the deleted id are left in place; the
	// joined inventory queries simply stop matching them.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fish WHERE id = ?`, d.ID); err != nil {
		return fish.Definition{}, err
	}

	return d, nil
}

func (s *SQLiteStore) FishByRarity(ctx context.Context, rarity fish.Rarity) ([]fish.Definition, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}

	rows, err := s.byRarityStmt.QueryContext(ctx, int(rarity))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDefinitions(rows)
}

func (s *SQLiteStore) AllFish(ctx context.Context) ([]fish.Definition, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, rarity, price FROM fish ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDefinitions(rows)
}

func scanDefinitions(rows *sql.Rows) ([]fish.Definition, error) {
	var out []fish.Definition
	for rows.Next() {
		var d fish.Definition
		var rarity int
		if err := rows.Scan(&d.ID, &d.Name, &rarity, &d.Price); err != nil {
			return nil, err
		}
		d.Rarity = fish.Rarity(rarity)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) InventoryTotal(ctx context.Context, userID int64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialized")
	}

	var total int64
	if err := s.invTotalStmt.QueryRowContext(ctx, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// AddToInventory is check-then-upsert rather than a transaction: the
// session tracker guarantees at most one in-flight catch per user, so
// two adds for the same user never interleave.
func (s *SQLiteStore) AddToInventory(ctx context.Context, userID, fishID int64) (bool, error) {
	if s == nil || s.db == nil {
		return false, errors.New("store not initialized")
	}

	total, err := s.InventoryTotal(ctx, userID)
	if err != nil {
		return false, err
	}
	if total >= MaxInventory {
		return false, nil
	}

	if _, err := s.invUpsertStmt.ExecContext(ctx, userID, fishID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) InventoryByRarity(ctx context.Context, userID int64, rarity fish.Rarity) ([]InventoryEntry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.name, f.rarity, f.price, i.count
		FROM inventory i
		JOIN fish f ON f.id = i.fish_id
		WHERE i.user_id = ? AND f.rarity = ?
		ORDER BY f.name ASC
	`, userID, int(rarity))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InventoryEntry
	for rows.Next() {
		var e InventoryEntry
		var r int
		if err := rows.Scan(&e.Fish.ID, &e.Fish.Name, &r, &e.Fish.Price, &e.Count); err != nil {
			return nil, err
		}
		e.Fish.Rarity = fish.Rarity(r)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetInventoryEntry(ctx context.Context, userID, fishID int64) (InventoryEntry, bool, error) {
	if s == nil || s.db == nil {
		return InventoryEntry{}, false, errors.New("store not initialized")
	}

	var e InventoryEntry
	var r int
	err := s.db.QueryRowContext(ctx, `
		SELECT f.id, f.name, f.rarity, f.price, i.count
		FROM inventory i
		JOIN fish f ON f.id = i.fish_id
		WHERE i.user_id = ? AND i.fish_id = ?
	`, userID, fishID).Scan(&e.Fish.ID, &e.Fish.Name, &r, &e.Fish.Price, &e.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return InventoryEntry{}, false, nil
	}
	if err != nil {
		return InventoryEntry{}, false, err
	}
	e.Fish.Rarity = fish.Rarity(r)
	return e, true, nil
}

func (s *SQLiteStore) HeldRarities(ctx context.Context, userID int64) ([]fish.Rarity, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT f.rarity
		FROM inventory i
		JOIN fish f ON f.id = i.fish_id
		WHERE i.user_id = ?
		ORDER BY f.rarity ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fish.Rarity
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		out = append(out, fish.Rarity(r))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetOrCreateProfile(ctx context.Context, userID int64) (Profile, error) {
	if s == nil || s.db == nil {
		return Profile{}, errors.New("store not initialized")
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id) VALUES (?)
		ON CONFLICT(user_id) DO NOTHING
	`, userID); err != nil {
		return Profile{}, err
	}

	var p Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, balance, fishing_count, fishing_rod
		FROM users
		WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.Balance, &p.FishingCount, &p.RodTier)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *SQLiteStore) IncrementFishingCount(ctx context.Context, userID int64) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}

	_, err := s.countIncrStmt.ExecContext(ctx, userID)
	return err
}

func (s *SQLiteStore) TopByFishingCount(ctx context.Context, limit int) ([]Profile, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}

	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, balance, fishing_count, fishing_rod
		FROM users
		WHERE fishing_count > 0
		ORDER BY fishing_count DESC, user_id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Profile, 0, limit)
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.UserID, &p.Balance, &p.FishingCount, &p.RodTier); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
