package baseline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"github.com/litescript/ls-backdrop/internal/sim"
)

// ErrNotFound is returned when no recording has the requested ID.
var ErrNotFound = errors.New("recording not found")

// Info describes a stored recording without its samples.
type Info struct {
	ID        string    `json:"id" db:"id"`
	Theme     sim.Theme `json:"theme" db:"theme"`
	Seed      uint64    `json:"seed" db:"-"`
	Width     float64   `json:"width" db:"width"`
	Height    float64   `json:"height" db:"height"`
	Ticks     int       `json:"ticks" db:"ticks"`
	CreatedAt time.Time `json:"created_at" db:"-"`

	SeedBits int64 `json:"-" db:"seed"`
	Created  int64 `json:"-" db:"created_at"`
}

type recordingRow struct {
	Info
	Config  []byte `db:"config"`
	Samples []byte `db:"samples"`
}

// Store persists recordings in SQLite.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a recording database at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS recordings (
		id TEXT PRIMARY KEY,
		theme TEXT NOT NULL,
		seed INTEGER NOT NULL,
		width REAL NOT NULL,
		height REAL NOT NULL,
		ticks INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		config BLOB NOT NULL,
		samples BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recordings_created ON recordings(created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Save writes rec, replacing any recording with the same ID. A recording
// without an ID is assigned one.
func (s *Store) Save(ctx context.Context, rec *Recording) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	cfg, err := msgpack.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	samples, err := msgpack.Marshal(rec.Samples)
	if err != nil {
		return fmt.Errorf("encode samples: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `INSERT OR REPLACE INTO recordings
		(id, theme, seed, width, height, ticks, created_at, config, samples)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Theme), int64(rec.Seed), rec.Size.W, rec.Size.H,
		rec.Ticks, rec.CreatedAt.UnixNano(), cfg, samples)
	if err != nil {
		return fmt.Errorf("save recording %s: %w", rec.ID, err)
	}
	return nil
}

// Load reads the recording with the given ID.
func (s *Store) Load(ctx context.Context, id string) (*Recording, error) {
	var row recordingRow
	err := s.conn.GetContext(ctx, &row, `SELECT id, theme, seed, width, height, ticks,
		created_at, config, samples FROM recordings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", id, err)
	}

	row.Info.fill()
	rec := &Recording{
		ID:        row.ID,
		Theme:     row.Theme,
		Seed:      row.Seed,
		Size:      sim.Size{W: row.Width, H: row.Height},
		Ticks:     row.Ticks,
		CreatedAt: row.CreatedAt,
	}
	if err := msgpack.Unmarshal(row.Config, &rec.Config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := msgpack.Unmarshal(row.Samples, &rec.Samples); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	return rec, nil
}

// List returns every stored recording, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	err := s.conn.SelectContext(ctx, &infos, `SELECT id, theme, seed, width, height, ticks,
		created_at FROM recordings ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	for i := range infos {
		infos[i].fill()
	}
	return infos, nil
}

// Delete removes the recording with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM recordings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete recording %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recording %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// fill converts the raw column values into their exported forms.
func (i *Info) fill() {
	i.Seed = uint64(i.SeedBits)
	i.CreatedAt = time.Unix(0, i.Created).UTC()
}

// Info returns the header of rec.
func (rec *Recording) Info() Info {
	return Info{
		ID:        rec.ID,
		Theme:     rec.Theme,
		Seed:      rec.Seed,
		Width:     rec.Size.W,
		Height:    rec.Size.H,
		Ticks:     rec.Ticks,
		CreatedAt: rec.CreatedAt,
	}
}
