package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gridcolony/navsim/internal/data"
	"github.com/jackc/pgx/v5"
)

var ErrLayoutNotFound = errors.New("layout not found")

const (
	kindWall    int16 = 0
	kindMachine int16 = 1
)

// LayoutSnapshot is one saved layout.
type LayoutSnapshot struct {
	ID       uuid.UUID
	Name     string
	RunID    uuid.UUID
	GridSize int
	Layout   *data.Layout
}

type LayoutRepo struct {
	db *DB
}

func NewLayoutRepo(db *DB) *LayoutRepo {
	return &LayoutRepo{db: db}
}

// Save stores l as a new snapshot under name in a single transaction and
// returns the snapshot id. Older snapshots are kept.
func (r *LayoutRepo) Save(ctx context.Context, name string, runID uuid.UUID, gridSize int, l *data.Layout) (uuid.UUID, error) {
	id := uuid.New()
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("layout begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO layouts (id, name, run_id, grid_size) VALUES ($1, $2, $3, $4)`,
		[16]byte(id), name, [16]byte(runID), gridSize,
	); err != nil {
		return uuid.Nil, fmt.Errorf("insert layout: %w", err)
	}

	rows := cellRows(id, l)
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"layout_cells"},
		[]string{"layout_id", "kind", "x", "y", "use_x", "use_y"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return uuid.Nil, fmt.Errorf("copy layout cells: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("layout commit: %w", err)
	}
	return id, nil
}

// Load returns the most recent snapshot saved under name.
func (r *LayoutRepo) Load(ctx context.Context, name string) (*LayoutSnapshot, error) {
	snap := &LayoutSnapshot{Name: name}
	var id, runID string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id::text, run_id::text, grid_size FROM layouts
		 WHERE name = $1 ORDER BY created_at DESC LIMIT 1`, name,
	).Scan(&id, &runID, &snap.GridSize)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLayoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load layout %s: %w", name, err)
	}
	if snap.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("layout id: %w", err)
	}
	if snap.RunID, err = uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("layout run id: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT kind, x, y, use_x, use_y FROM layout_cells
		 WHERE layout_id = $1 ORDER BY kind, y, x`, [16]byte(snap.ID))
	if err != nil {
		return nil, fmt.Errorf("load layout cells: %w", err)
	}
	defer rows.Close()

	var cells []cellRow
	for rows.Next() {
		var c cellRow
		if err := rows.Scan(&c.kind, &c.x, &c.y, &c.useX, &c.useY); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	snap.Layout = layoutFromCells(cells)
	return snap, nil
}

// Prune deletes all but the keep most recent snapshots under name.
func (r *LayoutRepo) Prune(ctx context.Context, name string, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM layouts WHERE name = $1 AND id NOT IN (
		     SELECT id FROM layouts WHERE name = $1 ORDER BY created_at DESC LIMIT $2)`,
		name, keep)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type cellRow struct {
	kind             int16
	x, y, useX, useY int32
}

func cellRows(id uuid.UUID, l *data.Layout) [][]any {
	sid := [16]byte(id)
	out := make([][]any, 0, len(l.Walls)+len(l.Machines))
	for _, w := range l.Walls {
		out = append(out, []any{sid, kindWall, int32(w.X), int32(w.Y), int32(0), int32(0)})
	}
	for _, m := range l.Machines {
		out = append(out, []any{sid, kindMachine, int32(m.X), int32(m.Y), int32(m.UseX), int32(m.UseY)})
	}
	return out
}

func layoutFromCells(cells []cellRow) *data.Layout {
	l := &data.Layout{}
	for _, c := range cells {
		switch c.kind {
		case kindWall:
			l.Walls = append(l.Walls, data.Point{X: int(c.x), Y: int(c.y)})
		case kindMachine:
			l.Machines = append(l.Machines, data.MachineEntry{
				X: int(c.x), Y: int(c.y), UseX: int(c.useX), UseY: int(c.useY),
			})
		}
	}
	return l
}
