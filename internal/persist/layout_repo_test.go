package persist

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gridcolony/navsim/internal/config"
	"github.com/gridcolony/navsim/internal/data"
	"go.uber.org/zap"
)

func sampleLayout() *data.Layout {
	return &data.Layout{
		Walls:    []data.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
		Machines: []data.MachineEntry{{X: 5, Y: 6, UseX: 1, UseY: 0}},
	}
}

func TestCellRowsRoundTrip(t *testing.T) {
	id := uuid.New()
	rows := cellRows(id, sampleLayout())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	cells := make([]cellRow, len(rows))
	for i, r := range rows {
		if r[0] != [16]byte(id) {
			t.Fatalf("row %d has layout id %v", i, r[0])
		}
		cells[i] = cellRow{kind: r[1].(int16), x: r[2].(int32), y: r[3].(int32), useX: r[4].(int32), useY: r[5].(int32)}
	}
	got := layoutFromCells(cells)
	want := sampleLayout()
	if len(got.Walls) != 2 || got.Walls[1] != want.Walls[1] {
		t.Fatalf("walls = %v", got.Walls)
	}
	if len(got.Machines) != 1 || got.Machines[0] != want.Machines[0] {
		t.Fatalf("machines = %v", got.Machines)
	}
}

// TestLayoutRepoPostgres runs against a real database when NAVSIM_TEST_DSN
// is set.
func TestLayoutRepoPostgres(t *testing.T) {
	dsn := os.Getenv("NAVSIM_TEST_DSN")
	if dsn == "" {
		t.Skip("NAVSIM_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetime: time.Minute}, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()
	if err := RunMigrations(ctx, db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := NewLayoutRepo(db)
	name := "test-" + uuid.NewString()
	if _, err := repo.Load(ctx, name); !errors.Is(err, ErrLayoutNotFound) {
		t.Fatalf("expected ErrLayoutNotFound, got %v", err)
	}
	run := uuid.New()
	id, err := repo.Save(ctx, name, run, 16, sampleLayout())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	snap, err := repo.Load(ctx, name)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.ID != id || snap.RunID != run || snap.GridSize != 16 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.Layout.Walls) != 2 || len(snap.Layout.Machines) != 1 {
		t.Fatalf("layout = %+v", snap.Layout)
	}
	if _, err := repo.Prune(ctx, name, 0); err != nil {
		t.Fatalf("prune: %v", err)
	}
}
