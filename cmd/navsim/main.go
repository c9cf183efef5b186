package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gridcolony/navsim/internal/component"
	"github.com/gridcolony/navsim/internal/config"
	"github.com/gridcolony/navsim/internal/core/ecs"
	"github.com/gridcolony/navsim/internal/core/event"
	coresys "github.com/gridcolony/navsim/internal/core/system"
	"github.com/gridcolony/navsim/internal/data"
	"github.com/gridcolony/navsim/internal/grid"
	"github.com/gridcolony/navsim/internal/nav"
	"github.com/gridcolony/navsim/internal/persist"
	"github.com/gridcolony/navsim/internal/reach"
	"github.com/gridcolony/navsim/internal/scripting"
	"github.com/gridcolony/navsim/internal/system"
	"github.com/gridcolony/navsim/internal/task"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// auditInterval is how many ticks pass between occupancy index audits.
const auditInterval = 200

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(runID uuid.UUID) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m               navsim  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      grid navigation simulation           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mrun:\033[0m %s\n\n", runID)
}

func printSection(title string) {
	lineLen := 46 - utf8.RuneCountInString(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - utf8.RuneCountInString(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Simulation ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	runID := uuid.New()
	log = log.With(zap.String("run", runID.String()))
	printBanner(runID)

	// 3. Optional PostgreSQL layout store
	var layouts *persist.LayoutRepo
	if cfg.Database.DSN != "" {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		err = persist.RunMigrations(ctx, db.Pool)
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		fmt.Println()
		layouts = persist.NewLayoutRepo(db)
	}

	// 4. ECS world, event bus and occupancy indexes
	size := cfg.Grid.Size
	ecsWorld := ecs.NewWorld()
	comps := component.NewStores(ecsWorld)
	bus := event.NewBus()
	indexes := grid.NewSet(size, event.GridNotifier{Bus: bus}, grid.Wall, grid.Machine)
	planning := indexes.Get(grid.Category(cfg.Grid.PlanningCategory))
	if planning == nil {
		return fmt.Errorf("unknown planning category %q", cfg.Grid.PlanningCategory)
	}

	maint := system.NewMaintenanceSystem(auditInterval, log)
	wallMaint := grid.NewMaintainer(indexes.Get(grid.Wall), comps.Locate, log)
	comps.Walls.Observe(wallMaint)
	maint.Add(wallMaint, comps.Walls.Has)
	machineMaint := grid.NewMaintainer(indexes.Get(grid.Machine), comps.Locate, log)
	comps.Machines.Observe(machineMaint)
	maint.Add(machineMaint, comps.Machines.Has)

	// 5. Layout
	printSection("layout")
	layout, source, err := loadLayout(cfg, layouts, log)
	if err != nil {
		return err
	}
	walls, machines := layout.Spawn(ecsWorld, comps, size)
	maint.Update(0)
	bus.Flush()
	printOK("layout from " + source)
	printStat("walls", walls)
	printStat("machines", machines)
	fmt.Println()

	// 6. Background workers, reachability and path scheduling
	printSection("navigation")
	pool := task.NewPool(cfg.Workers.PoolSize, log)
	defer pool.Close()

	rx, err := reach.NewIndex(planning, pool, log)
	if err != nil {
		return fmt.Errorf("reachability: %w", err)
	}
	sched := nav.NewScheduler(planning, pool, log)
	nav.NewInvalidator(planning.Category(), size, comps.Paths, sched, log).Subscribe(bus)
	printStat("workers", cfg.Workers.PoolSize)
	printStat("reachable regions", rx.Partition().Len())

	engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	var brain system.GoalChooser
	if engine.HasFunc("choose_goal") {
		brain = engine
		printOK("lua wander brain loaded")
	}

	rng := rand.New(rand.NewPCG(cfg.Simulation.Seed, cfg.Simulation.Seed^0x9e3779b97f4a7c15))
	agents := spawnAgents(ecsWorld, comps, indexes, cfg.Simulation.Agents, cfg.Simulation.AgentSpeed, rng)
	printStat("agents", agents)
	fmt.Println()

	// 7. Systems
	runner := coresys.NewRunner()
	runner.Register(system.NewChurnSystem(ecsWorld, comps, planning, rng, uint64(cfg.Simulation.ChurnInterval), log))
	runner.Register(maint)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewReachabilitySystem(rx, planning.Category(), bus))
	runner.Register(system.NewPathPollSystem(sched, comps.Paths))
	runner.Register(system.NewWanderSystem(comps, sched, rx, brain, rng, cfg.Simulation.WanderInterval, size, log))
	runner.Register(system.NewFollowSystem(comps))
	runner.Register(system.NewCleanupSystem(ecsWorld))
	runner.Register(system.NewStatsSystem(ecsWorld, comps, planning, sched, rx, cfg.Simulation.StatsInterval, log))

	// 8. Loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("running")
	printReady(fmt.Sprintf("simulation loop started (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()),
				zap.Uint64("ticks", runner.Ticks()))
			if layouts != nil {
				saveLayout(layouts, cfg, runID, indexes, comps, log)
			}
			log.Info("simulation stopped")
			return nil
		}
	}
}

// loadLayout picks the starting layout: the latest stored snapshot when a
// database is configured, then the layout file, then the generator.
func loadLayout(cfg *config.Config, repo *persist.LayoutRepo, log *zap.Logger) (*data.Layout, string, error) {
	if repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		snap, err := repo.Load(ctx, cfg.Database.LayoutName)
		switch {
		case err == nil && snap.GridSize == cfg.Grid.Size:
			return snap.Layout, "snapshot " + snap.ID.String(), nil
		case err == nil:
			log.Warn("stored layout has a different grid size, ignoring",
				zap.Int("stored", snap.GridSize), zap.Int("configured", cfg.Grid.Size))
		case !errors.Is(err, persist.ErrLayoutNotFound):
			return nil, "", fmt.Errorf("load stored layout: %w", err)
		}
	}
	if cfg.Layout.File != "" {
		l, err := data.LoadLayout(cfg.Layout.File)
		if err != nil {
			return nil, "", fmt.Errorf("load layout: %w", err)
		}
		return l, cfg.Layout.File, nil
	}
	seed := cfg.Layout.Seed
	switch cfg.Layout.Generator {
	case "maze":
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)+1))
		return data.GenerateMaze(cfg.Grid.Size, cfg.Layout.Density, rng, nil), "maze generator", nil
	case "noise":
		return data.GenerateNoise(cfg.Grid.Size, cfg.Layout.Density, seed, nil), "noise generator", nil
	}
	return &data.Layout{}, "empty grid", nil
}

// spawnAgents places up to n agents on random cells free in every index.
func spawnAgents(w *ecs.World, comps *component.Stores, indexes grid.Set, n int, speed float64, rng *rand.Rand) int {
	size := 0
	for _, ix := range indexes {
		size = ix.Size()
		break
	}
	free := func(c grid.Cell) bool {
		for _, ix := range indexes {
			if ix.Occupied(c) {
				return false
			}
		}
		return true
	}
	spawned := 0
	for attempts := 0; spawned < n && attempts < n*64; attempts++ {
		c := grid.Cell{X: rng.IntN(size), Y: rng.IntN(size)}
		if !free(c) {
			continue
		}
		comps.SpawnAgent(w, c.World(), speed)
		spawned++
	}
	return spawned
}

func saveLayout(repo *persist.LayoutRepo, cfg *config.Config, runID uuid.UUID, indexes grid.Set, comps *component.Stores, log *zap.Logger) {
	offset := func(id ecs.EntityID) grid.Cell {
		if m, ok := comps.Machines.Get(id); ok {
			return m.UseOffset
		}
		return grid.Cell{}
	}
	l := data.FromIndexes(indexes.Get(grid.Wall), indexes.Get(grid.Machine), offset)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	id, err := repo.Save(ctx, cfg.Database.LayoutName, runID, cfg.Grid.Size, l)
	if err != nil {
		log.Error("save layout failed", zap.Error(err))
		return
	}
	log.Info("layout saved", zap.String("snapshot", id.String()),
		zap.Int("walls", len(l.Walls)), zap.Int("machines", len(l.Machines)))
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
