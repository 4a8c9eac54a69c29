// Package storage implements the concurrent query-execution engine: typed
// column tables behind per-table shared/exclusive locks, with select and
// update fanning their scan work out across a fixed worker pool.
package storage

import (
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/paradb/paradb/internal/parser"
	"github.com/paradb/paradb/internal/types"
)

const defaultConditionCacheSize = 128

// Config carries the knobs for a database instance.
type Config struct {
	// Workers is the fixed worker pool size. Required, positive.
	Workers int
	// ConditionCacheSize bounds the parsed-condition LRU. Defaults to 128.
	ConditionCacheSize int
	// Logger defaults to types.GlobalLogger.
	Logger *types.Logger
}

// DB owns the table registry and orchestrates locking, parsing, partitioning,
// task dispatch, and merging for every operation. Many callers may use one DB
// concurrently.
type DB struct {
	mu     sync.RWMutex
	tables map[string]*Table

	pool    *ants.Pool
	workers int

	// conds caches parsed conditions per (table, condition) pair. Safe
	// because schemas never change after create.
	conds *lru.Cache[string, parser.Condition]
	log   *types.Logger
}

// Open allocates the fixed worker pool and returns a ready database.
func Open(cfg Config) (*DB, error) {
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", cfg.Workers)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.GlobalLogger
	}

	pool, err := ants.NewPool(cfg.Workers, ants.WithPanicHandler(func(v interface{}) {
		logger.Error("worker task panic: %v", v)
	}))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	cacheSize := cfg.ConditionCacheSize
	if cacheSize <= 0 {
		cacheSize = defaultConditionCacheSize
	}
	conds, err := lru.New[string, parser.Condition](cacheSize)
	if err != nil {
		pool.Release()
		return nil, fmt.Errorf("create condition cache: %w", err)
	}

	logger.Info("database started with %d workers", cfg.Workers)
	return &DB{
		tables:  make(map[string]*Table),
		pool:    pool,
		workers: cfg.Workers,
		conds:   conds,
		log:     logger,
	}, nil
}

// Close terminates the worker pool. In-flight fan-outs are aborted and later
// submissions are rejected; tables remain readable only through a new Open.
func (db *DB) Close() error {
	db.pool.Release()
	db.log.Info("database stopped")
	return nil
}

// CreateTable validates the schema and atomically check-and-inserts the new
// table into the registry.
func (db *DB) CreateTable(name string, columns, typeTokens []string) error {
	t, err := NewTable(name, columns, typeTokens)
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.tables[name]; exists {
		return fmt.Errorf("%w: %q", types.ErrDuplicateTable, name)
	}
	db.tables[name] = t
	db.log.Info("created table %s with %d columns", name, len(columns))
	return nil
}

// ShowTables returns the registered table names, sorted.
func (db *DB) ShowTables() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (db *DB) table(name string) (*Table, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownTable, name)
	}
	return t, nil
}

// runTasks submits n partition tasks to the pool and blocks until every one
// has completed. A failing task aborts the whole fan-out: the first error is
// returned to the caller, after the remaining siblings have drained.
func (db *DB) runTasks(n int, task func(i int) error) error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		if err := db.pool.Submit(func() {
			defer wg.Done()
			errs[i] = task(i)
		}); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("%w: %v", types.ErrClosed, err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// parseCondition resolves a condition string against a table's schema, going
// through the LRU so repeated queries skip re-parsing.
func (db *DB) parseCondition(t *Table, condition string) (parser.Condition, error) {
	key := t.name + "\x00" + condition
	if cond, ok := db.conds.Get(key); ok {
		return cond, nil
	}
	cond, err := parser.ParseCondition(t, condition)
	if err != nil {
		return parser.Condition{}, err
	}
	db.conds.Add(key, cond)
	return cond, nil
}

// matchedIndices resolves the ascending row indices a condition selects. An
// empty condition matches every row. The caller must hold the table's lock
// for the whole surrounding operation.
func (db *DB) matchedIndices(t *Table, condition string) ([]int, error) {
	if condition == "" {
		all := make([]int, t.size)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	cond, err := db.parseCondition(t, condition)
	if err != nil {
		return nil, err
	}
	col, _ := t.column(cond.Column) // existence checked by the parser

	spans := partitionSpans(len(col.values), db.workers)
	parts := make([][]int, len(spans))
	err = db.runTasks(len(spans), func(i int) error {
		s := spans[i]
		parts[i] = checkConditionTask(col.values[s.start:s.end], s.start, cond)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Concatenating in span order keeps the indices ascending.
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	matched := make([]int, 0, total)
	for _, p := range parts {
		matched = append(matched, p...)
	}
	return matched, nil
}
