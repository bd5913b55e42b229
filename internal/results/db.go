package results

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/common"
	"github.com/joseph-ayodele/qc-pdfreader/internal/entity"
)

const resultsTable = "qc_results"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS qc_results (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	value_text TEXT NOT NULL,
	value_float DOUBLE PRECISION,
	created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS qc_results_run_id_idx ON qc_results (run_id)`,
}

// RunSummary is one stored run with its result count.
type RunSummary struct {
	RunID     uuid.UUID
	Results   int
	CreatedAt string
}

// DBWriter stores results in the qc_results table of a Postgres or SQLite database.
type DBWriter struct {
	drv     *entsql.Driver
	conn    dialect.Driver
	dialect string
	pool    *pgxpool.Pool
	timeout time.Duration
	logger  *slog.Logger
}

// OpenDB connects to cfg.DSN and creates the results table when missing.
// postgres:// and postgresql:// DSNs use a pgx pool; anything else is a SQLite
// path or DSN (":memory:" included).
func OpenDB(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*DBWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := &DBWriter{timeout: cfg.DialTimeout, logger: logger}

	if isPostgresDSN(cfg.DSN) {
		logger.Info("connecting to database", "dialect", dialect.Postgres)
		pc, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return nil, common.NewAppError(common.CodeConfig, "parse results dsn", err)
		}
		pc.MaxConns = cfg.MaxConns
		pc.MinConns = cfg.MinConns
		pc.MaxConnLifetime = cfg.MaxConnLifetime
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
		pc.ConnConfig.RuntimeParams["application_name"] = "qc-pdfreader"

		dialCtx := ctx
		if cfg.DialTimeout > 0 {
			var cancel context.CancelFunc
			dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
			defer cancel()
		}
		pool, err := pgxpool.NewWithConfig(dialCtx, pc)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
		}
		w.pool = pool
		w.dialect = dialect.Postgres
		w.drv = entsql.OpenDB(dialect.Postgres, stdlib.OpenDBFromPool(pool))
	} else {
		logger.Info("opening database", "dialect", dialect.SQLite, "dsn", cfg.DSN)
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
		}
		// one connection keeps a :memory: database alive and serialises writers
		db.SetMaxOpenConns(1)
		w.dialect = dialect.SQLite
		w.drv = entsql.OpenDB(dialect.SQLite, db)
	}

	w.conn = w.drv
	if logger.Enabled(ctx, slog.LevelDebug) {
		w.conn = dialect.DebugWithContext(w.drv, func(ctx context.Context, v ...any) {
			logger.DebugContext(ctx, "sql", "op", fmt.Sprint(v...))
		})
	}

	if err := w.migrate(ctx); err != nil {
		w.Close()
		return nil, err
	}
	logger.Info("successfully connected to database")
	return w, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func (w *DBWriter) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := w.conn.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("%w: create %s: %v", common.ErrDatabase, resultsTable, err)
		}
	}
	return nil
}

func (w *DBWriter) Name() string { return "db" }

// storedText is the value_text column. Datetimes keep their offset so they
// read back as the same instant.
func storedText(r entity.Result) string {
	if r.Category == constants.ResultDateTime {
		return r.Time.Format(time.RFC3339Nano)
	}
	return r.Text()
}

// WriteResults inserts all results of the run in one transaction.
func (w *DBWriter) WriteResults(ctx context.Context, runID uuid.UUID, results []entity.Result) error {
	tx, err := w.conn.Tx(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", common.ErrDatabase, err)
	}
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	for _, r := range results {
		var valueFloat any
		if r.Category == constants.ResultFloat {
			valueFloat = r.Float
		}
		q, args := entsql.Dialect(w.dialect).
			Insert(resultsTable).
			Columns("id", "run_id", "position", "name", "category", "value_text", "value_float", "created_at").
			Values(uuid.NewString(), runID.String(), r.Position, r.Name, string(r.Category), storedText(r), valueFloat, createdAt).
			Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert %q: %v", common.ErrDatabase, r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", common.ErrDatabase, err)
	}
	return nil
}

// ListRuns returns every stored run with its result count, newest first.
func (w *DBWriter) ListRuns(ctx context.Context) ([]RunSummary, error) {
	q, args := entsql.Dialect(w.dialect).
		Select("run_id", entsql.As(entsql.Count("*"), "results"), entsql.As(entsql.Max("created_at"), "last_at")).
		From(entsql.Table(resultsTable)).
		GroupBy("run_id").
		OrderBy(entsql.Desc("last_at")).
		Query()

	var rows entsql.Rows
	if err := w.conn.Query(ctx, q, args, &rows); err != nil {
		w.logger.Error("failed to list runs", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			id string
			s  RunSummary
		)
		if err := rows.Scan(&id, &s.Results, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan run: %v", common.ErrDatabase, err)
		}
		runID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("%w: run id %q: %v", common.ErrDatabase, id, err)
		}
		s.RunID = runID
		out = append(out, s)
	}
	return out, rows.Err()
}

// RunResults reads back the results of one run in insertion order.
func (w *DBWriter) RunResults(ctx context.Context, runID uuid.UUID) ([]entity.Result, error) {
	q, args := entsql.Dialect(w.dialect).
		Select("position", "name", "category", "value_text", "value_float").
		From(entsql.Table(resultsTable)).
		Where(entsql.EQ("run_id", runID.String())).
		OrderBy("position").
		Query()

	var rows entsql.Rows
	if err := w.conn.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []entity.Result
	for rows.Next() {
		var (
			r        entity.Result
			category string
			text     string
			f        sql.NullFloat64
		)
		if err := rows.Scan(&r.Position, &r.Name, &category, &text, &f); err != nil {
			return nil, fmt.Errorf("%w: scan result: %v", common.ErrDatabase, err)
		}
		r.Category = constants.ResultCategory(category)
		switch r.Category {
		case constants.ResultFloat:
			r.Float = f.Float64
			if !f.Valid {
				// sqlite stores NaN as NULL
				r.Float, _ = strconv.ParseFloat(text, 64)
			}
		case constants.ResultDateTime:
			t, err := time.Parse(time.RFC3339Nano, text)
			if err != nil {
				return nil, fmt.Errorf("result %q: %w", r.Name, err)
			}
			r.Time = t
		default:
			r.String = text
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Ping checks the connection, bounded by the configured dial timeout.
func (w *DBWriter) Ping(ctx context.Context) error {
	w.logger.Debug("pinging database")
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := w.drv.DB().PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", common.ErrDatabase, err)
	}
	w.logger.Debug("database ping successful")
	return nil
}

// Close closes the database connections gracefully.
func (w *DBWriter) Close() {
	w.logger.Info("closing database connections")
	if w.drv != nil {
		if err := w.drv.Close(); err != nil {
			w.logger.Error("failed to close database", "error", err)
		}
	}
	if w.pool != nil {
		w.pool.Close()
	}
	w.logger.Info("database connections closed")
}
