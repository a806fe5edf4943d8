package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/ports"
)

const defaultTable = "match_records"

var (
	psql       = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	identExpr  = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	recordCols = []string{
		"id", "league", "league_order", "match_order", "home_team", "away_team",
		"score", "previous_score", "kickoff_time", "local_time", "kickoff_at",
		"odds", "signal", "created_at", "updated_at",
	}
)

// PostgresRepository persists match records into Postgres.
type PostgresRepository struct {
	db    *sql.DB
	table string

	schemaMu    sync.Mutex
	schemaReady bool
}

var _ ports.MatchStore = (*PostgresRepository)(nil)

// Open prepares a connection pool. lib/pq dials lazily, so an unreachable
// server is not an error here; see Ping.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Ping verifies the server is reachable.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// NewPostgresRepository wires a sql.DB implementation for the given table.
func NewPostgresRepository(db *sql.DB, table string) (*PostgresRepository, error) {
	if table == "" {
		table = defaultTable
	}
	if !identExpr.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresRepository{db: db, table: table}, nil
}

// EnsureSchema creates the table and its uniqueness constraint. Until it
// succeeds, Find and BulkUpsert retry it before touching the table.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}

	r.schemaMu.Lock()
	defer r.schemaMu.Unlock()
	if r.schemaReady {
		return nil
	}

	t := pq.QuoteIdentifier(r.table)
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id TEXT PRIMARY KEY,
		league TEXT NOT NULL,
		league_order INTEGER NOT NULL,
		match_order INTEGER NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		score TEXT NOT NULL,
		previous_score TEXT NOT NULL DEFAULT '0 - 0',
		kickoff_time TEXT NOT NULL,
		local_time TEXT NOT NULL,
		kickoff_at TIMESTAMPTZ NOT NULL,
		odds TEXT NOT NULL DEFAULT '',
		signal TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS %[2]s ON %[1]s (id, kickoff_at, league);
	CREATE INDEX IF NOT EXISTS %[3]s ON %[1]s (kickoff_at);
	`, t, pq.QuoteIdentifier(r.table+"_id_kickoff_league"), pq.QuoteIdentifier(r.table+"_kickoff_at"))

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	r.schemaReady = true
	return nil
}

// Find returns records matching the filter ordered by kickoff (or league, kickoff).
func (r *PostgresRepository) Find(ctx context.Context, filter domain.MatchFilter) ([]domain.MatchRecord, error) {
	if r.db == nil {
		return nil, nil
	}
	if err := r.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	query, args, err := buildFind(r.table, filter)
	if err != nil {
		return nil, fmt.Errorf("build find: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	var result []domain.MatchRecord
	for rows.Next() {
		var rec domain.MatchRecord
		if err := rows.Scan(
			&rec.ID, &rec.League, &rec.LeagueOrder, &rec.MatchOrder, &rec.HomeTeam, &rec.AwayTeam,
			&rec.Score, &rec.PreviousScore, &rec.Time, &rec.LocalTime, &rec.KickoffAt,
			&rec.Odds, &rec.Signal, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan record: %w", err)
		}
		result = append(result, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// BulkUpsert writes ops in one statement. Ops whose ID exists under another
// league are left untouched and counted in neither result field.
func (r *PostgresRepository) BulkUpsert(ctx context.Context, ops []domain.UpsertOp) (domain.UpsertResult, error) {
	var res domain.UpsertResult
	if r.db == nil || len(ops) == 0 {
		return res, nil
	}
	if err := r.EnsureSchema(ctx); err != nil {
		return res, err
	}

	query, args, err := buildUpsert(r.table, ops)
	if err != nil {
		return res, fmt.Errorf("build upsert: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return res, fmt.Errorf("upsert records: %w", err)
	}

	for rows.Next() {
		var inserted bool
		if err := rows.Scan(&inserted); err != nil {
			_ = rows.Close()
			return res, fmt.Errorf("scan upsert result: %w", err)
		}
		if inserted {
			res.Inserted++
		} else {
			res.Matched++
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return res, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return res, fmt.Errorf("close rows: %w", closeErr)
	}

	return res, nil
}

func buildFind(table string, filter domain.MatchFilter) (string, []interface{}, error) {
	q := psql.Select(recordCols...).From(pq.QuoteIdentifier(table))

	if len(filter.IDs) > 0 {
		q = q.Where("id = ANY(?)", pq.StringArray(filter.IDs))
	}
	if !filter.KickoffFrom.IsZero() {
		q = q.Where(sq.GtOrEq{"kickoff_at": filter.KickoffFrom})
	}
	if !filter.KickoffTo.IsZero() {
		q = q.Where(sq.LtOrEq{"kickoff_at": filter.KickoffTo})
	}

	if filter.OrderByLeague {
		q = q.OrderBy("league", "kickoff_at", "id")
	} else {
		q = q.OrderBy("kickoff_at", "id")
	}

	return q.ToSql()
}

// buildUpsert renders a multi-row insert. On conflict the stored score moves
// into previous_score only when the incoming score differs; SET expressions
// see the pre-update row, so t.score is still the stored value there.
func buildUpsert(table string, ops []domain.UpsertOp) (string, []interface{}, error) {
	q := psql.Insert(pq.QuoteIdentifier(table) + " AS t").Columns(recordCols...)

	for _, op := range ops {
		previous := op.InsertOnly.PreviousScore
		if previous == "" {
			previous = domain.InitialPreviousScore
		}
		s := op.Set
		q = q.Values(
			op.ID, op.League, s.LeagueOrder, s.MatchOrder, s.HomeTeam, s.AwayTeam,
			s.Score, previous, s.Time, s.LocalTime, s.KickoffAt,
			s.Odds, s.Signal, op.InsertOnly.CreatedAt, s.UpdatedAt,
		)
	}

	q = q.Suffix(`ON CONFLICT (id) DO UPDATE SET
		previous_score = CASE WHEN t.score IS DISTINCT FROM EXCLUDED.score THEN t.score ELSE t.previous_score END,
		league_order = EXCLUDED.league_order,
		match_order = EXCLUDED.match_order,
		home_team = EXCLUDED.home_team,
		away_team = EXCLUDED.away_team,
		score = EXCLUDED.score,
		kickoff_time = EXCLUDED.kickoff_time,
		local_time = EXCLUDED.local_time,
		kickoff_at = EXCLUDED.kickoff_at,
		odds = EXCLUDED.odds,
		signal = EXCLUDED.signal,
		updated_at = EXCLUDED.updated_at
	WHERE t.league = EXCLUDED.league
	RETURNING (xmax = 0) AS inserted`)

	return q.ToSql()
}
