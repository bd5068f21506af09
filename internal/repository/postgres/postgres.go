package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ozzus/pingdumb/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS check_definitions (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	test_type   TEXT NOT NULL,
	target      TEXT NOT NULL DEFAULT '',
	interval    INTEGER NOT NULL DEFAULT 30,
	timeout     INTEGER NOT NULL DEFAULT 5,
	enabled     BOOLEAN NOT NULL DEFAULT TRUE,
	dns_servers JSONB,
	parameters  JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS check_results (
	id            TEXT PRIMARY KEY,
	config_id     TEXT NOT NULL,
	ts            TIMESTAMPTZ NOT NULL,
	success       BOOLEAN NOT NULL,
	response_time DOUBLE PRECISION NOT NULL,
	error         TEXT,
	data          JSONB
);

CREATE INDEX IF NOT EXISTS check_results_ts_idx ON check_results (ts DESC);
CREATE INDEX IF NOT EXISTS check_results_config_idx ON check_results (config_id);
`

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(ctxPing); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if _, err := p.Exec(ctx, schema); err != nil {
		p.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{pool: p}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ---- definitions ----

const definitionColumns = `id, name, test_type, target, interval, timeout, enabled, dns_servers, parameters, created_at`

func (s *Store) ListDefinitions(ctx context.Context) ([]domain.CheckDefinition, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+definitionColumns+`
		   FROM check_definitions
		  ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	defer rows.Close()

	var out []domain.CheckDefinition
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDefinition(ctx context.Context, id string) (domain.CheckDefinition, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+definitionColumns+` FROM check_definitions WHERE id = $1`, id)

	d, err := scanDefinition(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CheckDefinition{}, fmt.Errorf("definition %s: %w", id, domain.ErrNotFound)
	}
	return d, err
}

func (s *Store) SaveDefinition(ctx context.Context, d domain.CheckDefinition) error {
	servers, err := jsonArg(d.DNSServers, len(d.DNSServers) == 0)
	if err != nil {
		return err
	}
	params, err := jsonArg(d.Parameters, len(d.Parameters) == 0)
	if err != nil {
		return err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO check_definitions (`+definitionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   test_type = EXCLUDED.test_type,
		   target = EXCLUDED.target,
		   interval = EXCLUDED.interval,
		   timeout = EXCLUDED.timeout,
		   enabled = EXCLUDED.enabled,
		   dns_servers = EXCLUDED.dns_servers,
		   parameters = EXCLUDED.parameters`,
		d.ID, d.Name, string(d.Kind), d.Target, d.Interval, d.Timeout, d.Enabled, servers, params, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert definition: %w", err)
	}
	return nil
}

func (s *Store) DeleteDefinition(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM check_definitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete definition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("definition %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---- results ----

func (s *Store) SaveResult(ctx context.Context, r domain.Result) error {
	data, err := jsonArg(r.Data, r.Data == nil)
	if err != nil {
		return err
	}

	var errText *string
	if r.Error != "" {
		errText = &r.Error
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO check_results (id, config_id, ts, success, response_time, error, data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)`,
		r.ID, r.ConfigID, r.Timestamp, r.Success, r.ResponseTime, errText, data,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

const resultColumns = `id, config_id, ts, success, response_time, error, data`

func (s *Store) RecentResults(ctx context.Context, limit int) ([]domain.Result, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+resultColumns+`
		   FROM check_results
		  ORDER BY ts DESC
		  LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	return collectResults(rows)
}

func (s *Store) ResultsSince(ctx context.Context, since time.Time, limit int) ([]domain.Result, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+resultColumns+`
		   FROM check_results
		  WHERE ts >= $1
		  ORDER BY ts DESC
		  LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("results since: %w", err)
	}
	return collectResults(rows)
}

func (s *Store) DeleteResults(ctx context.Context, configID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM check_results WHERE config_id = $1`, configID); err != nil {
		return fmt.Errorf("delete results: %w", err)
	}
	return nil
}

func scanDefinition(row pgx.Row) (domain.CheckDefinition, error) {
	var (
		d       domain.CheckDefinition
		kind    string
		servers []byte
		params  []byte
	)
	if err := row.Scan(&d.ID, &d.Name, &kind, &d.Target, &d.Interval, &d.Timeout, &d.Enabled, &servers, &params, &d.CreatedAt); err != nil {
		return d, err
	}
	d.Kind = domain.CheckKind(kind)

	if len(servers) > 0 {
		if err := json.Unmarshal(servers, &d.DNSServers); err != nil {
			return d, fmt.Errorf("decode dns_servers of %s: %w", d.ID, err)
		}
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &d.Parameters); err != nil {
			return d, fmt.Errorf("decode parameters of %s: %w", d.ID, err)
		}
	}
	return d, nil
}

func collectResults(rows pgx.Rows) ([]domain.Result, error) {
	defer rows.Close()

	out := make([]domain.Result, 0)
	for rows.Next() {
		var (
			r       domain.Result
			errText *string
			data    []byte
		)
		if err := rows.Scan(&r.ID, &r.ConfigID, &r.Timestamp, &r.Success, &r.ResponseTime, &errText, &data); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if errText != nil {
			r.Error = *errText
		}
		if len(data) > 0 {
			r.Data = json.RawMessage(data)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// jsonArg encodes v for a jsonb parameter, or returns nil for SQL NULL.
func jsonArg(v interface{}, null bool) (*string, error) {
	if null {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	s := string(b)
	return &s, nil
}
