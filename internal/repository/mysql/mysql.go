package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	"github.com/xo/dburl"

	"ozzus/pingdumb/internal/domain"
)

const (
	defaultConnectTimeout = "10s"
	defaultReadTimeout    = "10s"
	defaultWriteTimeout   = "10s"
)

var schema = []string{`
	CREATE TABLE IF NOT EXISTS check_definitions (
		id CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		test_type VARCHAR(32) NOT NULL,
		target VARCHAR(1024) NOT NULL DEFAULT '',
		interval_sec INT NOT NULL DEFAULT 30,
		timeout_sec INT NOT NULL DEFAULT 5,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		dns_servers TEXT NULL,
		parameters TEXT NULL,
		created_at TIMESTAMP(6) NOT NULL,
		KEY created_at (created_at),
		PRIMARY KEY(id)
	)`, `
	CREATE TABLE IF NOT EXISTS check_results (
		id CHAR(36) NOT NULL,
		config_id CHAR(36) NOT NULL,
		ts TIMESTAMP(6) NOT NULL,
		success BOOLEAN NOT NULL,
		response_time DOUBLE NOT NULL,
		error TEXT NULL,
		data MEDIUMTEXT NULL,
		KEY ts (ts),
		KEY config_id (config_id),
		PRIMARY KEY(id)
	)`,
}

var definitionColumns = []string{
	"id", "name", "test_type", "target", "interval_sec", "timeout_sec",
	"enabled", "dns_servers", "parameters", "created_at",
}

var resultColumns = []string{"id", "config_id", "ts", "success", "response_time", "error", "data"}

type Store struct {
	db *sql.DB
}

// New opens a MySQL store from a mysql:// URI and creates missing tables.
func New(ctx context.Context, uri string) (*Store, error) {
	u, err := dburl.Parse(uri)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("parseTime", "true")
	if !q.Has("timeout") {
		q.Add("timeout", defaultConnectTimeout)
	}
	if !q.Has("writeTimeout") {
		q.Add("writeTimeout", defaultWriteTimeout)
	}
	if !q.Has("readTimeout") {
		q.Add("readTimeout", defaultReadTimeout)
	}
	u.RawQuery = q.Encode()

	connStr, err := dburl.GenMysql(u)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", connStr)
	if err != nil {
		return nil, err
	}
	// Open() only inits the pool.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func (m *Store) Ping(ctx context.Context) error { return m.db.PingContext(ctx) }

func (m *Store) Close() error { return m.db.Close() }

func (m *Store) ListDefinitions(ctx context.Context) ([]domain.CheckDefinition, error) {
	rows, err := sq.Select(definitionColumns...).
		From("check_definitions").
		OrderBy("created_at", "id").
		RunWith(m.db).QueryContext(ctx)
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

func (m *Store) GetDefinition(ctx context.Context, id string) (domain.CheckDefinition, error) {
	row := sq.Select(definitionColumns...).
		From("check_definitions").
		Where(sq.Eq{"id": id}).
		RunWith(m.db).QueryRowContext(ctx)

	d, err := scanDefinition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CheckDefinition{}, fmt.Errorf("definition %s: %w", id, domain.ErrNotFound)
	}
	return d, err
}

func (m *Store) SaveDefinition(ctx context.Context, d domain.CheckDefinition) error {
	servers, err := nullJSON(d.DNSServers, len(d.DNSServers) == 0)
	if err != nil {
		return err
	}
	params, err := nullJSON(d.Parameters, len(d.Parameters) == 0)
	if err != nil {
		return err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err = sq.Insert("check_definitions").Columns(definitionColumns...).
		Values(d.ID, d.Name, string(d.Kind), d.Target, d.Interval, d.Timeout, d.Enabled, servers, params, d.CreatedAt).
		Suffix(`
	ON DUPLICATE KEY UPDATE
	name = VALUES(name),
	test_type = VALUES(test_type),
	target = VALUES(target),
	interval_sec = VALUES(interval_sec),
	timeout_sec = VALUES(timeout_sec),
	enabled = VALUES(enabled),
	dns_servers = VALUES(dns_servers),
	parameters = VALUES(parameters)
	`).RunWith(m.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("storing definition: %w", err)
	}
	return nil
}

func (m *Store) DeleteDefinition(ctx context.Context, id string) error {
	r, err := sq.Delete("check_definitions").Where(sq.Eq{"id": id}).RunWith(m.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("deleting definition: %w", err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("definition %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (m *Store) SaveResult(ctx context.Context, r domain.Result) error {
	data, err := nullJSON(r.Data, r.Data == nil)
	if err != nil {
		return err
	}

	_, err = sq.Insert("check_results").Columns(resultColumns...).
		Values(
			r.ID,
			r.ConfigID,
			r.Timestamp.UTC(),
			r.Success,
			r.ResponseTime,
			sql.NullString{Valid: r.Error != "", String: r.Error},
			data,
		).RunWith(m.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("storing result: %w", err)
	}
	return nil
}

func (m *Store) RecentResults(ctx context.Context, limit int) ([]domain.Result, error) {
	return m.queryResults(ctx, nil, limit)
}

func (m *Store) ResultsSince(ctx context.Context, since time.Time, limit int) ([]domain.Result, error) {
	return m.queryResults(ctx, sq.GtOrEq{"ts": since.UTC()}, limit)
}

func (m *Store) queryResults(ctx context.Context, cond sq.Sqlizer, limit int) ([]domain.Result, error) {
	q := sq.Select(resultColumns...).From("check_results").OrderBy("ts DESC")
	if cond != nil {
		q = q.Where(cond)
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	rows, err := q.RunWith(m.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Result, 0)
	for rows.Next() {
		var (
			r       domain.Result
			errText sql.NullString
			data    sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.ConfigID, &r.Timestamp, &r.Success, &r.ResponseTime, &errText, &data); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Error = errText.String
		if data.Valid && data.String != "" {
			r.Data = json.RawMessage(data.String)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (m *Store) DeleteResults(ctx context.Context, configID string) error {
	_, err := sq.Delete("check_results").Where(sq.Eq{"config_id": configID}).RunWith(m.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("deleting results: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDefinition(row rowScanner) (domain.CheckDefinition, error) {
	var (
		d       domain.CheckDefinition
		kind    string
		servers sql.NullString
		params  sql.NullString
	)
	if err := row.Scan(&d.ID, &d.Name, &kind, &d.Target, &d.Interval, &d.Timeout, &d.Enabled, &servers, &params, &d.CreatedAt); err != nil {
		return d, err
	}
	d.Kind = domain.CheckKind(kind)

	if servers.Valid && servers.String != "" {
		if err := json.Unmarshal([]byte(servers.String), &d.DNSServers); err != nil {
			return d, fmt.Errorf("decode dns_servers of %s: %w", d.ID, err)
		}
	}
	if params.Valid && params.String != "" {
		if err := json.Unmarshal([]byte(params.String), &d.Parameters); err != nil {
			return d, fmt.Errorf("decode parameters of %s: %w", d.ID, err)
		}
	}
	return d, nil
}

func nullJSON(v interface{}, null bool) (sql.NullString, error) {
	if null {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode json column: %w", err)
	}
	return sql.NullString{Valid: true, String: string(b)}, nil
}
