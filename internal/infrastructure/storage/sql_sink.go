package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"ArtworksCrawler/internal/domain"
	"ArtworksCrawler/internal/ports"
)

const artifactsTable = "artifacts"

const createArtifactsTable = `CREATE TABLE IF NOT EXISTS artifacts (
	name TEXT PRIMARY KEY,
	content_type TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	body TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLSink upserts the artifact as one row of the artifacts table, keyed by
// name. Both sqlite and postgres are supported.
type SQLSink struct {
	db      *sql.DB
	driver  string
	name    string
	builder sq.StatementBuilderType
	now     func() time.Time
}

var _ ports.ArtifactSink = (*SQLSink)(nil)

// OpenSQLSink opens the database and ensures the schema exists.
func OpenSQLSink(ctx context.Context, driver, dsn, name string) (*SQLSink, error) {
	switch driver {
	case "sqlite", "postgres":
	default:
		return nil, &Error{Target: "sql", Op: "configure", Err: fmt.Errorf("unsupported driver %q", driver)}
	}
	if dsn == "" {
		return nil, &Error{Target: "sql", Op: "configure", Err: fmt.Errorf("empty dsn")}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, &Error{Target: driver, Op: "open", Err: err}
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	sink, err := NewSQLSink(ctx, db, driver, name)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return sink, nil
}

// NewSQLSink wires an existing sql.DB and creates the table if needed.
func NewSQLSink(ctx context.Context, db *sql.DB, driver, name string) (*SQLSink, error) {
	if db == nil {
		return nil, &Error{Target: driver, Op: "configure", Err: errors.New("nil database")}
	}
	if name == "" {
		name = DefaultObjectName
	}

	if _, err := db.ExecContext(ctx, createArtifactsTable); err != nil {
		return nil, &Error{Target: driver, Op: "migrate", Err: err}
	}

	return &SQLSink{
		db:      db,
		driver:  driver,
		name:    name,
		builder: statementBuilder(driver),
		now:     time.Now,
	}, nil
}

// statementBuilder picks the placeholder style of the driver: postgres
// wants $1, sqlite accepts ?.
func statementBuilder(driver string) sq.StatementBuilderType {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == "postgres" {
		placeholder = sq.Dollar
	}
	return sq.StatementBuilder.PlaceholderFormat(placeholder)
}

// Describe names the destination for logs and summaries.
func (s *SQLSink) Describe() string {
	return fmt.Sprintf("%s:%s/%s", s.driver, artifactsTable, s.name)
}

// Store replaces the artifact row with the serialized records.
func (s *SQLSink) Store(ctx context.Context, records []domain.ArtworkRecord) error {
	data, err := EncodeArtifact(records)
	if err != nil {
		return &Error{Target: s.Describe(), Op: "encode", Err: err}
	}

	query, args, err := s.upsertQuery(data, len(records))
	if err != nil {
		return &Error{Target: s.Describe(), Op: "build query", Err: err}
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return &Error{Target: s.Describe(), Op: "upsert", Err: err}
	}
	return nil
}

// Load reads back the stored artifact.
func (s *SQLSink) Load(ctx context.Context) ([]domain.ArtworkRecord, error) {
	query, args, err := s.selectQuery()
	if err != nil {
		return nil, &Error{Target: s.Describe(), Op: "build query", Err: err}
	}

	var body string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&body); err != nil {
		return nil, &Error{Target: s.Describe(), Op: "select", Err: err}
	}

	records, err := DecodeArtifact([]byte(body))
	if err != nil {
		return nil, &Error{Target: s.Describe(), Op: "decode", Err: err}
	}
	return records, nil
}

func (s *SQLSink) upsertQuery(body []byte, count int) (string, []any, error) {
	return s.builder.
		Insert(artifactsTable).
		Columns("name", "content_type", "record_count", "body", "updated_at").
		Values(s.name, ContentTypeJSON, count, string(body), s.now().UTC()).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			content_type = excluded.content_type,
			record_count = excluded.record_count,
			body = excluded.body,
			updated_at = excluded.updated_at`).
		ToSql()
}

func (s *SQLSink) selectQuery() (string, []any, error) {
	return s.builder.
		Select("body").
		From(artifactsTable).
		Where(sq.Eq{"name": s.name}).
		ToSql()
}

// Close releases the database handle.
func (s *SQLSink) Close() error {
	return s.db.Close()
}
