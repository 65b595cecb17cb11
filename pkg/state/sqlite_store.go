package state

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteConfig configures SQLiteStore.
type SQLiteConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds, 0 = unlimited
}

// SQLiteStore is an alternative durable StateStore backend, for
// deployments that want transactional writes and concurrent-safe access
// instead of the single-document reference file backend (migrate+
// modernc.org/sqlite wiring, connection pool, ON CONFLICT upserts).
type SQLiteStore struct {
	db   *sql.DB
	log  zerolog.Logger
	path string
}

// NewSQLiteStore opens the database at cfg.Path, applies pending
// migrations, and configures the connection pool.
func NewSQLiteStore(ctx context.Context, cfg SQLiteConfig, log zerolog.Logger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	store := &SQLiteStore{db: db, log: log.With().Str("component", "state.sqlite").Logger(), path: cfg.Path}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID, fromPending bool) (*Envelope, bool, error) {
	if fromPending {
		row := s.db.QueryRowContext(ctx, `
			SELECT output, input, class_tag, path, plan_uuid, plan_class_tag, apply_uuid
			FROM pending_destroy WHERE uuid = ? ORDER BY seq DESC LIMIT 1`, id.String())
		return scanEnvelope(row, id)
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT output, input, class_tag, path, plan_uuid, plan_class_tag, apply_uuid
		FROM envelopes WHERE uuid = ?`, id.String())
	return scanEnvelope(row, id)
}

func scanEnvelope(row *sql.Row, id uuid.UUID) (*Envelope, bool, error) {
	var (
		env                        Envelope
		planUUID, planClassTag     sql.NullString
		applyUUID                  string
	)
	env.UUID = id
	if err := row.Scan(&env.Output, &env.Input, &env.ClassTag, &env.Path, &planUUID, &planClassTag, &applyUUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("scan envelope: %w", err)
	}
	if planUUID.Valid && planUUID.String != "" {
		pu, err := uuid.Parse(planUUID.String)
		if err != nil {
			return nil, false, fmt.Errorf("parse plan_uuid: %w", err)
		}
		env.PlanUUID = &pu
	}
	env.PlanClassTag = planClassTag.String
	au, err := uuid.Parse(applyUUID)
	if err != nil {
		return nil, false, fmt.Errorf("parse apply_uuid: %w", err)
	}
	env.ApplyUUID = au
	return &env, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, env *Envelope) error {
	var planUUID, planClassTag any
	if env.PlanUUID != nil {
		planUUID = env.PlanUUID.String()
	}
	if env.PlanClassTag != "" {
		planClassTag = env.PlanClassTag
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO envelopes (uuid, output, input, class_tag, path, plan_uuid, plan_class_tag, apply_uuid, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(uuid) DO UPDATE SET
			output = excluded.output,
			input = excluded.input,
			class_tag = excluded.class_tag,
			path = excluded.path,
			plan_uuid = excluded.plan_uuid,
			plan_class_tag = excluded.plan_class_tag,
			apply_uuid = excluded.apply_uuid,
			updated_at = CURRENT_TIMESTAMP`,
		env.UUID.String(), string(env.Output), string(env.Input), env.ClassTag, env.Path,
		planUUID, planClassTag, env.ApplyUUID.String())
	if err != nil {
		return fmt.Errorf("upsert envelope: %w", err)
	}
	s.log.Debug().Str("uuid", env.UUID.String()).Msg("envelope persisted")
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID, fromPending bool) error {
	table := "envelopes"
	if fromPending {
		table = "pending_destroy"
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE uuid = ?", table), id.String())
	if err != nil {
		return fmt.Errorf("delete envelope: %w", err)
	}
	return nil
}

func (s *SQLiteStore) MarkDestroy(ctx context.Context, env *Envelope) error {
	var planUUID, planClassTag any
	if env.PlanUUID != nil {
		planUUID = env.PlanUUID.String()
	}
	if env.PlanClassTag != "" {
		planClassTag = env.PlanClassTag
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_destroy (uuid, output, input, class_tag, path, plan_uuid, plan_class_tag, apply_uuid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		env.UUID.String(), string(env.Output), string(env.Input), env.ClassTag, env.Path,
		planUUID, planClassTag, env.ApplyUUID.String())
	if err != nil {
		return fmt.Errorf("mark destroy: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListPendingDestroy(ctx context.Context) ([]*Envelope, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uuid, output, input, class_tag, path, plan_uuid, plan_class_tag, apply_uuid
		FROM pending_destroy ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list pending destroy: %w", err)
	}
	defer rows.Close()

	var out []*Envelope
	for rows.Next() {
		var (
			env                    Envelope
			idStr                  string
			planUUID, planClassTag sql.NullString
			applyUUID              string
		)
		if err := rows.Scan(&idStr, &env.Output, &env.Input, &env.ClassTag, &env.Path, &planUUID, &planClassTag, &applyUUID); err != nil {
			return nil, fmt.Errorf("scan pending destroy row: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse uuid: %w", err)
		}
		env.UUID = id
		if planUUID.Valid && planUUID.String != "" {
			pu, err := uuid.Parse(planUUID.String)
			if err != nil {
				return nil, fmt.Errorf("parse plan_uuid: %w", err)
			}
			env.PlanUUID = &pu
		}
		env.PlanClassTag = planClassTag.String
		au, err := uuid.Parse(applyUUID)
		if err != nil {
			return nil, fmt.Errorf("parse apply_uuid: %w", err)
		}
		env.ApplyUUID = au
		out = append(out, &env)
	}
	return out, rows.Err()
}

var _ Store = (*SQLiteStore)(nil)
