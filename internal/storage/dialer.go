package storage

import (
	"context"
	"sync"

	"marathon-chat/internal/storage/zapadapter"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Session is a single database connection checked out for one Store operation.
// Release must be called exactly once.
type Session interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string) error
	Release(ctx context.Context)
}

// Dialer opens sessions against the database identified by dsn
type Dialer interface {
	Dial(ctx context.Context, dsn string) (Session, error)
}

// ConnDialer opens a dedicated connection for every session and closes it on release
type ConnDialer struct {
	logger *zap.Logger
	opts   []Option
}

func NewConnDialer(logger *zap.Logger, opts ...Option) *ConnDialer {
	return &ConnDialer{logger: logger, opts: opts}
}

func (d *ConnDialer) Dial(ctx context.Context, dsn string) (Session, error) {
	config, err := connConfig(d.logger, dsn, d.opts)
	if err != nil {
		return nil, err
	}

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	return connSession{conn: conn}, nil
}

type connSession struct {
	conn *pgx.Conn
}

func (s connSession) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return s.conn.Query(ctx, sql, args...)
}

func (s connSession) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return s.conn.QueryRow(ctx, sql, args...)
}

func (s connSession) Exec(ctx context.Context, sql string) error {
	_, err := s.conn.Exec(ctx, sql)
	return err
}

// error handling is omitted, the connection is unusable either way
func (s connSession) Release(ctx context.Context) {
	_ = s.conn.Close(ctx)
}

// PoolDialer keeps one pgxpool.Pool per connection string and checks a connection
// out of it for every session. Pools are created lazily on first use.
type PoolDialer struct {
	logger   *zap.Logger
	opts     []Option
	maxConns int32

	mu    sync.Mutex
	pools map[string]*pgxpool.Pool
}

func NewPoolDialer(logger *zap.Logger, maxConns int32, opts ...Option) *PoolDialer {
	return &PoolDialer{
		logger:   logger,
		opts:     opts,
		maxConns: maxConns,
		pools:    make(map[string]*pgxpool.Pool),
	}
}

func (d *PoolDialer) Dial(ctx context.Context, dsn string) (Session, error) {
	pool, err := d.pool(ctx, dsn)
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	return poolSession{conn: conn}, nil
}

func (d *PoolDialer) pool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pools[dsn]; ok {
		return p, nil
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	config.ConnConfig.Logger = zapadapter.NewLogger(d.logger)
	for _, o := range d.opts {
		o.apply(config.ConnConfig)
	}
	if d.maxConns > 0 {
		config.MaxConns = d.maxConns
	}

	p, err := pgxpool.ConnectConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	d.pools[dsn] = p

	return p, nil
}

// Close closes every pool opened so far
func (d *PoolDialer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for dsn, p := range d.pools {
		p.Close()
		delete(d.pools, dsn)
	}
}

type poolSession struct {
	conn *pgxpool.Conn
}

func (s poolSession) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return s.conn.Query(ctx, sql, args...)
}

func (s poolSession) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return s.conn.QueryRow(ctx, sql, args...)
}

func (s poolSession) Exec(ctx context.Context, sql string) error {
	_, err := s.conn.Exec(ctx, sql)
	return err
}

func (s poolSession) Release(_ context.Context) {
	s.conn.Release()
}

func connConfig(logger *zap.Logger, dsn string, opts []Option) (*pgx.ConnConfig, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	config.Logger = zapadapter.NewLogger(logger)
	for _, o := range opts {
		o.apply(config)
	}

	return config, nil
}
