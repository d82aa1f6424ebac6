package pool

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/lib/pq"
)

// Sentinel errors surfaced by the pool. Callers match them with errors.Is;
// the wrapped cause is preserved for logging.
var (
	ErrPoolExhausted = errors.New("pool exhausted")
	ErrPoolClosed    = errors.New("pool closed")
	ErrConnection    = errors.New("database connection error")
	ErrStatement     = errors.New("statement error")
)

// Config holds the connection settings recognized by Open.
type Config struct {
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxConns   int
	QueueLimit int
}

// dsn assembles a lib/pq connection string from the individual settings.
func (c Config) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Pool bounds the number of concurrently leased connections and the backlog
// of callers waiting for one. It wraps a *sql.DB whose open-connection cap
// matches the lease cap, so a granted lease always maps to a free physical
// connection.
type Pool struct {
	db  *sql.DB
	sem chan struct{}

	queueLimit int

	mu      sync.Mutex
	waiting int
	closed  bool
}

// Stats reports a point-in-time view of pool usage.
type Stats struct {
	Active     int `json:"active"`
	Waiting    int `json:"waiting"`
	MaxConns   int `json:"max_conns"`
	QueueLimit int `json:"queue_limit"`
}

var (
	openOnce sync.Once
	shared   *Pool
	openErr  error
)

// Open returns the process-wide pool, creating it on the first call.
// Subsequent calls return the same pool regardless of the config passed.
func Open(cfg Config) (*Pool, error) {
	openOnce.Do(func() {
		shared, openErr = open(cfg)
	})
	return shared, openErr
}

func open(cfg Config) (*Pool, error) {
	db, err := sql.Open("postgres", cfg.dsn())
	if err != nil {
		return nil, classify(err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)

	// Verify the connection with a 5-second timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify(err)
	}

	return New(db, cfg.MaxConns, cfg.QueueLimit), nil
}

// New wraps an existing *sql.DB. Exposed so tests can supply a mock driver;
// production code goes through Open.
func New(db *sql.DB, maxConns, queueLimit int) *Pool {
	if maxConns < 1 {
		maxConns = 1
	}
	if queueLimit < 0 {
		queueLimit = 0
	}
	return &Pool{
		db:         db,
		sem:        make(chan struct{}, maxConns),
		queueLimit: queueLimit,
	}
}

// Acquire blocks until a connection is free or ctx is cancelled. When every
// connection is leased and the backlog already holds queueLimit waiters, it
// fails fast with ErrPoolExhausted instead of joining the queue.
func (p *Pool) Acquire(ctx context.Context) (*Lease, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	select {
	case p.sem <- struct{}{}:
	default:
		// Saturated: join the backlog if there is room.
		p.mu.Lock()
		if p.waiting >= p.queueLimit {
			p.mu.Unlock()
			return nil, ErrPoolExhausted
		}
		p.waiting++
		p.mu.Unlock()

		defer func() {
			p.mu.Lock()
			p.waiting--
			p.mu.Unlock()
		}()

		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	conn, err := p.db.Conn(ctx)
	if err != nil {
		<-p.sem
		return nil, classify(err)
	}

	return &Lease{pool: p, conn: conn}, nil
}

// Exec acquires a connection, runs a single statement, and releases the
// connection on every exit path. The unit most write operations use.
func (p *Pool) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	lease, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	return lease.Exec(ctx, query, args...)
}

// Stats returns current usage counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Active:     len(p.sem),
		Waiting:    p.waiting,
		MaxConns:   cap(p.sem),
		QueueLimit: p.queueLimit,
	}
}

// Shutdown stops handing out leases, waits for active ones to be returned
// (or for ctx to expire), then closes the underlying connections.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for len(p.sem) > 0 {
		select {
		case <-ctx.Done():
			p.db.Close()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return p.db.Close()
}

// Lease is an exclusive borrow of one pooled connection.
type Lease struct {
	pool *Pool
	conn *sql.Conn
	once sync.Once
}

// Release returns the connection to the pool. Safe to call more than once;
// only the first call has effect, so a deferred Release covers every exit
// path without double-freeing.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.conn.Close()
		<-l.pool.sem
	})
}

// QueryRow runs a query expected to return at most one row. Errors surface
// on Scan; callers pass anything other than sql.ErrNoRows through Classify.
func (l *Lease) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return l.conn.QueryRowContext(ctx, query, args...)
}

// Query runs a query returning multiple rows.
func (l *Lease) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := l.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// Exec runs a statement that returns no rows.
func (l *Lease) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := l.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// Classify maps a raw driver error onto the pool's taxonomy. Context and
// sql.ErrNoRows errors pass through untouched so callers can still match
// them directly.
func Classify(err error) error {
	return classify(err)
}

func classify(err error) error {
	if err == nil {
		return err
	}

	switch {
	case errors.Is(err, sql.ErrNoRows),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ErrConnection), errors.Is(err, ErrStatement):
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w: %v", ErrStatement, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return fmt.Errorf("%w: %v", ErrStatement, err)
}
