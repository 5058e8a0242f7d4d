package storage

import (
	"context"
	_ "embed"

	"github.com/jackc/pgtype"
	"github.com/samber/lo/mutable"
	"go.uber.org/zap"
)

// RecentLimit is the maximal number of messages returned by ListRecent
const RecentLimit = 100

// timestampLayout renders a timestamp without time zone in ISO-8601
const timestampLayout = "2006-01-02T15:04:05.999999"

//go:embed schema.sql
var schema string

// Store performs chat message persistence against a single database.
// It holds no connection between calls: every operation dials a Session and
// releases it before returning.
type Store struct {
	logger *zap.SugaredLogger
	dsn    string
	dialer Dialer
}

// New returns a Store for the database identified by dsn
func New(logger *zap.SugaredLogger, dsn string, dialer Dialer) *Store {
	return &Store{
		logger: logger,
		dsn:    dsn,
		dialer: dialer,
	}
}

// withSession acquires a Session, runs fn and releases the Session on every path
func (s *Store) withSession(ctx context.Context, op string, fn func(Session) error) error {
	sess, err := s.dialer.Dial(ctx, s.dsn)
	if err != nil {
		return s.fail(op, err)
	}
	// released with a fresh context so a cancelled request still closes its connection
	defer sess.Release(context.Background())

	if err := fn(sess); err != nil {
		return s.fail(op, err)
	}
	return nil
}

func (s *Store) fail(op string, err error) error {
	storeErr := &StoreError{Op: op, Err: err}
	if storeErr.SchemaMissing() {
		s.logger.Errorf("%v (chat_messages schema is missing, run with AUTO_MIGRATE=true)", storeErr)
	} else {
		s.logger.Error(storeErr)
	}
	return storeErr
}

// ListRecent returns up to RecentLimit latest messages ordered from oldest to newest
func (s *Store) ListRecent(ctx context.Context) ([]Message, error) {
	s.logger.Debug("Retrieving recent messages")

	messages := make([]Message, 0, RecentLimit)
	err := s.withSession(ctx, "list recent messages", func(sess Session) error {
		sql := `select id, 
				       username, 
				       text, 
				       timestamp, 
				       avatar_color
				  from chat_messages
				 order by timestamp desc, id desc
				 limit $1`

		rows, err := sess.Query(ctx, sql, RecentLimit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				m  Message
				ts pgtype.Timestamp
			)
			if err := rows.Scan(&m.ID, &m.Username, &m.Text, &ts, &m.AvatarColor); err != nil {
				return err
			}
			m.Timestamp = formatTimestamp(ts)
			messages = append(messages, m)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	// queried newest first, served oldest first
	mutable.Reverse(messages)

	s.logger.Debugf("Retrieved %d messages", len(messages))

	return messages, nil
}

// Insert creates new message and returns its id
func (s *Store) Insert(ctx context.Context, m NewMessage) (int64, error) {
	s.logger.Debugf("Creating message from %q", m.Username)

	var id int64
	err := s.withSession(ctx, "insert message", func(sess Session) error {
		sql := "insert into chat_messages (username, text, avatar_color) values ($1, $2, $3) returning id"
		return sess.QueryRow(ctx, sql, m.Username, m.Text, m.AvatarColor).Scan(&id)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debugf("Created message with id %d", id)

	return id, nil
}

// Migrate creates the chat_messages table and its index when they do not exist
func (s *Store) Migrate(ctx context.Context) error {
	s.logger.Info("Applying chat_messages schema")

	return s.withSession(ctx, "migrate", func(sess Session) error {
		return sess.Exec(ctx, schema)
	})
}

func formatTimestamp(ts pgtype.Timestamp) *string {
	if ts.Status != pgtype.Present {
		return nil
	}
	v := ts.Time.Format(timestampLayout)
	return &v
}
