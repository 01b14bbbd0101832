package snowsql

import (
	"context"
	"database/sql"

	"github.com/pingcap-inc/sfadapter/pkg/coreinterfaces"
	"github.com/pingcap-inc/sfadapter/pkg/metrics"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"
)

// Session is a QueryExecutor pinned to a single connection of the pool,
// so that session state such as the active warehouse is kept between
// statements. A Session must not be shared by concurrent model executions.
// It implements the coreinterfaces.QueryExecutor interface.
type Session struct {
	conn    *sql.Conn
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewSession takes one connection out of db. A nil logger uses the global one.
func NewSession(ctx context.Context, db *sql.DB, logger *zap.Logger, m *metrics.Metrics) (*Session, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "Failed to get a Snowflake session")
	}
	if logger == nil {
		logger = log.L()
	}
	return &Session{conn: conn, logger: logger, metrics: m}, nil
}

func (s *Session) Execute(ctx context.Context, query string, fetch bool) (int64, *coreinterfaces.Table, error) {
	reqId := gosnowflake.NewUUID()
	ctx = gosnowflake.WithRequestID(ctx, reqId)
	s.logger.Debug("Executing statement",
		zap.String("request-id", reqId.String()),
		zap.Bool("fetch", fetch),
		zap.String("sql", query))

	if !fetch {
		s.metrics.ObserveQuery("exec")
		result, err := s.conn.ExecContext(ctx, query)
		if err != nil {
			s.metrics.ObserveError("execute")
			return 0, nil, errors.Trace(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, nil, errors.Trace(err)
		}
		return affected, nil, nil
	}

	s.metrics.ObserveQuery("fetch")
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		s.metrics.ObserveError("execute")
		return 0, nil, errors.Trace(err)
	}
	table, err := readTable(rows)
	if err != nil {
		s.metrics.ObserveError("execute")
		return 0, nil, errors.Trace(err)
	}
	return int64(len(table.Rows)), table, nil
}

func readTable(rows *sql.Rows) (*coreinterfaces.Table, error) {
	defer rows.Close()
	columnNames, err := rows.Columns()
	if err != nil {
		return nil, errors.Trace(err)
	}
	table := &coreinterfaces.Table{ColumnNames: columnNames, Rows: make([][]any, 0)}
	for rows.Next() {
		values := make([]any, len(columnNames))
		dest := make([]any, len(columnNames))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Trace(err)
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return table, nil
}

// Close returns the connection to the pool.
func (s *Session) Close() error {
	return s.conn.Close()
}
