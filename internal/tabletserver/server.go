package tabletserver

import (
	"context"
	"database/sql"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	queryv1 "github.com/tabletdb/tabletd/api/queryv1"
	apperrors "github.com/tabletdb/tabletd/internal/platform/errors"
	"github.com/tabletdb/tabletd/internal/storage"
)

const streamRowBatchSize = 64

// Config carries the tablet's identity and tuning knobs.
type Config struct {
	Target queryv1.Target
	DB     storage.QueryDB

	// SessionKey signs session ids. Empty means a random per-process key.
	SessionKey []byte

	TxPoolSize int
	TxTimeout  time.Duration

	// QPSLimit throttles query execution. Zero disables throttling.
	QPSLimit float64

	HealthInterval time.Duration
}

// Service implements the queryservice.Query contract for a single tablet.
type Service struct {
	queryv1.UnimplementedQueryServer

	target         queryv1.Target
	db             storage.QueryDB
	sessions       *SessionSigner
	txPool         *TxPool
	limiter        *rate.Limiter
	health         *healthBroadcaster
	healthInterval time.Duration
	started        time.Time

	serving atomic.Bool
	queries atomic.Int64
	qpsBits atomic.Uint64
}

// New creates a tablet query service.
func New(cfg Config) (*Service, error) {
	if cfg.Target.Keyspace == "" {
		return nil, apperrors.New(apperrors.CodeTargetRequired, "keyspace is required")
	}
	if cfg.DB == nil {
		return nil, apperrors.New(apperrors.CodeUnknown, "database handle is required")
	}

	sessions, err := NewSessionSigner(cfg.SessionKey, cfg.Target)
	if err != nil {
		return nil, err
	}

	interval := cfg.HealthInterval
	if interval <= 0 {
		interval = defaultHealthInterval
	}

	svc := &Service{
		target:         cfg.Target,
		db:             cfg.DB,
		sessions:       sessions,
		txPool:         NewTxPool(cfg.DB, cfg.TxPoolSize, cfg.TxTimeout),
		health:         newHealthBroadcaster(),
		healthInterval: interval,
		started:        time.Now(),
	}
	if cfg.QPSLimit > 0 {
		svc.limiter = rate.NewLimiter(rate.Limit(cfg.QPSLimit), int(math.Ceil(cfg.QPSLimit)))
	}
	svc.serving.Store(true)
	return svc, nil
}

// Start launches the transaction reaper and the health ticker. Both stop
// when ctx ends.
func (s *Service) Start(ctx context.Context) {
	s.txPool.StartReaper(ctx)
	s.startHealthTicker(ctx)
}

// SetServing flips the serving state reported over StreamHealth. A tablet
// taken out of serving rejects new queries but keeps health streams open.
func (s *Service) SetServing(serving bool) {
	s.serving.Store(serving)
	s.health.broadcast(s.healthSnapshot())
}

// Shutdown rolls back every open transaction.
func (s *Service) Shutdown() {
	s.txPool.Shutdown()
}

func (s *Service) storeQPS(qps float64) {
	s.qpsBits.Store(math.Float64bits(qps))
}

func (s *Service) loadQPS() float64 {
	return math.Float64frombits(s.qpsBits.Load())
}

// checkQuery verifies the session and applies throttling before any
// statement runs.
func (s *Service) checkQuery(sessionID string) error {
	if !s.serving.Load() {
		return apperrors.New(apperrors.CodeNotServing, "tablet is not accepting queries")
	}
	if err := s.sessions.Verify(sessionID); err != nil {
		return err
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return apperrors.New(apperrors.CodeQueryThrottled, "query rate limit exceeded")
	}
	return nil
}

// executorFor resolves the execution target: the pooled transaction when a
// transaction id is set, the shared database handle otherwise.
func (s *Service) executorFor(txID int64) (executor, error) {
	if txID == 0 {
		return s.db, nil
	}
	return s.txPool.Get(txID)
}

// GetSessionId issues a session id for the requested keyspace and shard.
// The request must name this tablet's target.
func (s *Service) GetSessionId(ctx context.Context, in *queryv1.GetSessionIdRequest) (*queryv1.GetSessionIdResponse, error) {
	if in.Keyspace == "" {
		return nil, apperrors.HandleError(apperrors.New(apperrors.CodeTargetRequired, "keyspace is required"))
	}
	if in.Keyspace != s.target.Keyspace || in.Shard != s.target.Shard {
		return nil, apperrors.HandleError(apperrors.WithMetadata(apperrors.CodeSessionWrongTarget, "tablet serves another keyspace or shard", map[string]string{
			"requested_keyspace": in.Keyspace,
			"requested_shard":    in.Shard,
			"tablet_keyspace":    s.target.Keyspace,
			"tablet_shard":       s.target.Shard,
		}))
	}

	sessionID, err := s.sessions.Issue()
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	return &queryv1.GetSessionIdResponse{SessionId: sessionID}, nil
}

// Execute runs a single bound query, inside the named transaction when a
// transaction id is set.
func (s *Service) Execute(ctx context.Context, in *queryv1.ExecuteRequest) (*queryv1.ExecuteResponse, error) {
	if err := s.checkQuery(in.SessionId); err != nil {
		return nil, apperrors.HandleError(err)
	}

	exec, err := s.executorFor(in.TransactionId)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}

	result, err := execStatement(ctx, exec, in.Query)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	s.queries.Add(1)
	return &queryv1.ExecuteResponse{Result: result}, nil
}

// ExecuteBatch runs a list of bound queries in order. With AsTransaction
// set the whole batch commits or rolls back as one unit.
func (s *Service) ExecuteBatch(ctx context.Context, in *queryv1.ExecuteBatchRequest) (*queryv1.ExecuteBatchResponse, error) {
	if err := s.checkQuery(in.SessionId); err != nil {
		return nil, apperrors.HandleError(err)
	}
	if err := validateBatch(in.Queries); err != nil {
		return nil, apperrors.HandleError(err)
	}

	results, err := s.runBatch(ctx, in.Queries, in.TransactionId, in.AsTransaction)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	return &queryv1.ExecuteBatchResponse{Results: results}, nil
}

func (s *Service) runBatch(ctx context.Context, queries []queryv1.BoundQuery, txID int64, asTransaction bool) ([]*queryv1.QueryResult, error) {
	var exec executor
	var batchTx *sql.Tx
	switch {
	case asTransaction:
		if txID != 0 {
			return nil, apperrors.New(apperrors.CodeTxNotFound, "as_transaction cannot be combined with an open transaction")
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeQueryFailed, "begin batch transaction", err)
		}
		defer tx.Rollback()
		batchTx = tx
		exec = tx
	default:
		var err error
		exec, err = s.executorFor(txID)
		if err != nil {
			return nil, err
		}
	}

	results := make([]*queryv1.QueryResult, 0, len(queries))
	for _, query := range queries {
		result, err := execStatement(ctx, exec, query)
		if err != nil {
			return nil, err
		}
		s.queries.Add(1)
		results = append(results, result)
	}

	if batchTx != nil {
		if err := batchTx.Commit(); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeQueryFailed, "commit batch transaction", err)
		}
	}
	return results, nil
}

// StreamExecute runs a query and streams the result back in pieces: one
// message carrying the fields, then row batches.
func (s *Service) StreamExecute(in *queryv1.StreamExecuteRequest, stream queryv1.Query_StreamExecuteServer) error {
	ctx := stream.Context()
	if err := s.checkQuery(in.SessionId); err != nil {
		return apperrors.HandleError(err)
	}

	sqlText := in.Query.Sql
	if sqlText == "" {
		return apperrors.HandleError(apperrors.New(apperrors.CodeQueryEmpty, "query is required"))
	}
	if !isSelect(sqlText) {
		return apperrors.HandleError(apperrors.New(apperrors.CodeQueryFailed, "only row-producing statements can be streamed"))
	}

	rows, err := s.db.QueryContext(ctx, sqlText, namedArgs(in.Query.BindVariables)...)
	if err != nil {
		return apperrors.HandleError(apperrors.Wrap(apperrors.CodeQueryFailed, "execute query", err))
	}
	defer rows.Close()

	fields, err := fieldsFromRows(rows)
	if err != nil {
		return apperrors.HandleError(err)
	}
	if err := stream.Send(&queryv1.StreamExecuteResponse{Result: &queryv1.QueryResult{Fields: fields}}); err != nil {
		return err
	}

	batch := make([][]any, 0, streamRowBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := stream.Send(&queryv1.StreamExecuteResponse{Result: &queryv1.QueryResult{Rows: batch}})
		batch = make([][]any, 0, streamRowBatchSize)
		return err
	}

	for rows.Next() {
		row, err := scanRow(rows, len(fields))
		if err != nil {
			return apperrors.HandleError(err)
		}
		batch = append(batch, row)
		if len(batch) == streamRowBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.HandleError(apperrors.Wrap(apperrors.CodeQueryFailed, "iterate rows", err))
	}
	if err := flush(); err != nil {
		return err
	}

	s.queries.Add(1)
	return nil
}

// Begin opens a server-side transaction and returns its id.
func (s *Service) Begin(ctx context.Context, in *queryv1.BeginRequest) (*queryv1.BeginResponse, error) {
	if err := s.checkQuery(in.SessionId); err != nil {
		return nil, apperrors.HandleError(err)
	}

	txID, err := s.txPool.Begin(ctx)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	return &queryv1.BeginResponse{TransactionId: txID}, nil
}

// Commit commits the named transaction.
func (s *Service) Commit(ctx context.Context, in *queryv1.CommitRequest) (*queryv1.CommitResponse, error) {
	if err := s.sessions.Verify(in.SessionId); err != nil {
		return nil, apperrors.HandleError(err)
	}
	if err := s.txPool.Commit(in.TransactionId); err != nil {
		return nil, apperrors.HandleError(err)
	}
	return &queryv1.CommitResponse{}, nil
}

// Rollback rolls back the named transaction.
func (s *Service) Rollback(ctx context.Context, in *queryv1.RollbackRequest) (*queryv1.RollbackResponse, error) {
	if err := s.sessions.Verify(in.SessionId); err != nil {
		return nil, apperrors.HandleError(err)
	}
	if err := s.txPool.Rollback(in.TransactionId); err != nil {
		return nil, apperrors.HandleError(err)
	}
	return &queryv1.RollbackResponse{}, nil
}

// BeginExecute opens a transaction and runs the query inside it in one
// round trip. When the query fails the fresh transaction is rolled back
// so it cannot leak.
func (s *Service) BeginExecute(ctx context.Context, in *queryv1.BeginExecuteRequest) (*queryv1.BeginExecuteResponse, error) {
	if err := s.checkQuery(in.SessionId); err != nil {
		return nil, apperrors.HandleError(err)
	}

	txID, err := s.txPool.Begin(ctx)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}

	exec, err := s.txPool.Get(txID)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	result, err := execStatement(ctx, exec, in.Query)
	if err != nil {
		_ = s.txPool.Rollback(txID)
		return nil, apperrors.HandleError(err)
	}
	s.queries.Add(1)
	return &queryv1.BeginExecuteResponse{Result: result, TransactionId: txID}, nil
}

// BeginExecuteBatch opens a transaction and runs the batch inside it in
// one round trip.
func (s *Service) BeginExecuteBatch(ctx context.Context, in *queryv1.BeginExecuteBatchRequest) (*queryv1.BeginExecuteBatchResponse, error) {
	if err := s.checkQuery(in.SessionId); err != nil {
		return nil, apperrors.HandleError(err)
	}
	if err := validateBatch(in.Queries); err != nil {
		return nil, apperrors.HandleError(err)
	}

	txID, err := s.txPool.Begin(ctx)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}

	results, err := s.runBatch(ctx, in.Queries, txID, false)
	if err != nil {
		_ = s.txPool.Rollback(txID)
		return nil, apperrors.HandleError(err)
	}
	return &queryv1.BeginExecuteBatchResponse{Results: results, TransactionId: txID}, nil
}

// SplitQuery splits a SELECT into non-overlapping range scans over the
// split column.
func (s *Service) SplitQuery(ctx context.Context, in *queryv1.SplitQueryRequest) (*queryv1.SplitQueryResponse, error) {
	if err := s.checkQuery(in.SessionId); err != nil {
		return nil, apperrors.HandleError(err)
	}

	splits, err := splitQuery(ctx, s.db, in.Query, in.SplitColumn, in.SplitCount)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	s.queries.Add(1)
	return &queryv1.SplitQueryResponse{Queries: splits}, nil
}
