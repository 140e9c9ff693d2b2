package queryv1

// TabletType identifies the replication role a tablet serves in.
type TabletType int32

const (
	TabletTypeUnknown TabletType = 0
	TabletTypePrimary TabletType = 1
	TabletTypeReplica TabletType = 2
	TabletTypeRdonly  TabletType = 3
)

// String returns the canonical lowercase name for the tablet type.
func (t TabletType) String() string {
	switch t {
	case TabletTypePrimary:
		return "primary"
	case TabletTypeReplica:
		return "replica"
	case TabletTypeRdonly:
		return "rdonly"
	default:
		return "unknown"
	}
}

// Target names the keyspace/shard/type a query is addressed to.
type Target struct {
	Keyspace   string     `cbor:"keyspace"`
	Shard      string     `cbor:"shard"`
	TabletType TabletType `cbor:"tablet_type"`
}

// BoundQuery is a SQL statement with its bind variables.
type BoundQuery struct {
	Sql           string         `cbor:"sql"`
	BindVariables map[string]any `cbor:"bind_variables,omitempty"`
}

// Field describes one column of a result set.
type Field struct {
	Name string `cbor:"name"`
	Type string `cbor:"type"`
}

// QueryResult is the outcome of a single statement. For streamed results the
// first message carries only Fields and later messages carry only Rows.
type QueryResult struct {
	Fields       []Field `cbor:"fields,omitempty"`
	RowsAffected uint64  `cbor:"rows_affected,omitempty"`
	InsertId     uint64  `cbor:"insert_id,omitempty"`
	Rows         [][]any `cbor:"rows,omitempty"`
}

// QuerySplit is one shard of a split query together with a row count
// estimate for that shard.
type QuerySplit struct {
	Query    BoundQuery `cbor:"query"`
	RowCount int64      `cbor:"row_count"`
}

// RealtimeStats carries the live health signals streamed by StreamHealth.
type RealtimeStats struct {
	HealthError         string  `cbor:"health_error,omitempty"`
	SecondsBehindMaster uint32  `cbor:"seconds_behind_master,omitempty"`
	Qps                 float64 `cbor:"qps,omitempty"`
}

type GetSessionIdRequest struct {
	Keyspace string `cbor:"keyspace"`
	Shard    string `cbor:"shard"`
}

type GetSessionIdResponse struct {
	SessionId string `cbor:"session_id"`
}

type ExecuteRequest struct {
	SessionId     string     `cbor:"session_id"`
	Query         BoundQuery `cbor:"query"`
	TransactionId int64      `cbor:"transaction_id,omitempty"`
}

type ExecuteResponse struct {
	Result *QueryResult `cbor:"result,omitempty"`
}

type ExecuteBatchRequest struct {
	SessionId     string       `cbor:"session_id"`
	Queries       []BoundQuery `cbor:"queries"`
	AsTransaction bool         `cbor:"as_transaction,omitempty"`
	TransactionId int64        `cbor:"transaction_id,omitempty"`
}

type ExecuteBatchResponse struct {
	Results []*QueryResult `cbor:"results,omitempty"`
}

type StreamExecuteRequest struct {
	SessionId string     `cbor:"session_id"`
	Query     BoundQuery `cbor:"query"`
}

type StreamExecuteResponse struct {
	Result *QueryResult `cbor:"result,omitempty"`
}

type BeginRequest struct {
	SessionId string `cbor:"session_id"`
}

type BeginResponse struct {
	TransactionId int64 `cbor:"transaction_id"`
}

type CommitRequest struct {
	SessionId     string `cbor:"session_id"`
	TransactionId int64  `cbor:"transaction_id"`
}

type CommitResponse struct{}

type RollbackRequest struct {
	SessionId     string `cbor:"session_id"`
	TransactionId int64  `cbor:"transaction_id"`
}

type RollbackResponse struct{}

type BeginExecuteRequest struct {
	SessionId string     `cbor:"session_id"`
	Query     BoundQuery `cbor:"query"`
}

type BeginExecuteResponse struct {
	Result        *QueryResult `cbor:"result,omitempty"`
	TransactionId int64        `cbor:"transaction_id"`
}

type BeginExecuteBatchRequest struct {
	SessionId string       `cbor:"session_id"`
	Queries   []BoundQuery `cbor:"queries"`
}

type BeginExecuteBatchResponse struct {
	Results       []*QueryResult `cbor:"results,omitempty"`
	TransactionId int64          `cbor:"transaction_id"`
}

type SplitQueryRequest struct {
	SessionId   string     `cbor:"session_id"`
	Query       BoundQuery `cbor:"query"`
	SplitColumn string     `cbor:"split_column"`
	SplitCount  int64      `cbor:"split_count"`
}

type SplitQueryResponse struct {
	Queries []QuerySplit `cbor:"queries,omitempty"`
}

type StreamHealthRequest struct{}

type StreamHealthResponse struct {
	Target                    *Target        `cbor:"target,omitempty"`
	Serving                   bool           `cbor:"serving"`
	PrimaryTermStartTimestamp int64          `cbor:"primary_term_start_timestamp,omitempty"`
	RealtimeStats             *RealtimeStats `cbor:"realtime_stats,omitempty"`
}

// sessionScoped is implemented by every request that carries a session id;
// interceptors use it to attach session scope without knowing the
// concrete type.
type sessionScoped interface {
	GetSessionId() string
}

func (r *ExecuteRequest) GetSessionId() string {
	if r == nil {
		return ""
	}
	return r.SessionId
}

func (r *ExecuteBatchRequest) GetSessionId() string {
	if r == nil {
		return ""
	}
	return r.SessionId
}

func (r *StreamExecuteRequest) GetSessionId() string {
	if r == nil {
		return ""
	}
	return r.SessionId
}

func (r *BeginRequest) GetSessionId() string {
	if r == nil {
		return ""
	}
	return r.SessionId
}

func (r *CommitRequest) GetSessionId() string {
	if r == nil {
		return ""
	}
	return r.SessionId
}

func (r *RollbackRequest) GetSessionId() string {
	if r == nil {
		return ""
	}
	return r.SessionId
}

func (r *BeginExecuteRequest) GetSessionId() string {
	if r == nil {
		return ""
	}
	return r.SessionId
}

func (r *BeginExecuteBatchRequest) GetSessionId() string {
	if r == nil {
		return ""
	}
	return r.SessionId
}

func (r *SplitQueryRequest) GetSessionId() string {
	if r == nil {
		return ""
	}
	return r.SessionId
}

// SessionIDFromRequest extracts the session id from any request that
// carries one. It returns the empty string for session-less requests such
// as GetSessionId and StreamHealth.
func SessionIDFromRequest(req any) string {
	scoped, ok := req.(sessionScoped)
	if !ok {
		return ""
	}
	return scoped.GetSessionId()
}

var _ sessionScoped = (*ExecuteRequest)(nil)
