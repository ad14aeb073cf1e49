package observability

// Metric name prefixes
const (
	MetricPrefix = "townbank"
)

// Metric names
const (
	// HTTP metrics
	HTTPRequests        = MetricPrefix + ".http.requests"
	HTTPRequestDuration = MetricPrefix + ".http.request_duration"

	// NATS metrics
	NATSMessagesPublished = MetricPrefix + ".nats.messages_published"

	// Ledger metrics
	BalanceTransactions = MetricPrefix + ".balance.transactions"

	// Depalka metrics
	WagersResolved = MetricPrefix + ".wagers.resolved"

	// Cycle metrics
	CycleAdvances = MetricPrefix + ".cycle.advances"
	PayrollPaid   = MetricPrefix + ".payroll.paid"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelMethod    = "method"
	LabelRoute     = "route"
	LabelStatus    = "status"
	LabelOutcome   = "outcome"
	LabelDirection = "direction"
)
