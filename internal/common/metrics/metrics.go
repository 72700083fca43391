package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "wanbit"

	BotSubsystem   = "bot"
	StoreSubsystem = "store"
)

// Общие метрики для HTTP: сервер метрик и исходящие запросы к внешним API.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint"},
	)
)

// Бот метрики.
var (
	InboundMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "inbound_messages_total",
			Help:      "Total number of inbound messages seen by the dispatcher",
		},
		[]string{"transport", "chat_type"},
	)

	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "dispatches_total",
			Help:      "Total number of dispatches by terminal state",
		},
		[]string{"state"},
	)

	CommandExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "command_executions_total",
			Help:      "Total number of command handler executions by outcome",
		},
		[]string{"command", "outcome"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "command_duration_seconds",
			Help:      "Command handler duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"command"},
	)

	PermissionDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "permission_decisions_total",
			Help:      "Total number of permission decisions by tier",
		},
		[]string{"tier", "decision"},
	)

	HousekeepingErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "housekeeping_errors_total",
			Help:      "Total number of failed user/group upserts",
		},
		[]string{"operation"},
	)

	RosterCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "roster_cache_total",
			Help:      "Roster cache lookups by result",
		},
		[]string{"result"},
	)

	GroupEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "group_events_total",
			Help:      "Group membership events by action",
		},
		[]string{"action"},
	)

	WelcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "welcomes_total",
			Help:      "Welcome messages sent to new group members",
		},
		[]string{"status"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "notifications_total",
			Help:      "Developer notifications by kind, channel and status",
		},
		[]string{"kind", "channel", "status"},
	)

	DailyResetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "daily_resets_total",
			Help:      "Daily limit resets by status",
		},
		[]string{"status"},
	)
)

// Метрики хранилища.
var (
	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: StoreSubsystem,
			Name:      "database_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: StoreSubsystem,
			Name:      "database_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func RecordHTTPRequest(service, method, endpoint string, statusCode int, duration time.Duration) {
	status := "success"
	if statusCode >= 400 || statusCode == 0 {
		status = "error"
	}

	HTTPRequestsTotal.WithLabelValues(service, method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(service, method, endpoint).Observe(duration.Seconds())
}

func RecordInboundMessage(transport string, isGroup bool) {
	chatType := "direct"
	if isGroup {
		chatType = "group"
	}

	InboundMessagesTotal.WithLabelValues(transport, chatType).Inc()
}

func RecordDispatch(state string) {
	DispatchesTotal.WithLabelValues(state).Inc()
}

func RecordCommandExecution(command, outcome string, duration time.Duration) {
	CommandExecutionsTotal.WithLabelValues(command, outcome).Inc()
	CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func RecordPermissionDecision(tier, decision string) {
	PermissionDecisionsTotal.WithLabelValues(tier, decision).Inc()
}

func RecordHousekeepingError(operation string) {
	HousekeepingErrorsTotal.WithLabelValues(operation).Inc()
}

func RecordRosterCache(result string) {
	RosterCacheTotal.WithLabelValues(result).Inc()
}

func RecordGroupEvent(action string) {
	GroupEventsTotal.WithLabelValues(action).Inc()
}

func RecordWelcome(status string) {
	WelcomesTotal.WithLabelValues(status).Inc()
}

func RecordNotification(kind, channel, status string) {
	NotificationsTotal.WithLabelValues(kind, channel, status).Inc()
}

func RecordDailyReset(status string) {
	DailyResetsTotal.WithLabelValues(status).Inc()
}

func RecordDatabaseQuery(operation, status string, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(operation, status).Inc()
	DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
