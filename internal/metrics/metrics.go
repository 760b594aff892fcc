package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	KillsCredited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guild_kills_credited_total",
		Help: "Kills credited to players, by victim kind",
	}, []string{"victim"})

	Promotions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guild_promotions_total",
		Help: "Rank promotions, by new rank",
	}, []string{"rank"})

	SquadOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guild_squad_operations_total",
		Help: "Squad ledger operations, by operation and outcome",
	}, []string{"op", "status"})

	Compensations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guild_compensations_total",
		Help: "Rollbacks issued after the second step of a two-step mutation failed",
	}, []string{"op"})

	PersistDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "guild_persist_duration_seconds",
		Help:    "Duration of whole-document saves",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guild_persist_failures_total",
		Help: "Document saves that failed; in-memory state stays authoritative",
	})

	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guild_sessions_started_total",
		Help: "Interactive sessions opened, by awaited input",
	}, []string{"state"})

	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guild_sessions_expired_total",
		Help: "Interactive sessions dropped by the expiry timer",
	})

	WalletRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wallet_request_duration_seconds",
		Help:    "Duration of wallet bridge requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	WalletRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_requests_total",
		Help: "Total number of wallet bridge requests",
	}, []string{"endpoint", "status"})

	IngestRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_requests_total",
		Help: "Ingest API requests, by route and status code",
	}, []string{"route", "code"})

	DiscordMessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discord_messages_sent_total",
		Help: "Total number of Discord messages sent",
	}, []string{"channel_type", "status"})
)

// TrackOnlinePlayers exposes the size of the presence registry. It registers
// with the default registry and must be called once per process.
func TrackOnlinePlayers(count func() int) prometheus.GaugeFunc {
	return promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "guild_players_online",
		Help: "Players currently reported online by the game server",
	}, func() float64 {
		return float64(count())
	})
}
