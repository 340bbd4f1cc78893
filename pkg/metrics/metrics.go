package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all business metrics for the application
type Metrics struct {
	// Pool / invite lifecycle
	InvitesSent     prometheus.Counter
	InvitesAccepted prometheus.Counter
	InvitesDeclined prometheus.Counter
	InvitesExpired  prometheus.Counter

	// Match lifecycle
	MatchesStarted   prometheus.Counter
	MatchesReported  prometheus.Counter
	MatchesConfirmed prometheus.Counter
	MatchesDisputed  prometheus.Counter
	MatchesCancelled prometheus.Counter

	// Rating engine
	RatingUpdatesApplied prometheus.Counter
	RatingUpdateRetries  prometheus.Counter

	// Rematch
	RematchesOffered  prometheus.Counter
	RematchesAccepted prometheus.Counter

	// Basic HTTP health
	HTTPRequests *prometheus.CounterVec
}

// New creates a new metrics registry for the given service
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		InvitesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "invites_sent_total",
			Help:        "Total number of match invites sent",
			ConstLabels: labels,
		}),
		InvitesAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "invites_accepted_total",
			Help:        "Total number of match invites accepted",
			ConstLabels: labels,
		}),
		InvitesDeclined: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "invites_declined_total",
			Help:        "Total number of match invites declined",
			ConstLabels: labels,
		}),
		InvitesExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "invites_expired_total",
			Help:        "Total number of match invites that expired unanswered",
			ConstLabels: labels,
		}),

		MatchesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "matches_started_total",
			Help:        "Total number of matches that moved to ACTIVE",
			ConstLabels: labels,
		}),
		MatchesReported: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "matches_reported_total",
			Help:        "Total number of match results reported by a player",
			ConstLabels: labels,
		}),
		MatchesConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "matches_confirmed_total",
			Help:        "Total number of matches confirmed and finalized",
			ConstLabels: labels,
		}),
		MatchesDisputed: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "matches_disputed_total",
			Help:        "Total number of matches that entered a disputed state",
			ConstLabels: labels,
		}),
		MatchesCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "matches_cancelled_total",
			Help:        "Total number of invites cancelled by the challenger before acceptance",
			ConstLabels: labels,
		}),

		RatingUpdatesApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "rating_updates_applied_total",
			Help:        "Total number of successful per-character rating updates",
			ConstLabels: labels,
		}),
		RatingUpdateRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "rating_update_retries_total",
			Help:        "Total number of rating update transactions that failed, leaving the confirm open to a client retry",
			ConstLabels: labels,
		}),

		RematchesOffered: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "rematches_offered_total",
			Help:        "Total number of rematch offers raised after a confirm, whether completed or disputed",
			ConstLabels: labels,
		}),
		RematchesAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "rematches_accepted_total",
			Help:        "Total number of rematch offers accepted by both players",
			ConstLabels: labels,
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: labels,
			},
			[]string{"status"},
		),
	}
}

// Business metric helper methods
func (m *Metrics) IncrementInvitesSent()     { m.InvitesSent.Inc() }
func (m *Metrics) IncrementInvitesAccepted() { m.InvitesAccepted.Inc() }
func (m *Metrics) IncrementInvitesDeclined() { m.InvitesDeclined.Inc() }
func (m *Metrics) IncrementInvitesExpired()  { m.InvitesExpired.Inc() }

func (m *Metrics) IncrementMatchesStarted()   { m.MatchesStarted.Inc() }
func (m *Metrics) IncrementMatchesReported()  { m.MatchesReported.Inc() }
func (m *Metrics) IncrementMatchesConfirmed() { m.MatchesConfirmed.Inc() }
func (m *Metrics) IncrementMatchesDisputed()  { m.MatchesDisputed.Inc() }
func (m *Metrics) IncrementMatchesCancelled() { m.MatchesCancelled.Inc() }

func (m *Metrics) IncrementRatingUpdatesApplied() { m.RatingUpdatesApplied.Inc() }
func (m *Metrics) IncrementRatingUpdateRetries()  { m.RatingUpdateRetries.Inc() }

func (m *Metrics) IncrementRematchesOffered()  { m.RematchesOffered.Inc() }
func (m *Metrics) IncrementRematchesAccepted() { m.RematchesAccepted.Inc() }
