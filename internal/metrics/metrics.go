package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joyjuncture_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "joyjuncture_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joyjuncture_orders_total",
			Help: "Total number of orders placed",
		},
		[]string{"payment_method"},
	)

	PointsEarnedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joyjuncture_points_earned_total",
			Help: "Total points credited to wallets",
		},
		[]string{"source"},
	)

	PointsRedeemedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joyjuncture_points_redeemed_total",
			Help: "Total points debited from wallets",
		},
		[]string{"source"},
	)

	DailyBonusClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joyjuncture_daily_bonus_claims_total",
			Help: "Daily game bonus claim attempts",
		},
		[]string{"status"},
	)

	ReferralSignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "joyjuncture_referral_signups_total",
			Help: "Registrations attributed to a referral code",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joyjuncture_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "joyjuncture_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordOrder(paymentMethod string) {
	OrdersTotal.WithLabelValues(paymentMethod).Inc()
}

func RecordPointsEarned(source string, points int64) {
	PointsEarnedTotal.WithLabelValues(source).Add(float64(points))
}

func RecordPointsRedeemed(source string, points int64) {
	PointsRedeemedTotal.WithLabelValues(source).Add(float64(points))
}

func RecordDailyBonusClaim(status string) {
	DailyBonusClaimsTotal.WithLabelValues(status).Inc()
}

func RecordReferralSignup() {
	ReferralSignupsTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
