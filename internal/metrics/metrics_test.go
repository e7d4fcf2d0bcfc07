package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/wallet", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/wallet", "200"))
	assert.Equal(t, float64(1), count)
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/auth/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordOrder(t *testing.T) {
	OrdersTotal.Reset()

	RecordOrder("card")
	RecordOrder("card")
	RecordOrder("upi")

	cardCount := testutil.ToFloat64(OrdersTotal.WithLabelValues("card"))
	upiCount := testutil.ToFloat64(OrdersTotal.WithLabelValues("upi"))

	assert.Equal(t, float64(2), cardCount)
	assert.Equal(t, float64(1), upiCount)
}

func TestRecordPoints(t *testing.T) {
	PointsEarnedTotal.Reset()
	PointsRedeemedTotal.Reset()

	RecordPointsEarned("purchase", 5)
	RecordPointsEarned("purchase", 3)
	RecordPointsRedeemed("discount_redemption", 500)

	earned := testutil.ToFloat64(PointsEarnedTotal.WithLabelValues("purchase"))
	redeemed := testutil.ToFloat64(PointsRedeemedTotal.WithLabelValues("discount_redemption"))

	assert.Equal(t, float64(8), earned)
	assert.Equal(t, float64(500), redeemed)
}

func TestRecordDailyBonusClaim(t *testing.T) {
	DailyBonusClaimsTotal.Reset()

	RecordDailyBonusClaim("awarded")
	RecordDailyBonusClaim("already_claimed")
	RecordDailyBonusClaim("awarded")

	awarded := testutil.ToFloat64(DailyBonusClaimsTotal.WithLabelValues("awarded"))
	rejected := testutil.ToFloat64(DailyBonusClaimsTotal.WithLabelValues("already_claimed"))

	assert.Equal(t, float64(2), awarded)
	assert.Equal(t, float64(1), rejected)
}

func TestRecordReferralSignup(t *testing.T) {
	testCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "joyjuncture_referral_signups_total_test",
			Help: "Registrations attributed to a referral code",
		},
	)

	oldCounter := ReferralSignupsTotal
	ReferralSignupsTotal = testCounter
	defer func() { ReferralSignupsTotal = oldCounter }()

	RecordReferralSignup()
	RecordReferralSignup()

	count := testutil.ToFloat64(testCounter)
	assert.Equal(t, float64(2), count)
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("order_confirmation", "success")
	RecordEmail("order_confirmation", "failed")

	success := testutil.ToFloat64(EmailsSentTotal.WithLabelValues("order_confirmation", "success"))
	failed := testutil.ToFloat64(EmailsSentTotal.WithLabelValues("order_confirmation", "failed"))

	assert.Equal(t, float64(1), success)
	assert.Equal(t, float64(1), failed)
}

func TestEmailQueueLength(t *testing.T) {
	EmailQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(EmailQueueLength))

	EmailQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}
