package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRedemption(t *testing.T) {
	before := testutil.ToFloat64(redemptions.WithLabelValues(ResultSuccess))
	pointsBefore := testutil.ToFloat64(pointsRedeemed)

	RecordRedemption(ResultSuccess, 250)
	RecordRedemption(ResultAlreadyPurchased, 250)

	assert.Equal(t, before+1, testutil.ToFloat64(redemptions.WithLabelValues(ResultSuccess)))
	assert.Equal(t, pointsBefore+250, testutil.ToFloat64(pointsRedeemed))
}

func TestRecordCredit_SplitsDirection(t *testing.T) {
	credit := testutil.ToFloat64(bonusCredited.WithLabelValues("credit"))
	debit := testutil.ToFloat64(bonusCredited.WithLabelValues("debit"))

	RecordCredit(300)
	RecordCredit(-40)
	RecordCredit(0)

	assert.Equal(t, credit+300, testutil.ToFloat64(bonusCredited.WithLabelValues("credit")))
	assert.Equal(t, debit+40, testutil.ToFloat64(bonusCredited.WithLabelValues("debit")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	ObserveHTTP(http.MethodGet, "/api/services", http.StatusOK, 10*time.Millisecond)
	RecordAuthFailure("hash_mismatch")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bonus_tma_http_requests_total{method="GET",route="/api/services",status="200"}`)
	assert.Contains(t, string(body), `bonus_tma_auth_failures_total{reason="hash_mismatch"}`)
}
