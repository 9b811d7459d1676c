package prometrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/felipeshurrab/Harmonia/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CountersAreIdempotentAndExposed(t *testing.T) {
	r := New("")
	counters, _ := r.Instruments()

	counters[observability.MStockUnits].Add(5, observability.L("direction", "out"))
	r.Counter(string(observability.MStockUnits), "", "direction").Add(2, observability.L("direction", "out"))

	expected := `
# HELP stock_units_total Stock units moved, by direction.
# TYPE stock_units_total counter
stock_units_total{direction="out"} 7
`
	require.NoError(t, testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(expected), "stock_units_total"))
}

func TestRegistry_WrongLabelsAreDropped(t *testing.T) {
	r := New("")
	c := r.Counter("drops_total", "help", "a")

	assert.NotPanics(t, func() { c.Add(1, observability.L("b", "x")) })
	n, err := testutil.GatherAndCount(r.Gatherer(), "drops_total")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRegistry_Handler(t *testing.T) {
	r := New("")
	_, histograms := r.Instruments()
	histograms[observability.MUsecaseDuration].Observe(0.2, observability.L("use_case", "order.place"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `usecase_duration_seconds_count{use_case="order.place"} 1`)
}
