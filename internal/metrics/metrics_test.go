package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(TransfersTotal.WithLabelValues("saved"))
	TransfersTotal.WithLabelValues("saved").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(TransfersTotal.WithLabelValues("saved")))

	before = testutil.ToFloat64(PayloadsExpired)
	PayloadsExpired.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(PayloadsExpired))
}
