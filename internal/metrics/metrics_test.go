package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(LoginAttempts.WithLabelValues("success"))
	LoginAttempts.WithLabelValues("success").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(LoginAttempts.WithLabelValues("success")))

	before = testutil.ToFloat64(GateRejections.WithLabelValues("forbidden"))
	GateRejections.WithLabelValues("forbidden").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(GateRejections.WithLabelValues("forbidden")))
}
