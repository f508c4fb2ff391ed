package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveCountersIncrement(t *testing.T) {
	Init()

	before := testutil.ToFloat64(scraperRecordsTotal.WithLabelValues("test-source"))
	ObserveRecord("test-source")
	require.Equal(t, before+1, testutil.ToFloat64(scraperRecordsTotal.WithLabelValues("test-source")))

	beforeDrop := testutil.ToFloat64(scraperRecordsDroppedTotal.WithLabelValues("test-source", DropRuleRejected))
	ObserveDrop("test-source", DropRuleRejected)
	require.Equal(t, beforeDrop+1, testutil.ToFloat64(scraperRecordsDroppedTotal.WithLabelValues("test-source", DropRuleRejected)))
}

func TestObservePublishSplitsByOutcome(t *testing.T) {
	Init()

	okBefore := testutil.ToFloat64(publisherMessagesTotal.WithLabelValues("pub-source"))
	failBefore := testutil.ToFloat64(publisherFailuresTotal.WithLabelValues("pub-source"))

	ObservePublish("pub-source", true)
	ObservePublish("pub-source", false)

	require.Equal(t, okBefore+1, testutil.ToFloat64(publisherMessagesTotal.WithLabelValues("pub-source")))
	require.Equal(t, failBefore+1, testutil.ToFloat64(publisherFailuresTotal.WithLabelValues("pub-source")))
}

func TestObserveRun(t *testing.T) {
	Init()

	before := testutil.ToFloat64(scraperRunsTotal.WithLabelValues("jiji", "success"))
	ObserveRun("jiji", "success", 2*time.Second)
	require.Equal(t, before+1, testutil.ToFloat64(scraperRunsTotal.WithLabelValues("jiji", "success")))
}

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()
	require.NotNil(t, Handler())
}
