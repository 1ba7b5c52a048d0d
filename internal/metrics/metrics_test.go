package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTitleSearch(t *testing.T) {
	before := testutil.ToFloat64(TitleSearches.WithLabelValues(OutcomeCacheHit))
	RecordTitleSearch(OutcomeCacheHit)
	assert.Equal(t, before+1, testutil.ToFloat64(TitleSearches.WithLabelValues(OutcomeCacheHit)))
}

func TestRecordSubmission(t *testing.T) {
	before := testutil.ToFloat64(Submissions.WithLabelValues(OutcomeInvalid))
	RecordSubmission(OutcomeInvalid)
	RecordSubmission(OutcomeInvalid)
	assert.Equal(t, before+2, testutil.ToFloat64(Submissions.WithLabelValues(OutcomeInvalid)))
}

func TestRecordUpstream(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordUpstream("wikimedia", 120*time.Millisecond, nil)
		RecordUpstream("recommender", 2*time.Second, errors.New("boom"))
	})
	assert.Positive(t, testutil.CollectAndCount(UpstreamDuration))
}

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CacheLookups.WithLabelValues("miss"))
	RecordCacheLookup("miss")
	assert.Equal(t, before+1, testutil.ToFloat64(CacheLookups.WithLabelValues("miss")))
}
