package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "success", ResultLabel(nil))
	assert.Equal(t, "unbalanced", ResultLabel(&apperrors.UnbalancedError{Debit: 1}))
	assert.Equal(t, "period_locked", ResultLabel(fmt.Errorf("post: %w", &apperrors.PeriodLockedError{})))
	assert.Equal(t, "numbering_conflict", ResultLabel(apperrors.ErrNumberingConflict))
	assert.Equal(t, "error", ResultLabel(fmt.Errorf("boom")))
}

func TestObservePost(t *testing.T) {
	Init()
	Init() // registering twice must not panic

	before := testutil.ToFloat64(postingTotal.WithLabelValues("unbalanced"))
	ObservePost(&apperrors.UnbalancedError{Debit: 2, Credit: 1}, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(postingTotal.WithLabelValues("unbalanced")))

	retries := testutil.ToFloat64(numberingRetries)
	IncNumberingRetry()
	assert.Equal(t, retries+1, testutil.ToFloat64(numberingRetries))
}
