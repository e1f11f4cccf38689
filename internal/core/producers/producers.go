// Package producers turns upstream business documents into journal requests
// for the poster. Producers only build requests; they never post.
package producers

import (
	"sort"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
)

// accumulator sums amounts per account reference, remembering first-seen order.
type accumulator struct {
	order  []string
	totals map[string]domain.Amount
}

func newAccumulator() *accumulator {
	return &accumulator{totals: make(map[string]domain.Amount)}
}

func (a *accumulator) add(ref string, amount domain.Amount) error {
	if ref == "" {
		return apperrors.NewValidationError("account reference is required")
	}
	if amount < 0 {
		return apperrors.NewValidationError("amount for %s must not be negative", ref)
	}
	cur, seen := a.totals[ref]
	if !seen {
		a.order = append(a.order, ref)
	}
	sum, ok := cur.AddChecked(amount)
	if !ok {
		return apperrors.NewValidationError("total for %s overflows", ref)
	}
	a.totals[ref] = sum
	return nil
}

// sorted returns the refs with a nonzero total ordered by ref.
func (a *accumulator) sorted() []string {
	refs := make([]string, 0, len(a.order))
	for _, ref := range a.order {
		if a.totals[ref] != 0 {
			refs = append(refs, ref)
		}
	}
	sort.Strings(refs)
	return refs
}

func (a *accumulator) total() (domain.Amount, error) {
	var sum domain.Amount
	for _, ref := range a.order {
		var ok bool
		if sum, ok = sum.AddChecked(a.totals[ref]); !ok {
			return 0, apperrors.NewValidationError("document total overflows")
		}
	}
	return sum, nil
}

func requireDate(date time.Time) error {
	if date.IsZero() {
		return apperrors.NewValidationError("document date is required")
	}
	return nil
}
