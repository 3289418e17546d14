// Package pricing holds the console-side price and naming helpers used by the
// agreement and batch-space forms. Authoritative pricing stays on the API.
package pricing

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hauwenw/ping-parking/internal/storage"
)

const MaxBatch = 200

var (
	ErrEmptyPrefix   = errors.New("prefix is required")
	ErrBatchCount    = fmt.Errorf("count must be between 1 and %d", MaxBatch)
	ErrNegativeStart = errors.New("start must not be negative")
)

// ProposePrice suggests an agreement price from the space's effective prices.
// The second result is false when there is nothing to propose.
func ProposePrice(space storage.Space, rental storage.RentalType) (int64, bool) {
	switch rental {
	case storage.RentalDaily:
		if space.EffectiveDailyPrice == nil {
			return 0, false
		}
		return *space.EffectiveDailyPrice, true
	case storage.RentalMonthly, storage.RentalQuarterly, storage.RentalYearly:
		if space.EffectiveMonthlyPrice == nil {
			return 0, false
		}
		monthly := *space.EffectiveMonthlyPrice
		switch rental {
		case storage.RentalQuarterly:
			return monthly * 3, true
		case storage.RentalYearly:
			return monthly * 12, true
		}
		return monthly, true
	default:
		return 0, false
	}
}

// BatchNames generates prefix-NN names for start..start+count-1. Indices are
// zero-padded to the width of the largest one, never narrower than two digits.
func BatchNames(prefix string, start, count int) ([]string, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	if count < 1 || count > MaxBatch {
		return nil, ErrBatchCount
	}
	if start < 0 {
		return nil, ErrNegativeStart
	}

	width := max(2, len(strconv.Itoa(start+count-1)))

	names := make([]string, 0, count)
	for i := start; i < start+count; i++ {
		names = append(names, fmt.Sprintf("%s-%0*d", prefix, width, i))
	}

	return names, nil
}
