package service

import (
	"time"

	"product-catalog/internal/domain"
)

// stamp reads the clock once and touches every entity written by one operation.
func stamp[T domain.Timestamped](clock func() time.Time, entities ...T) {
	now := clock()
	for _, e := range entities {
		e.Touch(now)
	}
}
