package domain

import "time"

// Timestamped is implemented by every persisted entity.
type Timestamped interface {
	Touch(now time.Time)
}

// Timestamps holds the creation and modification times shared by all entities.
type Timestamps struct {
	CreatedTime  time.Time `json:"created_time" db:"created_time"`
	ModifiedTime time.Time `json:"modified_time" db:"modified_time"`
}

// Touch stamps the modification time, and the creation time on first use.
func (t *Timestamps) Touch(now time.Time) {
	now = now.UTC().Truncate(time.Microsecond)
	if t.CreatedTime.IsZero() {
		t.CreatedTime = now
	}
	t.ModifiedTime = now
}
