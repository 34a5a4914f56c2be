package time

import (
	"time"

	"github.com/ledgervault/ledgervault/internal/domain/port/core"
)

// RealTimeProvider implements the TimeProvider interface with the wall clock
type RealTimeProvider struct{}

// NewRealTimeProvider creates a new real time provider
func NewRealTimeProvider() core.TimeProvider {
	return &RealTimeProvider{}
}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Today returns the current calendar date in ISO form
func (p *RealTimeProvider) Today() string {
	return time.Now().Format("2006-01-02")
}

// CurrentMonth returns the current calendar month in YYYY-MM form
func (p *RealTimeProvider) CurrentMonth() string {
	return time.Now().Format("2006-01")
}

// FixedTimeProvider returns a frozen clock, for tests
type FixedTimeProvider struct {
	Fixed time.Time
}

// NewFixedTimeProvider creates a provider pinned to the given instant
func NewFixedTimeProvider(t time.Time) core.TimeProvider {
	return &FixedTimeProvider{Fixed: t}
}

// Now returns the pinned time
func (p *FixedTimeProvider) Now() time.Time {
	return p.Fixed
}

// Today returns the pinned calendar date in ISO form
func (p *FixedTimeProvider) Today() string {
	return p.Fixed.Format("2006-01-02")
}

// CurrentMonth returns the pinned calendar month in YYYY-MM form
func (p *FixedTimeProvider) CurrentMonth() string {
	return p.Fixed.Format("2006-01")
}
