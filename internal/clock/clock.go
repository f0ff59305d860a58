package clock

import (
	"fmt"
	"time"
	// bundle zoneinfo so timezone lookups work in scratch containers
	_ "time/tzdata"
)

// Now is the current-time lookup the handlers consume. Swappable in tests.
type Now struct {
	ISOTime      string `json:"iso_time"`
	ReadableTime string `json:"readable_time"`
	Timezone     string `json:"timezone"`
}

// Service resolves wall-clock time in a requested timezone.
type Service struct {
	DefaultTimezone string
	// nowFn is the time source, overridable in tests
	nowFn func() time.Time
}

func NewService(defaultTZ string) *Service {
	return &Service{DefaultTimezone: defaultTZ, nowFn: time.Now}
}

// WithNowFunc returns a copy of the service using fn as its time source.
func (s *Service) WithNowFunc(fn func() time.Time) *Service {
	return &Service{DefaultTimezone: s.DefaultTimezone, nowFn: fn}
}

// Now returns the current time in tz, formatted both as ISO 8601 and as a
// human-readable line. An empty tz falls back to the service default.
func (s *Service) Now(tz string) (Now, error) {
	if tz == "" {
		tz = s.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Now{}, fmt.Errorf("load location %q: %w", tz, err)
	}
	t := s.nowFn().In(loc)
	return Now{
		ISOTime:      t.Format(time.RFC3339),
		ReadableTime: t.Format("Monday, January 2 2006, 15:04"),
		Timezone:     tz,
	}, nil
}
