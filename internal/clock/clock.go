package clock

import (
	"time"

	"github.com/smallbiznis/showroom/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(func() Clock { return SystemClock{} }),
	fx.Provide(NewBusinessDay),
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// fallbackLocation is used when the configured zone database entry is
// unavailable on the host.
var fallbackLocation = time.FixedZone("Asia/Kolkata", 5*3600+1800)

// BusinessDay computes calendar-day windows in the shop's local timezone.
type BusinessDay struct {
	clock Clock
	loc   *time.Location
}

func NewBusinessDay(cfg config.Config, c Clock) *BusinessDay {
	return NewBusinessDayIn(c, LoadLocation(cfg.BusinessTimezone))
}

func NewBusinessDayIn(c Clock, loc *time.Location) *BusinessDay {
	if loc == nil {
		loc = fallbackLocation
	}
	return &BusinessDay{clock: c, loc: loc}
}

func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallbackLocation
	}
	return loc
}

func (b *BusinessDay) Now() time.Time {
	return b.clock.Now()
}

// TodayRange returns [local midnight, next local midnight) as UTC instants.
func (b *BusinessDay) TodayRange() (start, end time.Time) {
	n := b.clock.Now().In(b.loc)
	y, m, d := n.Date()
	local := time.Date(y, m, d, 0, 0, 0, 0, b.loc)
	return local.UTC(), local.AddDate(0, 0, 1).UTC()
}
