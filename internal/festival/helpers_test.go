package festival

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/festival-api/internal/calendar"
)

func fixed(id string, month time.Month, day, duration, priority int, countries ...string) Festival {
	return Festival{
		ID:          id,
		Name:        id,
		DisplayName: id,
		Month:       month,
		Day:         day,
		Duration:    duration,
		Colors:      Colors{Primary: "#000000"},
		Animation:   AnimationConfetti,
		Intensity:   IntensityMedium,
		Greeting:    "Happy " + id,
		Countries:   countries,
		Priority:    priority,
	}
}

func calculated(id string, calc calendar.Calculator, duration, priority int, countries ...string) Festival {
	f := fixed(id, 0, 0, duration, priority, countries...)
	f.Calculate = calc
	f.Calculator = id
	return f
}

func mustCatalog(t *testing.T, festivals ...Festival) *Catalog {
	t.Helper()
	c, err := NewCatalog(festivals)
	require.NoError(t, err)
	return c
}

func mustFestival(t *testing.T, c *Catalog, id string) *Festival {
	t.Helper()
	f, ok := c.ByID(id)
	require.True(t, ok, "festival %q not in catalog", id)
	return f
}

func ids(festivals []*Festival) []string {
	out := make([]string, len(festivals))
	for i, f := range festivals {
		out[i] = f.ID
	}
	return out
}

func day(year int, month time.Month, d int) time.Time {
	return calendar.Date(year, month, d)
}
