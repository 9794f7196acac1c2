// Package greeting turns a resolved festival into the greeting shown to a
// visitor, optionally personalised by an external text-generation service.
//
// Generation is best effort. Any failure (no credential, timeout, rate
// limit, transport error, unusable reply) yields the festival's static
// greeting, and callers never see an error.
package greeting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/zapponejosh/festival-api/internal/festival"
)

const (
	// DefaultTimeout bounds a single generation call.
	DefaultTimeout = 3 * time.Second

	// maxGreetingRunes rejects replies that are clearly not a short greeting.
	maxGreetingRunes = 200

	globalKey = "global"
)

var (
	errRateLimited   = errors.New("greeting generation rate limited")
	errEmptyResponse = errors.New("empty greeting response")
	errTooLong       = errors.New("greeting response too long")
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Augmentor produces display greetings for festivals.
type Augmentor struct {
	generator Generator
	cache     Cache
	timeout   time.Duration
	limiter   *rate.Limiter
	metrics   *Metrics
	logger    *slog.Logger
	group     singleflight.Group
}

// Option configures an Augmentor.
type Option func(*Augmentor)

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(a *Augmentor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithRateLimit allows at most perMinute generation calls per minute.
// Requests over the limit get the static greeting.
func WithRateLimit(perMinute int) Option {
	return func(a *Augmentor) {
		if perMinute > 0 {
			a.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		}
	}
}

// WithMetrics records request outcomes.
func WithMetrics(m *Metrics) Option {
	return func(a *Augmentor) {
		a.metrics = m
	}
}

// WithLogger sets the logger used to report generation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Augmentor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an Augmentor. A nil generator disables generation and the
// Augmentor passes static greetings through. A nil cache uses a
// MemoryCache with DefaultCacheTTL.
func New(generator Generator, cache Cache, opts ...Option) *Augmentor {
	if cache == nil {
		cache = NewMemoryCache(DefaultCacheTTL)
	}
	a := &Augmentor{
		generator: generator,
		cache:     cache,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether greetings may be generated.
func (a *Augmentor) Enabled() bool {
	return a.generator != nil
}

// ClearCache drops all cached greetings.
func (a *Augmentor) ClearCache() {
	a.cache.Clear()
}

// CacheKey identifies the cached greeting for a festival and country.
func CacheKey(festivalID, countryCode string) string {
	country := strings.ToUpper(strings.TrimSpace(countryCode))
	if country == "" || country == festival.Global {
		country = globalKey
	}
	return festivalID + ":" + country
}

// Greeting returns the greeting to display for f in countryCode.
func (a *Augmentor) Greeting(ctx context.Context, f *festival.Festival, countryCode string) string {
	if f == nil {
		return ""
	}
	if a.generator == nil {
		a.metrics.record(OutcomeFallback)
		return f.Greeting
	}

	key := CacheKey(f.ID, countryCode)
	if text, ok := a.cache.Get(key); ok {
		a.metrics.record(OutcomeCacheHit)
		return text
	}

	v, err, _ := a.group.Do(key, func() (interface{}, error) {
		// Another flight may have filled the cache since the check above.
		if text, ok := a.cache.Get(key); ok {
			return text, nil
		}
		text, err := a.generate(ctx, f, countryCode)
		if err != nil {
			return "", err
		}
		a.cache.Set(key, text)
		return text, nil
	})
	if err != nil {
		a.logger.WarnContext(ctx, "greeting generation failed, using static greeting",
			slog.String("festival_id", f.ID),
			slog.String("country", countryCode),
			slog.Any("error", err),
		)
		a.metrics.record(OutcomeFallback)
		return f.Greeting
	}

	a.metrics.record(OutcomeGenerated)
	return v.(string)
}

func (a *Augmentor) generate(ctx context.Context, f *festival.Festival, countryCode string) (string, error) {
	if a.limiter != nil && !a.limiter.Allow() {
		return "", errRateLimited
	}

	// The flight is shared by every caller waiting on this key, so it must
	// not end when the first caller's request is cancelled.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	text, err := a.generator.Generate(ctx, Prompt(f, countryCode))
	if err != nil {
		return "", err
	}
	return sanitize(text)
}

// Prompt builds the generation prompt for f in countryCode.
func Prompt(f *festival.Festival, countryCode string) string {
	audience := "visitors from around the world"
	if c := strings.ToUpper(strings.TrimSpace(countryCode)); c != "" && c != festival.Global {
		audience = fmt.Sprintf("visitors from country code %s", c)
	}
	return fmt.Sprintf(
		"Write one short, warm greeting (under 20 words) celebrating %s for %s "+
			"on a cabinet design website banner. Keep the tone of this example: %q. "+
			"Reply with the greeting text only.",
		f.DisplayName, audience, f.Greeting,
	)
}

// sanitize trims model output down to a single greeting line.
func sanitize(text string) (string, error) {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	text = strings.Trim(text, "\"'“”")
	text = strings.TrimSpace(text)

	if text == "" {
		return "", errEmptyResponse
	}
	if utf8.RuneCountInString(text) > maxGreetingRunes {
		return "", errTooLong
	}
	return text, nil
}
