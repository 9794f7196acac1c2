package festival

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/festival-api/internal/calendar"
)

//go:embed data/festivals.yaml
var defaultCatalogYAML []byte

// Catalog is an immutable, ordered list of festivals.
//
// Order matters: among festivals with equal priority, the one listed
// first wins.
type Catalog struct {
	festivals []*Festival
	byID      map[string]*Festival
}

// NewCatalog validates festivals and builds a catalog from them.
// Entries are copied; later changes to the input do not affect the catalog.
func NewCatalog(festivals []Festival) (*Catalog, error) {
	c := &Catalog{
		festivals: make([]*Festival, 0, len(festivals)),
		byID:      make(map[string]*Festival, len(festivals)),
	}

	var errs []error
	for i := range festivals {
		f := festivals[i]
		f.Countries = normalizeCountries(f.Countries)

		if err := f.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, exists := c.byID[f.ID]; exists {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateID, f.ID))
			continue
		}

		c.festivals = append(c.festivals, &f)
		c.byID[f.ID] = &f
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("build catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

// All returns the festivals in catalog order.
func (c *Catalog) All() []*Festival {
	out := make([]*Festival, len(c.festivals))
	copy(out, c.festivals)
	return out
}

// Len returns the number of festivals in the catalog.
func (c *Catalog) Len() int {
	return len(c.festivals)
}

// ByID looks up a festival by its ID.
func (c *Catalog) ByID(id string) (*Festival, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// Merge returns a new catalog holding c's festivals followed by extra.
// Built-in entries therefore win priority ties against merged ones.
func (c *Catalog) Merge(extra ...Festival) (*Catalog, error) {
	if len(extra) == 0 {
		return c, nil
	}
	all := make([]Festival, 0, len(c.festivals)+len(extra))
	for _, f := range c.festivals {
		all = append(all, *f)
	}
	all = append(all, extra...)
	return NewCatalog(all)
}

// =============================================================================
// Data file loading
// =============================================================================

// festivalRecord is the on-disk shape of a catalog entry.
type festivalRecord struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	DisplayName string    `yaml:"display_name"`
	Month       int       `yaml:"month"`
	Day         int       `yaml:"day"`
	Calculate   string    `yaml:"calculate"`
	Duration    int       `yaml:"duration"`
	Colors      Colors    `yaml:"colors"`
	Animation   Animation `yaml:"animation"`
	Intensity   Intensity `yaml:"intensity"`
	Greeting    string    `yaml:"greeting"`
	Icon        string    `yaml:"icon"`
	Countries   []string  `yaml:"countries"`
	Priority    int       `yaml:"priority"`
}

type catalogFile struct {
	Festivals []festivalRecord `yaml:"festivals"`
}

func (r festivalRecord) toFestival() (Festival, error) {
	f := Festival{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Month:       time.Month(r.Month),
		Day:         r.Day,
		Calculator:  r.Calculate,
		Duration:    r.Duration,
		Colors:      r.Colors,
		Animation:   r.Animation,
		Intensity:   r.Intensity,
		Greeting:    r.Greeting,
		Icon:        r.Icon,
		Countries:   r.Countries,
		Priority:    r.Priority,
	}
	if f.Name == "" {
		f.Name = f.ID
	}

	if r.Calculate != "" {
		calc, ok := calendar.Lookup(r.Calculate)
		if !ok {
			return Festival{}, fmt.Errorf("%w %q: unknown calculator %q", ErrInvalidFestival, r.ID, r.Calculate)
		}
		f.Calculate = calc
	}
	return f, nil
}

// Load parses a YAML catalog document.
func Load(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Festivals) == 0 {
		return nil, errors.New("parse catalog: no festivals defined")
	}

	festivals := make([]Festival, 0, len(file.Festivals))
	var errs []error
	for _, rec := range file.Festivals {
		f, err := rec.toFestival()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		festivals = append(festivals, f)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("parse catalog: %w", errors.Join(errs...))
	}

	return NewCatalog(festivals)
}

// LoadFile reads and parses a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Load(data)
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(defaultCatalogYAML)
}
