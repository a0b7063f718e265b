// Package catalog holds the fixed vocabulary of selectable moods.
//
// A Catalog is loaded once and never mutated. A catalog that failed to load
// is empty rather than nil: callers treat an empty catalog as a degraded
// state, not a fatal one.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
)

// SampleLimit caps PlaceholderSample.
const SampleLimit = 40

//go:embed moods.json
var defaultMoods []byte

var (
	ErrDuplicateMood = errors.New("duplicate mood name")
	ErrEmptyName     = errors.New("empty mood name")
)

type Catalog struct {
	moods   []models.Mood
	byName  map[string]int
	loadErr error
}

type document struct {
	Moods []models.Mood `json:"moods"`
}

// New builds a catalog from moods. Names must be unique ignoring case.
func New(moods []models.Mood) (*Catalog, error) {
	c := &Catalog{
		moods:  make([]models.Mood, 0, len(moods)),
		byName: make(map[string]int, len(moods)),
	}
	for _, m := range moods {
		if strings.TrimSpace(m.Name) == "" {
			return nil, ErrEmptyName
		}
		if !m.Category.Valid() {
			return nil, fmt.Errorf("mood %q: unknown category %q", m.Name, m.Category)
		}
		key := strings.ToLower(m.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMood, m.Name)
		}
		c.byName[key] = len(c.moods)
		c.moods = append(c.moods, m)
	}
	return c, nil
}

func empty(err error) *Catalog {
	return &Catalog{byName: map[string]int{}, loadErr: err}
}

// Load decodes a catalog document from r. On failure the error is logged and
// an empty catalog is returned; LoadErr reports what went wrong.
func Load(ctx context.Context, r io.Reader, logger logging.Logger) *Catalog {
	c, err := decode(r)
	if err != nil {
		logger.Error(ctx, "mood catalog unavailable", "error", err)
		return empty(err)
	}
	logger.Debug(ctx, "mood catalog loaded", "moods", c.Len())
	return c
}

func decode(r io.Reader) (*Catalog, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Moods)
}

// LoadFile is Load for a file on disk.
func LoadFile(ctx context.Context, path string, logger logging.Logger) *Catalog {
	f, err := os.Open(path)
	if err != nil {
		logger.Error(ctx, "mood catalog unavailable", "path", path, "error", err)
		return empty(err)
	}
	defer f.Close()
	return Load(ctx, f, logger.With("path", path))
}

// LoadDefault loads the catalog bundled with the binary.
func LoadDefault(ctx context.Context, logger logging.Logger) *Catalog {
	return Load(ctx, bytes.NewReader(defaultMoods), logger)
}

// LoadErr is the error that left the catalog empty, if any.
func (c *Catalog) LoadErr() error { return c.loadErr }

func (c *Catalog) Len() int { return len(c.moods) }

// Moods returns a copy of every mood in catalog order.
func (c *Catalog) Moods() []models.Mood {
	return append([]models.Mood(nil), c.moods...)
}

// MoodNamed looks a mood up by name, ignoring case.
func (c *Catalog) MoodNamed(name string) (models.Mood, bool) {
	i, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return models.Mood{}, false
	}
	return c.moods[i], true
}

// Has reports whether name is in the catalog. It fits
// models.MoodEntry.Validate.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[strings.ToLower(name)]
	return ok
}

// ByCategory returns the moods of one category in catalog order.
func (c *Catalog) ByCategory(cat models.Category) []models.Mood {
	var out []models.Mood
	for _, m := range c.moods {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

func (c *Catalog) shuffled() []models.Mood {
	out := c.Moods()
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// PlaceholderSample returns a random subset of at most SampleLimit moods.
// Repeated calls may differ.
func (c *Catalog) PlaceholderSample() []models.Mood {
	out := c.shuffled()
	if len(out) > SampleLimit {
		out = out[:SampleLimit]
	}
	return out
}

// DefaultMood picks the first mood of a fresh shuffle. It is a presentation
// convenience with no meaning of its own. ok is false for an empty catalog.
func (c *Catalog) DefaultMood() (models.Mood, bool) {
	out := c.shuffled()
	if len(out) == 0 {
		return models.Mood{}, false
	}
	return out[0], true
}
