// Package content holds the portfolio's static content. It is loaded once at
// startup, validated, and treated as read-only for the rest of the process.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/boostup/folio/internal/sequencer"
)

var (
	ErrInvalid  = errors.New("invalid content")
	ErrNotFound = errors.New("not found")
)

//go:embed content.yaml
var defaultYAML []byte

// Content is the full site content.
type Content struct {
	Site         Site          `yaml:"site"`
	Approach     Approach      `yaml:"approach"`
	Nav          []NavItem     `yaml:"nav"`
	Grid         []GridItem    `yaml:"grid"`
	Stages       []Stage       `yaml:"stages"`
	Projects     []Project     `yaml:"projects"`
	Blogs        []Project     `yaml:"blogs"`
	Testimonials []Testimonial `yaml:"testimonials"`
	Companies    []Company     `yaml:"companies"`
	Experience   []GridItem    `yaml:"experience"`
	Social       []SocialLink  `yaml:"social"`
}

// Site carries the brand-level strings.
type Site struct {
	Brand          string `yaml:"brand"`
	Tagline        string `yaml:"tagline"`
	HeroWords      string `yaml:"hero_words"`
	HeroSubtitle   string `yaml:"hero_subtitle"`
	Email          string `yaml:"email"`
	Copyright      string `yaml:"copyright"`
	ContactHeading string `yaml:"contact_heading"`
	ContactBody    string `yaml:"contact_body"`
}

// Approach configures the stage timeline.
type Approach struct {
	Policy       string        `yaml:"policy"`
	Cadence      time.Duration `yaml:"cadence"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// NavItem is a jump target on the home page.
type NavItem struct {
	Name   string `yaml:"name"`
	Anchor string `yaml:"anchor"`
}

// GridItem is a titled block in the about grid or the experience list.
type GridItem struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Stage is one approach card.
type Stage struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Reveal      RevealConfig `yaml:"reveal"`
}

// RGB is a color triple.
type RGB [3]uint8

// RevealConfig is passed through untouched to the reveal effect.
type RevealConfig struct {
	AnimationSpeed float64 `yaml:"animation_speed"`
	ContainerClass string  `yaml:"container_class"`
	Colors         []RGB   `yaml:"colors"`
	DotSize        int     `yaml:"dot_size"`
}

// Project is a showcase entry. Blog posts share the shape.
type Project struct {
	ID          int      `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Icons       []string `yaml:"icons"`
	Link        string   `yaml:"link"`
}

// Testimonial is a client quote.
type Testimonial struct {
	Quote string `yaml:"quote"`
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
}

// Company is a partner logo entry.
type Company struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// SocialLink is a footer link.
type SocialLink struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	Link string `yaml:"link"`
}

// Default returns the embedded content.
func Default() (*Content, error) {
	return Parse(defaultYAML)
}

// MustDefault is Default for callers that cannot recover, such as tests.
func MustDefault() *Content {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads content from a YAML file. An empty path loads the embedded
// content.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ResolvePath returns the content file to load: the explicit path if set,
// then FOLIO_CONTENT, else "" for the embedded content.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("FOLIO_CONTENT")
}

// Parse validates YAML against the content schema and decodes it.
func Parse(data []byte) (*Content, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalid, err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// check enforces the rules the schema cannot express.
func (c *Content) check() error {
	if len(c.Stages) != sequencer.StageCount {
		return fmt.Errorf("%w: need exactly %d stages, got %d", ErrInvalid, sequencer.StageCount, len(c.Stages))
	}
	seen := make(map[int]bool, len(c.Projects))
	for _, p := range c.Projects {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate project id %d", ErrInvalid, p.ID)
		}
		seen[p.ID] = true
	}
	if _, err := c.SequencerConfig(); err != nil {
		return fmt.Errorf("%w: approach: %v", ErrInvalid, err)
	}
	return nil
}

// SequencerConfig converts the approach settings into a timeline config.
// Unset durations fall back to the policy defaults.
func (c *Content) SequencerConfig() (sequencer.Config, error) {
	policy, err := sequencer.ParsePolicy(c.Approach.Policy)
	if err != nil {
		return sequencer.Config{}, err
	}
	return c.SequencerConfigFor(policy)
}

// SequencerConfigFor applies the approach timings to policy instead of the
// configured one.
func (c *Content) SequencerConfigFor(policy sequencer.Policy) (sequencer.Config, error) {
	cfg := sequencer.ConfigFor(policy)
	if c.Approach.Cadence > 0 {
		cfg.Cadence = c.Approach.Cadence
	}
	if policy == sequencer.RunOnce && c.Approach.InitialDelay > 0 {
		cfg.InitialDelay = c.Approach.InitialDelay
	}
	if err := cfg.Validate(); err != nil {
		return sequencer.Config{}, err
	}
	return cfg, nil
}

// Project returns the project with the given id.
func (c *Content) Project(id int) (Project, error) {
	i := c.projectIndex(id)
	if i < 0 {
		return Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return c.Projects[i], nil
}

// Neighbors returns the projects before and after id in showcase order.
// Either is nil at the ends.
func (c *Content) Neighbors(id int) (prev, next *Project) {
	i := c.projectIndex(id)
	if i < 0 {
		return nil, nil
	}
	if i > 0 {
		p := c.Projects[i-1]
		prev = &p
	}
	if i < len(c.Projects)-1 {
		n := c.Projects[i+1]
		next = &n
	}
	return prev, next
}

func (c *Content) projectIndex(id int) int {
	for i, p := range c.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}
