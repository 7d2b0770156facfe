// Package catalog loads the subject and weapon type definitions the
// simulation spawns from.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/tomz197/skyfight/internal/object"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownSubject = errors.New("unknown subject type")
	ErrUnknownWeapon  = errors.New("unknown weapon type")
)

//go:embed default.yaml
var defaultCatalog []byte

// SubjectDef is the YAML shape of a subject type.
type SubjectDef struct {
	Radius        float64  `yaml:"radius"`
	MoveSpeed     int      `yaml:"moveSpeed"`
	DeathDuration int64    `yaml:"deathDuration"`
	KeepBody      bool     `yaml:"keepBody"`
	Draw          string   `yaml:"draw"`
	HP            int      `yaml:"hp"`
	Defense       int      `yaml:"defense"`
	Score         int      `yaml:"score"`
	Weapons       []string `yaml:"weapons"`
}

// WeaponDef is the YAML shape of a weapon type.
type WeaponDef struct {
	Damage            int     `yaml:"damage"`
	FireSpeed         int     `yaml:"fireSpeed"`
	AmmoRadius        float64 `yaml:"ammoRadius"`
	AmmoMoveSpeed     int     `yaml:"ammoMoveSpeed"`
	AmmoDeathDuration int64   `yaml:"ammoDeathDuration"`
	AmmoDraw          string  `yaml:"ammoDraw"`
	AmmoStep          float64 `yaml:"ammoStep"`
	Actor             string  `yaml:"actor"`
	Count             int     `yaml:"count"`
	Stagger           int64   `yaml:"stagger"`
}

// Waves describes what the spawn director puts into a wave and which
// subject type each human slot flies.
type Waves struct {
	Players       []string `yaml:"players"`
	Baseline      string   `yaml:"baseline"`
	BaselineCount int      `yaml:"baselineCount"`
	Specials      []string `yaml:"specials"`
	Elite         string   `yaml:"elite"`
}

// Catalog is the full catalog file.
type Catalog struct {
	Subjects map[string]SubjectDef `yaml:"subjects"`
	Weapons  map[string]WeaponDef  `yaml:"weapons"`
	Waves    Waves                 `yaml:"waves"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if err := validate(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// SubjectType returns the descriptor for id.
func (c *Catalog) SubjectType(id string) (object.SubjectType, error) {
	def, ok := c.Subjects[id]
	if !ok {
		return object.SubjectType{}, fmt.Errorf("%w: %q", ErrUnknownSubject, id)
	}
	return object.SubjectType{
		ID:            id,
		Radius:        def.Radius,
		MoveSpeed:     def.MoveSpeed,
		DeathDuration: def.DeathDuration,
		KeepBody:      def.KeepBody,
		DrawID:        def.Draw,
		HP:            def.HP,
		Defense:       def.Defense,
		Score:         def.Score,
		Weapons:       append([]string(nil), def.Weapons...),
	}, nil
}

// WeaponType returns the descriptor for id.
func (c *Catalog) WeaponType(id string) (object.WeaponType, error) {
	def, ok := c.Weapons[id]
	if !ok {
		return object.WeaponType{}, fmt.Errorf("%w: %q", ErrUnknownWeapon, id)
	}
	return object.WeaponType{
		ID:                id,
		Damage:            def.Damage,
		FireSpeed:         def.FireSpeed,
		AmmoRadius:        def.AmmoRadius,
		AmmoMoveSpeed:     def.AmmoMoveSpeed,
		AmmoDeathDuration: def.AmmoDeathDuration,
		AmmoDrawID:        def.AmmoDraw,
		AmmoStep:          def.AmmoStep,
		Actor:             object.Actor(def.Actor),
		Count:             def.Count,
		Stagger:           def.Stagger,
	}, nil
}

// WaveSpec returns the wave composition.
func (c *Catalog) WaveSpec() Waves {
	return c.Waves
}

func validate(c *Catalog) error {
	if len(c.Subjects) == 0 {
		return errors.New("at least one subject type is required")
	}

	for id, w := range c.Weapons {
		if err := checkRating("weapon "+id+": fireSpeed", w.FireSpeed); err != nil {
			return err
		}
		if err := checkRating("weapon "+id+": ammoMoveSpeed", w.AmmoMoveSpeed); err != nil {
			return err
		}
		if w.AmmoRadius <= 0 {
			return fmt.Errorf("weapon %s: ammoRadius must be positive, got %v", id, w.AmmoRadius)
		}
		if w.AmmoDeathDuration < 0 || w.Stagger < 0 || w.Count < 0 || w.AmmoStep < 0 {
			return fmt.Errorf("weapon %s: durations, counts and steps cannot be negative", id)
		}
		if _, err := object.ResolveFireStrategy(object.Actor(w.Actor)); err != nil {
			return fmt.Errorf("weapon %s: %w", id, err)
		}
	}

	for id, s := range c.Subjects {
		if s.Radius <= 0 {
			return fmt.Errorf("subject %s: radius must be positive, got %v", id, s.Radius)
		}
		if err := checkRating("subject "+id+": moveSpeed", s.MoveSpeed); err != nil {
			return err
		}
		if s.HP <= 0 {
			return fmt.Errorf("subject %s: hp must be positive, got %d", id, s.HP)
		}
		if s.DeathDuration < 0 {
			return fmt.Errorf("subject %s: deathDuration cannot be negative, got %d", id, s.DeathDuration)
		}
		for _, wid := range s.Weapons {
			if _, ok := c.Weapons[wid]; !ok {
				return fmt.Errorf("subject %s: %w: %q", id, ErrUnknownWeapon, wid)
			}
		}
	}

	refs := append([]string{c.Waves.Baseline, c.Waves.Elite}, c.Waves.Specials...)
	refs = append(refs, c.Waves.Players...)
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, ok := c.Subjects[ref]; !ok {
			return fmt.Errorf("waves: %w: %q", ErrUnknownSubject, ref)
		}
	}
	if c.Waves.BaselineCount < 0 {
		return fmt.Errorf("waves: baselineCount cannot be negative, got %d", c.Waves.BaselineCount)
	}
	return nil
}

func checkRating(what string, v int) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%s must be within 0-100, got %d", what, v)
	}
	return nil
}
