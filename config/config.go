// Package config loads simulation settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Seed     string        `yaml:"seed"`
	Level    int           `yaml:"level"`
	Log      LogConfig     `yaml:"log"`
	Grid     GridConfig    `yaml:"grid"`
	Lead     LeadConfig    `yaml:"lead"`
	Cars     []CarConfig   `yaml:"cars"`
	Train    TrainConfig   `yaml:"train"`
	Spawner  SpawnerConfig `yaml:"spawner"`
	Combat   CombatConfig  `yaml:"combat"`
	Scrap    ScrapConfig   `yaml:"scrap"`
	Bounds   BoundsConfig  `yaml:"bounds"`
	Upgrades Upgrades      `yaml:"upgrades"`
	Run      RunConfig     `yaml:"run"`
}

type GridConfig struct {
	CellSize float64 `yaml:"cell_size"`
}

// LeadConfig describes the convoy's lead car and its built-in gun.
type LeadConfig struct {
	X            float64       `yaml:"x"`
	Y            float64       `yaml:"y"`
	Health       float64       `yaml:"health"`
	Damage       float64       `yaml:"damage"`
	Range        float64       `yaml:"range"`
	FireInterval time.Duration `yaml:"fire_interval"`
	Speed        float64       `yaml:"speed"`
}

// CarConfig describes one trailing car, front to rear.
type CarConfig struct {
	Type       string            `yaml:"type"`
	Health     float64           `yaml:"health"`
	Hardpoints []HardpointConfig `yaml:"hardpoints"`
}

type HardpointConfig struct {
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Weapon  string  `yaml:"weapon"`
}

type TrainConfig struct {
	CarSpacing float64 `yaml:"car_spacing"`
}

type SpawnerConfig struct {
	Interval time.Duration `yaml:"interval"`
	X        float64       `yaml:"x"`
	MinY     float64       `yaml:"min_y"`
	MaxY     float64       `yaml:"max_y"`
	MinGap   float64       `yaml:"min_gap"`
}

// CombatConfig holds the explosion stats used for enemies that do not carry
// their own.
type CombatConfig struct {
	ExplosionRadius float64 `yaml:"explosion_radius"`
	ExplosionDamage float64 `yaml:"explosion_damage"`
}

type ScrapConfig struct {
	CollectionRadius float64       `yaml:"collection_radius"`
	Lifetime         time.Duration `yaml:"lifetime"`
	Value            float64       `yaml:"value"`
}

type BoundsConfig struct {
	MinX float64 `yaml:"min_x"`
}

// Upgrades are the player's purchased upgrades. Armor is a damage
// reduction fraction, Regen is HP per second, MaxSpeed and Acceleration are
// multipliers added to 1.
type Upgrades struct {
	MaxHP        float64 `yaml:"max_hp"`
	Armor        float64 `yaml:"armor"`
	Regen        float64 `yaml:"regen"`
	MaxSpeed     float64 `yaml:"max_speed"`
	Acceleration float64 `yaml:"acceleration"`
}

// RunConfig controls how hosts drive a world.
type RunConfig struct {
	Step        time.Duration `yaml:"step"`
	MaxDuration time.Duration `yaml:"max_duration"`
}

// Default returns the stock configuration: a lone lead with no trailing
// cars on level 1.
func Default() Config {
	return Config{
		Seed:  "ironrails",
		Level: 1,
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
		Grid: GridConfig{CellSize: 100},
		Lead: LeadConfig{
			X:            200,
			Y:            360,
			Health:       10,
			Damage:       1,
			Range:        400,
			FireInterval: 800 * time.Millisecond,
		},
		Train: TrainConfig{CarSpacing: 50},
		Spawner: SpawnerConfig{
			Interval: 2 * time.Second,
			X:        1500,
			MinY:     200,
			MaxY:     520,
			MinGap:   400,
		},
		Combat: CombatConfig{
			ExplosionRadius: 80,
			ExplosionDamage: 1,
		},
		Scrap: ScrapConfig{
			CollectionRadius: 150,
			Lifetime:         10 * time.Second,
			Value:            1,
		},
		Bounds: BoundsConfig{MinX: -50},
		Run: RunConfig{
			Step:        16 * time.Millisecond,
			MaxDuration: 10 * time.Minute,
		},
	}
}

// Load reads and validates a YAML file. Fields missing from the file keep
// their defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SeedValue derives the 64-bit RNG seed from the seed string.
func (c *Config) SeedValue() uint64 {
	return xxhash.Sum64String(c.Seed)
}
