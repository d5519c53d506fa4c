// Package config loads server and game settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"airline_tycoon/internal/catalog"
	"airline_tycoon/internal/game"
)

type Config struct {
	Port         string `yaml:"port" json:"port"`
	SavePath     string `yaml:"save_path" json:"save_path"`
	DatabasePath string `yaml:"database_path" json:"database_path"`
	LogDir       string `yaml:"log_dir" json:"log_dir"`
	LogLevel     string `yaml:"log_level" json:"log_level"`
	// Seed for the random source. Zero picks one from the clock.
	Seed int64 `yaml:"seed" json:"seed"`

	// Optional replacements for the built-in catalogs.
	AircraftFile string `yaml:"aircraft_file" json:"aircraft_file"`
	AirportsFile string `yaml:"airports_file" json:"airports_file"`

	Game GameConfig `yaml:"game" json:"game"`
}

// GameConfig holds the starting conditions of a new game.
type GameConfig struct {
	StartingCash       float64             `yaml:"starting_cash" json:"starting_cash"`
	StartingReputation int                 `yaml:"starting_reputation" json:"starting_reputation"`
	StartYear          int                 `yaml:"start_year" json:"start_year"`
	HomeAirport        string              `yaml:"home_airport" json:"home_airport"`
	StarterFleet       []string            `yaml:"starter_fleet" json:"starter_fleet"`
	LoanRate           float64             `yaml:"loan_rate" json:"loan_rate"`
	Rivals             []catalog.RivalSpec `yaml:"rivals" json:"rivals"`
}

func Default() Config {
	r := game.DefaultRules()
	return Config{
		Port:         "4000",
		SavePath:     "data/savegame.json",
		DatabasePath: "data/saves.db",
		LogDir:       "logs",
		LogLevel:     "info",
		Game: GameConfig{
			StartingCash:       r.StartingCash,
			StartingReputation: r.StartingReputation,
			StartYear:          r.StartYear,
			HomeAirport:        r.HomeAirport,
			StarterFleet:       r.StarterFleet,
			LoanRate:           r.LoanRate,
			Rivals:             catalog.DefaultRivals(),
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path falls back to $AIRLINE_CONFIG; with
// neither set only the defaults and environment are used.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("AIRLINE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if p := os.Getenv("PORT"); p != "" {
		c.Port = p
	}
	if s := os.Getenv("AIRLINE_SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("AIRLINE_SEED: %w", err)
		}
		c.Seed = seed
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}
	if c.Game.StartYear <= 0 {
		errs = append(errs, fmt.Errorf("invalid start year %d", c.Game.StartYear))
	}
	if c.Game.LoanRate < 0 {
		errs = append(errs, fmt.Errorf("loan rate must not be negative, got %v", c.Game.LoanRate))
	}
	if c.Game.StartingReputation < 0 || c.Game.StartingReputation > 100 {
		errs = append(errs, fmt.Errorf("starting reputation %d outside 0..100", c.Game.StartingReputation))
	}
	return errors.Join(errs...)
}

func (c Config) Rules() game.Rules {
	return game.Rules{
		StartingCash:       c.Game.StartingCash,
		StartingReputation: c.Game.StartingReputation,
		StartYear:          c.Game.StartYear,
		HomeAirport:        c.Game.HomeAirport,
		StarterFleet:       c.Game.StarterFleet,
		LoanRate:           c.Game.LoanRate,
	}
}

// Catalog builds the reference data, swapping in any configured aircraft or
// airport files for the built-in lists.
func (c Config) Catalog() (catalog.Catalog, error) {
	cat := catalog.Default()
	cat.Rivals = c.Game.Rivals
	if c.AircraftFile != "" {
		list, err := catalog.LoadAircraftJSON(c.AircraftFile)
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("load aircraft: %w", err)
		}
		cat.Aircraft = list
	}
	if c.AirportsFile != "" {
		list, err := catalog.LoadAirportsCSV(c.AirportsFile)
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("load airports: %w", err)
		}
		cat.Airports = list
	}
	return cat, nil
}
