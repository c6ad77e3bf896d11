package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"battery-savings/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load battery parameters from a separate YAML (e.g. examples/batteries/*.yaml).
	// If both BatteryFile and Battery are provided, Battery overrides BatteryFile.
	BatteryFile string        `yaml:"battery_file"`
	Battery     BatteryConfig `yaml:"battery"`
	Prices      model.Prices  `yaml:"prices"`
	// IANA zone the meter export's local times are read in. Empty means the
	// process's local zone.
	Timezone string `yaml:"timezone"`
}

type BatteryConfig struct {
	Name        string  `yaml:"name" json:"name,omitempty"`
	CapacityKWh float64 `yaml:"capacity_kwh" json:"capacity_kwh,omitempty"`
	// A pointer so an explicit 0 can override a preset's reserve.
	ReservePct       *float64 `yaml:"reserve_pct" json:"reserve_pct,omitempty"`
	ChargePowerKW    float64  `yaml:"charge_power_kw" json:"charge_power_kw,omitempty"`
	DischargePowerKW float64  `yaml:"discharge_power_kw" json:"discharge_power_kw,omitempty"`
	Investment       float64  `yaml:"investment" json:"investment,omitempty"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) {
			// Relative to the config file first, then to the working directory.
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		loaded, err := LoadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Battery.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	if err := c.Inputs().Validate(); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, &model.ValidationError{Field: "timezone", Message: fmt.Sprintf("unknown time zone %q", c.Timezone)}
	}
	return loc, nil
}

// Inputs converts the config into simulator and tariff inputs.
func (c *Config) Inputs() model.AnalysisInputs {
	return model.AnalysisInputs{
		Battery:    c.Battery.ToModelParams(),
		Prices:     c.Prices,
		Investment: c.Battery.Investment,
	}
}

func (b BatteryConfig) ToModelParams() model.BatteryParams {
	p := model.BatteryParams{
		CapacityKWh:      b.CapacityKWh,
		ChargePowerKW:    b.ChargePowerKW,
		DischargePowerKW: b.DischargePowerKW,
	}
	if b.ReservePct != nil {
		p.ReservePct = *b.ReservePct
	}
	return p
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

// LoadBatteryFile reads a battery preset (a YAML document with a top-level
// `battery` key).
func LoadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base.
// This is used when loading a battery file and then applying overrides from the request.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityKWh != 0 {
		out.CapacityKWh = override.CapacityKWh
	}
	if override.ReservePct != nil {
		out.ReservePct = override.ReservePct
	}
	if override.ChargePowerKW != 0 {
		out.ChargePowerKW = override.ChargePowerKW
	}
	if override.DischargePowerKW != 0 {
		out.DischargePowerKW = override.DischargePowerKW
	}
	if override.Investment != 0 {
		out.Investment = override.Investment
	}
	return out
}
