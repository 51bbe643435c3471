// Package config provides YAML-based game configuration loading for chainfall.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ChainfallConfig contains all configuration for a chainfall game.
type ChainfallConfig struct {
	Field  FieldConfig  `yaml:"field"`
	Timing TimingConfig `yaml:"timing"`
	Rules  RulesConfig  `yaml:"rules"`
	Input  InputConfig  `yaml:"input"`
}

// FieldConfig defines the board dimensions and piece colors.
type FieldConfig struct {
	Rows   int      `yaml:"rows"`
	Cols   int      `yaml:"cols"`
	Colors []string `yaml:"colors"` // red, green, blue, yellow
}

// TimingConfig defines intervals and pauses, all in milliseconds.
type TimingConfig struct {
	SpeedTableMs  []int `yaml:"speed_table_ms"` // descent interval per speed, slowest first
	SoftDropMs    int   `yaml:"soft_drop_ms"`
	ChainRevealMs int   `yaml:"chain_reveal_ms"`
	ChainClearMs  int   `yaml:"chain_clear_ms"`
}

// RulesConfig defines lock, clear and spawn rules.
type RulesConfig struct {
	DefaultSpeed         int `yaml:"default_speed"`
	LockThreshold        int `yaml:"lock_threshold"`
	GroupMinSize         int `yaml:"group_min_size"`
	SpawnColumn          int `yaml:"spawn_column"`
	SpawnRowFromBottom   int `yaml:"spawn_row_from_bottom"`
	WarningRowFromBottom int `yaml:"warning_row_from_bottom"`
}

// InputConfig tunes how terminal key repeats become engine actions.
type InputConfig struct {
	RepeatWindowMs int `yaml:"repeat_window_ms"`  // repeats of a move/rotate key inside this window are dropped
	SoftDropHoldMs int `yaml:"soft_drop_hold_ms"` // soft drop is released when no repeat arrives for this long
}

// SpeedTable returns the descent intervals as durations.
func (t TimingConfig) SpeedTable() []time.Duration {
	out := make([]time.Duration, len(t.SpeedTableMs))
	for i, ms := range t.SpeedTableMs {
		out[i] = ms2d(ms)
	}
	return out
}

// SoftDrop returns the soft drop interval.
func (t TimingConfig) SoftDrop() time.Duration { return ms2d(t.SoftDropMs) }

// ChainReveal returns how long cleared groups stay highlighted.
func (t TimingConfig) ChainReveal() time.Duration { return ms2d(t.ChainRevealMs) }

// ChainClear returns the pause between the highlight and the erase.
func (t TimingConfig) ChainClear() time.Duration { return ms2d(t.ChainClearMs) }

// RepeatWindow returns the auto-repeat suppression window.
func (i InputConfig) RepeatWindow() time.Duration { return ms2d(i.RepeatWindowMs) }

// SoftDropHold returns the soft drop hold window.
func (i InputConfig) SoftDropHold() time.Duration { return ms2d(i.SoftDropHoldMs) }

func ms2d(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Speed presets, slowest first. Their index is the engine speed.
var speedNames = []string{"relaxed", "steady", "normal", "fast"}

// SpeedNames returns the preset names in speed order.
func SpeedNames() []string {
	return append([]string(nil), speedNames...)
}

// SpeedName returns the preset name for a speed index, or the number itself.
func SpeedName(speed int) string {
	if speed >= 0 && speed < len(speedNames) {
		return speedNames[speed]
	}
	return strconv.Itoa(speed)
}

// ParseSpeed accepts a preset name or a speed index.
func ParseSpeed(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range speedNames {
		if s == name {
			return i, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= len(speedNames) {
		return 0, fmt.Errorf("unknown speed %q (use %s or 0-%d)", s, strings.Join(speedNames, ", "), len(speedNames)-1)
	}
	return n, nil
}

// GetEnv returns the environment variable or the fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
