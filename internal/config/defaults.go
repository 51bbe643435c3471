package config

import (
	_ "embed"
)

//go:embed defaults/chainfall.yaml
var defaultChainfallYAML []byte

// DefaultChainfallConfig returns the default chainfall configuration.
func DefaultChainfallConfig() ChainfallConfig {
	return ChainfallConfig{
		Field: FieldConfig{
			Rows:   14,
			Cols:   6,
			Colors: []string{"red", "green", "blue", "yellow"},
		},
		Timing: TimingConfig{
			SpeedTableMs:  []int{10000, 2000, 1000, 500},
			SoftDropMs:    100,
			ChainRevealMs: 500,
			ChainClearMs:  500,
		},
		Rules: RulesConfig{
			DefaultSpeed:         2,
			LockThreshold:        4,
			GroupMinSize:         4,
			SpawnColumn:          2,
			SpawnRowFromBottom:   13,
			WarningRowFromBottom: 13,
		},
		Input: InputConfig{
			RepeatWindowMs: 250,
			SoftDropHoldMs: 600,
		},
	}
}
