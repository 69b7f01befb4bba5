// pkg/config/env.go
package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables recognised by ApplyEnvironmentOverrides
const (
	EnvGravityX       = "PHYSBOX_GRAVITY_X"
	EnvGravityY       = "PHYSBOX_GRAVITY_Y"
	EnvLinearDamping  = "PHYSBOX_LINEAR_DAMPING"
	EnvAngularDamping = "PHYSBOX_ANGULAR_DAMPING"
	EnvBiasFactor     = "PHYSBOX_BIAS_FACTOR"
	EnvSlop           = "PHYSBOX_SLOP"
	EnvTimeStep       = "PHYSBOX_TIME_STEP"
	EnvSteps          = "PHYSBOX_STEPS"
	EnvScene          = "PHYSBOX_SCENE"
	EnvAudioEnabled   = "PHYSBOX_AUDIO_ENABLED"
)

// ApplyEnvironmentOverrides replaces config values with any PHYSBOX_*
// variables that are set, then validates the result. Unparseable values
// are ignored.
func ApplyEnvironmentOverrides(config *SandboxConfig) error {
	p := &config.Physics
	p.GravityX = getEnvAsFloatOrDefault(EnvGravityX, p.GravityX)
	p.GravityY = getEnvAsFloatOrDefault(EnvGravityY, p.GravityY)
	p.LinearDamping = getEnvAsFloatOrDefault(EnvLinearDamping, p.LinearDamping)
	p.AngularDamping = getEnvAsFloatOrDefault(EnvAngularDamping, p.AngularDamping)
	p.BiasFactor = getEnvAsFloatOrDefault(EnvBiasFactor, p.BiasFactor)
	p.Slop = getEnvAsFloatOrDefault(EnvSlop, p.Slop)

	s := &config.Simulation
	s.TimeStep = getEnvAsFloatOrDefault(EnvTimeStep, s.TimeStep)
	s.Steps = getEnvAsIntOrDefault(EnvSteps, s.Steps)
	s.Scene = strings.TrimSpace(getEnvOrDefault(EnvScene, s.Scene))

	config.Audio.Enabled = getEnvAsBoolOrDefault(EnvAudioEnabled, config.Audio.Enabled)

	return config.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnvOrDefault(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}
