package constants

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	SetDefaults()
	t.Cleanup(viper.Reset)

	assert := assert.New(t)
	assert.Equal(3, GetBaseOctave())
	assert.Equal("0", GetRestToken())
	assert.False(GetTruncateRagged())
	assert.Equal(":8080", GetServeAddr())
	assert.Equal([]string{"*"}, GetAllowedOrigins())
	assert.Equal("", GetDynamoEndpoint())
	assert.Equal("kalimbatab-conversions", GetDynamoTable())
	assert.Equal(120.0, GetMidiBPM())
	assert.Equal(uint8(100), GetMidiVelocity())
	assert.Equal(300*time.Millisecond, GetWatchDebounce())
}

func TestEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	t.Cleanup(viper.Reset)

	t.Setenv("KALIMBATAB_BASE_OCTAVE", "4")
	t.Setenv("KALIMBATAB_REST_TOKEN", "-")

	assert.Equal(t, 4, GetBaseOctave())
	assert.Equal(t, "-", GetRestToken())
}

func TestMidiVelocityIsClamped(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set(KeyMidiVelocity, 300)
	assert.Equal(t, uint8(127), GetMidiVelocity())
	viper.Set(KeyMidiVelocity, 0)
	assert.Equal(t, uint8(1), GetMidiVelocity())
}
