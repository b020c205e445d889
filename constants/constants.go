package constants

import (
	"time"

	"github.com/spf13/viper"
)

const (
	AppName   = "kalimbatab"
	EnvPrefix = "KALIMBATAB"
)

const (
	KeyBaseOctave          = "base_octave"
	KeyRestToken           = "rest_token"
	KeyTruncateRagged      = "truncate_ragged"
	KeyDebug               = "debug"
	KeyServeAddr           = "serve.addr"
	KeyServeAllowedOrigins = "serve.allowed_origins"
	KeyDynamoEndpoint      = "dynamo.endpoint"
	KeyDynamoRegion        = "dynamo.region"
	KeyDynamoTable         = "dynamo.table"
	KeyMidiBPM             = "midi.bpm"
	KeyMidiVelocity        = "midi.velocity"
	KeyWatchDebounce       = "watch.debounce"
)

// SetDefaults registers the default of every key on the global viper.
func SetDefaults() {
	viper.SetDefault(KeyBaseOctave, 3)
	viper.SetDefault(KeyRestToken, "0")
	viper.SetDefault(KeyTruncateRagged, false)
	viper.SetDefault(KeyDebug, false)
	viper.SetDefault(KeyServeAddr, ":8080")
	viper.SetDefault(KeyServeAllowedOrigins, []string{"*"})
	viper.SetDefault(KeyDynamoEndpoint, "")
	viper.SetDefault(KeyDynamoRegion, "localhost")
	viper.SetDefault(KeyDynamoTable, "kalimbatab-conversions")
	viper.SetDefault(KeyMidiBPM, 120.0)
	viper.SetDefault(KeyMidiVelocity, 100)
	viper.SetDefault(KeyWatchDebounce, 300*time.Millisecond)
}

func GetBaseOctave() int        { return viper.GetInt(KeyBaseOctave) }
func GetRestToken() string      { return viper.GetString(KeyRestToken) }
func GetTruncateRagged() bool   { return viper.GetBool(KeyTruncateRagged) }
func GetDebug() bool            { return viper.GetBool(KeyDebug) }
func GetServeAddr() string      { return viper.GetString(KeyServeAddr) }
func GetDynamoEndpoint() string { return viper.GetString(KeyDynamoEndpoint) }
func GetDynamoRegion() string   { return viper.GetString(KeyDynamoRegion) }
func GetDynamoTable() string    { return viper.GetString(KeyDynamoTable) }
func GetMidiBPM() float64       { return viper.GetFloat64(KeyMidiBPM) }

func GetAllowedOrigins() []string {
	return viper.GetStringSlice(KeyServeAllowedOrigins)
}

// GetMidiVelocity clamps to the 1-127 range a note-on can carry.
func GetMidiVelocity() uint8 {
	v := viper.GetInt(KeyMidiVelocity)
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

func GetWatchDebounce() time.Duration {
	return viper.GetDuration(KeyWatchDebounce)
}
