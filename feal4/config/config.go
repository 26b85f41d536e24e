// Package config loads party and CLI settings from the environment and an optional file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/TheusHen/feal4/feal4/cfb"
)

const EnvPrefix = "FEAL4"

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	SegmentBits  int
	Compress     bool
	DataShards   int
	ParityShards int
	ElGamalBits  int
	ListenAddr   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("segment_bits", 64)
	v.SetDefault("compress", false)
	v.SetDefault("data_shards", 0)
	v.SetDefault("parity_shards", 0)
	v.SetDefault("elgamal_bits", 128)
	v.SetDefault("listen_addr", "[::1]:0")
}

// Default returns the built-in settings.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		SegmentBits:  v.GetInt("segment_bits"),
		Compress:     v.GetBool("compress"),
		DataShards:   v.GetInt("data_shards"),
		ParityShards: v.GetInt("parity_shards"),
		ElGamalBits:  v.GetInt("elgamal_bits"),
		ListenAddr:   v.GetString("listen_addr"),
	}
}

// Load reads FEAL4_* environment variables over the defaults. When path is
// non-empty the file is read first and the environment still wins.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := cfb.SegmentBytes(c.SegmentBits); err != nil {
		return fmt.Errorf("%w: segment_bits: %v", ErrInvalid, err)
	}
	if c.DataShards < 0 || c.ParityShards < 0 {
		return fmt.Errorf("%w: negative shard count %d+%d", ErrInvalid, c.DataShards, c.ParityShards)
	}
	if (c.DataShards == 0) != (c.ParityShards == 0) {
		return fmt.Errorf("%w: data_shards and parity_shards must both be set, got %d+%d", ErrInvalid, c.DataShards, c.ParityShards)
	}
	if c.ElGamalBits < 16 {
		return fmt.Errorf("%w: elgamal_bits %d < 16", ErrInvalid, c.ElGamalBits)
	}
	return nil
}
