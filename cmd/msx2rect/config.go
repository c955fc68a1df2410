package main

// All direct use of the viper package lives in this file.

import (
	"github.com/spf13/viper"
)

// config holds the resampling parameters. Flags override anything read
// from the TOML file.
type config struct {
	Moment     string  `mapstructure:"moment"`
	Pid        string  `mapstructure:"pid"`
	XSize      int     `mapstructure:"xsize"`
	YSize      int     `mapstructure:"ysize"`
	XRes       float64 `mapstructure:"xres"`
	YRes       float64 `mapstructure:"yres"`
	Vectorized bool    `mapstructure:"vectorized"`
	Compress   bool    `mapstructure:"compress"`
}

func defaultConfig() config {
	return config{
		Moment:     "Z",
		Pid:        "RZC",
		Vectorized: true,
		Compress:   true,
	}
}

// loadConfig reads msx2rect.toml from the given path (or, with an empty
// path, from the current directory). Returns the defaults when no config
// file is found.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("msx2rect")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			return cfg, nil
		}
		return cfg, err
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
