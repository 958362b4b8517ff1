// Package config supplies leave configuration from an external,
// hot-reloadable store. Edits to the settings file take effect without a
// restart.
package config

import (
	"errors"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	keyPeriodStartMonth = "leave_period_start"

	// DefaultPeriodStartMonth is January; leave years follow the calendar
	// year unless configured otherwise.
	DefaultPeriodStartMonth = 1
)

// Settings reads leave options from a viper-backed settings file, with
// environment variables (LEAVEAPP_*) taking precedence. Implements
// leave.Settings.
type Settings struct {
	mu         sync.RWMutex
	startMonth int
}

// Load reads the settings file at path and starts watching it for changes.
// A missing file is not an error; defaults and environment variables still
// apply. Path may be empty to run on defaults alone.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault(keyPeriodStartMonth, DefaultPeriodStartMonth)
	v.SetEnvPrefix("LEAVEAPP")
	v.AutomaticEnv()

	s := &Settings{}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, err
			}
		}

		v.OnConfigChange(func(fsnotify.Event) {
			s.mu.Lock()
			s.startMonth = v.GetInt(keyPeriodStartMonth)
			s.mu.Unlock()
		})
		v.WatchConfig()
	}

	s.startMonth = v.GetInt(keyPeriodStartMonth)
	return s, nil
}

// PeriodStartMonth returns the configured month (1-12) each leave year
// begins on. Values outside 1-12 are returned as-is and rejected by the
// period resolver; a bad setting is a configuration defect to surface,
// not to paper over.
func (s *Settings) PeriodStartMonth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startMonth
}
