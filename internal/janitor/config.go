package janitor

import "time"

type Config struct {
	Interval time.Duration `envconfig:"WBS_JANITOR_INTERVAL" default:"10m"`
	// Disabled turns the sweep loop off; Sweep can still be called directly.
	Disabled bool `envconfig:"WBS_JANITOR_DISABLED" default:"false"`
}
