package env

import "os"

// Get returns the named environment variable, or the fallback when the
// variable is unset or empty. Used for knobs that sit outside the
// envconfig-managed configuration, like the listen port override.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
