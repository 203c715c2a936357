package dataquality

import "time"

// Config holds the data quality feature settings.
type Config struct {
	// Enabled toggles the HTTP routes of the feature.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// SessionTTLMinutes expires idle editing sessions.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes" default:"30"`
	// ArchiveOnSave writes a snapshot of every saved rule set to object storage.
	ArchiveOnSave bool `mapstructure:"archive_on_save" default:"true"`
	// ArchivePrefix is the object prefix for snapshots.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"snapshots"`
	// ArchiveKeep bounds the snapshots kept per organization, zero keeps all.
	ArchiveKeep int `mapstructure:"archive_keep" default:"50"`
}

// SessionTTL returns the idle session lifetime.
func (c Config) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
