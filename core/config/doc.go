// Package config provides configuration management for the data quality admin service.
//
// Values come from environment variables, optionally overlaid from a .env file via godotenv,
// and are unmarshalled by Viper. Every field declares its default in a `default` struct tag;
// bindValues registers those defaults recursively so AutomaticEnv can see each key.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, timeouts, body limit
//   - Database: driver (mysql, sqlite), connection details, gorm log level
//   - Storage: S3/MinIO credentials and the snapshot bucket
//   - Log: level, format and the optional rotating log file
//   - DataQuality: session TTL and snapshot archive settings
//
// Environment keys are the upper-cased path joined with underscores, e.g. SERVER_PORT or
// DATA_QUALITY_ARCHIVE_PREFIX.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
