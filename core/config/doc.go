// Package config provides configuration management for the warehouse sync service.
//
// It loads an optional .env file with godotenv and then resolves every setting
// through Viper, so environment variables always win. Defaults come from the
// `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and shutdown budget (SERVER_*)
//   - Log: level and encoding (LOG_*)
//   - Database: snapshot database, MySQL or SQLite (DATABASE_*)
//   - Storage: S3/MinIO snapshot archive (STORAGE_*)
//   - Sync: propagation timeout, parallelism, health threshold (SYNC_*)
//   - Relay: Redis pub/sub event relay (RELAY_*)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.PropagationTimeout())
package config
