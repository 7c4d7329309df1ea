// Package config provides 12-factor configuration management for the
// fund extraction service.
//
// Configuration is loaded from environment variables with sensible
// defaults.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Fetch: page download timeout, retries and rate limit
//   - Store: record persistence directory
//   - Extract: plausibility bounds for numeric fields
//   - Batch: worker pool sizing
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - FETCH_TIMEOUT, FETCH_RETRY_MAX, FETCH_RETRY_WAIT_MIN, FETCH_RETRY_WAIT_MAX
//   - FETCH_RPS, FETCH_BURST
//   - STORE_DIR, BATCH_WORKERS
//   - NAV_MIN, NAV_MAX, AUM_MIN, AUM_MAX, PE_MIN, PE_MAX, PB_MIN, PB_MAX
//   - LOG_LEVEL, LOG_DEVELOPMENT
package config
