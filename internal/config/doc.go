// Package config handles configuration loading for support-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion and duration parsing.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${KRUX_JWT_SECRET}"
//
// # Configuration Sections
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
//	database:
//	  path: "/var/lib/krux-support/gateway.db"
//
//	auth:
//	  jwt_secret: "${KRUX_JWT_SECRET}"
//
//	bot:
//	  reply_delay: "1s"    # simulated assistant thinking time
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() requires server.http_addr, database.path, and auth.jwt_secret.
package config
