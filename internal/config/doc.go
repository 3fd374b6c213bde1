// Package config loads and validates studiod configuration from YAML files.
//
// Configuration supports environment variable expansion using ${VAR_NAME}
// syntax, which is applied to the raw file content before parsing. Duration
// values (auth.token_lifetime) are written as Go duration strings ("24h",
// "30m") and parsed after unmarshaling.
//
// Example:
//
//	server:
//	  http_addr: ":8080"
//	  cors_origins: ["http://localhost:4200"]
//	database:
//	  path: "data/studiod.db"
//	auth:
//	  jwt_secret: "${STUDIOD_JWT_SECRET}"
//	  token_lifetime: "24h"
//	logging:
//	  level: "info"
//	  format: "text"
//
// The JWT secret and token lifetime are read once at startup and are
// immutable for the process lifetime. Rotating the secret invalidates all
// outstanding tokens: they simply stop validating, no distinct error is
// raised.
package config
