// Package config provides configuration loading and validation for the
// upload gateway.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (UPLOADGATE_ prefix, plus the bare aliases below)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with UPLOADGATE_ prefix:
//   - server.port → UPLOADGATE_SERVER_PORT
//   - supabase.bucket → UPLOADGATE_SUPABASE_BUCKET
//   - auth.mode → UPLOADGATE_AUTH_MODE
//
// A few keys also read the bare variable names hosting platforms
// conventionally provide:
//   - server.port → PORT
//   - supabase.url → SUPABASE_URL
//   - supabase.service_role_key → SUPABASE_SERVICE_ROLE_KEY
//   - auth.service_account_key → FIREBASE_SERVICE_ACCOUNT_KEY
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: listen port
//   - Supabase: object store URL, service role key, and bucket
//   - Auth: verifier mode (firebase/static) and credentials
//   - Upload: size ceilings and signed URL validity windows
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level and format
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Auth mode must be firebase or static
//   - Upload sizes and validity windows must be positive
//   - Log level must be debug, info, warn, or error
//
// The Supabase URL and service role key carry no defaults and are not
// required here; the serve command checks for them before wiring the
// store so that commands that never touch storage still load config.
package config
