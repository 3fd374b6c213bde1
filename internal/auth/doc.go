// Package auth provides authentication for studiod.
//
// # Tokens
//
// Clients authenticate with JWT bearer tokens signed HS512 using the
// configured jwt_secret. TokenCodec issues tokens (sub = email, iat, exp)
// and validates them; Validate is total and returns false for every
// malformed-input class instead of erroring. Tokens are not stored
// server-side, so rotating the secret silently invalidates everything
// outstanding.
//
// # Request Flow
//
// Middleware reads the Authorization header on each request. A valid
// "Bearer" token resolves to a Principal (ID, email, admin flag) attached
// to the request context; anything else, including panics during
// resolution, continues the request anonymously. Handlers that need an
// identity are wrapped with RequireAuth, which answers 401 when no
// Principal is attached.
//
// # Credentials
//
// Passwords are stored as bcrypt hashes. CheckPassword compares against a
// dummy hash when no real hash is available so response timing does not
// distinguish unknown accounts from wrong passwords.
//
// # Orchestration
//
// Service composes the pieces: Login collapses every failure into
// ErrUnauthorized and returns a token plus a profile summary; Register
// hashes the password and rejects duplicate emails with ErrEmailTaken.
package auth
