// Package session keeps a client side authentication session: a token issued
// by the remote identity service, persisted in a Store, and the Identity
// decoded from it.
//
// Lifecycle:
//   - Controller starts Unresolved. Start reads the Store and moves to
//     Authenticated when the stored token decodes, or Anonymous otherwise. A
//     token that fails to decode is removed so the next start is clean.
//   - SignUp and SignIn call the IdentityAPI. Only a successful call followed
//     by a successful decode and save changes the session; every failure
//     leaves the Store and the state untouched.
//   - SignOut always ends Anonymous with an empty Store.
//
// Trust model:
//   - Tokens are decoded, never verified. Signature and expiry belong to the
//     identity service; ExpiresAt is informational.
//
// Guarding views:
//   - Guard reads the Controller's identity and redirects protected paths to
//     the sign in path. The routeguard subpackage adapts it to go-router,
//     fiber and net/http.
package session
