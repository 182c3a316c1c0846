// Package adminauth implements the admin identity core of a portfolio
// content platform: secure-key gated registration, failed-login lockout,
// and stateless JWT session tokens.
//
// Secure keys:
//   - Registration is gated by one-time codes minted out of band. Reserve
//     locates a viable key and Consume flips it to used with a single
//     conditional update, so two registrations racing on the same code can
//     never both win.
//
// Lockout:
//   - Admin accounts carry a failure counter and an optional lock timestamp.
//     LockoutPolicy holds the pure state machine; the Admins repository
//     applies counter changes as atomic single-statement updates so no
//     failure is ever lost under concurrent attempts.
//
// Tokens:
//   - TokenService issues and verifies HS256 bearer tokens scoped to admin
//     sessions via a type claim. Tokens are stateless: there is no
//     revocation list, logout is the caller discarding its token.
//
// Wire a *bun.DB into NewRepositoryManager, hand that plus a Config to
// NewAdminAuth, and mount middleware/adminware in front of privileged
// routes.
package adminauth
