// Package auth implements the stateless authentication core of the
// e-learning backend: HMAC signing key material, session token encode and
// verify, credential verification against the user store, and login
// orchestration.
//
// Tokens are compact HS256 JWTs carrying {sub=email, role, iat, exp}. A
// token is trusted only when its signature verifies against the process
// signing key, its expiry is strictly in the future, and it carries a
// recognized role claim. Anything else is treated as anonymous by the
// request authenticator in middleware/authware; enforcement happens at the
// per-endpoint role guards, never in the authenticator itself.
package auth
