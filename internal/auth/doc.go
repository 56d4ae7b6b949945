// Package auth provides the credential primitives of the identity server:
// password hashing, session token signing and verification, and the cookie
// that carries the token between browser and API.
package auth
