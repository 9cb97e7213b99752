// Package jwt reads expiration instants out of JWT access and refresh tokens
// held by a client, and issues tokens for tests and local tooling.
//
// # Expiry reading
//
// [Reader.ExpiresAt] returns the exp claim even for tokens that are already
// expired; deciding what an expiration means is the monitor's job. When keys
// are configured the signature, issuer and audience are verified first.
// Without keys the token is decoded unverified, which is the normal client
// case: the client cannot check the server's signature.
//
// # What this package must NOT do
//
//   - Import goLiveness, tokenstore or navigation.
//   - Refresh, revoke or transport tokens.
package jwt
