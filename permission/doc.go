// Package permission caches the roles and permissions granted to the signed-in
// client and clears them on logout.
//
// # Bit layout
//
// Permission names map to bit positions of a 64-bit [Mask] through a
// [Registry]. A registry built with root reservation keeps the highest bit
// for [RootPermission]; a mask holding it grants every permission.
//
// # Architecture boundaries
//
// [Cache] is the role half of the session clearer contract. It is a pure
// in-memory structure; it never authorizes requests on a server.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import goLiveness, jwt, or tokenstore.
package permission
