// Package authtest runs an in-memory stand-in for the auth service.
//
// It speaks the same JSON contract as the real service (register, login,
// logout, refresh, set-roles, blacklist, unblacklist) and follows its rules:
// duplicate registrations are rejected, blacklisted users can neither log in
// nor refresh, refresh tokens are bound to the username they were issued to,
// and admins cannot have their roles changed. Access tokens are HS256 JWTs
// carrying "username" and a comma separated "roles" claim.
//
// Use NewServer in tests and NewHandler to mount it on a real listener.
package authtest
