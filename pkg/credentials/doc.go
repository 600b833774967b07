// Package credentials gates password strength and handles password hashing
// for the identity front door.
//
// Strength is measured in characters, not bytes, so a passphrase written in
// accented or non-Latin script is not penalized. Hash comparison is
// delegated to bcrypt, which is constant-time by construction. Plaintext
// passwords are never logged or echoed back.
package credentials
