// Package sqlite provides the SQLite adapter for the sign-in attempt audit.
//
// Rows describe attempts only: passwords, one-time codes, and access tokens
// are never written.
package sqlite
