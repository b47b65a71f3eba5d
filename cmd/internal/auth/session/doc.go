// Package session issues and verifies the admin session token.
//
// The guestbook has a single administrator, so a session is a short-lived HS256 JWT
// (subject = admin email) carried in an HttpOnly cookie or a Bearer header. There is no
// server-side session table; logout clears the cookie and the token expires on its own.
package session
