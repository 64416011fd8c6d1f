// Package auth computes and verifies request tokens and assigns trust levels.
package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// AuthErr is a structure for reporting an error condition.
type AuthErr string

func (e AuthErr) Error() string {
	return string(e)
}

const (
	// ErrFailed means authentication failed (wrong token).
	ErrFailed = AuthErr("failed")
	// ErrNotConfigured means the authenticator is missing secret material.
	ErrNotConfigured = AuthErr("not configured")
)

// Level is the trust level assigned to an authenticated caller.
type Level int

// Authentication levels.
const (
	// LevelNone is undefined/not authenticated.
	LevelNone Level = iota * 10
	// LevelUser is a regular authenticated account.
	LevelUser
	// LevelAdmin is an elevated account verified against the admin secret.
	LevelAdmin
)

// LevelName gets human-readable name for a numeric authentication level.
func LevelName(lvl Level) string {
	switch lvl {
	case LevelNone:
		return "none"
	case LevelUser:
		return "user"
	case LevelAdmin:
		return "admin"
	default:
		return "unkn"
	}
}

// Rec is the outcome of successful authentication. It's passed read-only
// into method handlers and never mutated afterwards.
type Rec struct {
	Level   Level
	Login   string
	Account string
}

// IsAdmin checks if the record carries the elevated trust level.
func (r *Rec) IsAdmin() bool {
	return r != nil && r.Level == LevelAdmin
}

// Authenticator verifies caller-supplied tokens. It is pure given its
// configuration: a single shared instance serves concurrent requests.
type Authenticator struct {
	adminLogin  string
	adminSecret string
	userSalt    string
}

// NewAuthenticator returns an authenticator configured with the admin login,
// the admin secret and the regular account salt.
func NewAuthenticator(adminLogin, adminSecret, userSalt string) *Authenticator {
	return &Authenticator{
		adminLogin:  adminLogin,
		adminSecret: adminSecret,
		userSalt:    userSalt,
	}
}

// UserToken computes the expected token for a regular account:
// hex(sha512(account + login + userSalt)). Empty account or login are legal
// inputs and hash as empty strings.
func (a *Authenticator) UserToken(account, login string) string {
	digest := sha512.Sum512([]byte(account + login + a.userSalt))
	return hex.EncodeToString(digest[:])
}

// AdminToken computes the expected admin token for the given moment:
// hex(sha512(YYYYMMDDHH + adminSecret)). The token rolls over hourly.
func (a *Authenticator) AdminToken(at time.Time) string {
	digest := sha512.Sum512([]byte(at.Format("2006010215") + a.adminSecret))
	return hex.EncodeToString(digest[:])
}

// Authenticate verifies the supplied token against the expected one and
// returns the caller's trust level. A login equal to the configured admin
// login is checked against the admin token only; a mismatch is a failure,
// never a demotion to the user level.
func (a *Authenticator) Authenticate(account, login, token string) (*Rec, error) {
	if a.adminSecret == "" || a.userSalt == "" {
		return nil, ErrNotConfigured
	}

	var expected string
	lvl := LevelUser
	if login == a.adminLogin {
		expected = a.AdminToken(time.Now())
		lvl = LevelAdmin
	} else {
		expected = a.UserToken(account, login)
	}

	// Comparison time must not depend on how long the matching prefix is.
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) != 1 {
		return nil, ErrFailed
	}

	return &Rec{Level: lvl, Login: login, Account: account}, nil
}
