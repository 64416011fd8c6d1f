package auth

import (
	"testing"
	"time"
)

func TestUserTokenDeterministic(t *testing.T) {
	a := NewAuthenticator("admin", "42", "Otus")
	t1 := a.UserToken("horns&hoofs", "h&f")
	t2 := a.UserToken("horns&hoofs", "h&f")
	if t1 != t2 {
		t.Error("Expected identical inputs to produce identical tokens")
	}
	if len(t1) != 128 {
		t.Errorf("Expected a 128-char hex sha512 digest, got %d chars", len(t1))
	}
}

func TestUserTokenDistinctInputs(t *testing.T) {
	a := NewAuthenticator("admin", "42", "Otus")
	base := a.UserToken("acc", "login")
	if a.UserToken("acc2", "login") == base {
		t.Error("Expected a different token for a different account")
	}
	if a.UserToken("acc", "login2") == base {
		t.Error("Expected a different token for a different login")
	}
	b := NewAuthenticator("admin", "42", "OtherSalt")
	if b.UserToken("acc", "login") == base {
		t.Error("Expected a different token for a different salt")
	}
}

func TestEmptyIdentityFields(t *testing.T) {
	a := NewAuthenticator("admin", "42", "Otus")
	// Empty account and login are schema-legal and must hash deterministically.
	t1 := a.UserToken("", "")
	t2 := a.UserToken("", "")
	if t1 != t2 || len(t1) != 128 {
		t.Error("Expected a deterministic token for empty identity fields")
	}
	if _, err := a.Authenticate("", "", t1); err != nil {
		t.Errorf("Expected empty identity with a correct token to authenticate, got %v", err)
	}
}

func TestAuthenticateUser(t *testing.T) {
	a := NewAuthenticator("admin", "42", "Otus")
	token := a.UserToken("horns&hoofs", "h&f")

	rec, err := a.Authenticate("horns&hoofs", "h&f", token)
	if err != nil {
		t.Fatalf("Expected successful authentication, got %v", err)
	}
	if rec.Level != LevelUser {
		t.Errorf("Expected user level, got %s", LevelName(rec.Level))
	}
	if rec.Login != "h&f" || rec.Account != "horns&hoofs" {
		t.Errorf("Expected identity carried into the record, got %+v", rec)
	}

	if _, err = a.Authenticate("horns&hoofs", "h&f", "bogus"); err != ErrFailed {
		t.Errorf("Expected ErrFailed for a wrong token, got %v", err)
	}
}

func TestAuthenticateAdmin(t *testing.T) {
	a := NewAuthenticator("admin", "42", "Otus")
	token := a.AdminToken(time.Now())

	rec, err := a.Authenticate("", "admin", token)
	if err != nil {
		t.Fatalf("Expected successful admin authentication, got %v", err)
	}
	if rec.Level != LevelAdmin || !rec.IsAdmin() {
		t.Errorf("Expected admin level, got %s", LevelName(rec.Level))
	}
}

func TestAdminMismatchNotDemoted(t *testing.T) {
	a := NewAuthenticator("admin", "42", "Otus")
	// A valid *user* token under the admin login must not authenticate:
	// the admin path never falls back to the user computation.
	userToken := a.UserToken("", "admin")
	if _, err := a.Authenticate("", "admin", userToken); err != ErrFailed {
		t.Errorf("Expected ErrFailed for a user-style token on the admin login, got %v", err)
	}
}

func TestAdminTokenRollsOver(t *testing.T) {
	a := NewAuthenticator("admin", "42", "Otus")
	now := time.Now()
	if a.AdminToken(now) == a.AdminToken(now.Add(time.Hour)) {
		t.Error("Expected the admin token to change across hours")
	}
}
