package main

import "testing"

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	id, token, err := auth.Register("digger", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id == 0 || token == "" {
		t.Fatal("register returned empty id or token")
	}

	pid, usr, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if pid != id || usr != "digger" {
		t.Errorf("token claims = %d/%q, want %d/digger", pid, usr, id)
	}

	loginID, loginToken, err := auth.Login("digger", "secret1", "1.2.3.4")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loginID != id || loginToken == "" {
		t.Errorf("login id = %d, want %d", loginID, id)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)
	auth.Register("digger", "secret1")

	if _, _, err := auth.Login("digger", "wrong", "1.2.3.4"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, _, err := auth.Login("nobody", "secret1", "1.2.3.4"); err == nil {
		t.Error("unknown user accepted")
	}
}

func TestLoginGuestRejected(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)
	db.CreateGuest("Miner_aaaa")

	// Guests have no password hash; the login path must not accept them
	if _, _, err := auth.Login("Miner_aaaa", "", "1.2.3.4"); err == nil {
		t.Error("guest account logged in")
	}
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	if _, _, err := auth.Register("x", "secret1"); err == nil {
		t.Error("one-char username accepted")
	}
	if _, _, err := auth.Register("waytoolongusername999", "secret1"); err == nil {
		t.Error("over-long username accepted")
	}
	if _, _, err := auth.Register("digger", "short"); err == nil {
		t.Error("short password accepted")
	}

	auth.Register("digger", "secret1")
	if _, _, err := auth.Register("digger", "secret2"); err == nil {
		t.Error("duplicate username accepted")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth := NewAuth(openTestDB(t))
	if _, _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
}

func TestTokenSecretPersists(t *testing.T) {
	db := openTestDB(t)
	a1 := NewAuth(db)
	_, token, err := a1.Register("digger", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// A second Auth over the same DB loads the same secret, so tokens
	// survive a server restart
	a2 := NewAuth(db)
	if _, _, err := a2.ValidateToken(token); err != nil {
		t.Errorf("token invalid after restart: %v", err)
	}
}

func TestLoginRateLimit(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)
	auth.Register("digger", "secret1")

	for i := 0; i < maxLoginAttempts; i++ {
		auth.Login("digger", "wrong", "9.9.9.9")
	}
	if _, _, err := auth.Login("digger", "secret1", "9.9.9.9"); err == nil {
		t.Error("rate limit did not trip")
	}
	// Another IP is unaffected
	if _, _, err := auth.Login("digger", "secret1", "8.8.8.8"); err != nil {
		t.Errorf("unrelated IP blocked: %v", err)
	}
}

func TestGenerateGuestName(t *testing.T) {
	a := GenerateGuestName()
	b := GenerateGuestName()
	if len(a) != len("Miner_")+6 {
		t.Errorf("unexpected guest name %q", a)
	}
	if a == b {
		t.Error("guest names should not collide back to back")
	}
}
