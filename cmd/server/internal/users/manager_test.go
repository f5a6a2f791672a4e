package users

import (
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), []byte("test-secret-key-0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestCreateAndAuthenticate(t *testing.T) {
	m := newTestManager(t)

	u, err := m.CreateUser("alice", "correct-horse-battery", DefaultScopes)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" {
		t.Error("user id not assigned")
	}
	if u.Password != "" {
		t.Error("password hash leaked from CreateUser")
	}

	if _, err := m.Authenticate("alice", "correct-horse-battery"); err != nil {
		t.Errorf("Authenticate with correct password: %v", err)
	}
	if _, err := m.Authenticate("alice", "wrong"); err == nil {
		t.Error("Authenticate with wrong password should fail")
	}
	if _, err := m.Authenticate("nobody", "x"); err == nil {
		t.Error("Authenticate unknown user should fail")
	}
}

func TestCreateUserValidation(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.CreateUser("", "longenough", nil); err == nil {
		t.Error("empty username should fail")
	}
	if _, err := m.CreateUser("bob", "short", nil); err == nil {
		t.Error("short password should fail")
	}
	if _, err := m.CreateUser("bob", "longenough", nil); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := m.CreateUser("bob", "longenough", nil); err == nil {
		t.Error("duplicate username should fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.CreateUser("alice", "correct-horse-battery", DefaultScopes); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tok, err := m.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := m.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Username != "alice" || claims.UserID == "" {
		t.Errorf("claims = %+v", claims)
	}
	if !HasScope(claims.Scopes, ScopeRoadmapWrite) {
		t.Errorf("scopes = %v, want roadmap.write", claims.Scopes)
	}
	if HasScope(claims.Scopes, ScopeUserManage) {
		t.Error("default scopes must not include user.manage")
	}

	if _, err := m.ParseToken(tok + "tampered"); err == nil {
		t.Error("tampered token should fail")
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	m := newTestManager(t)
	if err := m.EnsureDefaultAdmin(""); err == nil {
		t.Error("empty default password should fail on first run")
	}
	if err := m.EnsureDefaultAdmin("admin-password-1"); err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}
	admin, ok := m.GetUser("admin")
	if !ok {
		t.Fatal("admin not created")
	}
	if !HasScope(admin.Scopes, ScopeUserManage) {
		t.Error("admin missing user.manage scope")
	}
	// 已有用户时再调用是 no-op
	if err := m.EnsureDefaultAdmin("other"); err != nil {
		t.Errorf("second EnsureDefaultAdmin: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.CreateUser("alice", "original-password", nil); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := m.ChangePassword("alice", "wrong", "new-password-123"); err == nil {
		t.Error("wrong old password should fail")
	}
	if err := m.ChangePassword("alice", "original-password", "new-password-123"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := m.Authenticate("alice", "new-password-123"); err != nil {
		t.Errorf("Authenticate with new password: %v", err)
	}
}

func TestPersistenceAcrossManagers(t *testing.T) {
	dir := t.TempDir()
	secret := []byte("test-secret-key-0123456789abcdef")

	m1, err := NewManager(dir, secret)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	created, err := m1.CreateUser("alice", "correct-horse-battery", DefaultScopes)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	m2, err := NewManager(dir, secret)
	if err != nil {
		t.Fatalf("NewManager reload: %v", err)
	}
	u, ok := m2.GetUser("alice")
	if !ok {
		t.Fatal("user not persisted")
	}
	if u.ID != created.ID {
		t.Errorf("user id changed across reload: %s != %s", u.ID, created.ID)
	}
	if _, err := m2.Authenticate("alice", "correct-horse-battery"); err != nil {
		t.Errorf("Authenticate after reload: %v", err)
	}
}
