package services

import (
	"testing"
	"time"
)

type stubAuthStore struct {
	byEmail map[string]*User
}

func (s *stubAuthStore) FindUserByEmail(email string) (*User, error) {
	if s.byEmail == nil {
		return nil, nil
	}
	return s.byEmail[email], nil
}

func (s *stubAuthStore) AddUser(u *User) error {
	if s.byEmail == nil {
		s.byEmail = map[string]*User{}
	}
	s.byEmail[u.Email] = u
	return nil
}

func stubSigner(uid, role, email string, ttl time.Duration) (string, error) {
	return "token-" + uid + "-" + role, nil
}

func TestRegisterAndLogin(t *testing.T) {
	store := &stubAuthStore{}
	svc := NewAuthService(store, stubSigner)
	svc.idGen = func() string { return "u1" }

	res, err := svc.Register("adv@x.co", "Secret123!", RoleAdvisor, "Acme Advisory")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token != "token-u1-advisor" || res.UserID != "u1" || res.Role != RoleAdvisor {
		t.Fatalf("unexpected register result: %+v", res)
	}
	stored := store.byEmail["adv@x.co"]
	if stored == nil || len(stored.PassHash) == 0 {
		t.Fatalf("user not persisted with password hash")
	}

	login, err := svc.Login("adv@x.co", "Secret123!")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if login.Token == "" || login.Role != RoleAdvisor {
		t.Fatalf("unexpected login result: %+v", login)
	}

	if _, err := svc.Login("adv@x.co", "wrong"); err == nil {
		t.Fatalf("wrong password must fail")
	} else if se, ok := AsServiceError(err); !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(&stubAuthStore{}, stubSigner)

	if _, err := svc.Register("", "pw", RoleAdvisor, ""); err == nil {
		t.Fatalf("empty email must fail")
	}
	if _, err := svc.Register("a@b.c", " ", RoleAdvisor, ""); err == nil {
		t.Fatalf("blank password must fail")
	}
	if _, err := svc.Register("a@b.c", "pw", Role("superuser"), ""); err == nil {
		t.Fatalf("unknown role must fail")
	} else if se, ok := AsServiceError(err); !ok || se.Code != ErrorValidation {
		t.Fatalf("got %v, want validation", err)
	}

	res, err := svc.Register("a@b.c", "pw", "", "")
	if err != nil {
		t.Fatalf("empty role should default: %v", err)
	}
	if res.Role != RoleAdvisor {
		t.Fatalf("default role = %s, want advisor", res.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(&stubAuthStore{}, stubSigner)
	if _, err := svc.Register("dup@x.co", "pw", RoleFounder, ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register("dup@x.co", "pw", RoleFounder, "")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorConflict {
		t.Fatalf("got %v, want conflict", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&stubAuthStore{}, stubSigner)
	_, err := svc.Login("nobody@x.co", "pw")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}
}
