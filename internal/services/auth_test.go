package services

import (
	"testing"

	"github.com/bytehub/bytehub/internal/config"
	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/internal/utils"
)

func TestAuth_RegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	utils.SetJWTSecret("test-secret")
	svc := NewAuthService(db, &config.JWTConfig{Secret: "test-secret", ExpireHour: 1})

	resp, err := svc.Register(&RegisterRequest{
		Name:     "Ada",
		Email:    "ada@test.local",
		Password: "password123",
		Role:     "student",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Role != models.RoleStudent {
		t.Errorf("Role = %q, expected student", resp.User.Role)
	}

	// Duplicate email is a conflict
	_, err = svc.Register(&RegisterRequest{
		Name:     "Ada Again",
		Email:    "ada@test.local",
		Password: "password123",
		Role:     "student",
	})
	expectAppError(t, err, 409)

	login, err := svc.Login(&LoginRequest{Email: "ada@test.local", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := utils.ParseToken(login.Token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("claims.UserID = %d, expected %d", claims.UserID, resp.User.ID)
	}

	_, err = svc.Login(&LoginRequest{Email: "ada@test.local", Password: "wrong-password"})
	expectAppError(t, err, 401)
}

func TestAuth_AdminNotSelfRegistrable(t *testing.T) {
	db := newTestDB(t)
	utils.SetJWTSecret("test-secret")
	svc := NewAuthService(db, &config.JWTConfig{Secret: "test-secret"})

	_, err := svc.Register(&RegisterRequest{
		Name:     "Eve",
		Email:    "eve@test.local",
		Password: "password123",
		Role:     "admin",
	})
	expectAppError(t, err, 400)
}

func TestAuth_ChangePassword(t *testing.T) {
	db := newTestDB(t)
	utils.SetJWTSecret("test-secret")
	svc := NewAuthService(db, &config.JWTConfig{Secret: "test-secret"})

	resp, err := svc.Register(&RegisterRequest{
		Name:     "Bob",
		Email:    "bob@test.local",
		Password: "password123",
		Role:     "student",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	err = svc.ChangePassword(resp.User.ID, &ChangePasswordRequest{
		OldPassword: "nope",
		NewPassword: "newpassword1",
	})
	expectAppError(t, err, 400)

	err = svc.ChangePassword(resp.User.ID, &ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword1",
	})
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Email: "bob@test.local", Password: "newpassword1"}); err != nil {
		t.Fatalf("Login() with new password error = %v", err)
	}
}

func TestAuth_UpdateProfile(t *testing.T) {
	db := newTestDB(t)
	utils.SetJWTSecret("test-secret")
	svc := NewAuthService(db, &config.JWTConfig{Secret: "test-secret"})

	resp, err := svc.Register(&RegisterRequest{
		Name:     "Carol",
		Email:    "carol@test.local",
		Password: "password123",
		Role:     "supervisor",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.UpdateProfile(resp.User.ID, &UpdateProfileRequest{Name: "Dr. Carol"})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if user.Name != "Dr. Carol" {
		t.Errorf("Name = %q, expected Dr. Carol", user.Name)
	}
	if user.Role != models.RoleSupervisor {
		t.Errorf("Role changed unexpectedly: %q", user.Role)
	}
}
