package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.users.CreateUser(ctx, CreateUserRequest{
		Email:    "JDoe@Example.COM",
		Username: "jdoe",
		Password: "Sunlight42",
		Extra: map[string]interface{}{
			"firstname":    "John",
			"lastname":     "Doe",
			"user_station": model.StationWarehouse,
		},
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Domain lower-cased, local part preserved
	if resp.Email != "JDoe@example.com" {
		t.Fatalf("email not normalized, got %q", resp.Email)
	}
	if !resp.IsActive {
		t.Fatal("new users must start active")
	}
	if resp.IsStaff || resp.IsSuperuser {
		t.Fatal("regular users must not get privilege flags")
	}
	if resp.Firstname != "John" || resp.UserStation != model.StationWarehouse {
		t.Fatalf("extra fields not applied: %+v", resp)
	}

	stored, err := env.userRepo.FindByEmail(ctx, "JDoe@example.com")
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.Password == "Sunlight42" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Sunlight42")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestCreateUserMissingRequiredFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.CreateUser(ctx, CreateUserRequest{Username: "jdoe", Password: "Sunlight42"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("missing email should fail with ErrInvalidInput, got: %v", err)
	}

	_, err = env.users.CreateUser(ctx, CreateUserRequest{Email: "jdoe@example.com", Username: "jdoe"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("missing password should fail with ErrInvalidInput, got: %v", err)
	}
}

func TestCreateUserRejectsReservedExtras(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.CreateUser(context.Background(), CreateUserRequest{
		Email:    "jdoe@example.com",
		Username: "jdoe",
		Password: "Sunlight42",
		Extra:    map[string]interface{}{"password": "Backdoor99"},
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("reserved extra should fail with ErrInvalidInput, got: %v", err)
	}
}

func TestCreateUserRejectsWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.CreateUser(context.Background(), CreateUserRequest{
		Email:    "jdoe@example.com",
		Username: "jdoe",
		Password: "jdoe1234X",
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("password similar to username should fail, got: %v", err)
	}
}

func TestCreateUserDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustCreateUser(t, env, "jdoe", "jdoe@example.com")

	_, err := env.users.CreateUser(ctx, CreateUserRequest{
		Email:    "jdoe@example.com",
		Username: "other",
		Password: "Sunlight42",
	})
	if !errors.Is(err, model.ErrConstraint) {
		t.Fatalf("duplicate email should fail with ErrConstraint, got: %v", err)
	}

	_, err = env.users.CreateUser(ctx, CreateUserRequest{
		Email:    "fresh@example.com",
		Username: "jdoe",
		Password: "Sunlight42",
	})
	if !errors.Is(err, model.ErrConstraint) {
		t.Fatalf("duplicate username should fail with ErrConstraint, got: %v", err)
	}
}

func TestCreateUserUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.CreateUser(context.Background(), CreateUserRequest{
		Email:    "jdoe@example.com",
		Username: "jdoe",
		Password: "Sunlight42",
		Extra:    map[string]interface{}{"role_id": "8d8ac610-566d-4ef0-9c22-186b2a5ed793"},
	})
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("dangling role reference should fail with ErrNotFound, got: %v", err)
	}
}

func TestCreateSuperuser(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.users.CreateSuperuser(context.Background(), CreateUserRequest{
		Email:    "root@example.com",
		Username: "rootadmin",
		Password: "Sunlight42",
	})
	if err != nil {
		t.Fatalf("CreateSuperuser failed: %v", err)
	}
	if !resp.IsStaff || !resp.IsSuperuser || !resp.IsActive {
		t.Fatalf("superuser flags not defaulted: %+v", resp)
	}
}

func TestCreateSuperuserRefusesDowngrade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.CreateSuperuser(ctx, CreateUserRequest{
		Email:    "root@example.com",
		Username: "rootadmin",
		Password: "Sunlight42",
		Extra:    map[string]interface{}{"is_staff": false},
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("is_staff=false should be refused, got: %v", err)
	}

	_, err = env.users.CreateSuperuser(ctx, CreateUserRequest{
		Email:    "root@example.com",
		Username: "rootadmin",
		Password: "Sunlight42",
		Extra:    map[string]interface{}{"is_superuser": false},
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("is_superuser=false should be refused, got: %v", err)
	}
}

func TestActivateDeactivate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustCreateUser(t, env, "jdoe", "jdoe@example.com")

	if err := env.users.DeactivateUser(ctx, "jdoe@example.com"); err != nil {
		t.Fatalf("DeactivateUser failed: %v", err)
	}
	resp, err := env.users.GetUserByEmail(ctx, "jdoe@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if resp.IsActive {
		t.Fatal("user should be inactive")
	}

	// Idempotent: repeating the same state is not an error
	if err := env.users.DeactivateUser(ctx, "jdoe@example.com"); err != nil {
		t.Fatalf("repeated deactivation failed: %v", err)
	}

	if err := env.users.ActivateUser(ctx, "jdoe@example.com"); err != nil {
		t.Fatalf("ActivateUser failed: %v", err)
	}
	resp, _ = env.users.GetUserByEmail(ctx, "jdoe@example.com")
	if !resp.IsActive {
		t.Fatal("user should be active again")
	}

	err = env.users.ActivateUser(ctx, "ghost@example.com")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("unknown email should fail with ErrNotFound, got: %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustCreateUser(t, env, "jdoe", "jdoe@example.com")

	resp, err := env.users.UpdateUser(ctx, "jdoe@example.com", map[string]interface{}{
		"firstname":    "Johnny",
		"user_station": model.StationShop,
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if resp.Firstname != "Johnny" || resp.UserStation != model.StationShop {
		t.Fatalf("fields not updated: %+v", resp)
	}
}

func TestUpdateUserUnknownField(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustCreateUser(t, env, "jdoe", "jdoe@example.com")

	_, err := env.users.UpdateUser(ctx, "jdoe@example.com", map[string]interface{}{
		"firstname": "Johnny",
		"nickname":  "jd",
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("unknown field should fail with ErrInvalidInput, got: %v", err)
	}

	// The failed update must not have written anything
	resp, err := env.users.GetUserByEmail(ctx, "jdoe@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if resp.Firstname == "Johnny" {
		t.Fatal("rejected update leaked into the store")
	}
}

func TestUpdateUserRejectsPasswordField(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustCreateUser(t, env, "jdoe", "jdoe@example.com")

	_, err := env.users.UpdateUser(ctx, "jdoe@example.com", map[string]interface{}{"password": "NewPass99"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("password update should be refused, got: %v", err)
	}
}

func TestUpdateUserInvalidStation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustCreateUser(t, env, "jdoe", "jdoe@example.com")

	_, err := env.users.UpdateUser(ctx, "jdoe@example.com", map[string]interface{}{"user_station": "HQ"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("undefined station should fail, got: %v", err)
	}
}

func TestUpdateUserDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustCreateUser(t, env, "jdoe", "jdoe@example.com")
	mustCreateUser(t, env, "asmith", "asmith@example.com")

	_, err := env.users.UpdateUser(ctx, "asmith@example.com", map[string]interface{}{"username": "jdoe"})
	if !errors.Is(err, model.ErrConstraint) {
		t.Fatalf("username collision should fail with ErrConstraint, got: %v", err)
	}
}

func TestListUsersFiltered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustCreateUser(t, env, "jdoe", "jdoe@example.com")
	mustCreateUser(t, env, "asmith", "asmith@example.com")
	if err := env.users.DeactivateUser(ctx, "asmith@example.com"); err != nil {
		t.Fatalf("DeactivateUser failed: %v", err)
	}

	active := true
	users, total, err := env.users.ListUsers(ctx, repository.UserFilter{IsActive: &active}, 1, 20)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if total != 1 || len(users) != 1 {
		t.Fatalf("expected one active user, got total=%d len=%d", total, len(users))
	}
	if users[0].Username != "jdoe" {
		t.Fatalf("wrong user in filtered listing: %+v", users[0])
	}
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := mustCreateUser(t, env, "jdoe", "jdoe@example.com")

	org, err := env.orgs.CreateOrganisation(ctx, CreateOrganisationRequest{
		Name:    "Acme Retail",
		OwnerID: created.ID,
	})
	if err != nil {
		t.Fatalf("CreateOrganisation failed: %v", err)
	}
	if _, err := env.profiles.CreateProfile(ctx, CreateProfileRequest{UserID: created.ID}); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	if err := env.users.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	if _, err := env.users.GetUserByID(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("user should be gone, got: %v", err)
	}
	if _, err := env.orgs.GetOrganisation(ctx, org.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("owned organisation should be gone, got: %v", err)
	}
	if _, err := env.profiles.GetProfileByUser(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("profile should be gone, got: %v", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.users.DeleteUser(context.Background(), "8d8ac610-566d-4ef0-9c22-186b2a5ed793")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

// mustCreateUser seeds an account through the service so all hooks run.
func mustCreateUser(t *testing.T, env *testEnv, username, email string) *UserResponse {
	t.Helper()
	resp, err := env.users.CreateUser(context.Background(), CreateUserRequest{
		Email:    email,
		Username: username,
		Password: "Sunlight42",
	})
	if err != nil {
		t.Fatalf("seeding user %q failed: %v", username, err)
	}
	return resp
}
