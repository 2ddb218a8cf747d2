package services

import (
	"errors"
	"testing"

	"github.com/AliiiBenn/mini-auth/internal/models"
)

func TestProjectCreate_MintsDefaultKey(t *testing.T) {
	db := newTestDB(t)
	owner := createPlatformUser(t, db, "owner@example.com")
	svc := NewProjectService(db, NewAPIKeyService(db))

	project, key, err := svc.Create(owner.ID, "Acme", "first project")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if project.OwnerID != owner.ID {
		t.Errorf("owner = %q, want %q", project.OwnerID, owner.ID)
	}
	if key == nil || key.ProjectID != project.ID {
		t.Fatal("default key should belong to the new project")
	}
	if key.Name != "Default" {
		t.Errorf("default key name = %q, want %q", key.Name, "Default")
	}
	if _, err := NewAPIKeyService(db).Validate(key.Key); err != nil {
		t.Errorf("default key should validate, got %v", err)
	}
}

// A foreign-owned project responds exactly like a missing one.
func TestProjectGetOwned_Masked(t *testing.T) {
	db := newTestDB(t)
	owner := createPlatformUser(t, db, "owner@example.com")
	stranger := createPlatformUser(t, db, "stranger@example.com")
	project := createProject(t, db, owner.ID, "Acme")
	svc := NewProjectService(db, NewAPIKeyService(db))

	if _, err := svc.GetOwned(project.ID, owner.ID); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetOwned(project.ID, stranger.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign lookup: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetOwned("no-such-project", owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing project: expected ErrNotFound, got %v", err)
	}
}

func TestProjectListOwned(t *testing.T) {
	db := newTestDB(t)
	owner := createPlatformUser(t, db, "owner@example.com")
	other := createPlatformUser(t, db, "other@example.com")
	for _, name := range []string{"One", "Two", "Three"} {
		createProject(t, db, owner.ID, name)
	}
	createProject(t, db, other.ID, "Foreign")
	svc := NewProjectService(db, NewAPIKeyService(db))

	projects, total, err := svc.ListOwned(owner.ID, 0, 2)
	if err != nil {
		t.Fatalf("ListOwned failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(projects) != 2 {
		t.Errorf("page size = %d, want 2", len(projects))
	}

	projects, _, err = svc.ListOwned(owner.ID, 2, 2)
	if err != nil {
		t.Fatalf("ListOwned failed: %v", err)
	}
	if len(projects) != 1 {
		t.Errorf("second page size = %d, want 1", len(projects))
	}
}

func TestProjectUpdate(t *testing.T) {
	db := newTestDB(t)
	owner := createPlatformUser(t, db, "owner@example.com")
	stranger := createPlatformUser(t, db, "stranger@example.com")
	project := createProject(t, db, owner.ID, "Acme")
	svc := NewProjectService(db, NewAPIKeyService(db))

	name := "Renamed"
	updated, err := svc.Update(project.ID, owner.ID, &name, nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("name = %q, want %q", updated.Name, "Renamed")
	}

	if _, err := svc.Update(project.ID, stranger.ID, &name, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign update: expected ErrNotFound, got %v", err)
	}
}

func TestProjectDelete_Cascades(t *testing.T) {
	db := newTestDB(t)
	owner := createPlatformUser(t, db, "owner@example.com")
	member := createPlatformUser(t, db, "member@example.com")
	keys := NewAPIKeyService(db)
	svc := NewProjectService(db, keys)

	project, defaultKey, err := svc.Create(owner.ID, "Acme", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := NewMemberService(db).Add(owner, project.ID, member.ID, models.RoleMember); err != nil {
		t.Fatalf("Add member failed: %v", err)
	}

	if err := svc.Delete(project.ID, owner.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.Get(project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted project should be gone, got %v", err)
	}
	if _, err := keys.Validate(defaultKey.Key); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("keys of a deleted project should not validate, got %v", err)
	}

	var memberCount int64
	db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&memberCount)
	if memberCount != 0 {
		t.Errorf("member rows = %d, want 0", memberCount)
	}
}
