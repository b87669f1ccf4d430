package models

import (
	"testing"
	"time"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"supervisor role", RoleSupervisor, true},
		{"engineer role", RoleEngineer, true},
		{"viewer role", RoleViewer, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	supervisor := &User{Role: RoleSupervisor}
	engineer := &User{Role: RoleEngineer}
	viewer := &User{Role: RoleViewer}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		// Admin permissions - should have all permissions
		{"admin can delete user", admin, "delete_user", true},
		{"admin can manage users", admin, "manage_users", true},
		{"admin can view equipment", admin, "view_equipment", true},
		{"admin can create equipment", admin, "create_equipment", true},

		// Supervisor permissions - can do most things except user management
		{"supervisor cannot delete user", supervisor, "delete_user", false},
		{"supervisor cannot manage users", supervisor, "manage_users", false},
		{"supervisor can view equipment", supervisor, "view_equipment", true},
		{"supervisor can create equipment", supervisor, "create_equipment", true},

		// Engineer permissions - limited to operational tasks
		{"engineer can view equipment", engineer, "view_equipment", true},
		{"engineer can view training", engineer, "view_training", true},
		{"engineer can create equipment", engineer, "create_equipment", true},
		{"engineer can update equipment", engineer, "update_equipment", true},
		{"engineer can create training", engineer, "create_training", true},
		{"engineer can update training", engineer, "update_training", true},
		{"engineer cannot delete user", engineer, "delete_user", false},
		{"engineer cannot manage users", engineer, "manage_users", false},

		// Viewer permissions - read-only access
		{"viewer can view equipment", viewer, "view_equipment", true},
		{"viewer can view training", viewer, "view_training", true},
		{"viewer can view dashboard", viewer, "view_dashboard", true},
		{"viewer cannot create equipment", viewer, "create_equipment", false},
		{"viewer cannot update equipment", viewer, "update_equipment", false},
		{"viewer cannot delete user", viewer, "delete_user", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("User with role %s HasPermission(%s) = %v, want %v",
					tt.user.Role, tt.action, result, tt.expected)
			}
		})
	}
}

func TestUser_StructFields(t *testing.T) {
	now := time.Now()
	user := &User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         RoleAdmin,
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
		LastLogin:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if user.Username != "testuser" {
		t.Errorf("Expected Username to be 'testuser', got %s", user.Username)
	}
	if user.Email != "test@example.com" {
		t.Errorf("Expected Email to be 'test@example.com', got %s", user.Email)
	}
	if user.Role != RoleAdmin {
		t.Errorf("Expected Role to be RoleAdmin, got %s", user.Role)
	}
	if !user.IsActive {
		t.Error("Expected IsActive to be true")
	}
	if user.LastLogin == nil {
		t.Error("Expected LastLogin to be set")
	}
}
