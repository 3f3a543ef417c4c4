package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{name: "pending", input: "pending", want: RolePending},
		{name: "staff", input: "staff", want: RoleStaff},
		{name: "teacher", input: "teacher", want: RoleTeacher},
		{name: "admin", input: "admin", want: RoleAdmin},
		{name: "rejected", input: "rejected", want: RoleRejected},
		{name: "empty_is_none", input: "", want: RoleNone},
		{name: "unknown_rejected", input: "superuser", wantErr: true},
		{name: "case_sensitive", input: "Admin", wantErr: true},
		{name: "whitespace_rejected", input: " admin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownRole) {
					t.Fatalf("expected ErrUnknownRole, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Role
		to   Role
		want bool
	}{
		{name: "pending_to_staff", from: RolePending, to: RoleStaff, want: true},
		{name: "pending_to_teacher", from: RolePending, to: RoleTeacher, want: true},
		{name: "pending_to_admin", from: RolePending, to: RoleAdmin, want: true},
		{name: "pending_to_rejected", from: RolePending, to: RoleRejected, want: true},
		{name: "staff_cancel", from: RoleStaff, to: RolePending, want: true},
		{name: "teacher_cancel", from: RoleTeacher, to: RolePending, want: true},
		{name: "admin_cancel", from: RoleAdmin, to: RolePending, want: true},
		{name: "rejected_cancel", from: RoleRejected, to: RolePending, want: true},
		{name: "no_lateral_staff_to_teacher", from: RoleStaff, to: RoleTeacher, want: false},
		{name: "no_rejected_to_admin", from: RoleRejected, to: RoleAdmin, want: false},
		{name: "no_none_transitions", from: RoleNone, to: RoleStaff, want: false},
		{name: "no_pending_to_pending", from: RolePending, to: RolePending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestRoleOperational(t *testing.T) {
	operational := []Role{RoleStaff, RoleTeacher, RoleAdmin}
	for _, r := range operational {
		if !r.Operational() {
			t.Errorf("%q should be operational", r)
		}
	}
	for _, r := range []Role{RoleNone, RolePending, RoleRejected} {
		if r.Operational() {
			t.Errorf("%q should not be operational", r)
		}
	}
}
