// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package authz

import (
	"errors"
	"testing"

	"github.com/rahanss/Administrasi-Akademik/internal/auth"
)

func TestCheck(t *testing.T) {
	admin := &auth.Principal{ID: 1, Role: auth.RoleAdmin}
	superAdmin := &auth.Principal{ID: 2, Role: auth.RoleSuperAdmin}

	tests := []struct {
		name      string
		principal *auth.Principal
		required  auth.Role
		wantErr   error
	}{
		{"nil principal", nil, auth.RoleAdmin, ErrNotAuthenticated},
		{"admin on admin route", admin, auth.RoleAdmin, nil},
		{"admin on super_admin route", admin, auth.RoleSuperAdmin, ErrForbidden},
		{"super_admin on admin route", superAdmin, auth.RoleAdmin, nil},
		{"super_admin on super_admin route", superAdmin, auth.RoleSuperAdmin, nil},
		{"unknown role on admin route", &auth.Principal{Role: "editor"}, auth.RoleAdmin, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.principal, tt.required)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Check() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireAuthenticated(t *testing.T) {
	if err := RequireAuthenticated(nil); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("RequireAuthenticated(nil) = %v, want ErrNotAuthenticated", err)
	}
	if err := RequireAuthenticated(&auth.Principal{Role: auth.RoleAdmin}); err != nil {
		t.Errorf("RequireAuthenticated(admin) = %v, want nil", err)
	}
}
