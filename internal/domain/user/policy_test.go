package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_WriteRoles(t *testing.T) {
	p := DefaultPolicy()

	assert.False(t, p.IsAuthorized(RoleStudent, OperationWrite))
	assert.True(t, p.IsAuthorized(RoleTutor, OperationWrite))
	assert.True(t, p.IsAuthorized(RoleNursingHead, OperationWrite))
	assert.True(t, p.IsAuthorized(RoleHospitalAdmin, OperationWrite))
	assert.True(t, p.IsAuthorized(RolePrincipal, OperationWrite))
}

func TestDefaultPolicy_DeleteRoles(t *testing.T) {
	p := DefaultPolicy()

	assert.False(t, p.IsAuthorized(RoleStudent, OperationDelete))
	assert.False(t, p.IsAuthorized(RoleTutor, OperationDelete))
	assert.True(t, p.IsAuthorized(RoleNursingHead, OperationDelete))
	assert.True(t, p.IsAuthorized(RoleHospitalAdmin, OperationDelete))
	assert.True(t, p.IsAuthorized(RolePrincipal, OperationDelete))
}

func TestDefaultPolicy_ReadIsAnyAuthenticatedRole(t *testing.T) {
	p := DefaultPolicy()

	for _, r := range AllRoles {
		assert.True(t, p.IsAuthorized(r, OperationRead), "role %s should read", r)
	}
	assert.False(t, p.IsAuthorized(Role(""), OperationRead))
	assert.False(t, p.IsAuthorized(Role("janitor"), OperationRead))
}

func TestDefaultPolicy_ReportMatchesWrite(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, p.Roles(OperationWrite), p.Roles(OperationReport))
}

func TestDefaultPolicy_WriteIsSupersetOfDelete(t *testing.T) {
	p := DefaultPolicy()
	require.NoError(t, p.Validate())

	for _, r := range AllRoles {
		if p.IsAuthorized(r, OperationDelete) {
			assert.True(t, p.IsAuthorized(r, OperationWrite), "role %s deletes but cannot write", r)
		}
	}
}

func TestPolicy_UnknownRoleOrOperation(t *testing.T) {
	p := DefaultPolicy()

	assert.False(t, p.IsAuthorized(Role("admin"), OperationWrite))
	assert.False(t, p.IsAuthorized(RolePrincipal, Operation("archive")))
}

func TestNewPolicy_RejectsDeleteOutsideWrite(t *testing.T) {
	_, err := NewPolicy(
		[]Role{RoleTutor},
		[]Role{RoleTutor, RolePrincipal},
		[]Role{RoleTutor},
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestNewPolicy_RejectsUnknownRole(t *testing.T) {
	_, err := NewPolicy([]Role{"dean"}, nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestNewPolicy_Substitute(t *testing.T) {
	p, err := NewPolicy([]Role{RolePrincipal}, []Role{RolePrincipal}, []Role{RolePrincipal, RoleTutor})
	require.NoError(t, err)

	assert.False(t, p.IsAuthorized(RoleTutor, OperationWrite))
	assert.True(t, p.IsAuthorized(RoleTutor, OperationReport))
	assert.Equal(t, []Role{RolePrincipal}, p.Roles(OperationDelete))
}

func TestZeroPolicy_DeniesMutations(t *testing.T) {
	var p Policy

	assert.False(t, p.IsAuthorized(RolePrincipal, OperationWrite))
	assert.False(t, p.IsAuthorized(RolePrincipal, OperationDelete))
	assert.True(t, p.IsAuthorized(RolePrincipal, OperationRead))
	assert.NoError(t, p.Validate())
}

func TestCreateProfileRequest_Validate(t *testing.T) {
	req := CreateProfileRequest{
		Email:    "tutor@clinassign.test",
		FullName: "Tara Tutor",
		Role:     "Tutor",
		Password: "password123",
	}
	assert.NoError(t, req.Validate())

	bad := CreateProfileRequest{Email: "nope", Role: "dean", Password: "short"}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "full_name")
	assert.Contains(t, err.Error(), "role")
	assert.Contains(t, err.Error(), "password")
}
