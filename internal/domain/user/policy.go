package user

import (
	"fmt"
	"sort"
)

type Operation string

const (
	OperationRead   Operation = "read"
	OperationWrite  Operation = "write"
	OperationDelete Operation = "delete"
	OperationReport Operation = "report"
)

// Policy maps operations to the roles allowed to perform them.
// Read is granted to every valid role; the other operations use explicit role sets.
// A Policy is immutable once built.
type Policy struct {
	write  map[Role]struct{}
	delete map[Role]struct{}
	report map[Role]struct{}
}

// DefaultPolicy returns the standard ClinAssign role policy.
func DefaultPolicy() Policy {
	writers := []Role{RoleTutor, RoleNursingHead, RoleHospitalAdmin, RolePrincipal}
	p, err := NewPolicy(
		writers,
		[]Role{RoleNursingHead, RoleHospitalAdmin, RolePrincipal},
		writers,
	)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPolicy builds a policy and verifies it with Validate.
func NewPolicy(write, delete, report []Role) (Policy, error) {
	p := Policy{
		write:  make(map[Role]struct{}, len(write)),
		delete: make(map[Role]struct{}, len(delete)),
		report: make(map[Role]struct{}, len(report)),
	}

	for _, set := range []struct {
		name  Operation
		roles []Role
		dst   map[Role]struct{}
	}{
		{OperationWrite, write, p.write},
		{OperationDelete, delete, p.delete},
		{OperationReport, report, p.report},
	} {
		for _, r := range set.roles {
			if !r.IsValid() {
				return Policy{}, fmt.Errorf("%w: %q in %s set", ErrUnknownRole, r, set.name)
			}
			set.dst[r] = struct{}{}
		}
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks that every role allowed to delete is also allowed to write.
func (p Policy) Validate() error {
	for r := range p.delete {
		if _, ok := p.write[r]; !ok {
			return fmt.Errorf("%w: %q may delete but not write", ErrInvalidPolicy, r)
		}
	}
	return nil
}

// IsAuthorized reports whether role may perform op.
func (p Policy) IsAuthorized(role Role, op Operation) bool {
	if !role.IsValid() {
		return false
	}

	switch op {
	case OperationRead:
		return true
	case OperationWrite:
		_, ok := p.write[role]
		return ok
	case OperationDelete:
		_, ok := p.delete[role]
		return ok
	case OperationReport:
		_, ok := p.report[role]
		return ok
	default:
		return false
	}
}

// Roles returns the roles allowed to perform op, sorted by name.
func (p Policy) Roles(op Operation) []Role {
	var set map[Role]struct{}
	switch op {
	case OperationRead:
		roles := make([]Role, len(AllRoles))
		copy(roles, AllRoles)
		sortRoles(roles)
		return roles
	case OperationWrite:
		set = p.write
	case OperationDelete:
		set = p.delete
	case OperationReport:
		set = p.report
	}

	roles := make([]Role, 0, len(set))
	for r := range set {
		roles = append(roles, r)
	}
	sortRoles(roles)
	return roles
}

func sortRoles(roles []Role) {
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
}
