package rbac

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/coursekit/platform-service/internal/models"
)

// Permission identifies an action a role may perform. The set is open:
// adding a permission only requires extending the policy document and
// referencing it at a gate point.
type Permission string

const (
	PermGetUsers      Permission = "getUsers"
	PermManageUsers   Permission = "manageUsers"
	PermManageMedia   Permission = "manageMedia"
	PermManageCourses Permission = "manageCourses"
	PermAccessCourse  Permission = "accessCourse"
	PermUpdateSelf    Permission = "updateSelf"
)

// defaultPolicy is used when no policy file is configured. Grant sets are a
// deployment concern; this document only mirrors the shipped defaults.
const defaultPolicy = `{
  "user":       ["updateSelf", "manageMedia", "accessCourse"],
  "admin":      ["getUsers", "manageUsers", "manageMedia", "accessCourse", "updateSelf"],
  "instructor": ["manageMedia", "manageCourses", "accessCourse", "updateSelf"]
}`

// PolicyTable maps roles to their permission grants. It is built once at
// startup and read-only afterwards; inject it, never look it up globally.
type PolicyTable struct {
	grants map[models.UserRole]map[Permission]struct{}
}

// LoadPolicy builds the policy table from the JSON document at path, or from
// the built-in defaults when path is empty.
func LoadPolicy(path string) (*PolicyTable, error) {
	raw := []byte(defaultPolicy)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file: %w", err)
		}
		raw = data
	}
	return parsePolicy(raw)
}

func parsePolicy(raw []byte) (*PolicyTable, error) {
	var doc map[string][]string
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse policy document: %w", err)
	}

	grants := make(map[models.UserRole]map[Permission]struct{}, len(doc))
	for role, perms := range doc {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[Permission(p)] = struct{}{}
		}
		grants[models.UserRole(role)] = set
	}
	return &PolicyTable{grants: grants}, nil
}

// Can reports whether role is granted perm. Unknown roles and unknown
// permissions are denied.
func (t *PolicyTable) Can(role models.UserRole, perm Permission) bool {
	set, ok := t.grants[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// Roles lists every role the table knows about.
func (t *PolicyTable) Roles() []models.UserRole {
	roles := make([]models.UserRole, 0, len(t.grants))
	for role := range t.grants {
		roles = append(roles, role)
	}
	return roles
}

// Grants returns the permission set for a role. The returned slice is a
// copy; the table itself stays immutable.
func (t *PolicyTable) Grants(role models.UserRole) []Permission {
	set, ok := t.grants[role]
	if !ok {
		return nil
	}
	perms := make([]Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	return perms
}
