package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"gopkg.in/yaml.v3"
)

// policyFile is the YAML shape of a role policy override.
type policyFile struct {
	Write  []string `yaml:"write"`
	Delete []string `yaml:"delete"`
	Report []string `yaml:"report"`
}

// LoadPolicy reads a role policy from path. An empty path yields the default policy.
func LoadPolicy(path string) (user.Policy, error) {
	if path == "" {
		return user.DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return user.Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes a YAML role policy. A missing report list falls back to the write list.
func ParsePolicy(data []byte) (user.Policy, error) {
	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return user.Policy{}, fmt.Errorf("parse policy file: %w", err)
	}

	if len(pf.Write) == 0 {
		return user.Policy{}, fmt.Errorf("%w: write list is empty", user.ErrInvalidPolicy)
	}
	report := pf.Report
	if len(report) == 0 {
		report = pf.Write
	}

	return user.NewPolicy(toRoles(pf.Write), toRoles(pf.Delete), toRoles(report))
}

func toRoles(names []string) []user.Role {
	roles := make([]user.Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, user.Role(strings.ToLower(strings.TrimSpace(n))))
	}
	return roles
}
