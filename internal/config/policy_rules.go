package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyRule grants a role an action regex on a path pattern
type PolicyRule struct {
	Role     string `yaml:"role"`
	Resource string `yaml:"resource"`
	Action   string `yaml:"action"`
}

// RoleInheritance makes Role inherit every permission of Parent
type RoleInheritance struct {
	Role   string `yaml:"role"`
	Parent string `yaml:"parent"`
}

// PolicySeeds is the initial authorization policy, applied when the policy store is empty
type PolicySeeds struct {
	Policies []PolicyRule      `yaml:"policies"`
	Roles    []RoleInheritance `yaml:"roles"`
}

// Rows returns the seeds as Casbin policy and grouping rows
func (s PolicySeeds) Rows() (policies, groupings [][]string) {
	for _, p := range s.Policies {
		policies = append(policies, []string{p.Role, p.Resource, p.Action})
	}
	for _, r := range s.Roles {
		groupings = append(groupings, []string{r.Role, r.Parent})
	}
	return policies, groupings
}

// LoadPolicySeeds reads the seed file, falling back to DefaultPolicySeeds when it does not exist
func LoadPolicySeeds(path string) (PolicySeeds, error) {
	bytes, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultPolicySeeds(), nil
	}
	if err != nil {
		return PolicySeeds{}, fmt.Errorf("could not read policy seeds file: %w", err)
	}

	var seeds PolicySeeds
	if err := yaml.Unmarshal(bytes, &seeds); err != nil {
		return PolicySeeds{}, fmt.Errorf("could not parse policy seeds yaml: %w", err)
	}
	for i, p := range seeds.Policies {
		if p.Role == "" || p.Resource == "" || p.Action == "" {
			return PolicySeeds{}, fmt.Errorf("policy %d: role, resource and action are required", i)
		}
	}
	return seeds, nil
}

// DefaultPolicySeeds mirrors config/policies.yml
func DefaultPolicySeeds() PolicySeeds {
	return PolicySeeds{
		Policies: []PolicyRule{
			{Role: "role_user", Resource: "/api/account/profile", Action: "(GET|PUT|DELETE)"},
			{Role: "role_user", Resource: "/api/account/logout", Action: "POST"},
			{Role: "role_user", Resource: "/api/account/two-step-password/*", Action: "POST"},
			{Role: "role_user", Resource: "/api/blog/:slug/like", Action: "POST"},
			{Role: "role_user", Resource: "/api/comment/create", Action: "POST"},
			{Role: "role_user", Resource: "/api/comment/:id", Action: "(PUT|DELETE)"},
			{Role: "role_author", Resource: "/api/blog", Action: "POST"},
			{Role: "role_author", Resource: "/api/blog/:slug", Action: "(PUT|DELETE)"},
			{Role: "role_admin", Resource: "/api/account/users", Action: "GET"},
			{Role: "role_admin", Resource: "/api/account/users/:id", Action: "(GET|PUT|DELETE)"},
			{Role: "role_admin", Resource: "/api/blog/categories", Action: "POST"},
			{Role: "role_admin", Resource: "/api/blog/categories/:id", Action: "(PUT|DELETE)"},
			{Role: "role_admin", Resource: "/api/admin/*", Action: "(GET|POST|PUT|DELETE)"},
		},
		Roles: []RoleInheritance{
			{Role: "role_author", Parent: "role_user"},
			{Role: "role_admin", Parent: "role_author"},
		},
	}
}
