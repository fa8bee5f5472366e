package mocks

import (
	"regexp"
	"strings"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing.
// Its default Enforce understands role inheritance, trailing /* and :param
// path segments, and regex actions.
type MockCasbinEnforcer struct {
	AddPolicyFunc         func(params ...interface{}) (bool, error)
	RemovePolicyFunc      func(params ...interface{}) (bool, error)
	AddGroupingPolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc           func(rvals ...interface{}) (bool, error)
	GetPolicyFunc         func() ([][]string, error)
	SavePolicyFunc        func() error

	policies  [][]string
	groupings [][]string
	Saves     int
}

// Compile-time interface compliance verification
var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer with no policies
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{}
}

func toRow(params []interface{}) []string {
	row := make([]string, 0, len(params))
	for _, p := range params {
		if s, ok := p.(string); ok {
			row = append(row, s)
		}
	}
	return row
}

func indexOf(rows [][]string, row []string) int {
	for i, r := range rows {
		if strings.Join(r, "\x00") == strings.Join(row, "\x00") {
			return i
		}
	}
	return -1
}

// AddPolicy adds a new policy rule
func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	row := toRow(params)
	if len(row) < 3 || indexOf(m.policies, row) >= 0 {
		return false, nil
	}
	m.policies = append(m.policies, row)
	return true, nil
}

// RemovePolicy removes a policy rule
func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	i := indexOf(m.policies, toRow(params))
	if i < 0 {
		return false, nil
	}
	m.policies = append(m.policies[:i], m.policies[i+1:]...)
	return true, nil
}

// AddGroupingPolicy makes the first role inherit the second
func (m *MockCasbinEnforcer) AddGroupingPolicy(params ...interface{}) (bool, error) {
	if m.AddGroupingPolicyFunc != nil {
		return m.AddGroupingPolicyFunc(params...)
	}
	row := toRow(params)
	if len(row) < 2 || indexOf(m.groupings, row) >= 0 {
		return false, nil
	}
	m.groupings = append(m.groupings, row)
	return true, nil
}

// Enforce checks sub, obj, act against the stored policies
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	req := toRow(rvals)
	if len(req) < 3 {
		return false, nil
	}
	roles := m.rolesOf(req[0])
	for _, p := range m.policies {
		if !roles[p[0]] || !matchPath(req[1], p[1]) {
			continue
		}
		if ok, _ := regexp.MatchString(p[2], req[2]); ok {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCasbinEnforcer) rolesOf(sub string) map[string]bool {
	roles := map[string]bool{sub: true}
	queue := []string{sub}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, g := range m.groupings {
			if g[0] == cur && !roles[g[1]] {
				roles[g[1]] = true
				queue = append(queue, g[1])
			}
		}
	}
	return roles
}

func matchPath(path, pattern string) bool {
	if strings.HasSuffix(pattern, "/*") {
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	}
	ps, pp := strings.Split(path, "/"), strings.Split(pattern, "/")
	if len(ps) != len(pp) {
		return false
	}
	for i := range pp {
		if strings.HasPrefix(pp[i], ":") && ps[i] != "" {
			continue
		}
		if pp[i] != ps[i] {
			return false
		}
	}
	return true
}

// GetPolicy returns all policies
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	result := make([][]string, len(m.policies))
	for i, policy := range m.policies {
		result[i] = append([]string(nil), policy...)
	}
	return result, nil
}

// SavePolicy saves all policies
func (m *MockCasbinEnforcer) SavePolicy() error {
	m.Saves++
	if m.SavePolicyFunc != nil {
		return m.SavePolicyFunc()
	}
	return nil
}
