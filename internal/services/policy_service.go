package services

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// CasbinEnforcerWrapper wraps the real Casbin enforcer to implement our interface
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) AddGroupingPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddGroupingPolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

func (w *CasbinEnforcerWrapper) SavePolicy() error {
	return w.enforcer.SavePolicy()
}

// PolicyServiceImpl implements domain.PolicyService using Casbin
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: NewCasbinEnforcerWrapper(enforcer),
	}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: enforcer,
	}
}

// AddPolicy implements domain.PolicyService
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	_, err := p.enforcer.AddPolicy(role, resource, action)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy implements domain.PolicyService
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	_, err := p.enforcer.RemovePolicy(role, resource, action)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(role, resource, action)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}

// Seed implements domain.PolicyService. Nothing is written when policies already exist,
// so rules edited at runtime survive restarts. Reports whether seeding happened.
func (p *PolicyServiceImpl) Seed(policies, groupings [][]string) (bool, error) {
	existing, err := p.enforcer.GetPolicy()
	if err != nil {
		return false, fmt.Errorf("failed to read policies: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	for _, rule := range policies {
		if _, err := p.enforcer.AddPolicy(toParams(rule)...); err != nil {
			return false, fmt.Errorf("failed to add policy %v: %w", rule, err)
		}
	}
	for _, g := range groupings {
		if _, err := p.enforcer.AddGroupingPolicy(toParams(g)...); err != nil {
			return false, fmt.Errorf("failed to add role %v: %w", g, err)
		}
	}
	if err := p.enforcer.SavePolicy(); err != nil {
		return false, fmt.Errorf("failed to save policies: %w", err)
	}
	return true, nil
}

func toParams(row []string) []interface{} {
	params := make([]interface{}, len(row))
	for i, v := range row {
		params[i] = v
	}
	return params
}
