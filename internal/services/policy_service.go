package services

import (
	"github.com/casbin/casbin/v2"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// CasbinEnforcerWrapper adapts the real Casbin enforcer to the domain
// interface so the service layer stays mockable.
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper wraps the enforcer the authorization middleware
// shares, so policy edits made here take effect on live requests.
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
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

// PolicyServiceImpl manages the route policies behind the admin policy
// endpoints. Roles carry the "role_" prefix and resources are the route
// patterns the router registers, such as "/mentors/:id".
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a policy service over the shared enforcer.
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

// AddPolicy grants role access to a route pattern and persists the change.
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	_, err := p.enforcer.AddPolicy(role, resource, action)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy revokes a grant and persists the change.
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	_, err := p.enforcer.RemovePolicy(role, resource, action)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// CheckPermission answers whether a role may perform action on resource,
// without touching the policy store.
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(role, resource, action)
}

// GetPolicies lists every stored route grant.
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}
