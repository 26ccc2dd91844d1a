package mocks

// MockCasbinEnforcer implements domain.CasbinEnforcer interface for testing
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)
	SavePolicyFunc   func() error

	SaveCalls int
}

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{}
}

// AddPolicy adds a policy rule
func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	return true, nil
}

// RemovePolicy removes a policy rule
func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	return true, nil
}

// Enforce evaluates a request against the policy
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	return false, nil
}

// GetPolicy returns all policy rules
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	return [][]string{}, nil
}

// SavePolicy persists the policy
func (m *MockCasbinEnforcer) SavePolicy() error {
	m.SaveCalls++
	if m.SavePolicyFunc != nil {
		return m.SavePolicyFunc()
	}
	return nil
}
