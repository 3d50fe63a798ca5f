package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/multiproc/errors"
)

func TestRole_Allows(t *testing.T) {
	var testCases = []struct {
		role    Role
		allowed []Kind
		denied  []Kind
	}{
		{role: RoleMutator, allowed: []Kind{Inc, Dec, Wait, Quit}, denied: []Kind{Reset, Report}},
		{role: RoleMonitor, allowed: []Kind{Reset, Wait, Quit}, denied: []Kind{Inc, Dec, Report}},
		{role: RoleReporter, allowed: []Kind{Inc, Dec, Reset, Report, Wait, Quit}},
		{role: RoleThreads, denied: []Kind{Inc, Dec, Reset, Report, Wait, Quit}},
	}
	for _, testCase := range testCases {
		for _, kind := range testCase.allowed {
			assert.True(t, testCase.role.Allows(kind), "%v %v", testCase.role, kind)
		}
		for _, kind := range testCase.denied {
			assert.False(t, testCase.role.Allows(kind), "%v %v", testCase.role, kind)
		}
	}
}

func TestRole_Check(t *testing.T) {
	assert.NoError(t, RoleMonitor.Check([]Action{{Kind: Reset}, {Kind: Quit}}))
	err := RoleMonitor.Check([]Action{{Kind: Reset}, {Kind: Inc, N: 1}})
	assert.True(t, errors.Is(err, errors.ErrActionNotAllowed))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Reporter ")
	assert.NoError(t, err)
	assert.Equal(t, RoleReporter, role)
	_, err = ParseRole("viewer")
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}
