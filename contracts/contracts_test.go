package contracts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/contracts"
	"fenrir/domain"
)

func TestDefaultRegistryContainsBaselineContract(t *testing.T) {
	reg := contracts.DefaultRegistry()

	c, ok := reg.Get("UK-BL-MAR-25")
	require.True(t, ok)
	assert.Equal(t, contracts.Power, c.Commodity)
	assert.Equal(t, contracts.Monthly, c.DeliveryPeriod)
	assert.Equal(t, "GB", c.Location)
}

func TestRegistryGetUnknownContract(t *testing.T) {
	reg := contracts.DefaultRegistry()
	_, ok := reg.Get("NOT-A-CONTRACT")
	assert.False(t, ok)
}

func TestNewRegistryLastDuplicateWins(t *testing.T) {
	first := contracts.Contract{Code: domain.ContractCode("X"), Location: "GB"}
	second := contracts.Contract{Code: domain.ContractCode("X"), Location: "US"}
	reg := contracts.NewRegistry(first, second)

	c, ok := reg.Get("X")
	require.True(t, ok)
	assert.Equal(t, "US", c.Location)
}
