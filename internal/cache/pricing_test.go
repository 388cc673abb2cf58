package cache

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingCache(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	org := node.Generate()
	category := node.Generate()
	class := node.Generate()
	duration := node.Generate()

	c := NewPricingCache()

	_, _, hit := c.GetRate(org, category, class, duration)
	assert.False(t, hit)

	c.SetRate(org, category, class, duration, 350)
	price, ok, hit := c.GetRate(org, category, class, duration)
	assert.True(t, hit)
	assert.True(t, ok)
	assert.Equal(t, 350.00, price)
}

func TestPricingCache_NegativeLookup(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	org := node.Generate()
	category := node.Generate()
	class := node.Generate()
	duration := node.Generate()

	c := NewPricingCache()
	c.SetRateMiss(org, category, class, duration)

	_, ok, hit := c.GetRate(org, category, class, duration)
	assert.True(t, hit)
	assert.False(t, ok)
}

func TestPricingCache_InvalidateOrgIsScoped(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	orgA := node.Generate()
	orgB := node.Generate()
	category := node.Generate()
	class := node.Generate()
	duration := node.Generate()

	c := NewPricingCache()
	c.SetRate(orgA, category, class, duration, 100)
	c.SetRate(orgB, category, class, duration, 200)

	c.InvalidateOrg(orgA)

	_, _, hit := c.GetRate(orgA, category, class, duration)
	assert.False(t, hit)

	price, ok, hit := c.GetRate(orgB, category, class, duration)
	assert.True(t, hit)
	assert.True(t, ok)
	assert.Equal(t, 200.00, price)
}
