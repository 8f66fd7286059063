package integration

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPlatformCodeIsValid(t *testing.T) {
	tests := []struct {
		name string
		code PlatformCode
		want bool
	}{
		{"woocommerce", PlatformWooCommerce, true},
		{"prestashop", PlatformPrestaShop, true},
		{"apilo", PlatformApilo, true},
		{"baselinker", PlatformBaseLinker, true},
		{"empty", PlatformCode(""), false},
		{"unknown", PlatformCode("Shopify"), false},
		{"wrong case", PlatformCode("woocommerce"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.IsValid())
		})
	}
}

func TestAllPlatforms(t *testing.T) {
	all := AllPlatforms()
	assert.Len(t, all, 4)
	for _, code := range all {
		assert.True(t, code.IsValid())
	}
}

func TestIntegrationIsActive(t *testing.T) {
	active := Integration{Status: StatusActive}
	assert.True(t, active.IsActive())

	for _, status := range []Status{StatusInactive, StatusPending} {
		inactive := Integration{Status: status}
		assert.False(t, inactive.IsActive(), "status %s", status)
	}
}

func TestFilterActive(t *testing.T) {
	origin := uuid.New()
	sibling := uuid.New()
	dormant := uuid.New()

	integrations := []Integration{
		{UUID: origin, Name: "origin shop", Platform: PlatformWooCommerce, Status: StatusActive},
		{UUID: sibling, Name: "sibling shop", Platform: PlatformPrestaShop, Status: StatusActive},
		{UUID: dormant, Name: "dormant shop", Platform: PlatformApilo, Status: StatusInactive},
	}

	got := FilterActive(integrations, origin)

	assert.Len(t, got, 1)
	assert.Equal(t, sibling, got[0].UUID)
}

func TestFilterActiveEmpty(t *testing.T) {
	got := FilterActive(nil, uuid.New())
	assert.Empty(t, got)
}
