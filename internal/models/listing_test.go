package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListing_ConversationKind(t *testing.T) {
	local := ServiceTypeLocal
	digital := ServiceTypeDigital

	cases := []struct {
		name        string
		listingType string
		serviceType *string
		expected    string
	}{
		{"pedido", ListingTypeRequest, nil, ConversationKindRequest},
		{"produto", ListingTypeProduct, nil, ConversationKindProduct},
		{"serviço local", ListingTypeService, &local, ConversationKindLocalService},
		{"serviço digital", ListingTypeService, &digital, ConversationKindDigitalService},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := &Listing{Type: tc.listingType, ServiceType: tc.serviceType}
			assert.Equal(t, tc.expected, listing.ConversationKind())
		})
	}
}

func TestListing_IsDigitalService(t *testing.T) {
	digital := ServiceTypeDigital
	local := ServiceTypeLocal

	assert.True(t, (&Listing{Type: ListingTypeService, ServiceType: &digital}).IsDigitalService())
	assert.False(t, (&Listing{Type: ListingTypeService, ServiceType: &local}).IsDigitalService())
	assert.False(t, (&Listing{Type: ListingTypeProduct, ServiceType: &digital}).IsDigitalService())
	assert.False(t, (&Listing{Type: ListingTypeService}).IsDigitalService())
}
