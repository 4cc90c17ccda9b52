package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusTerminal(t *testing.T) {
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.True(t, RequestStatusAccepted.IsTerminal())
	assert.True(t, RequestStatusDeclined.IsTerminal())
	assert.True(t, RequestStatusCancelled.IsTerminal())
}

func TestDisplayNamePrefersBusinessName(t *testing.T) {
	vendor := &User{Name: "Bob", BusinessName: "Bob's Plumbing", Role: UserRoleVendor}
	assert.Equal(t, "Bob's Plumbing", vendor.DisplayName())

	bareVendor := &User{Name: "Bob", Role: UserRoleVendor}
	assert.Equal(t, "Bob", bareVendor.DisplayName())

	consumer := &User{Name: "Alice", BusinessName: "ignored", Role: UserRoleConsumer}
	assert.Equal(t, "Alice", consumer.DisplayName())
}
