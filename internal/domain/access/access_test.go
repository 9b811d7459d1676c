package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdministrator, ParseRole("administrator"))
	assert.Equal(t, RoleSeller, ParseRole("SELLER"))
	assert.Equal(t, Role(""), ParseRole("guest"))
}

func TestCanViewSale(t *testing.T) {
	admin := Actor{ID: "a", Role: RoleAdministrator}
	seller := Actor{ID: "s-1", Role: RoleSeller}

	assert.True(t, admin.CanViewSale("s-1"))
	assert.True(t, seller.CanViewSale("s-1"))
	assert.False(t, seller.CanViewSale("s-2"))
	assert.False(t, Actor{Role: RoleSeller}.CanViewSale(""))
}
