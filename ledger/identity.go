package ledger

import (
	models "github.com/phillip/charity-ledger-go/models"
)

// Role is a capability a caller holds toward a campaign.
type Role uint8

const (
	RoleDonor Role = 1 << iota
	RoleOwner
	RoleAdmin
)

// Roles is the set of roles resolved for one caller against one
// campaign. A caller may hold several at once.
type Roles uint8

func (r Roles) Has(role Role) bool { return uint8(r)&uint8(role) != 0 }

// Gate resolves caller addresses to roles. The single admin address is
// fixed at construction and never changes.
type Gate struct {
	admin string
}

func NewGate(admin string) *Gate {
	return &Gate{admin: admin}
}

func (g *Gate) IsAdmin(addr string) bool {
	return addr != "" && addr == g.admin
}

func (g *Gate) IsOwner(addr string, c *models.Campaign) bool {
	return addr != "" && addr == c.Owner
}

// Resolve returns every role addr holds toward c. Everyone is a donor;
// owner and admin stack on top.
func (g *Gate) Resolve(addr string, c *models.Campaign) Roles {
	roles := Roles(RoleDonor)
	if c != nil && g.IsOwner(addr, c) {
		roles |= Roles(RoleOwner)
	}
	if g.IsAdmin(addr) {
		roles |= Roles(RoleAdmin)
	}
	return roles
}
