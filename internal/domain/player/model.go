package player

import (
	"fmt"
	"strings"
)

// Role is the scoring role of a player. Rule payouts are parameterised by it.
type Role string

const (
	RoleForward Role = "F"
	RoleDefense Role = "D"
	RoleGoalie  Role = "G"
)

// Roles lists every role in lineup order.
var Roles = []Role{RoleForward, RoleDefense, RoleGoalie}

var AllRoles = map[Role]struct{}{
	RoleForward: {},
	RoleDefense: {},
	RoleGoalie:  {},
}

func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := AllRoles[role]; !ok {
		return "", fmt.Errorf("unknown player role %q", raw)
	}
	return role, nil
}

func (r Role) IsSkater() bool {
	return r == RoleForward || r == RoleDefense
}

// Player is a real hockey player. Only team affiliation and price change after seeding.
type Player struct {
	ID         int64
	APIID      int64
	FirstName  string
	LastName   string
	Role       Role
	TeamAbbrev string
	Price      int64
}

func (p Player) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if p.TeamAbbrev == "" {
		return fmt.Errorf("player team abbreviation is required")
	}
	if _, ok := AllRoles[p.Role]; !ok {
		return fmt.Errorf("invalid player role: %s", p.Role)
	}

	return nil
}
