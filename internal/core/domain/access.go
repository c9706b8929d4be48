package domain

// RoleSet is an allow-list used by a role gate. ADMIN is a member of every
// RoleSet built with AllowList.
type RoleSet struct {
	roles map[Role]struct{}
}

// AllowList returns the set roles ∪ {ADMIN}.
func AllowList(roles ...Role) RoleSet {
	set := RoleSet{roles: make(map[Role]struct{}, len(roles)+1)}
	set.roles[RoleAdmin] = struct{}{}
	for _, r := range roles {
		set.roles[r] = struct{}{}
	}
	return set
}

// Permits reports whether role is in the set.
func (s RoleSet) Permits(role Role) bool {
	_, ok := s.roles[role]
	return ok
}

// Admit decides a request: no identity is ErrAuthenticationRequired, a role
// outside the set is ErrPermissionDenied.
func (s RoleSet) Admit(id *Identity) error {
	if id == nil || id.ID == "" {
		return ErrAuthenticationRequired
	}
	if !s.Permits(id.Role) {
		return ErrPermissionDenied
	}
	return nil
}

// Gates mounted by the router.
var (
	AdminOnly  = AllowList()
	SellerOnly = AllowList(RoleSeller)
	BuyerOnly  = AllowList(RoleBuyer)
	VetOnly    = AllowList(RoleVet)
	Traders    = AllowList(RoleSeller, RoleBuyer)
	AnyRole    = AllowList(RoleSeller, RoleBuyer, RoleVet)
)
