package post

import "github.com/jcbcouch/dotnetwebapi/internal/identity"

// CanMutate reports whether the acting user may update or delete the given
// post: the owner may, and so may any holder of the Admin role. Create and
// read are not gated by ownership.
func CanMutate(actor identity.Actor, p *Post) bool {
	return actor.ID == p.OwnerID || actor.HasRole(identity.RoleAdmin)
}
