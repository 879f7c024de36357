package rbac

import (
	authmodels "github.com/architect/blog-api/internal/auth/models"
	postmodels "github.com/architect/blog-api/internal/posts/models"
)

// Action is the closed set of things an actor can do to a post.
type Action int

const (
	ActionView Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
	ActionPublishOrArchive
	ActionForceDelete
)

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Decide is the policy core: a pure, total function from
// (actor, action, resource) to Allow or Deny. actor is nil for anonymous
// requests and resource is nil for actions without a target (create).
//
// Rules are evaluated in order, first match wins. The ordering is part of
// the contract: an owner who holds no privileged role still reaches their
// own drafts through rule 2 before role checks are consulted.
func Decide(actor *authmodels.User, action Action, resource *postmodels.Post) Decision {
	// 1. Published posts are readable by anyone, authenticated or not.
	if action == ActionView && resource != nil && resource.Status == postmodels.StatusPublished {
		return Allow
	}

	if actor == nil {
		return Deny
	}

	// 2. Ownership grants view/update/delete/publishOrArchive.
	if resource != nil && resource.UserID == actor.ID {
		switch action {
		case ActionView, ActionUpdate, ActionDelete, ActionPublishOrArchive:
			return Allow
		}
	}

	// 3. admin and super-admin bypass ownership for everything except
	// permanent deletion.
	if action != ActionForceDelete &&
		(actor.Role == RoleAdmin || actor.Role == RoleSuperAdmin) {
		return Allow
	}

	// 4. Permanent deletion is reserved for admin. Ownership never grants it.
	if action == ActionForceDelete {
		if actor.Role == RoleAdmin {
			return Allow
		}
		return Deny
	}

	// 5. Open authorship: any authenticated actor may create posts.
	if action == ActionCreate {
		return Allow
	}

	// 6. Everything else is denied.
	return Deny
}
