// Package policy decides who may mutate which records.
//
// Every function is pure: callers load the actor and the resource from storage
// immediately before asking, so a revoked admin flag or a deleted account takes
// effect on the very next request.
package policy

import "github.com/Shivanand-hulikatti/eventreg/internal/model"

// CanModify reports whether actor may edit or delete event.
func CanModify(actor *model.User, event *model.Event) bool {
	if actor == nil || event == nil {
		return false
	}
	return actor.ID == event.OwnerID || actor.IsAdmin
}

// CanAdminister reports whether actor may use the admin pages.
func CanAdminister(actor *model.User) bool {
	return actor != nil && actor.IsAdmin
}

// CanDeleteUser reports whether actor may delete user accounts.
func CanDeleteUser(actor *model.User) bool {
	return CanAdminister(actor)
}
