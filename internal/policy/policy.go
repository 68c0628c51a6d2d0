// Package policy decides which records an actor may see or mutate.
//
// The rule set is a small fixed table, not a rules engine: every
// (role, resource) pair maps to exactly one effective scope. Resolution is
// pure and performs no I/O, so it is safe for concurrent use.
package policy

import "github.com/fitlife-app/backend/pkg/model"

// Resource identifies the kind of record a request targets
type Resource string

const (
	ResourceActivity      Resource = "activity"
	ResourceMeal          Resource = "meal"
	ResourceMedicalRecord Resource = "medical_record"
	ResourceDietPlan      Resource = "diet_plan"
	ResourceWorkoutPlan   Resource = "workout_plan"
	ResourceWeightLog     Resource = "weight_log"
	ResourceUserDirectory Resource = "user_directory"
)

// ScopeKind is the shape of an effective query scope
type ScopeKind int

const (
	// ScopeDenied means the actor may not touch this resource at all.
	ScopeDenied ScopeKind = iota
	// ScopeSelf restricts queries to the actor's own records.
	ScopeSelf
	// ScopeAll applies no owner filter.
	ScopeAll
	// ScopeSpecific restricts queries to one explicitly requested owner.
	ScopeSpecific
)

// Scope is the effective query scope for a (role, resource) pair
type Scope struct {
	Kind    ScopeKind
	OwnerID string // set only for ScopeSpecific
}

// Actor is the authenticated identity a request runs as. The identity
// provider is trusted verbatim.
type Actor struct {
	ID   string
	Role model.Role
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// professional roles may read other users' fitness data when they name a
// subject explicitly
func isProfessional(r model.Role) bool {
	switch r {
	case model.RoleTrainer, model.RoleDoctor, model.RoleDietitian, model.RoleAdmin:
		return true
	}
	return false
}

// Resolve maps (actor, resource, requestedOwner) to an effective scope.
// requestedOwner is the owner a privileged actor asked for; it is ignored
// for actors whose role cannot request other subjects.
func Resolve(actor Actor, resource Resource, requestedOwner string) Scope {
	switch resource {
	case ResourceActivity, ResourceWeightLog:
		if requestedOwner != "" && isProfessional(actor.Role) {
			return Scope{Kind: ScopeSpecific, OwnerID: requestedOwner}
		}
		return Scope{Kind: ScopeSelf}

	case ResourceMeal:
		if isProfessional(actor.Role) {
			if requestedOwner != "" {
				return Scope{Kind: ScopeSpecific, OwnerID: requestedOwner}
			}
			return Scope{Kind: ScopeAll}
		}
		return Scope{Kind: ScopeSelf}

	case ResourceMedicalRecord:
		switch actor.Role {
		case model.RoleDoctor:
			if requestedOwner != "" {
				return Scope{Kind: ScopeSpecific, OwnerID: requestedOwner}
			}
			return Scope{Kind: ScopeAll}
		case model.RoleUser, model.RoleAdmin:
			return Scope{Kind: ScopeSelf}
		default: // trainer, dietitian
			return Scope{Kind: ScopeDenied}
		}

	case ResourceDietPlan:
		switch actor.Role {
		case model.RoleDoctor, model.RoleDietitian:
			if requestedOwner != "" {
				return Scope{Kind: ScopeSpecific, OwnerID: requestedOwner}
			}
			return Scope{Kind: ScopeAll}
		case model.RoleAdmin:
			return Scope{Kind: ScopeAll}
		case model.RoleUser:
			return Scope{Kind: ScopeSelf}
		default: // trainer
			return Scope{Kind: ScopeDenied}
		}

	case ResourceWorkoutPlan:
		switch actor.Role {
		case model.RoleUser, model.RoleTrainer:
			// Self means "plans the actor participates in": assigned plans
			// for users, authored plans for trainers. The repository filter
			// applies the role-specific participant column.
			return Scope{Kind: ScopeSelf}
		case model.RoleAdmin:
			return Scope{Kind: ScopeAll}
		default: // doctor, dietitian
			return Scope{Kind: ScopeDenied}
		}

	case ResourceUserDirectory:
		if actor.Role == model.RoleAdmin {
			return Scope{Kind: ScopeAll}
		}
		return Scope{Kind: ScopeDenied}
	}

	return Scope{Kind: ScopeDenied}
}

// CanMutate is the post-fetch ownership check for create/update/delete: the
// record's owner (or author) must be the actor unless the actor is an admin.
func CanMutate(actor Actor, ownerID string) bool {
	return actor.IsAdmin() || actor.ID == ownerID
}
