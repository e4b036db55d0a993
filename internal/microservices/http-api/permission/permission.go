// Package permission decides whether an actor may perform an action on a
// resource. Decisions are pure; callers pass the acting user explicitly.
package permission

import (
	"errors"

	"yamdb/internal/microservices/http-api/models"
)

var (
	// ErrAuthenticationRequired maps to 401.
	ErrAuthenticationRequired = errors.New("authentication credentials were not provided")
	// ErrPermissionDenied maps to 403.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
)

type Action int

const (
	Read Action = iota
	Create
	Update
	Delete
)

// Safe reports whether the action leaves state unchanged.
func (a Action) Safe() bool {
	return a == Read
}

type Resource int

const (
	Users Resource = iota // /users/ collection and /users/{username}/
	Me                    // /users/me/
	Category
	Genre
	Title
	Review
	Comment
)

// Actor is the authenticated principal, or the zero value for anonymous requests.
type Actor struct {
	Authenticated bool
	Role          models.Role
	Superuser     bool
}

// ActorOf converts the request user into an Actor; nil means anonymous.
func ActorOf(u *models.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{Authenticated: true, Role: u.Role, Superuser: u.IsSuperuser}
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated && (a.Role == models.RoleAdmin || a.Superuser)
}

func (a Actor) IsModerator() bool {
	return a.Authenticated && a.Role == models.RoleModerator
}

// Authorize returns nil when the action is allowed. isOwner tells whether the
// actor authored the target record and only matters for reviews and comments.
func Authorize(actor Actor, res Resource, act Action, isOwner bool) error {
	if !actor.Authenticated {
		if act.Safe() && publicRead(res) {
			return nil
		}
		return ErrAuthenticationRequired
	}

	var allowed bool
	switch res {
	case Users:
		allowed = actor.IsAdmin()
	case Me:
		allowed = act == Read || act == Update
	case Category, Genre:
		allowed = act == Read || ((act == Create || act == Delete) && actor.IsAdmin())
	case Title:
		allowed = act.Safe() || actor.IsAdmin()
	case Review, Comment:
		switch act {
		case Read, Create:
			allowed = true
		default:
			allowed = isOwner || actor.IsModerator() || actor.IsAdmin()
		}
	}

	if !allowed {
		return ErrPermissionDenied
	}
	return nil
}

// CanChangeRole reports whether the actor's writes to a user's role take effect.
func CanChangeRole(actor Actor) bool {
	return actor.IsAdmin()
}

func publicRead(res Resource) bool {
	switch res {
	case Category, Genre, Title, Review, Comment:
		return true
	}
	return false
}
