// Package guard holds ConstructorGuard, a marker embedded into value objects,
// entities and commands so that zero values can be told apart from instances
// built through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing struct was produced by its constructor.
//
// Example:
//
//	type Slot struct {
//	    window time.Duration
//	    guard  guard.ConstructorGuard
//	}
//
//	func NewSlot(window time.Duration) Slot {
//	    return Slot{window: window, guard: guard.NewConstructorGuard()}
//	}
//
//	func (s Slot) Validate() error {
//	    return s.guard.Validate(ErrSlotNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
