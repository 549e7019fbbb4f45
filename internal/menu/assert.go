package menu

import (
	"errors"

	"github.com/atomicstack/menutrack/internal/logging"
)

var (
	// ErrItemOwned is returned when an item that already belongs to a menu is
	// added to another one.
	ErrItemOwned = errors.New("menu: item already belongs to a menu")
	// ErrSubmenuOwned is returned when a menu is attached as the submenu of
	// a second item.
	ErrSubmenuOwned = errors.New("menu: submenu already owned by another item")
	// ErrCycle is returned when attaching a submenu would make a menu its own
	// ancestor.
	ErrCycle = errors.New("menu: submenu would create a cycle")
	// ErrDestroyed is returned for operations on a destroyed menu.
	ErrDestroyed = errors.New("menu: menu destroyed")
	// ErrIndexRange is returned for insert positions outside the item list.
	ErrIndexRange = errors.New("menu: index out of range")
)

// assertTopology reports a programming error. Builds tagged menudebug panic;
// release builds log the error and let the caller drop the request.
func assertTopology(err error) error {
	if debugAssertions {
		panic(err)
	}
	logging.Error(err)
	return err
}

// AssertTopology exposes the programming-error policy to the engine packages.
func AssertTopology(err error) error {
	if err == nil {
		return nil
	}
	return assertTopology(err)
}
