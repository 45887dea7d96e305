package wtemplate

import "errors"

var (
	// ErrWidgetBound is returned when a widget is bound to a second
	// variable while still bound to a first.
	ErrWidgetBound = errors.New("wtemplate: widget already bound to another variable")

	// ErrNotFound is returned when removing a widget that is not bound.
	ErrNotFound = errors.New("wtemplate: widget not bound")
)
