// Package tui is the interactive terminal viewer.
//
// The viewer drives an [interact.Controller] from keyboard and mouse events.
// Terminal cells are mapped onto screen pixels at a fixed cell size, so the
// controller sees the same pointer coordinates a graphical front end would
// send and the camera, layout and routing behave identically.
//
// Keys:
//
//	arrows, hjkl   pan
//	+ / -          zoom around the centre
//	tab, shift+tab cycle the selected module
//	enter, space   expand or collapse the selection
//	e / c          expand all / collapse all
//	r / R          reset the view / reset the layout
//	esc            cancel a drag
//	q, ctrl+c      quit
//
// The mouse wheel zooms around the pointer and dragging a module moves it.
package tui
