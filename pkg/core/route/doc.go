// Package route resolves declared module connections into edges between the
// modules currently visible.
//
// A connection is declared on the module whose directory holds it. While
// that module is hidden inside a collapsed ancestor, the connection surfaces
// on the nearest visible ancestor; once the module becomes visible it speaks
// for itself again. [Router.Gather] implements that attribution.
//
// Targets are path expressions that need not name a visible module.
// [Router.Resolve] maps them to one, and a target that maps to nothing is
// dropped for the current pass rather than reported as an error.
//
// All connections between the same ordered pair of visible modules become a
// single [Edge] whose thickness grows with the number of members, capped at
// [Config.MaxThickness].
package route
