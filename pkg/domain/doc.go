// Package domain contains the plain, serializable types exchanged between the
// manifold core and its collaborators: topology specifications, tension
// records, attractors, glyphs, configuration and lifecycle hooks.
//
// Types here carry no behavior beyond validation and defensive copying. The
// algorithmic core lives in internal/runtime; persistence lives behind the
// ports in pkg/ports.
package domain
