// Package multiphysics collects the weak-form model problems the assembly
// engine integrates and the derivative oracle verifies. Every model is
// generic over the working scalar so the complex-step check can push an
// imaginary perturbation through the same code production assembly runs.
package multiphysics

import "github.com/notargets/gofea/fespace"

// GeometryLayout is the three dimensional coordinate field every model
// shares: one H1 subspace with three components.
func GeometryLayout() fespace.Layout {
	return fespace.NewLayout(fespace.SubSpace{Name: "X", Kind: fespace.H1, C: 3, D: 3})
}

func scalarH1Layout(name string) fespace.Layout {
	return fespace.NewLayout(fespace.SubSpace{Name: name, Kind: fespace.H1, C: 1, D: 3})
}
