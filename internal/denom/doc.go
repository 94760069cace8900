// Package denom converts between scalar totals and weighted unit counts.
// Decompose performs a single greedy pass over the units in descending value
// order; it is deliberately not an optimal change-making solver and will
// report a remainder for some totals that a search could represent exactly.
// Total is the inverse summation, rejecting counts for units that are not in
// the value map.
package denom
