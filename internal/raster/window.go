package raster

import (
	"math"

	"github.com/rotisserie/eris"
)

// CellsForDistance converts a ground distance in meters into a window radius
// in cells. The window diameter is the rounded cell count spanning the
// distance, forced odd so the window centers on the target cell; the radius
// is half that diameter. Distances at or below zero floor to the minimum
// radius of 1 (a 3x3 window) rather than erroring.
func CellsForDistance(groundDistanceMeters, cellResolutionMeters float64) (int, error) {
	if cellResolutionMeters <= 0 {
		return 0, eris.Errorf("raster: invalid cell resolution %f", cellResolutionMeters)
	}

	diameter := int(math.Round(groundDistanceMeters / cellResolutionMeters))
	if diameter%2 == 0 {
		diameter++
	}

	radius := diameter / 2
	if radius < 1 {
		radius = 1
	}
	return radius, nil
}

// WindowSize returns the cell count along one axis of a window with the
// given radius.
func WindowSize(radius int) int {
	return 2*radius + 1
}
