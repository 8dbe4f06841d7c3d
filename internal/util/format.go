// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"math"
	"strconv"
)

// FormatFloat converts a float64 to a string with the given number of
// decimal places.
func FormatFloat(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

// Ftoa converts a float64 to its shortest exact decimal representation.
// Two floats compare equal exactly when their Ftoa strings match, which
// makes the output usable as a map key.
func Ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatFlux formats an intensity sample for the readout. Values far from
// unit scale switch to scientific notation so the status bar width stays
// stable.
func FormatFlux(v float64) string {
	av := math.Abs(v)
	if av != 0 && (av >= 1e4 || av < 1e-3) {
		return strconv.FormatFloat(v, 'e', 3, 64)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// ClampInt limits v to the inclusive range [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
