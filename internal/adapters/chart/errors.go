package chart

import "errors"

// Sentinel error kinds for chart rendering.
var (
	ErrInvalidChart = errors.New("invalid chart")
	ErrRender       = errors.New("chart render failed")
)
