package entity

import "image/color"

// RenderStyle carries presentation hints. The engine never reads it.
type RenderStyle struct {
	Color color.RGBA `json:"color"`
}

// DefaultStyle is used by renderers for bodies without a style
var DefaultStyle = RenderStyle{Color: color.RGBA{R: 200, G: 200, B: 200, A: 255}}
