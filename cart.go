package main

// Cart is the player-controlled collector at the bottom of the field.
// Input handlers are the only writer of X; the tick loop only reads it.
type Cart struct {
	X     float64 // left edge
	Width float64
}

// NewCart centers the cart for the given config
func NewCart(cfg *SimConfig) Cart {
	return Cart{
		X:     (cfg.FieldWidth - cfg.CartWidth) / 2,
		Width: cfg.CartWidth,
	}
}

// MoveTo places the cart's left edge, clamped to the field
func (c *Cart) MoveTo(x, fieldW float64) {
	c.X = Clamp(x, 0, fieldW-c.Width)
}

// MoveBy shifts the cart by a pointer delta, clamped to the field
func (c *Cart) MoveBy(dx, fieldW float64) {
	c.MoveTo(c.X+dx, fieldW)
}

// Step moves the cart one discrete step left (dir < 0) or right (dir > 0)
func (c *Cart) Step(dir int, step, fieldW float64) {
	if dir < 0 {
		c.MoveTo(c.X-step, fieldW)
	} else if dir > 0 {
		c.MoveTo(c.X+step, fieldW)
	}
}
