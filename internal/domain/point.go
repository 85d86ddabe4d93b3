package domain

// Point is a geographic coordinate.
type Point struct {
	Lat float64
	Lng float64
}
