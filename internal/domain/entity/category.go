package entity

// Category agrupa productos del catálogo.
type Category struct {
	ID   int64
	Name string
}
