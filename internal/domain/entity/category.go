package entity

import "time"

// Category agrupa productos del catálogo.
type Category struct {
	ID          string
	Name        string
	Slug        string // único
	Description string
	ImageURL    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Brand marca comercial de un producto.
type Brand struct {
	ID          string
	Name        string
	Slug        string // único
	Description string
	LogoURL     string
	Website     string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
