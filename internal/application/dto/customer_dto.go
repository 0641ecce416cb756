package dto

import "time"

// CustomerRequest entrada para crear o actualizar un cliente.
type CustomerRequest struct {
	FirstName      string     `json:"first_name" validate:"required,max=100"`
	LastName       string     `json:"last_name" validate:"omitempty,max=100"`
	Email          string     `json:"email" validate:"omitempty,email"`
	CustomerType   string     `json:"customer_type" validate:"omitempty,oneof=normal vip"`
	DocumentType   string     `json:"document_type" validate:"omitempty,oneof=CC CE NIT PP TI"`
	DocumentNumber string     `json:"document_number" validate:"required,max=20"`
	Phone          string     `json:"phone" validate:"omitempty,max=20"`
	Address        string     `json:"address"`
	City           string     `json:"city" validate:"omitempty,max=100"`
	BirthDate      *time.Time `json:"birth_date"`
	Channel        string     `json:"channel" validate:"omitempty,oneof=instagram facebook whatsapp google referral walk_in website email phone other"`
	Notes          string     `json:"notes"`
	IsActive       *bool      `json:"is_active"`
}

// CustomerFilterRequest filtros del listado de clientes.
type CustomerFilterRequest struct {
	Search       string `query:"search"`
	CustomerType string `query:"customer_type"`
	Active       *bool  `query:"active"`
	PageRequest
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id,omitempty"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email,omitempty"`
	CustomerType   string     `json:"customer_type"`
	DocumentType   string     `json:"document_type"`
	DocumentNumber string     `json:"document_number"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address,omitempty"`
	City           string     `json:"city,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Channel        string     `json:"channel,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AddressRequest entrada para una dirección de envío.
type AddressRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Notes     string `json:"notes"`
	IsDefault bool   `json:"is_default"`
}

// AddressResponse salida de una dirección.
type AddressResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Phone      string `json:"phone,omitempty"`
	Notes      string `json:"notes,omitempty"`
	IsDefault  bool   `json:"is_default"`
}

// CountryResponse país.
type CountryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
}

// DepartmentResponse departamento.
type DepartmentResponse struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Name      string `json:"name"`
	ISO2      string `json:"iso2"`
}

// CityResponse ciudad.
type CityResponse struct {
	ID           int64  `json:"id"`
	DepartmentID int64  `json:"department_id"`
	Name         string `json:"name"`
}
