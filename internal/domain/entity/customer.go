package entity

import (
	"strings"
	"time"
)

// Tipos de cliente.
const (
	CustomerTypeNormal = "normal"
	CustomerTypeVIP    = "vip"
)

// ChannelWebsite canal de los clientes creados en el checkout web.
const ChannelWebsite = "website"

// Canales de llegada del cliente.
var CustomerChannels = []string{
	"instagram", "facebook", "whatsapp", "google", "referral",
	"walk_in", "website", "email", "phone", "other",
}

// Customer cliente de la tienda (web o física). Puede estar ligado a un usuario.
type Customer struct {
	ID             string
	UserID         string // opcional
	FirstName      string
	LastName       string
	Email          string
	CustomerType   string
	DocumentType   string // CC, CE, NIT, PP
	DocumentNumber string // único
	Phone          string // E.164
	Address        string
	City           string
	BirthDate      *time.Time
	Channel        string
	Notes          string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombre completo o el documento si no hay nombre.
func (c *Customer) FullName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.DocumentNumber
	}
	return name
}

// CustomerAddress dirección de envío adicional; una sola por defecto por cliente.
type CustomerAddress struct {
	ID         string
	CustomerID string
	Name       string
	Address    string
	City       string
	Phone      string
	Notes      string
	IsDefault  bool
	CreatedAt  time.Time
}
