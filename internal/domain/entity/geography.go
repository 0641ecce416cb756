package entity

// Country país (catálogo de ubicaciones).
type Country struct {
	ID         int64
	ExternalID int64
	Name       string
	ISO2       string
	ISO3       string
}

// Department departamento/estado de un país.
type Department struct {
	ID         int64
	CountryID  int64
	ExternalID int64
	Name       string
	ISO2       string
}

// City ciudad de un departamento.
type City struct {
	ID           int64
	DepartmentID int64
	ExternalID   int64
	Name         string
}
