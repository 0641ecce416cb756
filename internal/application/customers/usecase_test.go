package customers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/memory"
)

func customerRequest(doc string) dto.CustomerRequest {
	return dto.CustomerRequest{FirstName: "Laura", LastName: "Restrepo", DocumentNumber: doc, Phone: "300 123 4567", City: "Medellín"}
}

func TestCreate_NormalizaTelefonoYValoresPorDefecto(t *testing.T) {
	uc := NewUseCase(memory.New(), nil)

	c, err := uc.Create(context.Background(), customerRequest("43123456"))
	require.NoError(t, err)

	assert.Equal(t, "+573001234567", c.Phone)
	assert.Equal(t, entity.CustomerTypeNormal, c.CustomerType)
	assert.Equal(t, "CC", c.DocumentType)
	assert.Equal(t, "Laura Restrepo", c.FullName)
	assert.True(t, c.IsActive)
}

func TestCreate_DocumentoDuplicadoYTelefonoInvalido(t *testing.T) {
	uc := NewUseCase(memory.New(), nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, customerRequest("43123456"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, customerRequest("43123456"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	in := customerRequest("1000000001")
	in.Phone = "123"
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_AuditaSoloLosCamposCambiados(t *testing.T) {
	s := memory.New()
	uc := NewUseCase(s, audit.NewRecorder(s, nil, nil, 0, 0))
	ctx := context.Background()

	c, err := uc.Create(ctx, customerRequest("43123456"))
	require.NoError(t, err)
	in := customerRequest("43123456")
	in.City = "Envigado"
	_, err = uc.Update(ctx, c.ID, in)
	require.NoError(t, err)

	list, _, err := s.AuditLogs().List(ctx, repository.AuditFilter{
		EntityType: entity.AuditEntityCustomer, Action: entity.AuditActionUpdate, Page: repository.Page{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	var newValues map[string]any
	require.NoError(t, json.Unmarshal(list[0].NewValues, &newValues))
	assert.Equal(t, map[string]any{"city": "Envigado"}, newValues)
}

func TestAddresses_UnaSolaPorDefecto(t *testing.T) {
	uc := NewUseCase(memory.New(), nil)
	ctx := context.Background()
	c, err := uc.Create(ctx, customerRequest("43123456"))
	require.NoError(t, err)

	home, err := uc.AddAddress(ctx, c.ID, dto.AddressRequest{Name: "Casa", Address: "Cl 10 # 43-12", City: "Medellín"})
	require.NoError(t, err)
	assert.True(t, home.IsDefault, "la primera dirección queda por defecto")

	office, err := uc.AddAddress(ctx, c.ID, dto.AddressRequest{Name: "Oficina", Address: "Cra 43A # 1-50", City: "Medellín", IsDefault: true})
	require.NoError(t, err)

	list, err := uc.ListAddresses(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, a := range list {
		assert.Equal(t, a.ID == office.ID, a.IsDefault, a.Name)
	}

	require.NoError(t, uc.SetDefaultAddress(ctx, c.ID, home.ID))
	list, err = uc.ListAddresses(ctx, c.ID)
	require.NoError(t, err)
	for _, a := range list {
		assert.Equal(t, a.ID == home.ID, a.IsDefault, a.Name)
	}
}

func TestAddresses_DeOtroCliente404(t *testing.T) {
	uc := NewUseCase(memory.New(), nil)
	ctx := context.Background()
	a, err := uc.Create(ctx, customerRequest("43123456"))
	require.NoError(t, err)
	b, err := uc.Create(ctx, customerRequest("71999888"))
	require.NoError(t, err)

	addr, err := uc.AddAddress(ctx, a.ID, dto.AddressRequest{Name: "Casa", Address: "Cl 1", City: "Bello"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.DeleteAddress(ctx, b.ID, addr.ID), domain.ErrNotFound)
	assert.ErrorIs(t, uc.SetDefaultAddress(ctx, b.ID, addr.ID), domain.ErrNotFound)
}
