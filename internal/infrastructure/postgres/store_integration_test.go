//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/pkg/config"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

// newTestStore levanta PostgreSQL en un contenedor, aplica migraciones y devuelve el Store.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("naturalmede_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := NewMigrator(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewStore(pool)
}

func seedProductAndWarehouse(t *testing.T, s *Store) (*entity.Product, *entity.Warehouse) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	p := &entity.Product{
		ID: uuid.NewString(), Name: "Jabón de avena", Slug: "jabon-de-avena", SKU: "JAB-001",
		Price: decimal.NewFromInt(12000), CostPrice: decimal.NewFromInt(7000), IVAPercentage: decimal.NewFromInt(19),
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Products().Create(ctx, p))
	w := &entity.Warehouse{
		ID: uuid.NewString(), Name: "Principal", Code: "PRIN", IsActive: true, IsMain: true,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Warehouses().Create(ctx, w))
	return p, w
}

func TestStore_Integracion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p, w := seedProductAndWarehouse(t, s)

	t.Run("Apply nunca deja saldo negativo", func(t *testing.T) {
		before, after, err := s.Stock().Apply(ctx, p.ID, w.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, before)
		assert.Equal(t, 10, after)

		_, _, err = s.Stock().Apply(ctx, p.ID, w.ID, -11)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		st, err := s.Stock().Get(ctx, p.ID, w.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, st.Quantity)
	})

	t.Run("Run revierte ante error", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.Run(ctx, func(tx ports.Repositories) error {
			if _, _, err := tx.Stock().Apply(ctx, p.ID, w.ID, -4); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		total, err := s.Stock().TotalByProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, total)
	})

	t.Run("Lock devuelve cero para filas inexistentes", func(t *testing.T) {
		err := s.Run(ctx, func(tx ports.Repositories) error {
			got, err := tx.Stock().Lock(ctx, []repository.StockKey{
				{ProductID: p.ID, WarehouseID: w.ID},
				{ProductID: uuid.NewString(), WarehouseID: w.ID},
			})
			require.NoError(t, err)
			assert.Equal(t, 10, got[repository.StockKey{ProductID: p.ID, WarehouseID: w.ID}])
			assert.Len(t, got, 2)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("Consecutivos por clave", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			n, err := s.Sequences().Next(ctx, "PR20250930")
			require.NoError(t, err)
			assert.Equal(t, want, n)
		}
		n, err := s.Sequences().Next(ctx, "AU20250930")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Una sola sesion POS abierta por usuario", func(t *testing.T) {
		now := time.Now().UTC()
		open := func() error {
			return s.POSSessions().Create(ctx, &entity.POSSession{
				ID: uuid.NewString(), SessionID: entity.NewPOSSessionID(now), UserID: "vendedor-1",
				WarehouseID: w.ID, Status: entity.POSSessionOpen, OpenedAt: now,
			})
		}
		require.NoError(t, open())
		assert.ErrorIs(t, open(), domain.ErrSessionAlreadyOpen)

		got, err := s.POSSessions().GetOpenByUser(ctx, "vendedor-1")
		require.NoError(t, err)
		assert.Equal(t, w.ID, got.WarehouseID)
	})

	t.Run("NotFound y duplicados se traducen a errores de dominio", func(t *testing.T) {
		_, err := s.Products().GetByID(ctx, uuid.NewString())
		assert.True(t, domain.IsNotFound(err))

		_, err = s.Warehouses().GetByCode(ctx, "prin")
		assert.NoError(t, err)

		dup := *w
		dup.ID = uuid.NewString()
		dup.Code = "prin"
		assert.ErrorIs(t, s.Warehouses().Create(ctx, &dup), domain.ErrDuplicate)
	})

	t.Run("Configuracion de auditoria conserva arreglos vacios", func(t *testing.T) {
		cfg := entity.DefaultAuditConfiguration(entity.AuditEntityProduct)
		cfg.ID = uuid.NewString()
		require.NoError(t, s.AuditConfigs().Upsert(ctx, &cfg))
		firstID := cfg.ID

		cfg.ID = uuid.NewString()
		cfg.ExcludeFields = []string{"stock"}
		require.NoError(t, s.AuditConfigs().Upsert(ctx, &cfg))
		assert.Equal(t, firstID, cfg.ID)

		got, err := s.AuditConfigs().GetByEntityType(ctx, entity.AuditEntityProduct)
		require.NoError(t, err)
		assert.Equal(t, []string{"stock"}, got.ExcludeFields)
		assert.Empty(t, got.TrackFields)
	})

	t.Run("Reporte de inventario valoriza a costo", func(t *testing.T) {
		rows, err := s.Reports().InventoryRows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Value.Equal(decimal.NewFromInt(70000)))
		assert.Equal(t, "Principal", rows[0].WarehouseName)
	})
}
