// seed carga los datos base: ubicaciones de Colombia desde el XML de municipios (código DANE),
// configuraciones de auditoría por defecto, el usuario administrador y la bodega principal.
//
// Uso: go run ./cmd/seed [-municipios Municipios.xml] [-admin-email admin@naturalmede.co -admin-password secreto123]
package main

import (
	"context"
	"encoding/xml"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/auth"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/inventory"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/postgres"
	"github.com/jhoicas/naturalmede-api/pkg/config"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

// colombiaExternalID código ISO 3166 numérico.
const colombiaExternalID = 170

type parametros struct {
	Tabla struct {
		Valores []valor `xml:"valor"`
	} `xml:"tabla"`
}

type valor struct {
	Cod    string `xml:"cod,attr"`
	Nombre string `xml:"nombre,attr"`
	Otro   struct {
		Codigo string `xml:"codigo,attr"`
		Valor  string `xml:"valor,attr"`
	} `xml:"otro"`
}

type municipio struct {
	code     int64
	name     string
	deptCode int64
}

func main() {
	xmlPath := flag.String("municipios", "", "ruta de Municipios.xml (vacío = no carga ubicaciones)")
	adminEmail := flag.String("admin-email", "", "email del administrador inicial")
	adminPassword := flag.String("admin-password", "", "contraseña del administrador inicial")
	adminName := flag.String("admin-name", "Administrador", "nombre del administrador inicial")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name}).Named("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	if *xmlPath != "" {
		depts, cities, err := readMunicipios(*xmlPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *xmlPath).Msg("leer municipios")
		}
		if err := seedLocations(ctx, store, depts, cities); err != nil {
			log.Fatal().Err(err).Msg("cargar ubicaciones")
		}
		log.Info().Int("departments", len(depts)).Int("cities", len(cities)).Msg("ubicaciones cargadas")
	}

	created, err := audit.NewUseCase(store, nil, log).SeedDefaults(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("configuraciones de auditoría")
	}
	log.Info().Int("created", created).Msg("configuraciones de auditoría")

	if *adminEmail != "" {
		authUC := auth.NewAuthUseCase(store.Users(), nil, auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer})
		_, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
			Email: *adminEmail, Password: *adminPassword, Name: *adminName, Role: entity.RoleAdmin,
		})
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			log.Info().Str("email", *adminEmail).Msg("el administrador ya existe")
		case err != nil:
			log.Fatal().Err(err).Msg("crear administrador")
		default:
			log.Info().Str("email", *adminEmail).Msg("administrador creado")
		}
	}

	inv := inventory.NewUseCase(store, nil, nil, log)
	warehouses, err := inv.ListWarehouses(ctx, false)
	if err != nil {
		log.Fatal().Err(err).Msg("listar bodegas")
	}
	if len(warehouses) == 0 {
		w, err := inv.CreateWarehouse(ctx, dto.WarehouseRequest{Name: "Bodega principal", Code: "PRINCIPAL", IsMain: true})
		if err != nil {
			log.Fatal().Err(err).Msg("crear bodega principal")
		}
		log.Info().Str("warehouse_id", w.ID).Msg("bodega principal creada")
	}
}

func readMunicipios(path string) (map[int64]string, []municipio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var p parametros
	dec := xml.NewDecoder(f)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&p); err != nil {
		return nil, nil, fmt.Errorf("decodificar XML: %w", err)
	}

	depts := make(map[int64]string)
	var cities []municipio
	for _, v := range p.Tabla.Valores {
		code, err1 := strconv.ParseInt(strings.TrimSpace(v.Cod), 10, 64)
		dept, err2 := strconv.ParseInt(strings.TrimSpace(v.Otro.Codigo), 10, 64)
		if err1 != nil || err2 != nil || v.Nombre == "" || v.Otro.Valor == "" {
			continue
		}
		depts[dept] = strings.TrimSpace(v.Otro.Valor)
		cities = append(cities, municipio{code: code, name: strings.TrimSpace(v.Nombre), deptCode: dept})
	}
	return depts, cities, nil
}

func seedLocations(ctx context.Context, uow ports.UnitOfWork, depts map[int64]string, cities []municipio) error {
	codes := make([]int64, 0, len(depts))
	for c := range depts {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return uow.Run(ctx, func(tx ports.Repositories) error {
		country := &entity.Country{ExternalID: colombiaExternalID, Name: "Colombia", ISO2: "CO", ISO3: "COL"}
		if err := tx.Locations().UpsertCountry(ctx, country); err != nil {
			return err
		}
		ids := make(map[int64]int64, len(codes))
		for _, code := range codes {
			d := &entity.Department{CountryID: country.ID, ExternalID: code, Name: depts[code]}
			if err := tx.Locations().UpsertDepartment(ctx, d); err != nil {
				return err
			}
			ids[code] = d.ID
		}
		for _, m := range cities {
			c := &entity.City{DepartmentID: ids[m.deptCode], ExternalID: m.code, Name: m.name}
			if err := tx.Locations().UpsertCity(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}
