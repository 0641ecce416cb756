package main

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/pkg/config"
)

func TestNewApp_LogDeRequestsSoloEnDevelopment(t *testing.T) {
	cases := []struct {
		env    string
		logged bool
	}{
		{"development", true},
		{"production", false},
	}
	for _, tc := range cases {
		t.Run(tc.env, func(t *testing.T) {
			var buf bytes.Buffer
			app := newApp(config.AppConfig{Env: tc.env, Name: "naturalmede-api"}, &buf)
			app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

			resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.logged, bytes.Contains(buf.Bytes(), []byte("GET /ping")))
		})
	}
}

func TestNewApp_RecuperaPanic(t *testing.T) {
	app := newApp(config.AppConfig{Env: "production"}, nil)
	app.Get("/boom", func(*fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
