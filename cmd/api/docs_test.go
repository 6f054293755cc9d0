package main

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerUI_SinArchivoNoSeRegistra(t *testing.T) {
	var (
		h  fiber.Handler
		ok bool
	)
	require.NotPanics(t, func() {
		h, ok = swaggerUI(filepath.Join(t.TempDir(), "swagger.json"))
	})
	assert.False(t, ok)
	assert.Nil(t, h)

	_, ok = swaggerUI(t.TempDir())
	assert.False(t, ok, "un directorio no es una especificación")
}

func TestSwaggerUI_ConArchivoSirveDocs(t *testing.T) {
	file := filepath.Join(t.TempDir(), "swagger.json")
	spec := `{"swagger":"2.0","info":{"title":"Panadería Stock API","version":"1.0"},"paths":{}}`
	require.NoError(t, os.WriteFile(file, []byte(spec), 0o600))

	h, ok := swaggerUI(file)
	require.True(t, ok)

	app := fiber.New()
	app.Use(h)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/docs", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
