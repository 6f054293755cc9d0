package main

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
)

const swaggerFile = "./docs/swagger.json"

// swaggerUI devuelve el middleware de Swagger si existe el archivo de especificación.
// swagger.New entra en pánico cuando el archivo no existe.
func swaggerUI(filePath string) (fiber.Handler, bool) {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return nil, false
	}
	return swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    "Panadería Stock API",
	}), true
}
