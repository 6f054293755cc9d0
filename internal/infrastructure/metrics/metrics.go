// Package metrics expone métricas Prometheus del motor de stock: movimientos confirmados,
// rechazos por código de error y latencia HTTP.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

const namespace = "panaderia"

var _ ports.MovementNotifier = (*Metrics)(nil)

// Metrics registro propio (no el global) con los colectores del servicio.
type Metrics struct {
	registry *prometheus.Registry

	MovementsTotal      *prometheus.CounterVec
	MovedQuantity       *prometheus.CounterVec
	RejectionsTotal     *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New crea el registro con las métricas de Go y del proceso.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MovementsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Movimientos de stock confirmados por tipo",
		}, []string{"kind"}),
		MovedQuantity: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_moved_quantity_total",
			Help:      "Cantidad movida por tipo (suma de unidades de todos los ítems)",
		}, []string{"kind"}),
		RejectionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_rejected_total",
			Help:      "Peticiones rechazadas por código de error",
		}, []string{"code"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de peticiones HTTP",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de peticiones HTTP en segundos",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
	}
}

// MovementsCommitted cuenta los movimientos ya confirmados.
func (m *Metrics) MovementsCommitted(_ context.Context, movements []*entity.StockMovement) {
	for _, mv := range movements {
		kind := string(mv.Kind)
		m.MovementsTotal.WithLabelValues(kind).Inc()
		m.MovedQuantity.WithLabelValues(kind).Add(mv.Quantity.InexactFloat64())
	}
}

// Middleware mide cada petición. errorCodeKey es la clave de fiber.Locals donde el manejo de
// errores deja el código; sin código, un 4xx/5xx se cuenta como HTTP_<status>.
func (m *Metrics) Middleware(errorCodeKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		// plantilla de la ruta para no abrir una serie por ID
		// fiber reutiliza sus buffers: las etiquetas se copian antes de guardarlas
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Route().Path)
		m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		if status >= fiber.StatusBadRequest {
			code, _ := c.Locals(errorCodeKey).(string)
			if code == "" {
				code = "HTTP_" + strconv.Itoa(status)
			}
			m.RejectionsTotal.WithLabelValues(utils.CopyString(code)).Inc()
		}
		return err
	}
}

// Handler sirve el registro en formato de exposición de Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}

// Registry para pruebas o para registrar colectores adicionales.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
