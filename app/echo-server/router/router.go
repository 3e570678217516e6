package router

import (
	"net/http"

	"sharpPicks/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupPicksRoutes(api *echo.Group, handler *rest.PicksHandler) {
	api.GET("/picks", handler.GetPicks)
}

func SetupGenerationAdminRoutes(api *echo.Group, handler *rest.GenerationAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/generation", authRequired, adminOnly)

	admin.POST("", handler.Trigger)
	admin.GET("/runs", handler.ListRuns)
}

func SetupTierAdminRoutes(api *echo.Group, handler *rest.TierAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	tiers := api.Group("/admin/tiers", authRequired, adminOnly)

	tiers.GET("", handler.List)
	tiers.PUT("", handler.Upsert)
}

func SetupOpsRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
