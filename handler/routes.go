package handler

import (
	"github.com/AnTengye/carrierdiscounts/middleware"
	"github.com/gin-gonic/gin"
)

// LegacyDiscountsPath is the path earlier clients post queries to.
const LegacyDiscountsPath = "/get-discounts/"

// Register mounts the service routes on router. Binding errors from then on
// report JSON field names.
func Register(router gin.IRouter, discounts *DiscountHandler, health *HealthHandler) {
	middleware.UseJSONFieldNames()

	router.GET("/health", health.Health)
	router.POST(LegacyDiscountsPath, discounts.Query)

	api := router.Group("/api")
	{
		api.POST("/discounts", discounts.Query)
		api.GET("/sheets", discounts.Sheets)
	}
}
