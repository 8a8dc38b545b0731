package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API on router
func RegisterRoutes(router *gin.Engine) {
	router.GET("/", APIRoot)

	api := router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		restaurants := api.Group("/restaurants")
		{
			restaurants.GET("", ListRestaurants)
			restaurants.GET("/filters/options", GetFilterOptions)
			restaurants.GET("/stats", GetRestaurantStats)
			restaurants.GET("/:id", GetRestaurant)
			restaurants.POST("", CreateRestaurant)
			restaurants.PUT("/:id", UpdateRestaurant)
			restaurants.DELETE("/:id", DeleteRestaurant)
		}
	}

	router.NoRoute(NotFound)
}
