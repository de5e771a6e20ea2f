package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"montapulse/internal/application"
	"montapulse/internal/domain/model"
	"montapulse/internal/domain/repository"
	"montapulse/internal/infrastructure/auth"
)

// RegisterValidations installs the custom binding validators. Call once
// before building the router.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("sector", func(fl validator.FieldLevel) bool {
			_, ok := model.ParseSector(fl.Field().String())
			return ok
		})
	}
}

// adminRequired rejects requests while no admin session is active.
func adminRequired(dashboard *application.Dashboard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !dashboard.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Admin role required",
			})
			return
		}
		c.Next()
	}
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(
	dashboard *application.Dashboard,
	recommendations repository.RecommendationsRepository,
	authClient *auth.Client,
) *gin.Engine {
	RegisterValidations()

	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	businesses := NewBusinessesHandler(dashboard)
	events := NewEventsHandler(dashboard)
	maps := NewMapHandler(dashboard)
	ai := NewAIHandler(dashboard, recommendations)
	authH := NewAuthHandler(dashboard, authClient)

	api := r.Group("/api")
	{
		api.GET("/businesses", businesses.GetBusinesses)
		api.POST("/businesses/register", businesses.RegisterBusiness)

		api.GET("/events", events.GetEvents)
		api.GET("/events/favorites", events.GetFavorites)
		api.POST("/events", events.CreateEvent)
		api.PUT("/events/:id", events.UpdateEvent)
		api.DELETE("/events/:id", events.DeleteEvent)
		api.POST("/events/:id/interest", events.ToggleInterest)
		api.POST("/events/:id/favorite", events.ToggleFavorite)

		api.GET("/map/layers", maps.GetLayers)
		api.POST("/map/basemap", maps.ToggleBasemap)
		api.POST("/map/resize", maps.Resize)
		api.POST("/map/view", maps.UpdateView)
		api.GET("/sectors", maps.GetSectors)

		api.POST("/ai/recommendations", ai.Recommendations)
		api.POST("/ai/description", ai.Description)

		api.POST("/auth/signin", authH.SignIn)
		api.POST("/auth/signup", authH.SignUp)
		api.POST("/auth/session", authH.Session)
		api.POST("/auth/signout", authH.SignOut)
	}

	admin := r.Group("/api", adminRequired(dashboard))
	{
		admin.POST("/businesses", businesses.CreateBusiness)
		admin.PUT("/businesses/:id", businesses.EditBusiness)
		admin.DELETE("/businesses/:id", businesses.DeleteBusiness)
		admin.PUT("/businesses/:id/location", businesses.UpdateLocation)

		admin.POST("/sectors/:sector/edit", maps.BeginEdit)
		admin.POST("/sectors/:sector/points", maps.AddPoint)
		admin.POST("/sectors/:sector/pointer", maps.MovePointer)
		admin.POST("/sectors/:sector/undo", maps.Undo)
		admin.POST("/sectors/:sector/confirm", maps.ConfirmEdit)
		admin.DELETE("/sectors/:sector/edit", maps.CancelEdit)
		admin.PUT("/sectors/:sector/label", maps.RenameSector)
	}

	return r
}
