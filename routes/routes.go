package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juppuo/tottembo-shop.store/config"
	"github.com/juppuo/tottembo-shop.store/controllers"
	"github.com/juppuo/tottembo-shop.store/middleware"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register(db, cfg))
		auth.POST("/login", controllers.Login(db, cfg))
		auth.POST("/google", controllers.GoogleSignIn(db, cfg))
		auth.POST("/logout", controllers.Logout())
	}

	r.GET("/products", controllers.ListProducts(db))
	r.GET("/products/:slug", controllers.GetProduct(db))
	r.POST("/products", controllers.CreateProduct(db))

	r.GET("/categories", controllers.ListCategories(db))
	r.POST("/categories", controllers.CreateCategory(db))
	r.GET("/categories/:slug", controllers.GetCategory(db))
	r.GET("/category-stats/:id/average-price", controllers.CategoryAveragePrice(db))

	authed := r.Group("/", middleware.RequireAuth(cfg.JWTSecret))
	{
		authed.GET("/profile", controllers.Profile(db))
		authed.POST("/products/:id/reviews", controllers.CreateReview(db))
		authed.GET("/favourites", controllers.ListFavourites(db))
		authed.POST("/favourites/:slug", controllers.AddFavourite(db))
		authed.GET("/cart", controllers.GetCart(db))
		authed.POST("/cart/clear", controllers.ClearCart(db))
		authed.POST("/cart/:product_id/:action", controllers.ToCart(db))
		authed.POST("/checkout", controllers.Checkout(db))
		authed.POST("/payment", controllers.CreateCheckoutSession(db, cfg))
		authed.GET("/payment/success", controllers.PaymentSuccess(db, cfg))
	}

	return r
}
