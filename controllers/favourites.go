package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juppuo/tottembo-shop.store/middleware"
	"github.com/juppuo/tottembo-shop.store/models"
)

func ListFavourites(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var favourites []models.FavouriteProduct
		err := db.Preload("Product").Preload("Product.Images").
			Where("user_id = ?", middleware.UserID(c)).Find(&favourites).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, favourites)
	}
}

func AddFavourite(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Where("slug = ?", c.Param("slug")).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		favourite := models.FavouriteProduct{
			UserID:    middleware.UserID(c),
			ProductID: product.ID,
		}
		if err := db.Create(&favourite).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, favourite)
	}
}
