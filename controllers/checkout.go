package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juppuo/tottembo-shop.store/cart"
	"github.com/juppuo/tottembo-shop.store/middleware"
	"github.com/juppuo/tottembo-shop.store/models"
)

// Checkout records the buyer's names and a shipping address against the open
// order. The order stays open until payment succeeds.
func Checkout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Address   string `json:"address" binding:"required"`
			City      string `json:"city" binding:"required"`
			Region    string `json:"region"`
			Phone     string `json:"phone" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		userID := middleware.UserID(c)

		customer, err := cart.GetOrCreateCustomer(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		order, err := cart.GetOrCreateOpenOrder(db, customer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		customer.FirstName = req.FirstName
		customer.LastName = req.LastName
		if err := db.Save(&customer).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		address := models.ShippingAddress{
			CustomerID: &customer.ID,
			OrderID:    &order.ID,
			Address:    req.Address,
			City:       req.City,
			Region:     req.Region,
			Phone:      req.Phone,
		}
		if err := db.Create(&address).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"customer":         customer,
			"shipping_address": address,
		})
	}
}
