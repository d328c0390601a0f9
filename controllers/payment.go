package controllers

import (
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/juppuo/tottembo-shop.store/cart"
	"github.com/juppuo/tottembo-shop.store/config"
	"github.com/juppuo/tottembo-shop.store/middleware"
	"github.com/juppuo/tottembo-shop.store/models"
)

// CreateCheckoutSession opens a session with the payment gateway for the open
// order's total and hands the checkout URL back to the client.
func CreateCheckoutSession(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := cart.GetSummary(db, middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if summary.TotalQuantity == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}

		sessionID := uuid.NewString()
		checkoutURL, err := openGatewaySession(cfg, sessionID, summary.Order.ID, summary.TotalPrice)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"session_id":   sessionID,
			"checkout_url": checkoutURL,
			"order_id":     summary.Order.ID,
			"total_price":  summary.TotalPrice,
		})
	}
}

func openGatewaySession(cfg *config.Config, sessionID string, orderID uint, total float64) (string, error) {
	if cfg.PaymentAPIURL == "" {
		return "", fmt.Errorf("payment gateway not configured")
	}
	data := url.Values{}
	data.Set("reference", sessionID)
	data.Set("order_id", fmt.Sprintf("%d", orderID))
	data.Set("amount", fmt.Sprintf("%.2f", total))
	req, err := http.NewRequest("POST", cfg.PaymentAPIURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("apiKey", cfg.PaymentAPIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	log.Info().Int("status", resp.StatusCode).Str("session_id", sessionID).Msg("payment gateway response")
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("payment gateway returned %d", resp.StatusCode)
	}
	return strings.TrimSpace(string(body)), nil
}

// PaymentSuccess is the gateway return URL: it closes the open order and
// notifies the buyer. Notification failures are logged, not surfaced.
func PaymentSuccess(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
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
		err = db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", models.OrderStatusPlaced).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		order.Status = models.OrderStatusPlaced

		var items []models.OrderProduct
		if err := db.Preload("Product").Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		order.Items = items

		var address models.ShippingAddress
		if err := db.Where("order_id = ?", order.ID).Order("created_at DESC").First(&address).Error; err == nil {
			if err := sendSMS(cfg, address.Phone, fmt.Sprintf("Hi %s, your order #%d has been placed!", customer.FirstName, order.ID)); err != nil {
				log.Warn().Err(err).Uint("order_id", order.ID).Msg("order SMS failed")
			}
		}
		if err := sendOrderEmail(cfg, order, customer); err != nil {
			log.Warn().Err(err).Uint("order_id", order.ID).Msg("order email failed")
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "paid",
			"order_id": order.ID,
		})
	}
}

func sendSMS(cfg *config.Config, phone, message string) error {
	data := url.Values{}
	data.Set("username", cfg.SMSUsername)
	data.Set("to", phone)
	data.Set("message", message)
	req, err := http.NewRequest("POST", cfg.SMSAPIURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("apiKey", cfg.SMSAPIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	log.Info().Str("response", string(body)).Msg("SMS gateway response")
	return nil
}

func sendOrderEmail(cfg *config.Config, order models.Order, customer models.Customer) error {
	if cfg.SMTPFrom == "" || cfg.OrderEmailTo == "" {
		return nil
	}
	var lines []string
	for _, item := range order.Items {
		if item.Product == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s x%d @ %.2f", item.Product.Title, item.Quantity, item.Product.Price))
	}
	body := fmt.Sprintf("Order #%d placed by %s %s\nItems:\n%s\nTotal: %.2f",
		order.ID, customer.FirstName, customer.LastName, strings.Join(lines, "\n"), order.TotalPrice())
	msg := "From: " + cfg.SMTPFrom + "\n" +
		"To: " + cfg.OrderEmailTo + "\n" +
		"Subject: New Order Placed\n\n" + body
	auth := smtp.PlainAuth("", cfg.SMTPFrom, cfg.SMTPPassword, cfg.SMTPHost)
	return smtp.SendMail(cfg.SMTPHost+":"+cfg.SMTPPort, auth, cfg.SMTPFrom, []string{cfg.OrderEmailTo}, []byte(msg))
}
