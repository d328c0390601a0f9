// Package cart maintains the open order that represents a signed-in user's
// shopping cart and keeps product stock in step with line-item quantities.
package cart

import (
	"gorm.io/gorm"

	"github.com/juppuo/tottembo-shop.store/models"
)

// ActionAdd puts one unit in the cart; any other action string removes one.
const ActionAdd = "add"

// Summary is what the cart view renders.
type Summary struct {
	TotalQuantity int                   `json:"total_quantity"`
	TotalPrice    float64               `json:"total_price"`
	Order         models.Order          `json:"order"`
	Items         []models.OrderProduct `json:"items"`
}

// GetOrCreateCustomer returns the customer profile for a user, creating one
// with empty names on first contact.
func GetOrCreateCustomer(db *gorm.DB, userID uint) (models.Customer, error) {
	var customer models.Customer
	err := db.Where("user_id = ?", userID).
		FirstOrCreate(&customer, models.Customer{UserID: &userID}).Error
	return customer, err
}

// GetOrCreateOpenOrder returns the customer's open order, creating one if the
// previous order was placed (or none exists yet).
func GetOrCreateOpenOrder(db *gorm.DB, customer models.Customer) (models.Order, error) {
	var order models.Order
	err := db.Where("customer_id = ? AND status = ?", customer.ID, models.OrderStatusOpen).
		FirstOrCreate(&order, models.Order{CustomerID: &customer.ID, Status: models.OrderStatusOpen}).Error
	return order, err
}

// GetSummary computes the cart totals for a user. Totals are derived from the
// line items on every call, never stored.
func GetSummary(db *gorm.DB, userID uint) (Summary, error) {
	customer, err := GetOrCreateCustomer(db, userID)
	if err != nil {
		return Summary{}, err
	}
	order, err := GetOrCreateOpenOrder(db, customer)
	if err != nil {
		return Summary{}, err
	}
	var items []models.OrderProduct
	if err := db.Preload("Product").Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return Summary{}, err
	}
	order.Items = items
	return Summary{
		TotalQuantity: order.TotalQuantity(),
		TotalPrice:    order.TotalPrice(),
		Order:         order,
		Items:         items,
	}, nil
}

// ApplyAction moves one unit of a product between stock and the user's cart.
// "add" only takes from stock while stock remains; every other action, and an
// "add" against empty stock, gives a unit back. A line item driven to zero or
// below is removed outright. The stock write and the line-item write commit
// together or not at all.
func ApplyAction(db *gorm.DB, userID, productID uint, action string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		customer, err := GetOrCreateCustomer(tx, userID)
		if err != nil {
			return err
		}
		order, err := GetOrCreateOpenOrder(tx, customer)
		if err != nil {
			return err
		}
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}
		var item models.OrderProduct
		err = tx.Where("order_id = ? AND product_id = ?", order.ID, product.ID).
			FirstOrCreate(&item, models.OrderProduct{OrderID: &order.ID, ProductID: &product.ID}).Error
		if err != nil {
			return err
		}

		if action == ActionAdd && product.Quantity > 0 {
			item.Quantity++
			product.Quantity--
		} else {
			item.Quantity--
			product.Quantity++
		}

		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return tx.Unscoped().Delete(&item).Error
		}
		return nil
	})
}

// Clear removes every line item from the user's open order. The order itself
// survives, and stock is not restored.
func Clear(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		customer, err := GetOrCreateCustomer(tx, userID)
		if err != nil {
			return err
		}
		order, err := GetOrCreateOpenOrder(tx, customer)
		if err != nil {
			return err
		}
		return tx.Unscoped().Where("order_id = ?", order.ID).Delete(&models.OrderProduct{}).Error
	})
}
