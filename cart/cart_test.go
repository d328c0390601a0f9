package cart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/juppuo/tottembo-shop.store/database"
	"github.com/juppuo/tottembo-shop.store/models"
)

// Create DB connection for tests
func getTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	if err := database.Migrate(db); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}
	return db
}

// Helper: run a test inside a transaction and roll it back
func withTestTransaction(t *testing.T, testFunc func(tx *gorm.DB)) {
	db := getTestDB()

	tx := db.Begin()
	if tx.Error != nil {
		t.Fatal(tx.Error)
	}
	defer tx.Rollback()

	testFunc(tx)
}

func seedUser(t *testing.T, tx *gorm.DB, username string) models.User {
	user := models.User{Username: username, Email: username + "@example.com"}
	if err := tx.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func seedProduct(t *testing.T, tx *gorm.DB, slug string, price float64, quantity int) models.Product {
	category := models.Category{Title: "Watches", Slug: "watches-" + slug}
	if err := tx.Create(&category).Error; err != nil {
		t.Fatal(err)
	}
	product := models.Product{
		Title:      "Watch " + slug,
		Price:      price,
		Quantity:   quantity,
		CategoryID: category.ID,
		Slug:       slug,
	}
	if err := tx.Create(&product).Error; err != nil {
		t.Fatal(err)
	}
	return product
}

// ----------------------- TESTS ----------------------- //

func TestGetOrCreateCustomerIdempotent(t *testing.T) {
	withTestTransaction(t, func(tx *gorm.DB) {
		user := seedUser(t, tx, "june")

		first, err := GetOrCreateCustomer(tx, user.ID)
		assert.NoError(t, err)
		assert.Equal(t, "", first.FirstName)
		assert.Equal(t, "", first.LastName)

		second, err := GetOrCreateCustomer(tx, user.ID)
		assert.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		tx.Model(&models.Customer{}).Where("user_id = ?", user.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestOpenOrderReused(t *testing.T) {
	withTestTransaction(t, func(tx *gorm.DB) {
		user := seedUser(t, tx, "amina")
		customer, err := GetOrCreateCustomer(tx, user.ID)
		assert.NoError(t, err)

		first, err := GetOrCreateOpenOrder(tx, customer)
		assert.NoError(t, err)
		second, err := GetOrCreateOpenOrder(tx, customer)
		assert.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})
}

func TestFreshOpenOrderAfterPlaced(t *testing.T) {
	withTestTransaction(t, func(tx *gorm.DB) {
		user := seedUser(t, tx, "brian")
		customer, err := GetOrCreateCustomer(tx, user.ID)
		assert.NoError(t, err)

		placed, err := GetOrCreateOpenOrder(tx, customer)
		assert.NoError(t, err)
		placed.Status = models.OrderStatusPlaced
		assert.NoError(t, tx.Save(&placed).Error)

		next, err := GetOrCreateOpenOrder(tx, customer)
		assert.NoError(t, err)
		assert.NotEqual(t, placed.ID, next.ID)
		assert.Equal(t, models.OrderStatusOpen, next.Status)
	})
}

func TestAddAddRemoveScenario(t *testing.T) {
	withTestTransaction(t, func(tx *gorm.DB) {
		user := seedUser(t, tx, "carla")
		product := seedProduct(t, tx, "silver-30", 10.0, 3)

		assert.NoError(t, ApplyAction(tx, user.ID, product.ID, ActionAdd))
		assert.NoError(t, ApplyAction(tx, user.ID, product.ID, ActionAdd))
		assert.NoError(t, ApplyAction(tx, user.ID, product.ID, "remove"))

		var reloaded models.Product
		assert.NoError(t, tx.First(&reloaded, product.ID).Error)
		assert.Equal(t, 2, reloaded.Quantity)

		summary, err := GetSummary(tx, user.ID)
		assert.NoError(t, err)
		assert.Len(t, summary.Items, 1)
		assert.Equal(t, 1, summary.Items[0].Quantity)
		assert.Equal(t, 1, summary.TotalQuantity)
		assert.Equal(t, 10.0, summary.TotalPrice)
	})
}

func TestDoubleAddMovesExactlyTwoUnits(t *testing.T) {
	withTestTransaction(t, func(tx *gorm.DB) {
		user := seedUser(t, tx, "dana")
		product := seedProduct(t, tx, "gold-40", 25.5, 5)

		assert.NoError(t, ApplyAction(tx, user.ID, product.ID, ActionAdd))
		assert.NoError(t, ApplyAction(tx, user.ID, product.ID, ActionAdd))

		var reloaded models.Product
		assert.NoError(t, tx.First(&reloaded, product.ID).Error)
		assert.Equal(t, 3, reloaded.Quantity)

		summary, err := GetSummary(tx, user.ID)
		assert.NoError(t, err)
		assert.Len(t, summary.Items, 1)
		assert.Equal(t, 2, summary.Items[0].Quantity)
	})
}

// Adding against empty stock falls through to the remove branch: stock goes
// up, the (fresh) line item goes negative and is deleted.
func TestAddAtZeroStockFallsThrough(t *testing.T) {
	withTestTransaction(t, func(tx *gorm.DB) {
		user := seedUser(t, tx, "elias")
		product := seedProduct(t, tx, "steel-35", 12.0, 0)

		assert.NoError(t, ApplyAction(tx, user.ID, product.ID, ActionAdd))

		var reloaded models.Product
		assert.NoError(t, tx.First(&reloaded, product.ID).Error)
		assert.Equal(t, 1, reloaded.Quantity)

		var count int64
		tx.Unscoped().Model(&models.OrderProduct{}).Where("product_id = ?", product.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestNoNonPositiveLineItemsSurvive(t *testing.T) {
	withTestTransaction(t, func(tx *gorm.DB) {
		user := seedUser(t, tx, "farah")
		product := seedProduct(t, tx, "bronze-28", 8.0, 2)

		assert.NoError(t, ApplyAction(tx, user.ID, product.ID, ActionAdd))
		assert.NoError(t, ApplyAction(tx, user.ID, product.ID, "remove"))

		var count int64
		tx.Unscoped().Model(&models.OrderProduct{}).Where("quantity <= 0").Count(&count)
		assert.Equal(t, int64(0), count)

		var reloaded models.Product
		assert.NoError(t, tx.First(&reloaded, product.ID).Error)
		assert.Equal(t, 2, reloaded.Quantity)
	})
}

func TestClearDoesNotRestoreStock(t *testing.T) {
	withTestTransaction(t, func(tx *gorm.DB) {
		user := seedUser(t, tx, "grace")
		product := seedProduct(t, tx, "titan-42", 99.0, 5)

		assert.NoError(t, ApplyAction(tx, user.ID, product.ID, ActionAdd))
		assert.NoError(t, ApplyAction(tx, user.ID, product.ID, ActionAdd))

		assert.NoError(t, Clear(tx, user.ID))

		summary, err := GetSummary(tx, user.ID)
		assert.NoError(t, err)
		assert.Empty(t, summary.Items)
		assert.Equal(t, 0, summary.TotalQuantity)
		assert.Equal(t, 0.0, summary.TotalPrice)

		// The two units stay gone from stock; clearing is not a refund.
		var reloaded models.Product
		assert.NoError(t, tx.First(&reloaded, product.ID).Error)
		assert.Equal(t, 3, reloaded.Quantity)

		// The order itself survives the clear.
		var orders int64
		tx.Model(&models.Order{}).Where("status = ?", models.OrderStatusOpen).Count(&orders)
		assert.Equal(t, int64(1), orders)
	})
}

func TestSummaryTotalsAcrossProducts(t *testing.T) {
	withTestTransaction(t, func(tx *gorm.DB) {
		user := seedUser(t, tx, "henry")
		cheap := seedProduct(t, tx, "quartz-26", 10.0, 10)
		dear := seedProduct(t, tx, "chrono-44", 100.0, 10)

		assert.NoError(t, ApplyAction(tx, user.ID, cheap.ID, ActionAdd))
		assert.NoError(t, ApplyAction(tx, user.ID, cheap.ID, ActionAdd))
		assert.NoError(t, ApplyAction(tx, user.ID, cheap.ID, ActionAdd))
		assert.NoError(t, ApplyAction(tx, user.ID, dear.ID, ActionAdd))

		summary, err := GetSummary(tx, user.ID)
		assert.NoError(t, err)
		assert.Len(t, summary.Items, 2)
		assert.Equal(t, 4, summary.TotalQuantity)
		assert.Equal(t, 130.0, summary.TotalPrice)
	})
}

func TestUnknownProductPropagates(t *testing.T) {
	withTestTransaction(t, func(tx *gorm.DB) {
		user := seedUser(t, tx, "irene")

		err := ApplyAction(tx, user.ID, 999999, ActionAdd)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})
}
