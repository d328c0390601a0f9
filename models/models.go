package models

import "gorm.io/gorm"

// PlaceholderImage is served whenever a category or product has no image of its own.
const PlaceholderImage = "https://thumbs.dreamstime.com/b/no-watches-sign-illustration-white-background-no-watches-sign-illustration-166895203.jpg"

const (
	OrderStatusOpen   = "open"
	OrderStatusPlaced = "placed"
)

type User struct {
	gorm.Model
	Username  string `json:"username" gorm:"uniqueIndex;not null"`
	Email     string `json:"email" gorm:"uniqueIndex"`
	Password  string `json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Category struct {
	gorm.Model
	Title    string     `json:"title"`
	Image    string     `json:"image"`
	Slug     string     `json:"slug" gorm:"uniqueIndex"`
	ParentID *uint      `json:"parent_id"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Products []Product  `json:"products,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (c *Category) ImageURL() string {
	if c.Image == "" {
		return PlaceholderImage
	}
	return c.Image
}

type Product struct {
	gorm.Model
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	CategoryID  uint      `json:"category_id" gorm:"not null;index"`
	Slug        string    `json:"slug" gorm:"uniqueIndex"`
	Size        int       `json:"size"`
	Color       string    `json:"color"`
	Images      []Gallery `json:"images,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Reviews     []Review  `json:"reviews,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// FirstPhotoURL returns the first gallery image, or the placeholder when the
// product has none. Images must have been preloaded.
func (p *Product) FirstPhotoURL() string {
	if len(p.Images) == 0 {
		return PlaceholderImage
	}
	return p.Images[0].Image
}

type Gallery struct {
	gorm.Model
	Image     string `json:"image" gorm:"not null"`
	ProductID uint   `json:"product_id" gorm:"index"`
}

// Customer is the commerce profile behind a login; created lazily with empty
// names on the first cart interaction.
type Customer struct {
	gorm.Model
	UserID    *uint  `json:"user_id" gorm:"uniqueIndex"`
	User      *User  `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Order struct {
	gorm.Model
	CustomerID *uint          `json:"customer_id"`
	Customer   *Customer      `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Status     string         `json:"status" gorm:"default:open;index"`
	Shipping   bool           `json:"shipping" gorm:"default:true"`
	Items      []OrderProduct `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// TotalPrice sums price*quantity over the loaded line items. Lines whose
// product was deleted contribute nothing.
func (o *Order) TotalPrice() float64 {
	var total float64
	for i := range o.Items {
		total += o.Items[i].TotalPrice()
	}
	return total
}

func (o *Order) TotalQuantity() int {
	var total int
	for i := range o.Items {
		total += o.Items[i].Quantity
	}
	return total
}

// OrderProduct is one cart line. Both references go NULL if their target is
// deleted; the line survives as an orphan to keep order history intact.
type OrderProduct struct {
	gorm.Model
	ProductID *uint    `json:"product_id"`
	Product   *Product `json:"product,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	OrderID   *uint    `json:"order_id" gorm:"index"`
	Order     *Order   `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Quantity  int      `json:"quantity"`
}

func (op *OrderProduct) TotalPrice() float64 {
	if op.Product == nil {
		return 0
	}
	return op.Product.Price * float64(op.Quantity)
}

type ShippingAddress struct {
	gorm.Model
	CustomerID *uint  `json:"customer_id"`
	OrderID    *uint  `json:"order_id"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Region     string `json:"region"`
	Phone      string `json:"phone"`
}

type Review struct {
	gorm.Model
	Text      string `json:"text"`
	AuthorID  uint   `json:"author_id" gorm:"index"`
	Author    User   `json:"-"`
	ProductID uint   `json:"product_id" gorm:"index"`
}

type FavouriteProduct struct {
	gorm.Model
	UserID    uint    `json:"user_id" gorm:"index"`
	ProductID uint    `json:"product_id"`
	Product   Product `json:"product"`
}
