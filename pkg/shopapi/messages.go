package shopapi

// Prices and totals are decimal strings ("12.50") so clients never see
// binary floating point.

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
}

type CartLine struct {
	ItemID   string  `json:"item_id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Subtotal string  `json:"subtotal"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
}

type GetProductRequest struct {
	ID string `json:"id"`
}

type GetProductResponse struct {
	Product *Product `json:"product"`
}

// AddItemRequest adds Quantity units of a product to the caller's cart.
// A zero or omitted Quantity adds one unit, like the web form; negative
// values are rejected.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"`
}

type AddItemResponse struct {
	ItemID string `json:"item_id"`
	// Quantity is the line's quantity after the add.
	Quantity int `json:"quantity"`
}

type GetCartRequest struct{}

type GetCartResponse struct {
	Lines     []*CartLine `json:"lines"`
	Total     string      `json:"total"`
	ItemCount int         `json:"item_count"`
}

type RemoveItemRequest struct {
	ItemID string `json:"item_id"`
}

type RemoveItemResponse struct{}

type CheckoutRequest struct{}

type CheckoutResponse struct {
	ItemsCleared int64 `json:"items_cleared"`
}
