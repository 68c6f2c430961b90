// Package catalog defines the contract to the classified-ads catalog:
// products, categories, users, favorites, and product media. Two
// implementations exist: resthttp (remote HTTP API) and postgres
// (local storage).
package catalog

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound reports that the requested entity does not exist.
var ErrNotFound = errors.New("catalog: not found")

// SortOrder selects the ordering of favorites by creation time.
type SortOrder string

const (
	// SortNewestFirst lists the most recently created products first.
	SortNewestFirst SortOrder = "desc"
	// SortOldestFirst lists the oldest products first.
	SortOldestFirst SortOrder = "asc"
)

// Category is a product category.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// User is a registered account.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Nickname string `db:"nickname" json:"nickname"`
	Location string `db:"location" json:"location"`
}

// Product is an immutable snapshot of a published listing.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	Name        string    `db:"name" json:"name"`
	Price       float64   `db:"price" json:"price"`
	Currency    string    `db:"currency" json:"currency"`
	Description string    `db:"description" json:"description"`
	Location    string    `db:"location" json:"location"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Seller identifies the owner of a product for contact purposes.
type Seller struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ProductInput carries the fields of a listing being created or updated.
type ProductInput struct {
	OwnerID     int64   `json:"owner_id"`
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// Client is the narrow request/response contract to the catalog.
// Implementations must be safe for concurrent use.
type Client interface {
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, u User) error
	UpdateUser(ctx context.Context, u User) error

	CreateProduct(ctx context.Context, in ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]Category, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error)
	UserProducts(ctx context.Context, userID int64) ([]Product, error)

	UploadMedia(ctx context.Context, productID int64, r io.Reader, filename, contentType string) error
	ProductMedia(ctx context.Context, productID int64) ([]string, error)
	DeleteMedia(ctx context.Context, productID int64) error

	AddFavorite(ctx context.Context, userID, productID int64) error
	RemoveFavorite(ctx context.Context, userID, productID int64) error
	Favorites(ctx context.Context, userID int64, order SortOrder) ([]Product, error)

	SellerInfo(ctx context.Context, productID int64) (*Seller, error)
}
