// Package postgres implements the catalog contract on local storage:
// product, category, user, and favorite rows in Postgres, with media
// binaries delegated to the blob store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jmoiron/sqlx"

	"bazarbot/internal/blob"
	"bazarbot/internal/catalog"
)

const queryTimeout = 5 * time.Second

// Store implements catalog.Client over sqlx.
type Store struct {
	db    *sqlx.DB
	media blob.Store
}

// New returns a catalog store backed by the given database and blob store.
func New(db *sqlx.DB, media blob.Store) *Store {
	return &Store{db: db, media: media}
}

var _ catalog.Client = (*Store)(nil)

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// GetUser fetches an account by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*catalog.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u catalog.User
	err := s.db.GetContext(ctx, &u, `SELECT id, nickname, location FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// CreateUser registers a new account.
func (s *Store) CreateUser(ctx context.Context, u catalog.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, nickname, location) VALUES ($1, $2, $3)`,
		u.ID, u.Nickname, u.Location,
	)
	if err != nil {
		return fmt.Errorf("create user %d: %w", u.ID, err)
	}
	return nil
}

// UpdateUser replaces profile fields of an existing account.
func (s *Store) UpdateUser(ctx context.Context, u catalog.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET nickname = $2, location = $3 WHERE id = $1`,
		u.ID, u.Nickname, u.Location,
	)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// CreateProduct publishes a listing and returns its id.
func (s *Store) CreateProduct(ctx context.Context, in catalog.ProductInput) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO products (owner_id, category_id, name, price, currency, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 RETURNING id`,
		in.OwnerID, in.CategoryID, in.Name, in.Price, in.Currency, in.Description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}
	return id, nil
}

// UpdateProduct replaces the fields of an existing listing.
func (s *Store) UpdateProduct(ctx context.Context, id int64, in catalog.ProductInput) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE products
		 SET category_id = $2, name = $3, price = $4, currency = $5, description = $6
		 WHERE id = $1`,
		id, in.CategoryID, in.Name, in.Price, in.Currency, in.Description,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// DeleteProduct removes a listing and its favorite marks.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// ListCategories returns all product categories.
func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var cats []catalog.Category
	if err := s.db.SelectContext(ctx, &cats, `SELECT id, name FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

const productColumns = `p.id, p.owner_id, p.category_id, p.name, p.price, p.currency, p.description,
	COALESCE(u.location, '') AS location, p.created_at`

// ProductsByCategory returns listings within one category.
func (s *Store) ProductsByCategory(ctx context.Context, categoryID int64) ([]catalog.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var products []catalog.Product
	err := s.db.SelectContext(ctx, &products,
		`SELECT `+productColumns+`
		 FROM products p LEFT JOIN users u ON u.id = p.owner_id
		 WHERE p.category_id = $1
		 ORDER BY p.created_at DESC`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("products by category %d: %w", categoryID, err)
	}
	return products, nil
}

// UserProducts returns listings owned by the given user.
func (s *Store) UserProducts(ctx context.Context, userID int64) ([]catalog.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var products []catalog.Product
	err := s.db.SelectContext(ctx, &products,
		`SELECT `+productColumns+`
		 FROM products p LEFT JOIN users u ON u.id = p.owner_id
		 WHERE p.owner_id = $1
		 ORDER BY p.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("user products %d: %w", userID, err)
	}
	return products, nil
}

// UploadMedia stores the binary in the blob store and records its key.
func (s *Store) UploadMedia(ctx context.Context, productID int64, r io.Reader, filename, contentType string) error {
	key, err := s.media.Put(ctx, fmt.Sprintf("products/%d", productID), r, -1, filename, contentType)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO product_media (product_id, object_key) VALUES ($1, $2)`,
		productID, key,
	)
	if err != nil {
		return fmt.Errorf("record media for product %d: %w", productID, err)
	}
	return nil
}

// ProductMedia returns URLs of the media attached to a product.
func (s *Store) ProductMedia(ctx context.Context, productID int64) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var keys []string
	err := s.db.SelectContext(ctx, &keys,
		`SELECT object_key FROM product_media WHERE product_id = $1 ORDER BY id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("media for product %d: %w", productID, err)
	}
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		urls = append(urls, s.media.URL(key))
	}
	return urls, nil
}

// DeleteMedia removes the media rows and the underlying objects.
func (s *Store) DeleteMedia(ctx context.Context, productID int64) error {
	if err := s.media.RemovePrefix(ctx, fmt.Sprintf("products/%d", productID)); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM product_media WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete media for product %d: %w", productID, err)
	}
	return nil
}

// AddFavorite marks a product as liked by the user.
func (s *Store) AddFavorite(ctx context.Context, userID, productID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("add favorite %d/%d: %w", userID, productID, err)
	}
	return nil
}

// RemoveFavorite unmarks a previously liked product.
func (s *Store) RemoveFavorite(ctx context.Context, userID, productID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove favorite %d/%d: %w", userID, productID, err)
	}
	return nil
}

// Favorites returns liked products ordered by creation time.
func (s *Store) Favorites(ctx context.Context, userID int64, order catalog.SortOrder) ([]catalog.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	dir := "DESC"
	if order == catalog.SortOldestFirst {
		dir = "ASC"
	}
	var products []catalog.Product
	err := s.db.SelectContext(ctx, &products,
		`SELECT `+productColumns+`
		 FROM favorites f
		 JOIN products p ON p.id = f.product_id
		 LEFT JOIN users u ON u.id = p.owner_id
		 WHERE f.user_id = $1
		 ORDER BY p.created_at `+dir,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("favorites for user %d: %w", userID, err)
	}
	return products, nil
}

// SellerInfo resolves the owner contact of a product.
func (s *Store) SellerInfo(ctx context.Context, productID int64) (*catalog.Seller, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var seller catalog.Seller
	err := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.nickname FROM products p JOIN users u ON u.id = p.owner_id WHERE p.id = $1`,
		productID,
	).Scan(&seller.ID, &seller.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("seller for product %d: %w", productID, err)
	}
	return &seller, nil
}
