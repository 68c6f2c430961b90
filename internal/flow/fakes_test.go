package flow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"bazarbot/internal/catalog"
)

// fakeCatalog is an in-memory catalog.Client with per-operation error
// injection through the fail map.
type fakeCatalog struct {
	users      map[int64]catalog.User
	categories []catalog.Category
	products   map[int64]catalog.Product
	media      map[int64][]string
	uploads    map[int64][]string
	favorites  map[int64][]int64
	nextID     int64
	fail       map[string]error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		users:     map[int64]catalog.User{},
		products:  map[int64]catalog.Product{},
		media:     map[int64][]string{},
		uploads:   map[int64][]string{},
		favorites: map[int64][]int64{},
		fail:      map[string]error{},
	}
}

func (f *fakeCatalog) failing(op string) error { return f.fail[op] }

func (f *fakeCatalog) GetUser(_ context.Context, id int64) (*catalog.User, error) {
	if err := f.failing("GetUser"); err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &u, nil
}

func (f *fakeCatalog) CreateUser(_ context.Context, u catalog.User) error {
	if err := f.failing("CreateUser"); err != nil {
		return err
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeCatalog) UpdateUser(_ context.Context, u catalog.User) error {
	if err := f.failing("UpdateUser"); err != nil {
		return err
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeCatalog) CreateProduct(_ context.Context, in catalog.ProductInput) (int64, error) {
	if err := f.failing("CreateProduct"); err != nil {
		return 0, err
	}
	f.nextID++
	id := f.nextID
	f.products[id] = catalog.Product{
		ID:          id,
		OwnerID:     in.OwnerID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Price:       in.Price,
		Currency:    in.Currency,
		Description: in.Description,
	}
	return id, nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, id int64, in catalog.ProductInput) error {
	if err := f.failing("UpdateProduct"); err != nil {
		return err
	}
	p, ok := f.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	p.CategoryID = in.CategoryID
	p.Name = in.Name
	p.Price = in.Price
	p.Currency = in.Currency
	p.Description = in.Description
	f.products[id] = p
	return nil
}

func (f *fakeCatalog) DeleteProduct(_ context.Context, id int64) error {
	if err := f.failing("DeleteProduct"); err != nil {
		return err
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalog) ListCategories(_ context.Context) ([]catalog.Category, error) {
	if err := f.failing("ListCategories"); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeCatalog) ProductsByCategory(_ context.Context, categoryID int64) ([]catalog.Product, error) {
	if err := f.failing("ProductsByCategory"); err != nil {
		return nil, err
	}
	var out []catalog.Product
	for id := int64(1); id <= f.nextID; id++ {
		if p, ok := f.products[id]; ok && p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) UserProducts(_ context.Context, userID int64) ([]catalog.Product, error) {
	if err := f.failing("UserProducts"); err != nil {
		return nil, err
	}
	var out []catalog.Product
	for id := int64(1); id <= f.nextID; id++ {
		if p, ok := f.products[id]; ok && p.OwnerID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) UploadMedia(_ context.Context, productID int64, r io.Reader, filename, _ string) error {
	if err := f.failing("UploadMedia"); err != nil {
		return err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	f.uploads[productID] = append(f.uploads[productID], filename)
	return nil
}

func (f *fakeCatalog) ProductMedia(_ context.Context, productID int64) ([]string, error) {
	if err := f.failing("ProductMedia"); err != nil {
		return nil, err
	}
	return f.media[productID], nil
}

func (f *fakeCatalog) DeleteMedia(_ context.Context, productID int64) error {
	if err := f.failing("DeleteMedia"); err != nil {
		return err
	}
	delete(f.media, productID)
	delete(f.uploads, productID)
	return nil
}

func (f *fakeCatalog) AddFavorite(_ context.Context, userID, productID int64) error {
	if err := f.failing("AddFavorite"); err != nil {
		return err
	}
	f.favorites[userID] = append(f.favorites[userID], productID)
	return nil
}

func (f *fakeCatalog) RemoveFavorite(_ context.Context, userID, productID int64) error {
	if err := f.failing("RemoveFavorite"); err != nil {
		return err
	}
	kept := f.favorites[userID][:0]
	for _, id := range f.favorites[userID] {
		if id != productID {
			kept = append(kept, id)
		}
	}
	f.favorites[userID] = kept
	return nil
}

func (f *fakeCatalog) Favorites(_ context.Context, userID int64, order catalog.SortOrder) ([]catalog.Product, error) {
	if err := f.failing("Favorites"); err != nil {
		return nil, err
	}
	ids := f.favorites[userID]
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	if order == catalog.SortNewestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (f *fakeCatalog) SellerInfo(_ context.Context, productID int64) (*catalog.Seller, error) {
	if err := f.failing("SellerInfo"); err != nil {
		return nil, err
	}
	p, ok := f.products[productID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &catalog.Seller{ID: p.OwnerID, Username: fmt.Sprintf("seller%d", p.OwnerID)}, nil
}

var _ catalog.Client = (*fakeCatalog)(nil)

type sentText struct {
	userID int64
	text   string
	kb     *Keyboard
}

// fakeGateway records every outbound message and serves downloads from
// a fixed ref to bytes map.
type fakeGateway struct {
	texts     []sentText
	albums    [][]string
	downloads map[string][]byte
	fail      map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{downloads: map[string][]byte{}, fail: map[string]error{}}
}

func (g *fakeGateway) SendText(_ context.Context, userID int64, text string, kb *Keyboard) error {
	if err := g.fail["SendText"]; err != nil {
		return err
	}
	g.texts = append(g.texts, sentText{userID: userID, text: text, kb: kb})
	return nil
}

func (g *fakeGateway) SendMediaGroup(_ context.Context, _ int64, urls []string, _ string) error {
	if err := g.fail["SendMediaGroup"]; err != nil {
		return err
	}
	g.albums = append(g.albums, urls)
	return nil
}

func (g *fakeGateway) Download(_ context.Context, ref string) (io.ReadCloser, error) {
	if err := g.fail["Download"]; err != nil {
		return nil, err
	}
	data, ok := g.downloads[ref]
	if !ok {
		return nil, fmt.Errorf("no such file %q", ref)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (g *fakeGateway) last() sentText {
	if len(g.texts) == 0 {
		return sentText{}
	}
	return g.texts[len(g.texts)-1]
}

func (g *fakeGateway) lastContains(sub string) bool {
	return strings.Contains(g.last().text, sub)
}
