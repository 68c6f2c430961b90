package resthttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bazarbot/internal/catalog"
)

func TestCreateProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var in catalog.ProductInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if in.Name != "Bike" {
			t.Fatalf("name = %q", in.Name)
		}
		_ = json.NewEncoder(w).Encode(map[string]int64{"id": 77})
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	id, err := c.CreateProduct(context.Background(), catalog.ProductInput{Name: "Bike", Price: 250, Currency: "€"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 77 {
		t.Fatalf("id = %d, want 77", id)
	}
}

func TestGetUserNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	_, err := c.GetUser(context.Background(), 5)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFavoritesOrderQuery(t *testing.T) {
	var gotOrder string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrder = r.URL.Query().Get("order")
		_ = json.NewEncoder(w).Encode([]catalog.Product{})
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	if _, err := c.Favorites(context.Background(), 1, catalog.SortOldestFirst); err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if gotOrder != "asc" {
		t.Fatalf("order = %q, want asc", gotOrder)
	}
}

func TestUploadMediaMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Fatalf("content type = %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "photo.jpg" {
			t.Fatalf("filename = %q", hdr.Filename)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	err := c.UploadMedia(context.Background(), 9, strings.NewReader("bytes"), "photo.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
}

func TestErrorStatusSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	err := c.DeleteProduct(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("err = %v, want status 500", err)
	}
}
