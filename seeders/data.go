package seeders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/aarondl/null/v8"
)

// UserRecord is one entry of user.json.
type UserRecord struct {
	Email     string `json:"email"`
	NoTelepon string `json:"noTelepon"`
	Role      string `json:"role"`
	Password  string `json:"password"`
}

// StoreRecord is one entry of store.json. Owner is the owner's email.
type StoreRecord struct {
	Owner          string   `json:"owner"`
	Name           string   `json:"name"`
	Ecommerces     []string `json:"ecommerces"`
	EcommercesURL  []string `json:"ecommercesUrl"`
	YearProduction int      `json:"yearProduction"`
	Regency        string   `json:"regency"`
	Province       string   `json:"province"`
}

// ProductRecord is one entry of product.json. Store is the store's name.
type ProductRecord struct {
	Store          string    `json:"store"`
	Name           string    `json:"name"`
	RawMaterials   string    `json:"rawMaterials"`
	Description    string    `json:"description"`
	ProductStorage string    `json:"productStorage"`
	Category       string    `json:"category"`
	Price          float64   `json:"price"`
	Video          string    `json:"video"`
	IsVerification null.Bool `json:"isVerification"`
}

type Data struct {
	Users    []UserRecord
	Stores   []StoreRecord
	Products []ProductRecord
}

// LoadData reads user.json, store.json and product.json from dir and checks
// that every store owner and product store is defined.
func LoadData(dir string) (*Data, error) {
	var data Data
	files := []struct {
		name string
		dst  any
	}{
		{"user.json", &data.Users},
		{"store.json", &data.Stores},
		{"product.json", &data.Products},
	}
	for _, f := range files {
		raw, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.name, err)
		}
	}

	emails := make(map[string]struct{}, len(data.Users))
	for _, u := range data.Users {
		emails[u.Email] = struct{}{}
	}
	stores := make(map[string]struct{}, len(data.Stores))
	for _, s := range data.Stores {
		if _, ok := emails[s.Owner]; !ok {
			return nil, fmt.Errorf("store %q: unknown owner %q", s.Name, s.Owner)
		}
		stores[s.Name] = struct{}{}
	}
	for _, p := range data.Products {
		if _, ok := stores[p.Store]; !ok {
			return nil, fmt.Errorf("product %q: unknown store %q", p.Name, p.Store)
		}
	}
	return &data, nil
}

// loadImage returns images/<name> from dir, or a flat placeholder PNG when
// the file does not exist.
func loadImage(dir, name string, fill color.Color) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "images", name))
	if err == nil {
		return raw, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
