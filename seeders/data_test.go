package seeders

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadData_BundledFiles(t *testing.T) {
	data, err := LoadData(filepath.Join("..", "_data"))
	require.NoError(t, err)

	assert.NotEmpty(t, data.Users)
	assert.NotEmpty(t, data.Stores)
	assert.NotEmpty(t, data.Products)
}

func writeData(t *testing.T, users, stores, products string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte(users), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "store.json"), []byte(stores), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "product.json"), []byte(products), 0o600))
	return dir
}

func TestLoadData_References(t *testing.T) {
	dir := writeData(t,
		`[{"email":"a@mail.com","noTelepon":"081234567890","password":"123456"}]`,
		`[{"owner":"b@mail.com","name":"Kopi"}]`,
		`[]`)
	_, err := LoadData(dir)
	assert.ErrorContains(t, err, `unknown owner "b@mail.com"`)

	dir = writeData(t,
		`[{"email":"a@mail.com","noTelepon":"081234567890","password":"123456"}]`,
		`[{"owner":"a@mail.com","name":"Kopi"}]`,
		`[{"store":"Teh","name":"Teh Hijau","isVerification":true}]`)
	_, err = LoadData(dir)
	assert.ErrorContains(t, err, `unknown store "Teh"`)

	_, err = LoadData(t.TempDir())
	assert.Error(t, err)
}

func TestLoadImage_Placeholder(t *testing.T) {
	raw, err := loadImage(t.TempDir(), "logo.png", color.White)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}
