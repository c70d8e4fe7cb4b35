package validation

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niuniq/config"
	apperrors "niuniq/pkg/errors"
)

type registerInput struct {
	Email     string `json:"email" validate:"required,niuniq_email"`
	NoTelepon string `json:"noTelepon" validate:"required,niuniq_phone"`
	Role      string `json:"role" validate:"omitempty,role"`
}

type storeInput struct {
	Province string      `json:"province" validate:"required,province"`
	Regency  null.String `json:"regency" validate:"omitempty,min=3"`
}

func TestValidator_Rules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&registerInput{Email: "budi@mail.co.id", NoTelepon: "081234567890", Role: "admin"}))

	err := v.Validate(&registerInput{Email: "nope", NoTelepon: "0812345678901234", Role: "root"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"email": "niuniq_email", "noTelepon": "niuniq_phone", "role": "role"}, fields)
}

func TestValidator_ProvinceAndNullTypes(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&storeInput{Province: "jawa barat"}))
	assert.NoError(t, v.Validate(&storeInput{Province: "BALI", Regency: null.StringFrom("KABUPATEN BADUNG")}))
	assert.Error(t, v.Validate(&storeInput{Province: "ATLANTIS"}))
	assert.Error(t, v.Validate(&storeInput{Province: "BALI", Regency: null.StringFrom("x")}))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestValidateFile(t *testing.T) {
	data := pngBytes(t)

	err := ValidateFile(&multipart.FileHeader{Filename: "a.png", Size: int64(len(data))}, bytes.NewReader(data), config.UploadStoreLogo, 0)
	assert.NoError(t, err)

	err = ValidateFile(&multipart.FileHeader{Filename: "a.png", Size: int64(len(data))}, bytes.NewReader(data), config.UploadStoreLogo, 10)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	text := []byte("just some text")
	err = ValidateFile(&multipart.FileHeader{Filename: "a.txt", Size: int64(len(text))}, bytes.NewReader(text), config.UploadStoreLogo, 0)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	err = ValidateFile(&multipart.FileHeader{}, bytes.NewReader(data), "nope", 0)
	assert.Error(t, err)
}

func TestValidateFiles_MinCount(t *testing.T) {
	err := ValidateFiles(nil, config.UploadProductPhoto, 0)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestIsProvince(t *testing.T) {
	assert.True(t, IsProvince(" dki jakarta "))
	assert.False(t, IsProvince(""))
	assert.Len(t, Provinces(), 38)
}
