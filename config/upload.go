package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	MinCount         int
	PathPrefix       string
}

const (
	UploadStoreLogo    = "store_logo"
	UploadStorePhoto   = "store_photo"
	UploadProductPhoto = "product_photo"
	UploadProductVideo = "product_video"
	UploadQRCode       = "qrcode"
)

var imageTypes = []string{"image/jpeg", "image/jpg", "image/png"}

var UploadContexts = map[string]UploadConfig{
	UploadStoreLogo: {
		AllowedMimeTypes: imageTypes,
		MaxSizeMB:        5,
		MinCount:         1,
		PathPrefix:       "images/logos",
	},
	UploadStorePhoto: {
		AllowedMimeTypes: imageTypes,
		MaxSizeMB:        5,
		MinCount:         1,
		PathPrefix:       "images/stores",
	},
	UploadProductPhoto: {
		AllowedMimeTypes: imageTypes,
		MaxSizeMB:        5,
		MinCount:         5,
		PathPrefix:       "images/products",
	},
	UploadProductVideo: {
		AllowedMimeTypes: []string{"video/mp4", "video/3gpp", "video/x-matroska", "video/webm"},
		MaxSizeMB:        50,
		PathPrefix:       "videos",
	},
	UploadQRCode: {
		AllowedMimeTypes: []string{"image/png"},
		PathPrefix:       "images/QRcodes",
	},
}
