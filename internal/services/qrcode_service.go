package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"niuniq/config"
	"niuniq/pkg/filestorage"
	"niuniq/pkg/metrics"
	"niuniq/pkg/qrcode"
)

const searchPath = "/api/web/niuniq/search?productId="

type QRCodeServiceInterface interface {
	// Create renders and stores the verification QR code of a product and
	// returns its public URL.
	Create(ctx context.Context, productID string) (string, error)
}

type QRCodeService struct {
	storage filestorage.FileStorageInterface
	baseURL string
	size    int
	logger  *zap.Logger
}

func NewQRCodeService(storage filestorage.FileStorageInterface, publicBaseURL string, logger *zap.Logger) QRCodeServiceInterface {
	return &QRCodeService{
		storage: storage,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		size:    qrcode.DefaultSize,
		logger:  logger,
	}
}

// VerificationURL is the address encoded in a product's QR code.
func VerificationURL(baseURL, productID string) string {
	return strings.TrimRight(baseURL, "/") + searchPath + productID
}

func (s *QRCodeService) Create(ctx context.Context, productID string) (string, error) {
	png, err := qrcode.Generate(VerificationURL(s.baseURL, productID), productID, s.size)
	if err != nil {
		return "", fmt.Errorf("generate qr code for %s: %w", productID, err)
	}

	key, err := s.storage.Save(ctx, bytes.NewReader(png), "qrcode_"+productID+".png",
		config.UploadContexts[config.UploadQRCode].PathPrefix)
	if err != nil {
		return "", fmt.Errorf("save qr code for %s: %w", productID, err)
	}
	metrics.QRCodesGenerated.Inc()
	s.logger.Debug("qr code generated", zap.String("productId", productID), zap.String("key", key))
	return s.storage.URL(key), nil
}
