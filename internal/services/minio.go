package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"nutriko_back_end/internal/database"

	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
)

// UploadProductImage pousse une image de produit dans MinIO et
// retourne l'URL publique stockée sur le produit.
func UploadProductImage(ctx context.Context, productID gocql.UUID, file *multipart.FileHeader) (string, error) {
	if database.MinioClient == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := fmt.Sprintf("products/%s/%s", productID.String(), path.Base(file.Filename))

	_, err = database.MinioClient.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), bucket, objectName), nil
}

// RemoveObject supprime un objet à partir de son URL publique.
func RemoveObject(ctx context.Context, objectURL string) error {
	if database.MinioClient == nil {
		return fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	key := objectKey(objectURL, bucket)

	return database.MinioClient.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

// GenerateSignedURL génère une URL signée avec expiration pour un
// objet image.
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	if database.MinioClient == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	key := objectKey(objectPath, bucket)

	reqParams := make(url.Values)
	presignedURL, err := database.MinioClient.PresignedGetObject(ctx, bucket, key, duration, reqParams)
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}

// objectKey ramène une URL publique complète au chemin relatif au bucket.
func objectKey(objectPath, bucket string) string {
	prefix := fmt.Sprintf("http://%s/%s/", os.Getenv("MINIO_ENDPOINT"), bucket)
	return strings.TrimPrefix(objectPath, prefix)
}
