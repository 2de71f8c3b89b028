package storage

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/internal/utils"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var AllowImage = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

type (
	AwsS3 interface {
		UploadFile(fileName string, fileHeader *multipart.FileHeader, folder string, allowed ...string) (string, error)
		DeleteFile(objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_S3_REGION")
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		log.Fatalf("failed to load aws config: %v", err)
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
	}
}

// DetectContentType sniffs the first bytes of the upload and checks them
// against the allowed MIME types. An empty allow list accepts anything.
func DetectContentType(fileHeader *multipart.FileHeader, allowed ...string) (string, error) {
	if fileHeader == nil {
		return "", domain.ErrFileRequired
	}
	f, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(head[:n])
	if len(allowed) > 0 && !slices.Contains(allowed, contentType) {
		return "", domain.ErrInvalidFileType
	}
	return contentType, nil
}

func (a *awsS3) put(objectKey string, fileHeader *multipart.FileHeader, allowed ...string) error {
	contentType, err := DetectContentType(fileHeader, allowed...)
	if err != nil {
		return err
	}

	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = a.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey),
		Body:          f,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(fileHeader.Size),
	})
	return err
}

func (a *awsS3) UploadFile(fileName string, fileHeader *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	objectKey := ObjectKey(folder, fileName, fileHeader)
	if err := a.put(objectKey, fileHeader, allowed...); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (a *awsS3) DeleteFile(objectKey string) error {
	_, err := a.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return PublicLink(a.bucket, a.region, objectKey)
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	return ObjectKeyFromLink(a.bucket, a.region, link)
}

func ObjectKey(folder, fileName string, fileHeader *multipart.FileHeader) string {
	ext := ""
	if fileHeader != nil {
		ext = strings.ToLower(filepath.Ext(fileHeader.Filename))
	}
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), fileName, ext)
}

func PublicLink(bucket, region, objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, objectKey)
}

// ObjectKeyFromLink returns "" for links that do not point into the bucket.
func ObjectKeyFromLink(bucket, region, link string) string {
	prefix := PublicLink(bucket, region, "")
	if link == "" || !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
