// Package testutil holds fixtures shared by package tests: an in-memory
// SQLite database with the production schema and fakes for external services.
package testutil

import (
	migration "Foodies-Backend/cmd/database/migrate"
	"Foodies-Backend/internal/utils/storage"
	"Foodies-Backend/pkg/notification"
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PNG is the smallest header http.DetectContentType recognises as image/png.
var PNG = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func FileHeader(t testing.TB, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body, contentType := MultipartBody(t, nil, map[string][]byte{field + ":" + name: content})
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

// MultipartBody encodes fields and files; file keys are "field:filename".
func MultipartBody(t testing.TB, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for k, content := range files {
		field, name, _ := strings.Cut(k, ":")
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

// FakeS3 keeps uploaded object keys in memory.
type FakeS3 struct {
	mu       sync.Mutex
	Objects  map[string]int64
	Deleted  []string
	FailNext bool
}

func NewFakeS3() *FakeS3 {
	return &FakeS3{Objects: map[string]int64{}}
}

var _ storage.AwsS3 = (*FakeS3)(nil)

func (f *FakeS3) UploadFile(fileName string, fileHeader *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	if _, err := storage.DetectContentType(fileHeader, allowed...); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailNext {
		f.FailNext = false
		return "", errors.New("upload failed")
	}
	key := storage.ObjectKey(folder, fileName, fileHeader)
	f.Objects[key] = fileHeader.Size
	return key, nil
}

func (f *FakeS3) DeleteFile(objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, objectKey)
	f.Deleted = append(f.Deleted, objectKey)
	return nil
}

func (f *FakeS3) GetPublicLinkKey(objectKey string) string {
	return storage.PublicLink("test-bucket", "local", objectKey)
}

func (f *FakeS3) GetObjectKeyFromLink(link string) string {
	return storage.ObjectKeyFromLink("test-bucket", "local", link)
}

func (f *FakeS3) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Objects)
}

type Mail struct {
	Kind  string
	To    string
	Name  string
	Token string
}

// FakeMailer records mails instead of sending them.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []Mail
	Err  error
}

func (m *FakeMailer) SendWelcome(toEmail, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, Mail{Kind: "welcome", To: toEmail, Name: name})
	return m.Err
}

func (m *FakeMailer) SendPasswordReset(toEmail, name, resetToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, Mail{Kind: "reset", To: toEmail, Name: name, Token: resetToken})
	return m.Err
}

func (m *FakeMailer) Last(kind string) (Mail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].Kind == kind {
			return m.Sent[i], nil
		}
	}
	return Mail{}, fmt.Errorf("no %s mail sent", kind)
}

// FakePublisher records published events.
type FakePublisher struct {
	mu     sync.Mutex
	Events []notification.Event
}

func (p *FakePublisher) Publish(_ context.Context, event notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return nil
}

func (p *FakePublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		res = append(res, e.Type)
	}
	return res
}
