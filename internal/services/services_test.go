package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/dao/memstore"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/upload"
	"github.com/patientng/patient-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	utils.PasswordCost = 4
	os.Exit(m.Run())
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

type testEnv struct {
	ds      *dao.Datasources
	dir     string
	uploads *upload.Uploader
	signer  *utils.TokenSigner
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		ds:      memstore.NewDatasources(),
		dir:     dir,
		uploads: upload.New(&upload.LocalStorage{BasePath: dir}, 1024),
		signer: &utils.TokenSigner{
			AccessSecret:  []byte("access"),
			AccessTTL:     time.Hour,
			RefreshSecret: []byte("refresh"),
			RefreshTTL:    RefreshTokenLifetime,
		},
	}
}

func (e *testEnv) user(t *testing.T, email string, tags ...models.UserType) *models.User {
	t.Helper()
	u := &models.User{
		ID:        primitive.NewObjectID(),
		FirstName: "Ada",
		Email:     email,
		Phone:     "+2348000000000",
		UserType:  append([]models.UserType{}, tags...),
		Active:    true,
		Level:     1,
	}
	if err := e.ds.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *testEnv) admin(t *testing.T) *models.User {
	t.Helper()
	u := e.user(t, "admin@patient.ng", models.TypeAdmin)
	u.IsAdmin = true
	return u
}

func (e *testEnv) exists(rel string) bool {
	_, err := os.Stat(e.dir + "/" + rel)
	return err == nil
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File["image"][0]
}

func wantCode(t *testing.T, err error, code int) {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Code != code {
		t.Fatalf("err = %v, want status %d", err, code)
	}
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) StatusChanged(owner *models.User, subject, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, owner.Email+" "+subject+" "+status)
}
