package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/dao/memstore"
	"github.com/patientng/patient-api/internal/upload"
	"github.com/patientng/patient-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.PasswordCost = 4
	os.Exit(m.Run())
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

type server struct {
	t   *testing.T
	r   *gin.Engine
	ds  *dao.Datasources
	dir string
}

func newServer(t *testing.T) *server {
	t.Helper()
	dir := t.TempDir()
	ds := memstore.NewDatasources()
	signer := &utils.TokenSigner{
		AccessSecret:  []byte("access"),
		AccessTTL:     time.Hour,
		RefreshSecret: []byte("refresh"),
		RefreshTTL:    24 * time.Hour,
	}
	h := NewHandler(ds, upload.New(&upload.LocalStorage{BasePath: dir}, 1024), signer, nil, "root@patient.ng")
	h.UploadDir = dir
	h.UploadPrefix = "/uploads"
	r := gin.New()
	h.Register(r)
	return &server{t: t, r: r, ds: ds, dir: dir}
}

type response struct {
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	Result     json.RawMessage `json:"result"`
	Results    json.RawMessage `json:"results"`
	TotalPages *int            `json:"totalPages"`
	status     int
}

func (s *server) send(req *http.Request, token string) response {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	var out response
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		s.t.Fatalf("%s %s: decoding %q: %v", req.Method, req.URL, w.Body.String(), err)
	}
	out.status = w.Code
	return out
}

func (s *server) do(method, path, token string, body any) response {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, token)
}

func (s *server) multipart(method, path, token string, fields map[string]string, image []byte) response {
	s.t.Helper()
	return s.multipartNamed(method, path, token, fields, "photo.png", image)
}

func (s *server) multipartNamed(method, path, token string, fields map[string]string, filename string, image []byte) response {
	s.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	if image != nil {
		part, err := w.CreateFormFile("image", filename)
		if err != nil {
			s.t.Fatal(err)
		}
		part.Write(image)
	}
	w.Close()
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.send(req, token)
}

func (s *server) decode(raw json.RawMessage, v any) {
	s.t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		s.t.Fatalf("decoding %s: %v", raw, err)
	}
}

// signup registers email and returns its access token and id. Any extra
// fields are written straight to the stored user.
func (s *server) signup(email string, set bson.M) (string, primitive.ObjectID) {
	s.t.Helper()
	res := s.do("POST", "/api/v1/auth/signup", "", map[string]string{
		"firstName": "Ada",
		"lastName":  "Obi",
		"email":     email,
		"password":  "password1",
	})
	if res.status != http.StatusCreated {
		s.t.Fatalf("signup %s: %d %s", email, res.status, res.Message)
	}
	var sess struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID primitive.ObjectID `json:"id"`
		} `json:"user"`
	}
	s.decode(res.Result, &sess)
	if len(set) > 0 {
		if _, err := s.ds.Users.UpdateByID(context.Background(), sess.User.ID, set); err != nil {
			s.t.Fatal(err)
		}
	}
	return sess.AccessToken, sess.User.ID
}

func expect(t *testing.T, res response, status int, message string) {
	t.Helper()
	if res.status != status || res.Code != status {
		t.Fatalf("status = %d (code %d, %q), want %d", res.status, res.Code, res.Message, status)
	}
	if message != "" && res.Message != message {
		t.Errorf("message = %q, want %q", res.Message, message)
	}
}

func TestHealthz(t *testing.T) {
	s := newServer(t)
	expect(t, s.do("GET", "/healthz", "", nil), http.StatusOK, "ok")
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t)

	expect(t, s.do("POST", "/api/v1/auth/signup", "", map[string]string{"firstName": "a", "lastName": "b", "email": "x@y.co"}),
		http.StatusBadRequest, `"Password" is required`)
	expect(t, s.do("POST", "/api/v1/auth/signup", "", map[string]string{"firstName": "a", "lastName": "b", "email": "x@y.co", "password": "short"}),
		http.StatusBadRequest, `"Password" length must be at least 8 characters long`)
	expect(t, s.do("POST", "/api/v1/auth/signup", "", map[string]string{"firstName": "a", "lastName": "b", "email": "nope", "password": "password1"}),
		http.StatusBadRequest, `"Email" must be a valid email`)

	token, id := s.signup("ada@example.com", nil)
	expect(t, s.do("POST", "/api/v1/auth/signup", "", map[string]string{"firstName": "a", "lastName": "b", "email": "ada@example.com", "password": "password1"}),
		http.StatusConflict, "")

	me := s.do("GET", "/api/v1/users/me", token, nil)
	expect(t, me, http.StatusOK, "")
	var user map[string]any
	s.decode(me.Result, &user)
	if user["id"] != id.Hex() || user["email"] != "ada@example.com" {
		t.Errorf("me = %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Error("password hash in response")
	}

	expect(t, s.do("GET", "/api/v1/users/me", "", nil), http.StatusUnauthorized, "")
	expect(t, s.do("GET", "/api/v1/users/me", "garbage", nil), http.StatusUnauthorized, "")

	login := s.do("POST", "/api/v1/auth/login", "", map[string]string{"email": "ada@example.com", "password": "password1"})
	expect(t, login, http.StatusOK, "")
	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	s.decode(login.Result, &tokens)
	expect(t, s.do("POST", "/api/v1/auth/login", "", map[string]string{"email": "ada@example.com", "password": "password2"}),
		http.StatusUnauthorized, "Invalid credentials.")

	expect(t, s.do("POST", "/api/v1/auth/refresh", "", map[string]string{"refreshToken": tokens.RefreshToken}), http.StatusOK, "")
	expect(t, s.do("POST", "/api/v1/auth/logout", tokens.AccessToken, nil), http.StatusOK, "")
	expect(t, s.do("POST", "/api/v1/auth/refresh", "", map[string]string{"refreshToken": tokens.RefreshToken}),
		http.StatusUnauthorized, "Invalid refresh token.")
}

func TestUnknownUserToken(t *testing.T) {
	s := newServer(t)
	token, id := s.signup("gone@example.com", nil)
	if err := s.ds.Users.DeleteByID(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	expect(t, s.do("GET", "/api/v1/users/me", token, nil), http.StatusNotFound, "User not found.")
}

func TestAdvocacyStatusRoute(t *testing.T) {
	s := newServer(t)
	adminToken, _ := s.signup("admin@example.com", bson.M{"isAdmin": true})
	advocateToken, _ := s.signup("advocate@example.com", bson.M{"userType": []string{"advocacy"}})
	plainToken, _ := s.signup("plain@example.com", nil)

	body := map[string]string{"hospitalName": "General", "hospitalAddress": "Lagos", "complaints": "queue"}
	expect(t, s.do("POST", "/api/v1/advocacies", plainToken, body), http.StatusUnauthorized, "You are not authorized.")
	expect(t, s.do("POST", "/api/v1/advocacies", advocateToken, map[string]string{"hospitalName": "General"}),
		http.StatusBadRequest, `"hospital address" is required`)

	created := s.do("POST", "/api/v1/advocacies", advocateToken, body)
	expect(t, created, http.StatusCreated, "Successfully created advocacy.")
	var adv struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.decode(created.Result, &adv)
	path := "/api/v1/advocacies/" + adv.ID + "/status"

	expect(t, s.do("PATCH", path, advocateToken, nil), http.StatusUnauthorized, "You are not authorized.")

	var messages, statuses []string
	for range 3 {
		res := s.do("PATCH", path, adminToken, nil)
		expect(t, res, http.StatusOK, "")
		s.decode(res.Result, &adv)
		messages = append(messages, res.Message)
		statuses = append(statuses, adv.Status)
	}
	wantMessages := []string{"Successfully updated status.", "Successfully updated status.", "Status already closed."}
	if diff := cmp.Diff(wantMessages, messages); diff != "" {
		t.Errorf("messages (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"in-progress", "closed", "closed"}, statuses); diff != "" {
		t.Errorf("statuses (-want +got):\n%s", diff)
	}

	expect(t, s.do("PATCH", "/api/v1/advocacies/not-an-id/status", adminToken, nil), http.StatusBadRequest, "Invalid advocacy id.")
}

func TestDeactivatedUser(t *testing.T) {
	s := newServer(t)
	adminToken, _ := s.signup("admin@example.com", bson.M{"userType": []string{"admin"}})
	token, id := s.signup("user@example.com", nil)

	expect(t, s.do("GET", "/api/v1/users", token, nil), http.StatusUnauthorized, "")
	expect(t, s.do("PATCH", "/api/v1/users/"+id.Hex()+"/status", adminToken, nil), http.StatusOK, "Successfully updated user status.")
	expect(t, s.do("GET", "/api/v1/users/me", token, nil), http.StatusUnauthorized, "You are not authorized.")
}

func TestInsightListingPages(t *testing.T) {
	s := newServer(t)
	token, _ := s.signup("ins@example.com", nil)
	for _, name := range []string{"A", "B", "C"} {
		expect(t, s.do("POST", "/api/v1/insights", token, map[string]any{"hospitalName": name, "rating": 3}), http.StatusCreated, "")
	}
	expect(t, s.do("POST", "/api/v1/insights", token, map[string]any{"hospitalName": "D", "rating": 9}),
		http.StatusBadRequest, `"Rating" must be less than or equal to 5`)

	all := s.do("GET", "/api/v1/insights", "", nil)
	expect(t, all, http.StatusOK, "")
	var items []struct {
		HospitalName string `json:"hospitalName"`
	}
	s.decode(all.Results, &items)
	if len(items) != 3 || items[0].HospitalName != "C" || all.TotalPages != nil {
		t.Errorf("listing = %+v, totalPages = %v", items, all.TotalPages)
	}

	page := s.do("GET", "/api/v1/insights?page=2&pageSize=2", "", nil)
	expect(t, page, http.StatusOK, "")
	s.decode(page.Results, &items)
	if len(items) != 1 || items[0].HospitalName != "A" || page.TotalPages == nil || *page.TotalPages != 2 {
		t.Errorf("page 2 = %+v, totalPages = %v", items, page.TotalPages)
	}
}

func TestInsightImageUpload(t *testing.T) {
	s := newServer(t)
	token, _ := s.signup("img@example.com", nil)

	res := s.multipart("POST", "/api/v1/insights", token, map[string]string{"hospitalName": "Reddington", "rating": "5"}, pngBytes)
	expect(t, res, http.StatusCreated, "")
	var ins struct {
		ID    string `json:"id"`
		Image string `json:"image"`
	}
	s.decode(res.Result, &ins)
	if ins.Image == "" {
		t.Fatal("no image path stored")
	}

	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, httptest.NewRequest("GET", "/uploads/"+ins.Image, nil))
	if w.Code != http.StatusOK || !bytes.Equal(w.Body.Bytes(), pngBytes) {
		t.Errorf("serving upload: status %d", w.Code)
	}

	big := append(append([]byte{}, pngBytes...), make([]byte, 4096)...)
	expect(t, s.multipart("PATCH", "/api/v1/insights/"+ins.ID, token, map[string]string{"comment": "x"}, big), http.StatusBadRequest, "")
	expect(t, s.multipart("POST", "/api/v1/insights", token, map[string]string{"hospitalName": "R", "rating": "5"}, []byte("plain text")),
		http.StatusBadRequest, "")

	got := s.do("GET", "/api/v1/insights/"+ins.ID, "", nil)
	var after struct {
		Image   string `json:"image"`
		Comment string `json:"comment"`
	}
	s.decode(got.Result, &after)
	if after.Image != ins.Image || after.Comment != "" {
		t.Errorf("after rejected upload: %+v", after)
	}
}

func TestPaymentRequestRoutes(t *testing.T) {
	s := newServer(t)
	adminToken, _ := s.signup("admin@example.com", bson.M{"isAdmin": true})
	ownerToken, _ := s.signup("owner@example.com", bson.M{"userType": []string{"crowdfunding"}})

	created := s.do("POST", "/api/v1/crowdfundings", ownerToken, map[string]any{
		"title": "Surgery", "story": "s", "amountNeeded": 1000,
		"accountName": "Ada", "accountNumber": "0123456789", "bank": "GTB",
	})
	expect(t, created, http.StatusCreated, "")
	var cf struct {
		ID string `json:"id"`
	}
	s.decode(created.Result, &cf)

	expect(t, s.do("PATCH", "/api/v1/crowdfundings/"+cf.ID+"/status", adminToken, nil), http.StatusOK, "Successfully updated status.")
	expect(t, s.do("POST", "/api/v1/crowdfundings/"+cf.ID+"/payment-requests", ownerToken, map[string]any{"amountRequested": 5000}),
		http.StatusBadRequest, "")

	pr := s.do("POST", "/api/v1/crowdfundings/"+cf.ID+"/payment-requests", ownerToken, map[string]any{"amountRequested": 400})
	expect(t, pr, http.StatusCreated, "")
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.decode(pr.Result, &req)
	expect(t, s.do("POST", "/api/v1/crowdfundings/"+cf.ID+"/payment-requests", ownerToken, map[string]any{"amountRequested": 700}),
		http.StatusBadRequest, "Amount requested exceeds the 600.00 left to request.")

	expect(t, s.do("GET", "/api/v1/payment-requests", ownerToken, nil), http.StatusUnauthorized, "")
	expect(t, s.do("PATCH", "/api/v1/payment-requests/"+req.ID+"/status", adminToken, nil), http.StatusOK, "Successfully updated status.")
	expect(t, s.do("PATCH", "/api/v1/payment-requests/"+req.ID+"/status", adminToken, nil), http.StatusOK, "Payment request already paid.")
}

func TestUploadServedAsImage(t *testing.T) {
	s := newServer(t)
	token, _ := s.signup("xss@example.com", nil)

	polyglot := append(append([]byte{}, pngBytes...), []byte("<script>alert(document.cookie)</script>")...)
	res := s.multipartNamed("POST", "/api/v1/insights", token, map[string]string{"hospitalName": "Eko", "rating": "4"}, "evil.html", polyglot)
	expect(t, res, http.StatusCreated, "")
	var ins struct {
		Image string `json:"image"`
	}
	s.decode(res.Result, &ins)
	if !strings.HasSuffix(ins.Image, ".png") {
		t.Fatalf("stored image = %q, want .png", ins.Image)
	}

	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, httptest.NewRequest("GET", "/uploads/"+ins.Image, nil))
	if ct := w.Header().Get("Content-Type"); w.Code != http.StatusOK || ct != "image/png" {
		t.Errorf("GET upload: status %d, Content-Type %q", w.Code, ct)
	}
}

func TestPendingStoryVisibility(t *testing.T) {
	s := newServer(t)
	authorToken, _ := s.signup("author@example.com", nil)
	otherToken, _ := s.signup("other@example.com", nil)
	adminToken, _ := s.signup("admin@example.com", bson.M{"isAdmin": true})

	res := s.do("POST", "/api/v1/stories", authorToken, map[string]string{"title": "My surgery", "content": "..."})
	expect(t, res, http.StatusCreated, "")
	var st struct {
		ID string `json:"id"`
	}
	s.decode(res.Result, &st)
	path := "/api/v1/stories/" + st.ID

	expect(t, s.do("GET", path, "", nil), http.StatusNotFound, "Story not found.")
	expect(t, s.do("GET", path, "garbage", nil), http.StatusNotFound, "Story not found.")
	expect(t, s.do("GET", path, otherToken, nil), http.StatusNotFound, "Story not found.")
	expect(t, s.do("GET", path, authorToken, nil), http.StatusOK, "")
	expect(t, s.do("GET", path, adminToken, nil), http.StatusOK, "")

	expect(t, s.do("PATCH", path+"/approve", adminToken, nil), http.StatusOK, "")
	expect(t, s.do("GET", path, "", nil), http.StatusOK, "")
}
