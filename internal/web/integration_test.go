package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/pantrypal/internal/auth"
	"github.com/vbonduro/pantrypal/internal/db"
	"github.com/vbonduro/pantrypal/internal/photostore"
	"github.com/vbonduro/pantrypal/internal/service"
	"github.com/vbonduro/pantrypal/internal/store"
	"github.com/vbonduro/pantrypal/internal/vision"
	"github.com/vbonduro/pantrypal/internal/web"
)

// minimalJPEG is 512 bytes with the JPEG magic bytes header followed by zeros.
// http.DetectContentType identifies JPEG from the leading 0xFF 0xD8 bytes.
var minimalJPEG = func() []byte {
	b := make([]byte, 512)
	b[0] = 0xFF
	b[1] = 0xD8
	b[2] = 0xFF
	b[3] = 0xE0
	return b
}()

var today = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func date(offset int) string {
	return today.AddDate(0, 0, offset).Format("2006-01-02")
}

// recordingVision captures the image bytes passed to it and returns a
// pre-configured result.
type recordingVision struct {
	mu        sync.Mutex
	lastBytes []byte
	result    *vision.AnalysisResult
}

func (r *recordingVision) Analyze(_ context.Context, rd io.Reader, _ string) (*vision.AnalysisResult, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("recordingVision: read image: %w", err)
	}
	r.mu.Lock()
	r.lastBytes = data
	r.mu.Unlock()
	return r.result, nil
}

func (r *recordingVision) LastBytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastBytes
}

// memPhotoStore is a simple in-memory implementation of photostore.PhotoStore.
type memPhotoStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	mimes   map[string]string
	counter int
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{
		data:  make(map[string][]byte),
		mimes: make(map[string]string),
	}
}

func (m *memPhotoStore) Save(_ context.Context, owner, mimeType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	key := fmt.Sprintf("%s/%d", owner, m.counter)
	m.data[key] = data
	m.mimes[key] = mimeType
	return key, nil
}

func (m *memPhotoStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, "", photostore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), m.mimes[key], nil
}

func (m *memPhotoStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return photostore.ErrNotFound
	}
	delete(m.data, key)
	delete(m.mimes, key)
	return nil
}

// outbox records sent mail.
type outbox struct {
	mu     sync.Mutex
	bodies []string
}

func (o *outbox) Send(_ context.Context, _, _, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bodies = append(o.bodies, body)
	return nil
}

func (o *outbox) last() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.bodies) == 0 {
		return ""
	}
	return o.bodies[len(o.bodies)-1]
}

type testEnv struct {
	srv  *httptest.Server
	vis  *recordingVision
	mail *outbox
}

// newTestServer sets up a real web.Server backed by in-memory SQLite, a fixed
// clock and the provided vision stub.
func newTestServer(t *testing.T, vis *recordingVision) *testEnv {
	t.Helper()
	database, err := db.OpenForTesting()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := service.Clock{Location: time.UTC, Now: func() time.Time { return today }}
	zones := store.NewZoneStore(database)
	items := store.NewItemStore(database)
	photos := store.NewPhotoStore(database)
	photoStg := newMemPhotoStore()
	mail := &outbox{}

	authSvc := auth.NewService(
		store.NewUserStore(database),
		store.NewSessionStore(database),
		store.NewResetStore(database),
		auth.NewTokenIssuer("test-secret", time.Hour),
		mail,
		"http://localhost/reset",
		logger,
	)
	srv := httptest.NewServer(web.NewServer(web.Services{
		Auth:      authSvc,
		Inventory: service.NewInventoryService(items, zones, clock, logger),
		Zones:     service.NewZoneService(zones, items, photos, photoStg, logger),
		Dashboard: service.NewDashboardService(items, clock, logger),
		Scan:      service.NewScanService(zones, photos, items, vis, photoStg, clock, logger),
	}, logger))
	t.Cleanup(func() {
		srv.Close()
		_ = database.Close()
	})
	return &testEnv{srv: srv, vis: vis, mail: mail}
}

// do sends a JSON request and returns the status and raw body.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func errorOf(t *testing.T, data []byte) string {
	return decode[map[string]string](t, data)["error"]
}

type sessionResp struct {
	Token string `json:"token"`
	User  struct {
		UID   string `json:"uid"`
		Email string `json:"email"`
	} `json:"user"`
}

type itemResp struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	ExpiryDate    *string `json:"expiryDate"`
	ZoneID        *int64  `json:"zoneId"`
	DaysRemaining *int    `json:"daysRemaining"`
	Urgency       string  `json:"urgency"`
}

type zoneResp struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ItemCount *int   `json:"itemCount"`
}

func (e *testEnv) signUp(t *testing.T, email string) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": "secret1", "confirmPassword": "secret1",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[sessionResp](t, body).Token
}

func (e *testEnv) addZone(t *testing.T, token, name string) int64 {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/zones", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[zoneResp](t, body).ID
}

func (e *testEnv) addItem(t *testing.T, token string, item map[string]any) itemResp {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/items", token, item)
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[itemResp](t, body)
}

// buildMultipartBody creates a multipart/form-data body with an "image" field.
func buildMultipartBody(t *testing.T, imageData []byte) (body *bytes.Buffer, contentType string) {
	t.Helper()
	body = &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = fw.Write(imageData)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (e *testEnv) scan(t *testing.T, token string, zoneID int64, image []byte) (int, []byte) {
	t.Helper()
	body, contentType := buildMultipartBody(t, image)
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/zones/%d/scan", e.srv.URL, zoneID), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestIntegration_Healthz(t *testing.T) {
	env := newTestServer(t, &recordingVision{result: &vision.AnalysisResult{}})
	status, body := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestIntegration_AuthFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := newTestServer(t, &recordingVision{result: &vision.AnalysisResult{}})

	status, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.co", "password": "12345"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, auth.MsgPasswordTooShort, errorOf(t, body))

	token := env.signUp(t, "cook@example.com")

	status, body = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "cook@example.com", "password": "secret1", "confirmPassword": "secret1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, auth.MsgEmailInUse, errorOf(t, body))

	status, body = env.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	profile := decode[struct {
		User    struct{ Email string } `json:"user"`
		Message string                 `json:"message"`
	}](t, body)
	assert.Equal(t, "cook@example.com", profile.User.Email)
	assert.Equal(t, "Signed in as: cook@example.com", profile.Message)

	status, body = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "cook@example.com", "password": "wrong-pw"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.MsgBadCredentials, errorOf(t, body))

	status, _ = env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = env.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.MsgNotSignedIn, errorOf(t, body))
}

func TestIntegration_SessionCookie(t *testing.T) {
	env := newTestServer(t, &recordingVision{result: &vision.AnalysisResult{}})

	b, err := json.Marshal(map[string]string{"email": "c@example.com", "password": "secret1", "confirmPassword": "secret1"})
	require.NoError(t, err)
	resp, err := http.Post(env.srv.URL+"/api/auth/signup", "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "pantrypal_session" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/api/dashboard", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIntegration_PasswordReset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := newTestServer(t, &recordingVision{result: &vision.AnalysisResult{}})
	oldToken := env.signUp(t, "cook@example.com")

	status, body := env.do(t, http.MethodPost, "/api/auth/password-reset", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, auth.MsgNoSuchUser, errorOf(t, body))

	status, body = env.do(t, http.MethodPost, "/api/auth/password-reset", "", map[string]string{"email": "cook@example.com"})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, auth.MsgResetSent, decode[map[string]string](t, body)["message"])

	m := regexp.MustCompile(`token=([0-9a-f-]+)`).FindStringSubmatch(env.mail.last())
	require.Len(t, m, 2, env.mail.last())
	confirm := map[string]string{"token": m[1], "password": "newpass1", "confirmPassword": "newpass1"}

	status, body = env.do(t, http.MethodPost, "/api/auth/password-reset/confirm", "", confirm)
	require.Equal(t, http.StatusNoContent, status, string(body))

	status, body = env.do(t, http.MethodPost, "/api/auth/password-reset/confirm", "", confirm)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, auth.MsgResetLinkInvalid, errorOf(t, body))

	status, _ = env.do(t, http.MethodGet, "/api/profile", oldToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status, "reset revokes existing sessions")

	status, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "cook@example.com", "password": "newpass1"})
	assert.Equal(t, http.StatusOK, status)
}

func TestIntegration_RequiresSession(t *testing.T) {
	env := newTestServer(t, &recordingVision{result: &vision.AnalysisResult{}})
	for _, path := range []string{"/api/items", "/api/zones", "/api/dashboard", "/api/profile"} {
		status, body := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.Equal(t, auth.MsgNotSignedIn, errorOf(t, body), path)
	}
}

func TestIntegration_Items(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := newTestServer(t, &recordingVision{result: &vision.AnalysisResult{}})
	token := env.signUp(t, "cook@example.com")
	fridge := env.addZone(t, token, "Fridge")

	milk := env.addItem(t, token, map[string]any{"name": "Milk", "quantity": 2, "expiryDate": date(1), "zoneId": fridge})
	assert.Equal(t, "Milk", milk.Name)
	assert.Equal(t, 2, milk.Quantity)
	require.NotNil(t, milk.DaysRemaining)
	assert.Equal(t, 1, *milk.DaysRemaining)
	assert.Equal(t, "soon", milk.Urgency)

	rice := env.addItem(t, token, map[string]any{"name": "rice", "quantity": 0, "expiryDate": date(30)})
	assert.Equal(t, 1, rice.Quantity, "zero quantity defaults to one")
	assert.Nil(t, rice.ZoneID)

	status, body := env.do(t, http.MethodPost, "/api/items", token, map[string]any{"name": "Old", "expiryDate": date(-1)})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.MsgExpiryInPast, errorOf(t, body))

	status, body = env.do(t, http.MethodPost, "/api/items", token, map[string]any{"name": "Bad", "expiryDate": "19/10/2026"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid expiry date.", errorOf(t, body))

	status, body = env.do(t, http.MethodPost, "/api/items", token, map[string]any{"name": " ", "expiryDate": date(0)})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.MsgItemNameEmpty, errorOf(t, body))

	status, body = env.do(t, http.MethodGet, "/api/items?sort=name", token, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[[]itemResp](t, body)
	require.Len(t, list, 2)
	assert.Equal(t, "Milk", list[0].Name)
	assert.Equal(t, "rice", list[1].Name)

	status, body = env.do(t, http.MethodGet, "/api/items?q=MIL&expiring=soon", token, nil)
	require.Equal(t, http.StatusOK, status)
	list = decode[[]itemResp](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, milk.ID, list[0].ID)

	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/items?zone=%d", fridge), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]itemResp](t, body), 1)

	status, _ = env.do(t, http.MethodGet, "/api/items?sort=random", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, http.MethodPut, fmt.Sprintf("/api/items/%d", milk.ID), token,
		map[string]any{"name": "Oat milk", "quantity": 3, "expiryDate": date(5), "zoneId": fridge})
	require.Equal(t, http.StatusOK, status, string(body))
	updated := decode[itemResp](t, body)
	assert.Equal(t, "Oat milk", updated.Name)
	assert.Equal(t, "fresh", updated.Urgency)

	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/items/%d", milk.ID), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, date(5), *decode[itemResp](t, body).ExpiryDate)

	other := env.signUp(t, "other@example.com")
	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/items/%d", milk.ID), other, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, service.MsgItemNotFound, errorOf(t, body))

	status, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/items/%d", milk.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/items/%d", milk.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodGet, "/api/items/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestIntegration_Dashboard(t *testing.T) {
	env := newTestServer(t, &recordingVision{result: &vision.AnalysisResult{}})
	token := env.signUp(t, "cook@example.com")

	env.addItem(t, token, map[string]any{"name": "Yogurt", "expiryDate": date(0)})
	env.addItem(t, token, map[string]any{"name": "Cheese", "expiryDate": date(3)})
	env.addItem(t, token, map[string]any{"name": "Flour", "expiryDate": date(90)})

	status, body := env.do(t, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"expiringToday":1,"expiringSoon":2,"totalItems":3}`, string(body))
}

func TestIntegration_Zones(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	env := newTestServer(t, &recordingVision{result: &vision.AnalysisResult{}})
	token := env.signUp(t, "cook@example.com")

	pantry := env.addZone(t, token, "Pantry")
	fridge := env.addZone(t, token, "Fridge")

	status, body := env.do(t, http.MethodPost, "/api/zones", token, map[string]string{"name": "Fridge"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, service.MsgZoneExists, errorOf(t, body))

	status, body = env.do(t, http.MethodPost, "/api/zones", token, map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.MsgZoneNameBlank, errorOf(t, body))

	env.addItem(t, token, map[string]any{"name": "Milk", "expiryDate": date(2), "zoneId": fridge})

	status, body = env.do(t, http.MethodGet, "/api/zones", token, nil)
	require.Equal(t, http.StatusOK, status)
	zones := decode[[]zoneResp](t, body)
	require.Len(t, zones, 2)
	assert.Equal(t, "Fridge", zones[0].Name)
	assert.Equal(t, 1, *zones[0].ItemCount)
	assert.Equal(t, "Pantry", zones[1].Name)
	assert.Equal(t, 0, *zones[1].ItemCount)

	status, body = env.do(t, http.MethodPut, fmt.Sprintf("/api/zones/%d", pantry), token, map[string]string{"name": "Cupboard"})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "Cupboard", decode[zoneResp](t, body).Name)

	status, body = env.do(t, http.MethodDelete, fmt.Sprintf("/api/zones/%d", fridge), token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, service.MsgZoneHasItems, errorOf(t, body))

	status, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/zones/%d", pantry), token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/zones/%d", pantry), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestIntegration_ScanZone(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	vis := &recordingVision{
		result: &vision.AnalysisResult{
			Items: []vision.DetectedItem{
				{Name: "Orange Juice", Quantity: "2 cartons", Expiry: date(6)},
				{Name: "Ham", Quantity: "1", Expiry: date(-2)},
			},
		},
	}
	env := newTestServer(t, vis)
	token := env.signUp(t, "cook@example.com")
	fridge := env.addZone(t, token, "Fridge")

	status, body := env.do(t, http.MethodGet, fmt.Sprintf("/api/zones/%d/photo", fridge), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, service.MsgPhotoNotFound, errorOf(t, body))

	status, body = env.scan(t, token, fridge, minimalJPEG)
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Equal(t, minimalJPEG, vis.LastBytes())

	res := decode[struct {
		PhotoID int64      `json:"photoId"`
		Items   []itemResp `json:"items"`
	}](t, body)
	assert.NotZero(t, res.PhotoID)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Orange Juice", res.Items[0].Name)
	assert.Equal(t, 2, res.Items[0].Quantity)
	assert.Equal(t, date(6), *res.Items[0].ExpiryDate)
	assert.Equal(t, fridge, *res.Items[0].ZoneID)
	assert.Nil(t, res.Items[1].ExpiryDate, "past detected dates are dropped")

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/zones/%d/photo", env.srv.URL, fridge), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	photo, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, minimalJPEG, photo)
}

func TestIntegration_ScanRejectsNonImage(t *testing.T) {
	vis := &recordingVision{result: &vision.AnalysisResult{}}
	env := newTestServer(t, vis)
	token := env.signUp(t, "cook@example.com")
	fridge := env.addZone(t, token, "Fridge")

	status, body := env.scan(t, token, fridge, []byte("%PDF-1.4 not an image"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unsupported image format.", errorOf(t, body))
	assert.Nil(t, vis.LastBytes())

	status, _ = env.scan(t, token, fridge+100, minimalJPEG)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestIntegration_SecurityHeaders(t *testing.T) {
	env := newTestServer(t, &recordingVision{result: &vision.AnalysisResult{}})
	resp, err := http.Get(env.srv.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "default-src 'none'")
}
