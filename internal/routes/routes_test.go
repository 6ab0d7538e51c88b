package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/infra/slotlock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

type nopSink struct{}

func (nopSink) Dispatch(audit.Event) {}

func call(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// nextMonday is a monday at least a week away, in the shop zone.
func nextMonday() string {
	d := time.Now().In(testutil.BRT).AddDate(0, 0, 7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func TestBookingFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	cfg := &config.Config{JWTSecret: "secret", JWTTTL: time.Hour, SlotHold: time.Minute}

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	client := models.User{Name: "Bia", Email: "bia@example.com", PasswordHash: string(hash), Role: models.RoleClient}
	if err := db.Create(&client).Error; err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:       db,
		Config:   cfg,
		Log:      zap.NewNop(),
		Location: testutil.BRT,
		Locker:   slotlock.NewMemoryLocker(),
		Audit:    nopSink{},
	})

	// ops
	if w := call(r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"database":"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}

	// login
	w := call(r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "bia@example.com", "password": "segredo1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &login)

	date := nextMonday()

	// availability
	w = call(r, http.MethodGet, "/api/barbers/"+f.Barber.ID+"/availability?service_id="+f.Cut.ID+"&date="+date, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("availability = %d %s", w.Code, w.Body.String())
	}
	var avail struct {
		Date  string   `json:"date"`
		Slots []string `json:"slots"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &avail)
	if avail.Date != date || !slices.Contains(avail.Slots, "10:00") {
		t.Fatalf("availability body = %+v", avail)
	}

	req := gin.H{"service_id": f.Cut.ID, "barber_id": f.Barber.ID, "date": date, "time": "10:00"}

	if w := call(r, http.MethodPost, "/api/me/bookings", "", req); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create = %d", w.Code)
	}

	w = call(r, http.MethodPost, "/api/me/bookings", login.Token, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	var created models.Booking
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	if w := call(r, http.MethodPost, "/api/me/bookings", login.Token, req); w.Code != http.StatusConflict || !strings.Contains(w.Body.String(), "slot_unavailable") {
		t.Errorf("double booking = %d %s", w.Code, w.Body.String())
	}

	w = call(r, http.MethodGet, "/api/barbers/"+f.Barber.ID+"/availability?service_id="+f.Cut.ID+"&date="+date, "", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &avail)
	if slices.Contains(avail.Slots, "10:00") || slices.Contains(avail.Slots, "09:45") {
		t.Errorf("booked time still offered: %v", avail.Slots)
	}

	// list and cancel
	w = call(r, http.MethodGet, "/api/me/bookings", login.Token, nil)
	var page struct {
		Confirmed []struct {
			ID string `json:"id"`
		} `json:"confirmed"`
		Finished []any `json:"finished"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &page)
	if len(page.Confirmed) != 1 || page.Confirmed[0].ID != created.ID || page.Finished == nil {
		t.Fatalf("bookings page = %s", w.Body.String())
	}

	adminToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  f.Admin.ID,
		"role": models.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatal(err)
	}

	w = call(r, http.MethodGet, "/api/admin/barbers/"+f.Barber.ID+"/bookings?date="+date, adminToken, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"client_name":"Bia"`) {
		t.Errorf("agenda = %d %s", w.Code, w.Body.String())
	}

	if w := call(r, http.MethodDelete, "/api/me/bookings/"+created.ID, login.Token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("cancel = %d %s", w.Code, w.Body.String())
	}
	if w := call(r, http.MethodDelete, "/api/me/bookings/"+created.ID, login.Token, nil); w.Code != http.StatusNotFound {
		t.Errorf("second cancel = %d", w.Code)
	}

	// admin
	if w := call(r, http.MethodPost, "/api/admin/barbers", login.Token, gin.H{"name": "Davi"}); w.Code != http.StatusForbidden {
		t.Errorf("client on admin route = %d", w.Code)
	}

	if w := call(r, http.MethodPost, "/api/admin/barbers", adminToken, gin.H{"name": "Davi"}); w.Code != http.StatusCreated {
		t.Errorf("admin create barber = %d %s", w.Code, w.Body.String())
	}
	if w := call(r, http.MethodGet, "/api/admin/audit-logs?limit=10", adminToken, nil); w.Code != http.StatusOK {
		t.Errorf("audit logs = %d %s", w.Code, w.Body.String())
	}
	if w := call(r, http.MethodGet, "/api/services", "", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total":2`) {
		t.Errorf("services = %d %s", w.Code, w.Body.String())
	}
	if w := call(r, http.MethodGet, "/metrics", "", nil); w.Code != http.StatusOK {
		t.Errorf("metrics = %d", w.Code)
	}
}
