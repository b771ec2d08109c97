package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-frontdesk/config"
	"github.com/yeremiapane/restaurant-frontdesk/database"
	"github.com/yeremiapane/restaurant-frontdesk/hub"
	"github.com/yeremiapane/restaurant-frontdesk/router"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error", "text")
	os.Exit(m.Run())
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t       *testing.T
	baseURL string
	token   string
}

func (cl *client) call(method, path string, body interface{}, out interface{}) int {
	cl.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(cl.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, cl.baseURL+path, &buf)
	require.NoError(cl.t, err)
	req.Header.Set("Content-Type", "application/json")
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(cl.t, err)
	defer resp.Body.Close()

	var env apiResponse
	require.NoError(cl.t, json.NewDecoder(resp.Body).Decode(&env))
	if out != nil && len(env.Data) > 0 {
		require.NoError(cl.t, json.Unmarshal(env.Data, out))
	}
	return resp.StatusCode
}

func (cl *client) login(username, password string) {
	cl.t.Helper()
	var data struct {
		Tokens services.TokenPair `json:"tokens"`
	}
	status := cl.call("POST", "/auth/login/", map[string]interface{}{
		"username": username, "password": password, "remember_me": false,
	}, &data)
	require.Equal(cl.t, http.StatusOK, status)
	cl.token = data.Tokens.AccessToken
}

// startServer menyalakan server lengkap di atas SQLite in-memory, sama seperti main.
func startServer(t *testing.T) string {
	t.Helper()
	cfg := &config.Config{
		DBDriver:            "sqlite",
		DBDSN:               ":memory:",
		JWTSecret:           []byte("integration-secret"),
		JWTIssuer:           "restaurant-frontdesk",
		AccessTTL:           15 * time.Minute,
		RefreshTTL:          24 * time.Hour,
		ReleaseTableOnClose: true,
		LoginRatePerMin:     100,
	}
	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedAdmin(db, "admin", "admin-pass"))

	floorHub := hub.New()
	auth := services.NewAuthService(db, utils.NewTokenSigner(cfg.JWTSecret, cfg.JWTIssuer), cfg.AccessTTL, cfg.RefreshTTL)
	tables := services.NewTableService(db, floorHub)

	srv := httptest.NewServer(router.SetupRouter(router.Deps{
		DB:              db,
		Hub:             floorHub,
		Auth:            auth,
		Tables:          tables,
		Orders:          services.NewOrderService(db, tables, floorHub, cfg.ReleaseTableOnClose),
		Payments:        services.NewPaymentService(db, floorHub),
		Menu:            services.NewMenuService(db),
		Users:           services.NewUserService(db),
		LoginRatePerMin: cfg.LoginRatePerMin,
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// TestEndToEndService menguji flow utama lewat HTTP:
// admin menyiapkan staf, meja dan menu; waiter membuka order dan menambah item;
// kasir membayar; order ditutup dan meja kembali free.
func TestEndToEndService(t *testing.T) {
	baseURL := startServer(t)

	admin := &client{t: t, baseURL: baseURL}
	admin.login("admin", "admin-pass")

	for _, u := range []map[string]interface{}{
		{"username": "waiter1", "password": "waiter-pass", "role": "waiter"},
		{"username": "cashier1", "password": "cashier-pass", "role": "cashier"},
	} {
		require.Equal(t, http.StatusCreated, admin.call("POST", "/admin/users/", u, nil))
	}

	var table struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusCreated, admin.call("POST", "/admin/tables/", map[string]interface{}{"number": "A1", "capacity": 4}, &table))

	var dish struct {
		ID uint `json:"id"`
	}
	require.Equal(t, http.StatusCreated, admin.call("POST", "/admin/menu/items/", map[string]interface{}{
		"name": "Nasi Goreng", "base_price": 25000, "station": "kitchen",
	}, &dish))

	waiter := &client{t: t, baseURL: baseURL}
	waiter.login("waiter1", "waiter-pass")

	var order struct {
		ID       uint   `json:"id"`
		Status   string `json:"status"`
		WaiterID uint   `json:"waiter_id"`
	}
	require.Equal(t, http.StatusCreated, waiter.call("POST", "/orders/open/", map[string]interface{}{"table_id": table.ID}, &order))
	assert.Equal(t, "open", order.Status)
	orderPath := "/orders/" + strconv.FormatUint(uint64(order.ID), 10)

	require.Equal(t, http.StatusOK, waiter.call("GET", "/tables/"+strconv.FormatUint(uint64(table.ID), 10)+"/", nil, &table))
	assert.Equal(t, "occupied", table.Status)

	require.Equal(t, http.StatusCreated, waiter.call("POST", orderPath+"/items/", map[string]interface{}{"menu_item_id": dish.ID, "quantity": 2}, nil))
	require.Equal(t, http.StatusOK, waiter.call("POST", orderPath+"/submit/", nil, nil))

	// waiter tidak boleh mencatat pembayaran
	payment := map[string]interface{}{"order_id": order.ID, "method": "cash", "amount": 50000}
	assert.Equal(t, http.StatusUnauthorized, waiter.call("POST", "/payments/", payment, nil))

	cashier := &client{t: t, baseURL: baseURL}
	cashier.login("cashier1", "cashier-pass")
	var recorded struct {
		ReceiptNo string `json:"receipt_no"`
	}
	require.Equal(t, http.StatusCreated, cashier.call("POST", "/payments/", payment, &recorded))
	assert.NotEmpty(t, recorded.ReceiptNo)

	var detail struct {
		Status  string  `json:"status"`
		Total   float64 `json:"total"`
		Balance float64 `json:"balance"`
	}
	require.Equal(t, http.StatusOK, cashier.call("POST", orderPath+"/close/", nil, nil))
	require.Equal(t, http.StatusOK, cashier.call("GET", orderPath+"/", nil, &detail))
	assert.Equal(t, "closed", detail.Status)
	assert.Equal(t, 50000.0, detail.Total)
	assert.Equal(t, 0.0, detail.Balance)

	require.Equal(t, http.StatusOK, cashier.call("GET", "/tables/"+strconv.FormatUint(uint64(table.ID), 10)+"/", nil, &table))
	assert.Equal(t, "free", table.Status)

	// closing twice is rejected
	assert.Equal(t, http.StatusConflict, cashier.call("POST", orderPath+"/close/", nil, nil))

	// logout revokes the access token immediately
	require.Equal(t, http.StatusOK, waiter.call("POST", "/auth/logout/", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, waiter.call("GET", "/tables/", nil, nil))
}

func TestShutdownStopsSweeperBeforeClosingDB(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBDSN: ":memory:"}
	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	hook := test.NewLocal(utils.ErrorLogger)
	defer hook.Reset()

	auth := services.NewAuthService(db, utils.NewTokenSigner([]byte("k"), "iss"), time.Minute, time.Hour)
	sweeper := services.NewRevocationSweeper(auth, time.Millisecond)
	sweeper.Start()
	time.Sleep(20 * time.Millisecond)

	srv := &http.Server{Handler: http.NotFoundHandler()}
	shutdown(context.Background(), srv, sweeper, db)
	time.Sleep(20 * time.Millisecond)

	for _, entry := range hook.AllEntries() {
		assert.NotContains(t, entry.Message, "revocation sweep failed")
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "pool is closed")
}
