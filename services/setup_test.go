package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-frontdesk/database"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// setupTestDB membuka SQLite in-memory dengan satu koneksi sehingga transaksi
// berjalan berurutan, sama seperti row lock di MySQL/Postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger("error", "text")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// fakeClock is a settable time source shared by signer and services.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestAuth(db *gorm.DB, clock *fakeClock) *AuthService {
	signer := utils.NewTokenSigner([]byte(testSecret), "frontdesk-test")
	return NewAuthService(db, signer, 30*time.Minute, 7*24*time.Hour).WithClock(clock.Now)
}

func createUser(t *testing.T, db *gorm.DB, username, password string, isAdmin bool) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		Role:         models.RoleWaiter,
		PasswordHash: string(hashed),
		IsAdmin:      isAdmin,
		Lifecycle:    models.LifecycleActive,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTable(t *testing.T, db *gorm.DB, number string) *models.Table {
	t.Helper()
	table := models.Table{Number: number, Capacity: 4, Status: models.TableFree, Version: 1}
	require.NoError(t, db.Create(&table).Error)
	return &table
}

func createMenuItem(t *testing.T, db *gorm.DB, name string, price float64) *models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, BasePrice: price, Station: "kitchen", IsActive: true}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

// recordingBus captures broadcasts for assertions.
type recordingBus struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBus) Broadcast(event string, _ interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}
