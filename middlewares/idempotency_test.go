package middlewares

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"barangay-backend/database"
	"barangay-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newIdempotencyApp wires the middleware in front of a counting handler so a
// test can tell a replay from a re-execution.
func newIdempotencyApp(t *testing.T) (*fiber.App, *int) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.IdempotencyKey{}))
	database.DB = db

	calls := 0
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "res-1")
		return c.Next()
	})
	app.Use(Idempotency())
	app.Post("/requests", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"created": calls})
	})
	return app, &calls
}

func post(t *testing.T, app *fiber.App, key, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app, calls := newIdempotencyApp(t)
	body := `{"kind":"item_loan"}`

	status1, body1 := post(t, app, "key-1", body)
	assert.Equal(t, fiber.StatusCreated, status1)

	// The resubmit replays the stored response; the handler must not run again.
	status2, body2 := post(t, app, "key-1", body)
	assert.Equal(t, status1, status2)
	assert.Equal(t, body1, body2)
	assert.Equal(t, 1, *calls)
}

func TestIdempotencyKeyReuseWithDifferentRequest(t *testing.T) {
	app, calls := newIdempotencyApp(t)

	status, _ := post(t, app, "key-1", `{"kind":"item_loan"}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = post(t, app, "key-1", `{"kind":"sos_alert"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, 1, *calls)
}

func TestIdempotencyWithoutKeyRunsEveryTime(t *testing.T) {
	app, calls := newIdempotencyApp(t)
	body := `{"kind":"item_loan"}`

	for i := 1; i <= 2; i++ {
		status, respBody := post(t, app, "", body)
		assert.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, fmt.Sprintf(`{"created":%d}`, i), respBody)
	}
	assert.Equal(t, 2, *calls)
}
