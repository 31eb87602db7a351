//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const TestPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

const DefaultAgencyName = "Douala Rentals"

func CreateTestUser(t *testing.T, db DBLike, email, role string, agencyID *uuid.UUID) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, password_hash, role, agency_id, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) WHERE is_active = true DO NOTHING",
		userID, email, TestPasswordHash, role, agencyID)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1 AND is_active = true", email).Scan(&userID)
	}

	return userID
}

func CreateTestAgency(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	agencyID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO agencies (id, name, city) VALUES ($1, $2, 'Douala') ON CONFLICT (name) DO NOTHING", agencyID, name)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM agencies WHERE name = $1", name).Scan(&agencyID)
	}

	return agencyID
}

func DefaultAgencyID(t *testing.T, db DBLike) uuid.UUID {
	t.Helper()

	var agencyID uuid.UUID
	err := db.QueryRow(context.Background(), "SELECT id FROM agencies WHERE name = $1", DefaultAgencyName).Scan(&agencyID)
	require.NoError(t, err)
	return agencyID
}

// TestCar is the row inserted by CreateTestCar. Nil optional prices use the
// fallbacks.
type TestCar struct {
	AgencyID        uuid.UUID
	Make            string
	Model           string
	PricePerDay     int64
	PricePerHour    *int64
	MonthlyPrice    *int64
	DriverAvailable bool
	Active          bool
}

func CreateTestCar(t *testing.T, db DBLike, car TestCar) uuid.UUID {
	t.Helper()

	if car.Make == "" {
		car.Make, car.Model = "Toyota", "Corolla"
	}
	carID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO cars (id, agency_id, make, model, seats, price_per_day, price_per_hour, monthly_price, driver_available, active)
		VALUES ($1, $2, $3, $4, 5, $5, $6, $7, $8, $9)`,
		carID, car.AgencyID, car.Make, car.Model, car.PricePerDay, car.PricePerHour, car.MonthlyPrice, car.DriverAvailable, car.Active)
	require.NoError(t, err)
	return carID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO agencies (id, name, city) VALUES
		    (gen_random_uuid(), 'Douala Rentals', 'Douala'),
		    (gen_random_uuid(), 'Yaounde Cars', 'Yaounde')
		ON CONFLICT (name) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
