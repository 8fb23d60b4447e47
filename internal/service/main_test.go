package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"testing"
	"time"

	"cookie-shop/internal/database"
	"cookie-shop/internal/domain"
	"cookie-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	if err := database.RunMigrations(testDB, "../../migrations", zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func createTestUser(t *testing.T, role string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.New()),
		PasswordHash: "$2a$10$irrelevantirrelevantirrelevantirrelevantirrele",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := repository.NewUserRepository(testDB).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, name string, price decimal.Decimal, stock int) *domain.Product {
	t.Helper()

	product := &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := repository.NewProductRepository(testDB).Create(context.Background(), product); err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

func productStock(t *testing.T, id uuid.UUID) int {
	t.Helper()

	var stock int
	if err := testDB.QueryRow("SELECT stock FROM products WHERE id = $1", id).Scan(&stock); err != nil {
		t.Fatalf("failed to read product stock: %v", err)
	}
	return stock
}

// fillCart creates the user's cart (if needed) and adds the given
// product/quantity lines through the cart service.
func fillCart(t *testing.T, svc CartService, userID uuid.UUID, lines map[uuid.UUID]int) *domain.Cart {
	t.Helper()

	cart, err := svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("failed to get cart: %v", err)
	}
	for productID, quantity := range lines {
		cart, err = svc.AddItem(context.Background(), userID, productID, quantity)
		if err != nil {
			t.Fatalf("failed to add cart item: %v", err)
		}
	}
	return cart
}

func newTestCartService() CartService {
	return NewCartService(testDB,
		repository.NewCartRepository(testDB),
		repository.NewProductRepository(testDB))
}

func newTestOrderService() OrderService {
	return NewOrderService(testDB,
		repository.NewOrderRepository(testDB),
		repository.NewProductRepository(testDB),
		repository.NewCartRepository(testDB),
		repository.NewUserRepository(testDB),
		repository.NewNotificationRepository(testDB))
}
