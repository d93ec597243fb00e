package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/wibowo/storefront/internal/repository"
	orderService "github.com/wibowo/storefront/order/service"
	productService "github.com/wibowo/storefront/product/service"
)

type testEnv struct {
	cache          *redis.Client
	pool           *pgxpool.Pool
	pgContainer    *postgres.PostgresContainer
	redisContainer *testRedis.RedisContainer
	queries        *repository.Queries
	service        CartService
}

type (
	setupFunc    func(context.Context, ...string) testEnv
	teardownFunc func(testEnv)
)

func setup(t *testing.T) setupFunc {
	return func(c context.Context, seedPaths ...string) testEnv {
		pgContainer, err := postgres.Run(
			c,
			"postgres:16.6-alpine3.21",
			testcontainers.WithEnv(map[string]string{
				"POSTGRES_DB":       "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_PORT":     "5432",
				"POSTGRES_USER":     "postgres",
			}),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			postgres.WithDatabase("postgres"),
			postgres.BasicWaitStrategies(),
			postgres.WithInitScripts(
				append(
					[]string{
						filepath.Join("..", "..", "migrations", "20250312091240_create_table_users.up.sql"),
						filepath.Join("..", "..", "migrations", "20250312091511_create_table_products.up.sql"),
						filepath.Join("..", "..", "migrations", "20250312091745_create_table_carts.up.sql"),
						filepath.Join("..", "..", "migrations", "20250312092018_create_table_orders.up.sql"),
						filepath.Join("seed", "users.seed.sql"),
					},
					seedPaths...)...,
			),
		)
		if err != nil {
			t.Fatalf("failed running postgres container with error: %s", err)
		}

		pgConnStr, err := pgContainer.ConnectionString(c)
		if err != nil {
			t.Fatalf("failed getting postgres connection string with error: %s", err)
		}

		pgConfig, err := pgxpool.ParseConfig(pgConnStr)
		if err != nil {
			t.Fatalf("failed parsing pgconfig with error: %s", err)
		}
		pgConfig.AfterConnect = func(c context.Context, conn *pgx.Conn) error {
			pgxuuid.Register(conn.TypeMap())
			return nil
		}

		pool, err := pgxpool.NewWithConfig(c, pgConfig)
		if err != nil {
			t.Fatalf("failed creating postgres pool with error: %s", err)
		}
		if err = pool.Ping(c); err != nil {
			t.Fatalf("failed ping postgres pool with error: %s", err)
		}

		redisContainer, err := testRedis.Run(
			c,
			"redis:7.4.2-alpine3.21",
			testRedis.WithLogLevel(testRedis.LogLevelVerbose),
		)
		if err != nil {
			t.Fatalf("failed running redis container with error: %s", err)
		}

		redisConnStr, err := redisContainer.ConnectionString(c)
		if err != nil {
			t.Fatalf("failed getting redis connection string with error: %s", err)
		}

		redisOpt, err := redis.ParseURL(redisConnStr)
		if err != nil {
			t.Fatalf("failed parsing redis connection string with error: %s", err)
		}

		redisClient := redis.NewClient(redisOpt)
		if err = redisClient.Ping(c).Err(); err != nil {
			t.Fatalf("failed ping redis client with error: %s", err)
		}

		queries := repository.New(pool)
		products := productService.NewProductService(queries, redisClient)
		catalog := productService.NewCatalogAdapter(products, queries)
		orders := orderService.NewOrderService(queries)
		cartService := NewCartService(pool, queries, redisClient, catalog, orders)
		return testEnv{
			cache:          redisClient,
			pool:           pool,
			pgContainer:    pgContainer,
			redisContainer: redisContainer,
			queries:        queries,
			service:        cartService,
		}
	}
}

func teardown(t *testing.T) teardownFunc {
	return func(env testEnv) {
		env.cache.Close()
		env.pool.Close()
		if err := testcontainers.TerminateContainer(env.pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
		if err := testcontainers.TerminateContainer(env.redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
}
