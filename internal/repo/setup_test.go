package repo_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"go-gin-mongo-users/internal/core/database"
)

// Set by TestMain when docker is reachable; integration tests skip otherwise.
var (
	mongoClient *mongo.Client
	sqlDB       *gorm.DB
)

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker unavailable, store integration tests will be skipped: %s", err)
		os.Exit(m.Run())
	}
	pool.MaxWait = 2 * time.Minute

	var containers []*dockertest.Resource
	purge := func() {
		for _, c := range containers {
			if err := pool.Purge(c); err != nil {
				log.Printf("Could not purge container: %s", err)
			}
		}
	}

	mc, err := pool.Run("mongo", "7.0", nil)
	if err != nil {
		log.Fatalf("Could not start container: %s", err)
	}
	containers = append(containers, mc)

	mongoURI := fmt.Sprintf("mongodb://localhost:%s", mc.GetPort("27017/tcp"))
	if err := pool.Retry(func() error {
		h, err := database.NewMongo(context.Background(), database.MongoOpts{
			URI:            mongoURI,
			Database:       "test",
			ConnectTimeout: 5 * time.Second,
		})
		if err != nil {
			return err
		}
		mongoClient = h.Client
		return nil
	}); err != nil {
		purge()
		log.Fatalf("Could not connect to docker: %s", err)
	}

	pc, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=test",
		"POSTGRES_PASSWORD=test",
		"POSTGRES_DB=test",
	})
	if err != nil {
		purge()
		log.Fatalf("Could not start container: %s", err)
	}
	containers = append(containers, pc)

	dsn := fmt.Sprintf("host=localhost port=%s user=test password=test dbname=test sslmode=disable", pc.GetPort("5432/tcp"))
	if err := pool.Retry(func() error {
		db, err := database.NewGorm(database.Opts{
			Driver:       "postgres",
			DSN:          dsn,
			MaxOpenConns: 5,
			MaxIdleConns: 1,
			LogLevel:     "silent",
		})
		if err != nil {
			return err
		}
		sqlDB = db
		return nil
	}); err != nil {
		purge()
		log.Fatalf("Could not connect to docker: %s", err)
	}

	code := m.Run()

	_ = mongoClient.Disconnect(context.Background())
	_ = database.CloseGorm(sqlDB)
	purge()

	os.Exit(code)
}
