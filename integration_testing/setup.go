package integration_testing

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/2beens/workoutlog/internal"
	"github.com/2beens/workoutlog/internal/config"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort = 9000
	serverHost = "localhost"
	dbName     = "workoutlog"

	testClientSecret = "integration-secret"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

type Suite struct {
	DB         *sql.DB
	RedisPort  string
	dockerPool *dockertest.Pool
	server     *internal.Server
	teardown   []func()
}

func newSuite(ctx context.Context) *Suite {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	suite.RedisPort, err = suite.redisSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}

	pgPort, err := suite.postgresSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	cfg := getTestConfig(suite.RedisPort, pgPort)
	suite.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			ClientSecret:            testClientSecret,
			VersionInfo:             "test-version-info",
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		suite.cleanup()
		log.Fatalf("new server: %s", err)
	}

	suite.server.Serve(cfg.Host, cfg.Port)

	return suite
}

func (s *Suite) cleanup() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	if s.DB != nil {
		s.DB.Close()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Environment:           "development",
		Host:                  serverHost,
		Port:                  serverPort,
		LogLevel:              "debug",
		LogToStdout:           true,
		StoreBackend:          "postgres",
		PostgresHost:          "localhost",
		PostgresPort:          postgresPort,
		PostgresDBName:        dbName,
		RunMigrations:         true,
		RedisHost:             "localhost",
		RedisPort:             redisPort,
		LiveStatusEnabled:     true,
		LiveStatusTTLSeconds:  600,
		CommandsPerMinLimit:   1000,
		TickIntervalMs:        1000,
		ViewTransitionDelayMs: 1,
		StatsCacheSizeMB:      1,
		PrometheusMetricsHost: "localhost",
		PrometheusMetricsPort: "2113",
	}
}

func (s *Suite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "workoutlog-redis",
		Tag:        "7.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		redisResource.Close()
	})

	redisPort := redisResource.GetPort("6379/tcp")
	return redisPort, nil
}

func (s *Suite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_HOST_AUTH_METHOD=trust",
			"POSTGRES_DB=" + dbName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		pgResource.Close()
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/%s?sslmode=disable", pgPort, dbName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db conn: %s", err)
	}
	s.DB = db

	// postgres restarts once after the init scripts, wait for it to settle
	s.dockerPool.MaxWait = 60 * time.Second
	if err := s.dockerPool.Retry(db.Ping); err != nil {
		return "", fmt.Errorf("ping db: %s", err)
	}

	return pgPort, nil
}
