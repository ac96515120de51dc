// containers.go
//
// Landing page content service with lead capture
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-landing.
// jam-build-landing is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-landing is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-landing.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package devenv starts the containers the service depends on, for local
// development and for the integration tests. Settings come from the environment,
// usually loaded from a .env file.
package devenv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/localnerve/jam-build-landing/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	dbAlias         = "database"
	redisAlias      = "redis"
	authorizerAlias = "authorizer"
	serviceImage    = "jam-build-landing-test:latest"
)

// Options selects the optional containers
type Options struct {
	// Authorizer starts AUTHZ_IMAGE when set
	Authorizer bool
	// Service runs the service image, building it from the Dockerfile when absent
	Service bool
}

// Environment is a running set of containers on a private network
type Environment struct {
	Network    *testcontainers.DockerNetwork
	DB         testcontainers.Container
	Redis      testcontainers.Container
	Authorizer testcontainers.Container
	Service    testcontainers.Container

	dbType string
	dbPort nat.Port
	t      *testing.T
}

// Terminate stops every started container and removes the network
func (e *Environment) Terminate() {
	ctx := context.Background()
	for _, c := range []struct {
		name string
		c    testcontainers.Container
	}{
		{"service", e.Service},
		{"authorizer", e.Authorizer},
		{"redis", e.Redis},
		{"database", e.DB},
	} {
		if c.c == nil {
			continue
		}
		if err := c.c.Terminate(ctx); err != nil {
			logMessage(e.t, "Failed to terminate %s: %v", c.name, err)
		}
	}
	if e.Network != nil {
		if err := e.Network.Remove(ctx); err != nil {
			logMessage(e.t, "Failed to remove network: %v", err)
		}
	}
}

// Start creates the environment. t may be nil outside of tests. On error
// everything already started is terminated.
func Start(ctx context.Context, t *testing.T, opts Options) (env *Environment, err error) {
	env = &Environment{
		t:      t,
		dbType: getEnv("DB_TYPE", "mariadb"),
	}
	defer func() {
		if err != nil {
			env.Terminate()
			env = nil
		}
	}()

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	env.Network = nw

	if err := env.startDB(ctx); err != nil {
		return nil, err
	}
	if err := env.startRedis(ctx); err != nil {
		return nil, err
	}
	if opts.Authorizer {
		if err := env.startAuthorizer(ctx); err != nil {
			return nil, err
		}
	}
	if opts.Service {
		if err := env.startService(ctx, opts.Authorizer); err != nil {
			return nil, err
		}
	}
	return env, nil
}

func (e *Environment) startDB(ctx context.Context) error {
	port, err := nat.NewPort("tcp", getEnv("DB_PORT", defaultDBPort(e.dbType)))
	if err != nil {
		return fmt.Errorf("failed to create database port: %w", err)
	}
	e.dbPort = port

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          getEnv("DB_IMAGE", defaultDBImage(e.dbType)),
			ExposedPorts:   []string{string(port)},
			Env:            dbInitEnv(e.dbType),
			WaitingFor:     wait.ForListeningPort(port).WithStartupTimeout(60 * time.Second),
			Networks:       []string{e.Network.Name},
			NetworkAliases: map[string][]string{e.Network.Name: {dbAlias}},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start database: %w", err)
	}
	e.DB = c

	if isMySQL(e.dbType) {
		return e.initMySQL(ctx)
	}
	return nil
}

// initMySQL waits for the server to accept logins and creates the authorizer database
func (e *Environment) initMySQL(ctx context.Context) error {
	host, err := e.DB.Host(ctx)
	if err != nil {
		return err
	}
	port, err := e.DB.MappedPort(ctx, e.dbPort)
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", rootPassword(), host, port.Port()))
	if err != nil {
		return fmt.Errorf("failed to open database for setup: %w", err)
	}
	defer db.Close()

	// The port opens before the server accepts logins
	for i := 0; i < 30; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		return fmt.Errorf("database not ready after 30 seconds: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", getEnv("AUTHZ_DATABASE", "authorizer"))); err != nil {
		return fmt.Errorf("failed to create authorizer database: %w", err)
	}
	return nil
}

func (e *Environment) startRedis(ctx context.Context) error {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          getEnv("REDIS_IMAGE", "redis:7-alpine"),
			ExposedPorts:   []string{"6379/tcp"},
			WaitingFor:     wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
			Networks:       []string{e.Network.Name},
			NetworkAliases: map[string][]string{e.Network.Name: {redisAlias}},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start redis: %w", err)
	}
	e.Redis = c
	return nil
}

func (e *Environment) startAuthorizer(ctx context.Context) error {
	port, err := nat.NewPort("tcp", getEnv("AUTHZ_PORT", "8080"))
	if err != nil {
		return fmt.Errorf("failed to create authorizer port: %w", err)
	}

	logLevel := "info"
	if os.Getenv("DEBUG_CONTAINER") == "true" {
		logLevel = "debug"
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("AUTHZ_IMAGE"),
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     os.Getenv("AUTHZ_CLIENT_ID"),
				"PORT":          port.Port(),
				"DATABASE_TYPE": e.dbType,
				"DATABASE_NAME": getEnv("AUTHZ_DATABASE", "authorizer"),
				"DATABASE_URL":  fmt.Sprintf("root:%s@tcp(%s:%s)/%s", rootPassword(), dbAlias, e.dbPort.Port(), getEnv("AUTHZ_DATABASE", "authorizer")),
				"ADMIN_SECRET":  os.Getenv("AUTHZ_ADMIN_SECRET"),
				"ROLES":         "admin,user",
				"DEFAULT_ROLES": "user",
				"LOG_LEVEL":     logLevel,
			},
			WaitingFor:     wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:       []string{e.Network.Name},
			NetworkAliases: map[string][]string{e.Network.Name: {authorizerAlias}},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start authorizer: %w", err)
	}
	e.Authorizer = c

	host, _ := c.Host(ctx)
	mapped, _ := c.MappedPort(ctx, port)
	logMessage(e.t, "AUTHZ_URL=http://%s:%s", host, mapped.Port())
	return nil
}

func (e *Environment) startService(ctx context.Context, withAuthorizer bool) error {
	port, err := nat.NewPort("tcp", getEnv("PORT", "3000"))
	if err != nil {
		return fmt.Errorf("failed to create service port: %w", err)
	}

	env := map[string]string{
		"PORT":        port.Port(),
		"LOG_FORMAT":  "json",
		"DB_TYPE":     e.dbType,
		"DB_HOST":     dbAlias,
		"DB_PORT":     e.dbPort.Port(),
		"DB_DATABASE": getEnv("DB_DATABASE", "landing"),
		"DB_USER":     getEnv("DB_USER", "landing"),
		"DB_PASSWORD": getEnv("DB_PASSWORD", "landing"),
		"REDIS_URL":   fmt.Sprintf("redis://%s:6379/0", redisAlias),
	}
	if withAuthorizer {
		env["AUTHZ_URL"] = fmt.Sprintf("http://%s:%s", authorizerAlias, getEnv("AUTHZ_PORT", "8080"))
		env["AUTHZ_CLIENT_ID"] = os.Getenv("AUTHZ_CLIENT_ID")
	}

	req := testcontainers.ContainerRequest{
		ExposedPorts: []string{string(port)},
		Env:          env,
		WaitingFor:   wait.ForHTTP("/metrics").WithPort(port).WithStartupTimeout(60 * time.Second),
		Networks:     []string{e.Network.Name},
	}

	exists, err := imageExists(ctx, serviceImage)
	if err != nil {
		return fmt.Errorf("failed to check for %s: %w", serviceImage, err)
	}
	if exists {
		logMessage(e.t, "Image %s exists, reusing...", serviceImage)
		req.Image = serviceImage
	} else {
		logMessage(e.t, "Image %s does not exist, building...", serviceImage)
		sessionID := uuid.New().String()
		repo, tag, _ := strings.Cut(serviceImage, ":")
		req.FromDockerfile = testcontainers.FromDockerfile{
			Context:    getEnv("TESTCONTAINERS_BUILD_CONTEXT", "../.."),
			Dockerfile: "Dockerfile",
			Repo:       repo,
			Tag:        tag,
			KeepImage:  true,
			BuildArgs: map[string]*string{
				"RESOURCE_REAPER_SESSION_ID": &sessionID,
			},
			BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
				opts.Target = "runtime"
			},
			PrintBuildLog: true,
		}
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	e.Service = c

	host, _ := c.Host(ctx)
	mapped, _ := c.MappedPort(ctx, port)
	logMessage(e.t, "BASE_URL=http://%s:%s", host, mapped.Port())
	return nil
}

// Config returns a configuration that reaches the containers from the host
func (e *Environment) Config(ctx context.Context) (*config.Config, error) {
	dbHost, err := e.DB.Host(ctx)
	if err != nil {
		return nil, err
	}
	dbPort, err := e.DB.MappedPort(ctx, e.dbPort)
	if err != nil {
		return nil, err
	}
	redisURL, err := e.RedisURL(ctx)
	if err != nil {
		return nil, err
	}

	dbType := e.dbType
	if dbType == "mariadb" {
		dbType = "mysql"
	}
	return &config.Config{
		Port:                    getEnv("PORT", "3000"),
		LogLevel:                "info",
		LogFormat:               "console",
		DBType:                  dbType,
		DBHost:                  dbHost,
		DBPort:                  dbPort.Port(),
		DBDatabase:              getEnv("DB_DATABASE", "landing"),
		DBUser:                  getEnv("DB_USER", "landing"),
		DBPassword:              getEnv("DB_PASSWORD", "landing"),
		DBConnectionLimit:       5,
		RedisURL:                redisURL,
		WebhookDefaultTimeoutMs: 10000,
		LeadsRateLimit:          10,
		LeadsResendConcurrency:  4,
	}, nil
}

// RedisURL is the host side address of the redis container
func (e *Environment) RedisURL(ctx context.Context) (string, error) {
	host, err := e.Redis.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := e.Redis.MappedPort(ctx, "6379/tcp")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("redis://%s:%s/0", host, port.Port()), nil
}

func dbInitEnv(dbType string) map[string]string {
	if dbType == "postgres" {
		return map[string]string{
			"POSTGRES_PASSWORD": getEnv("DB_PASSWORD", "landing"),
			"POSTGRES_USER":     getEnv("DB_USER", "landing"),
			"POSTGRES_DB":       getEnv("DB_DATABASE", "landing"),
		}
	}
	return map[string]string{
		"MYSQL_ROOT_PASSWORD": rootPassword(),
		"MYSQL_DATABASE":      getEnv("DB_DATABASE", "landing"),
		"MYSQL_USER":          getEnv("DB_USER", "landing"),
		"MYSQL_PASSWORD":      getEnv("DB_PASSWORD", "landing"),
	}
}

func defaultDBImage(dbType string) string {
	if dbType == "postgres" {
		return "postgres:17-alpine"
	}
	return "mariadb:11"
}

func defaultDBPort(dbType string) string {
	if dbType == "postgres" {
		return "5432"
	}
	return "3306"
}

func isMySQL(dbType string) bool {
	return dbType == "mysql" || dbType == "mariadb"
}

func rootPassword() string {
	return getEnv("DB_ROOT_PASSWORD", "rootpass")
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}
	return false, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
