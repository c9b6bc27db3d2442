// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMongoImage is the MongoDB image used for integration tests.
	DefaultMongoImage = "mongo:7"
	// DefaultMongoPort is the port mongod listens on inside the container.
	DefaultMongoPort = "27017"
	// replicaSetName must match the name passed to rs.initiate.
	replicaSetName = "rs0"
)

// MongoContainer is a running single-node replica set.
type MongoContainer struct {
	testcontainers.Container
	URI string
}

// NewMongoContainer starts mongod with --replSet, initiates the replica set and
// waits until the node is a writable primary.
func NewMongoContainer(ctx context.Context) (*MongoContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultMongoImage,
		ExposedPorts: []string{DefaultMongoPort + "/tcp"},
		Cmd:          []string{"mongod", "--replSet", replicaSetName, "--bind_ip_all"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultMongoPort+"/tcp"),
			wait.ForLog("Waiting for connections"),
		).WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create mongo container: %w", err)
	}

	initiate := fmt.Sprintf("rs.initiate({_id: '%s', members: [{_id: 0, host: 'localhost:%s'}]})", replicaSetName, DefaultMongoPort)
	if _, err := mongosh(ctx, container, initiate); err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("initiate replica set: %w", err)
	}

	err = WaitForReady(ctx, func() bool {
		out, err := mongosh(ctx, container, "db.hello().isWritablePrimary")
		return err == nil && strings.Contains(out, "true")
	}, 60*time.Second)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("wait for primary: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, DefaultMongoPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &MongoContainer{
		Container: container,
		URI:       fmt.Sprintf("mongodb://%s:%s/?directConnection=true", host, port.Port()),
	}, nil
}

func mongosh(ctx context.Context, container testcontainers.Container, script string) (string, error) {
	code, reader, err := container.Exec(ctx, []string{"mongosh", "--quiet", "--eval", script})
	if err != nil {
		return "", err
	}
	out, _ := io.ReadAll(reader)
	if code != 0 {
		return string(out), fmt.Errorf("mongosh exited with %d: %s", code, out)
	}
	return string(out), nil
}
