// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

// Package store persists properties, their votes and users.
//
// Two backends implement Store: BadgerStore (embedded, the default) and
// MongoStore. Both run Update callbacks as one atomic transaction: either every
// write made through the Tx commits, or none does. Reads made through the Tx
// observe the transaction's own writes and take part in conflict detection, so
// a read-check-write sequence inside one callback never acts on a stale value.
package store

import (
	"context"
	"errors"

	"github.com/tomtom215/pricemap/internal/models"
)

// Sentinel errors. Backends wrap them, match with errors.Is.
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrPropertyExists   = errors.New("property already exists")
	ErrVoteNotFound     = errors.New("vote not found")
	ErrVoteExists       = errors.New("vote already exists")
	ErrUserNotFound     = errors.New("user not found")
	// ErrTxConflict means a transaction kept colliding with concurrent writers
	// until its retry budget ran out. Nothing was committed.
	ErrTxConflict = errors.New("transaction conflict")
	ErrClosed     = errors.New("store is closed")
)

// Tx is the view of the store inside one transaction.
//
// FindVote, InsertVote and RemoveVote are the vote record operations: a
// property holds at most one vote per voter.
type Tx interface {
	GetProperty(id string) (*models.Property, error)

	// FindVote returns ErrVoteNotFound when voterID has no vote on the property.
	FindVote(propertyID, voterID string) (models.Vote, error)
	// InsertVote returns ErrVoteExists when the voter already voted.
	InsertVote(propertyID string, vote models.Vote) error
	// RemoveVote returns the removed vote, or ErrVoteNotFound.
	RemoveVote(propertyID, voterID string) (models.Vote, error)

	// SetScore overwrites the reliability attributes.
	SetScore(propertyID string, reliability float64, reviewCount int) error
	DeleteProperty(id string) error
}

// PropertyStore reads and writes listings outside of vote transactions.
type PropertyStore interface {
	GetProperty(ctx context.Context, id string) (*models.Property, error)
	ListProperties(ctx context.Context, filter models.ListingFilter) ([]models.Property, error)
	CreateProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id string) error
}

// VoteStore gives read access to vote records.
type VoteStore interface {
	GetVote(ctx context.Context, propertyID, voterID string) (models.Vote, error)
	ListVotesByVoter(ctx context.Context, voterID string) ([]models.UserVote, error)
}

// UserStore persists accounts.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
}

// Store is implemented by every backend.
type Store interface {
	PropertyStore
	VoteStore
	UserStore

	// Update runs fn in a read-write transaction. Write conflicts are retried
	// with a fresh transaction; when retries run out the error wraps ErrTxConflict.
	// fn may run more than once and must not have side effects outside the Tx.
	Update(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Backend() string
	Close() error
}
