// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/models"
)

const backendBadger = "badger"

// Key layout. Votes live inside the property document; the voter index lets a
// user's votes be listed without scanning every property and is written in the
// same transaction as the document.
const (
	prefixProperty   = "property:"
	prefixVoter      = "voter:"       // voter:{len(voterID)}:{voterID}:{propertyID}
	prefixUser       = "user:"        // user:{id}
	prefixUserEmail  = "user_email:"  // user_email:{lower(email)} -> id
	prefixUserGoogle = "user_google:" // user_google:{googleID} -> id
)

func propertyKey(id string) []byte { return []byte(prefixProperty + id) }

// voterPrefix length-prefixes the id so no voter's range covers another's.
func voterPrefix(voterID string) string {
	return prefixVoter + strconv.Itoa(len(voterID)) + ":" + voterID + ":"
}

func voterKey(voterID, propertyID string) []byte {
	return []byte(voterPrefix(voterID) + propertyID)
}
func userKey(id string) []byte             { return []byte(prefixUser + id) }
func userEmailKey(email string) []byte     { return []byte(prefixUserEmail + strings.ToLower(email)) }
func userGoogleKey(googleID string) []byte { return []byte(prefixUserGoogle + googleID) }

// BadgerConfig configures the embedded store.
type BadgerConfig struct {
	Path       string
	InMemory   bool
	SyncWrites bool
	// GCInterval is how often Serve runs value log GC.
	GCInterval time.Duration
	Retry      RetryPolicy
}

// BadgerStore keeps everything in one BadgerDB. Conflict detection is on, so
// two transactions that read and write the same property cannot both commit.
type BadgerStore struct {
	db     *badger.DB
	config BadgerConfig

	mu     sync.RWMutex
	closed bool
}

// propertyRecord is the stored form of a property; unlike the API form it keeps votes.
type propertyRecord struct {
	models.Property
	Votes []models.Vote `json:"votes"`
}

// userRecord is the stored form of a user; the API form hides the Google id.
type userRecord struct {
	models.User
	GoogleID string `json:"googleId,omitempty"`
}

func (r *userRecord) model() *models.User {
	u := r.User
	u.GoogleID = r.GoogleID
	return &u
}

func newPropertyRecord(p *models.Property) propertyRecord {
	return propertyRecord{Property: *p, Votes: p.Votes}
}

func (r *propertyRecord) model() *models.Property {
	p := r.Property
	p.Votes = r.Votes
	return &p
}

// OpenBadger opens (or creates) the store.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = cfg.SyncWrites
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int("max_tx_attempts", cfg.Retry.MaxAttempts).
		Msg("Store opened")
	return &BadgerStore{db: db, config: cfg}, nil
}

// Backend implements Store.
func (s *BadgerStore) Backend() string { return backendBadger }

func (s *BadgerStore) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Update implements Store.
func (s *BadgerStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return withRetry(ctx, backendBadger, s.config.Retry, func() error {
		return s.db.Update(func(txn *badger.Txn) error {
			return fn(&badgerTx{txn: txn})
		})
	}, func(err error) bool {
		return errors.Is(err, badger.ErrConflict)
	})
}

func (s *BadgerStore) view(ctx context.Context, fn func(tx *badgerTx) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTx{txn: txn})
	})
}

// GetProperty implements PropertyStore.
func (s *BadgerStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	var p *models.Property
	err := s.view(ctx, func(tx *badgerTx) error {
		var err error
		p, err = tx.GetProperty(id)
		return err
	})
	return p, err
}

// ListProperties implements PropertyStore. Results are ordered by creation time.
func (s *BadgerStore) ListProperties(ctx context.Context, filter models.ListingFilter) ([]models.Property, error) {
	var out []models.Property
	err := s.view(ctx, func(tx *badgerTx) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(prefixProperty)
		it := tx.txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec propertyRecord
			item := it.Item()
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("Skipping undecodable property")
				continue
			}
			if !filter.Matches(&rec.Property) {
				continue
			}
			p := rec.Property
			p.Votes = nil
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// CreateProperty implements PropertyStore.
func (s *BadgerStore) CreateProperty(ctx context.Context, p *models.Property) error {
	return s.Update(ctx, func(tx Tx) error {
		bt := tx.(*badgerTx)
		if _, err := bt.txn.Get(propertyKey(p.ID)); err == nil {
			return fmt.Errorf("%w: %s", ErrPropertyExists, p.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return bt.putProperty(p)
	})
}

// DeleteProperty implements PropertyStore.
func (s *BadgerStore) DeleteProperty(ctx context.Context, id string) error {
	return s.Update(ctx, func(tx Tx) error {
		return tx.DeleteProperty(id)
	})
}

// GetVote implements VoteStore.
func (s *BadgerStore) GetVote(ctx context.Context, propertyID, voterID string) (models.Vote, error) {
	var v models.Vote
	err := s.view(ctx, func(tx *badgerTx) error {
		var err error
		v, err = tx.FindVote(propertyID, voterID)
		return err
	})
	return v, err
}

// ListVotesByVoter implements VoteStore.
func (s *BadgerStore) ListVotesByVoter(ctx context.Context, voterID string) ([]models.UserVote, error) {
	votes := []models.UserVote{}
	err := s.view(ctx, func(tx *badgerTx) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(voterPrefix(voterID))
		it := tx.txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var uv models.UserVote
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &uv)
			}); err != nil {
				return err
			}
			votes = append(votes, uv)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list votes of %s: %w", voterID, err)
	}
	return votes, nil
}

// GetUser implements UserStore.
func (s *BadgerStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var rec userRecord
	err := s.view(ctx, func(tx *badgerTx) error {
		return tx.getJSON(userKey(id), &rec, ErrUserNotFound)
	})
	if err != nil {
		return nil, err
	}
	return rec.model(), nil
}

// GetUserByEmail implements UserStore.
func (s *BadgerStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userByIndex(ctx, userEmailKey(email))
}

// GetUserByGoogleID implements UserStore.
func (s *BadgerStore) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.userByIndex(ctx, userGoogleKey(googleID))
}

func (s *BadgerStore) userByIndex(ctx context.Context, indexKey []byte) (*models.User, error) {
	var rec userRecord
	err := s.view(ctx, func(tx *badgerTx) error {
		var id string
		if err := tx.getJSON(indexKey, &id, ErrUserNotFound); err != nil {
			return err
		}
		return tx.getJSON(userKey(id), &rec, ErrUserNotFound)
	})
	if err != nil {
		return nil, err
	}
	return rec.model(), nil
}

// SaveUser implements UserStore. It inserts or replaces u and keeps the
// email and Google id indexes in step.
func (s *BadgerStore) SaveUser(ctx context.Context, u *models.User) error {
	return s.Update(ctx, func(tx Tx) error {
		bt := tx.(*badgerTx)
		var prev userRecord
		err := bt.getJSON(userKey(u.ID), &prev, ErrUserNotFound)
		switch {
		case err == nil:
			if !strings.EqualFold(prev.Email, u.Email) {
				if err := bt.txn.Delete(userEmailKey(prev.Email)); err != nil {
					return err
				}
			}
			if prev.GoogleID != u.GoogleID && prev.GoogleID != "" {
				if err := bt.txn.Delete(userGoogleKey(prev.GoogleID)); err != nil {
					return err
				}
			}
		case !errors.Is(err, ErrUserNotFound):
			return err
		}

		if err := bt.setJSON(userKey(u.ID), userRecord{User: *u, GoogleID: u.GoogleID}); err != nil {
			return err
		}
		if err := bt.setJSON(userEmailKey(u.Email), u.ID); err != nil {
			return err
		}
		if u.GoogleID != "" {
			return bt.setJSON(userGoogleKey(u.GoogleID), u.ID)
		}
		return nil
	})
}

// Ping implements Store.
func (s *BadgerStore) Ping(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return ErrClosed
	}
	return ctx.Err()
}

// RunGC reclaims value log space until Badger reports nothing left to rewrite.
func (s *BadgerStore) RunGC() error {
	if s.config.InMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Serve runs value log GC every GCInterval until ctx ends. It makes the store
// a supervised service.
func (s *BadgerStore) Serve(ctx context.Context) error {
	interval := s.config.GCInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("Badger value log GC failed")
			}
		}
	}
}

// String names the GC service for the supervisor.
func (s *BadgerStore) String() string { return "badger-gc" }

// Close closes the database. Further calls return ErrClosed.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
