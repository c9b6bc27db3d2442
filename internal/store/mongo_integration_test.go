// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

//go:build integration

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/testinfra"
)

func newTestMongo(t *testing.T) *MongoStore {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	mc, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	testinfra.CleanupContainer(t, ctx, mc.Container)

	s, err := OpenMongo(ctx, MongoConfig{URI: mc.URI, Database: "pricemap_test", ConnectTimeout: 30 * time.Second})
	if err != nil {
		t.Fatalf("OpenMongo: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMongoStore_Integration(t *testing.T) {
	s := newTestMongo(t)
	ctx := context.Background()

	if err := s.CreateProperty(ctx, testProperty("p1", 250000, 3, time.Now().UTC())); err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}
	if err := s.CreateProperty(ctx, testProperty("p1", 250000, 3, time.Now().UTC())); !errors.Is(err, ErrPropertyExists) {
		t.Fatalf("duplicate CreateProperty error = %v", err)
	}

	t.Run("votes", func(t *testing.T) {
		vote := models.Vote{VoterID: "u1", VoteType: models.VoteHigher, VotedAt: time.Now().UTC()}
		if err := s.Update(ctx, func(tx Tx) error { return tx.InsertVote("p1", vote) }); err != nil {
			t.Fatalf("InsertVote: %v", err)
		}
		err := s.Update(ctx, func(tx Tx) error { return tx.InsertVote("p1", vote) })
		if !errors.Is(err, ErrVoteExists) {
			t.Fatalf("duplicate InsertVote error = %v", err)
		}
		votes, err := s.ListVotesByVoter(ctx, "u1")
		if err != nil || len(votes) != 1 || votes[0].VoteType != models.VoteHigher {
			t.Fatalf("ListVotesByVoter = %+v, %v", votes, err)
		}
		if err := s.Update(ctx, func(tx Tx) error {
			_, err := tx.RemoveVote("p1", "u1")
			return err
		}); err != nil {
			t.Fatalf("RemoveVote: %v", err)
		}
		if _, err := s.GetVote(ctx, "p1", "u1"); !errors.Is(err, ErrVoteNotFound) {
			t.Fatalf("GetVote after remove error = %v", err)
		}
	})

	t.Run("concurrent score updates", func(t *testing.T) {
		const voters = 10
		var wg sync.WaitGroup
		errs := make(chan error, voters)
		for i := 0; i < voters; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- s.Update(ctx, func(tx Tx) error {
					p, err := tx.GetProperty("p1")
					if err != nil {
						return err
					}
					v := models.Vote{VoterID: fmt.Sprintf("c%d", i), VoteType: models.VoteEqual, VotedAt: time.Now().UTC()}
					if err := tx.InsertVote("p1", v); err != nil {
						return err
					}
					return tx.SetScore("p1", p.Reliability, p.ReviewCount+1)
				})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil && !errors.Is(err, ErrTxConflict) {
				t.Fatalf("Update: %v", err)
			}
		}
		p, err := s.GetProperty(ctx, "p1")
		if err != nil {
			t.Fatalf("GetProperty: %v", err)
		}
		if p.ReviewCount != len(p.Votes) {
			t.Errorf("reviewCount %d != votes %d", p.ReviewCount, len(p.Votes))
		}
	})

	t.Run("list", func(t *testing.T) {
		got, err := s.ListProperties(ctx, models.ListingFilter{Rooms: []models.RoomBucket{models.ExactRooms(3)}})
		if err != nil || len(got) != 1 || got[0].Votes != nil {
			t.Fatalf("ListProperties = %+v, %v", got, err)
		}
	})

	t.Run("users", func(t *testing.T) {
		u := &models.User{ID: "u1", GoogleID: "g1", Email: "ann@example.com", Role: models.RoleUser, Status: models.UserActive}
		if err := s.SaveUser(ctx, u); err != nil {
			t.Fatalf("SaveUser: %v", err)
		}
		got, err := s.GetUserByGoogleID(ctx, "g1")
		if err != nil || got.Email != u.Email {
			t.Fatalf("GetUserByGoogleID = %+v, %v", got, err)
		}
		if _, err := s.GetUser(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("GetUser(missing) error = %v", err)
		}
	})
}
