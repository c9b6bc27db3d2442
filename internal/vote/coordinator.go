// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

// Package vote is the only writer of a property's votes, reliability and
// review count. Each operation runs in one store transaction, so the three
// fields change together or not at all, and the property is re-read inside the
// transaction so concurrent voters never overwrite each other's updates.
package vote

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tomtom215/pricemap/internal/events"
	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/metrics"
	"github.com/tomtom215/pricemap/internal/models"
	"github.com/tomtom215/pricemap/internal/reliability"
	"github.com/tomtom215/pricemap/internal/store"
)

// Publisher receives events for committed changes.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Outcome is the result of a committed vote operation.
type Outcome struct {
	PropertyID string
	// Property is the updated listing without votes; nil when Eliminated.
	Property *models.Property
	// Eliminated is set when the vote removed the listing instead of being recorded.
	Eliminated bool
}

// Coordinator applies vote additions and removals.
type Coordinator struct {
	store     store.Store
	calc      reliability.Calculator
	publisher Publisher
	now       func() time.Time
}

// NewCoordinator creates a coordinator. publisher may be nil.
func NewCoordinator(s store.Store, calc reliability.Calculator, publisher Publisher) *Coordinator {
	return &Coordinator{
		store:     s,
		calc:      calc,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func validateIDs(voterID, propertyID string) error {
	if strings.TrimSpace(voterID) == "" {
		return validationError("voter id is required")
	}
	if strings.TrimSpace(propertyID) == "" {
		return validationError("property id is required")
	}
	return nil
}

// AddVote records voterID's vote on propertyID and moves its reliability.
//
// When vt is a dispute and the listing is already at or below the elimination
// threshold, the listing is deleted instead and Outcome.Eliminated is set; no
// vote is recorded.
func (c *Coordinator) AddVote(ctx context.Context, voterID, propertyID string, vt models.VoteType) (Outcome, error) {
	if err := validateIDs(voterID, propertyID); err != nil {
		metrics.RecordVote("add", string(vt), outcomeLabel(err, false), 0)
		return Outcome{}, err
	}
	if !vt.Valid() {
		err := validationError("vote type must be one of lower, equal, higher")
		metrics.RecordVote("add", string(vt), outcomeLabel(err, false), 0)
		return Outcome{}, err
	}

	var out Outcome
	err := c.store.Update(ctx, func(tx store.Tx) error {
		// Reset: the closure may run again after a conflict.
		out = Outcome{PropertyID: propertyID}

		p, err := tx.GetProperty(propertyID)
		if err != nil {
			return err
		}
		if p.HasVote(voterID) {
			return store.ErrVoteExists
		}

		if c.calc.Eliminates(p.Reliability, vt) {
			out.Eliminated = true
			return tx.DeleteProperty(propertyID)
		}

		v := models.Vote{VoterID: voterID, VoteType: vt, VotedAt: c.now()}
		next := c.calc.Next(p.Reliability, vt, false)
		count := len(p.Votes) + 1
		if err := tx.InsertVote(propertyID, v); err != nil {
			return err
		}
		if err := tx.SetScore(propertyID, next, count); err != nil {
			return err
		}

		p.Reliability = next
		p.ReviewCount = count
		p.UpdatedAt = v.VotedAt
		p.Votes = nil
		out.Property = p
		return nil
	})
	err = mapStoreError(err)
	metrics.RecordVote("add", string(vt), outcomeLabel(err, out.Eliminated), reliabilityOf(out))
	if err != nil {
		return Outcome{}, err
	}

	if out.Eliminated {
		metrics.RecordElimination()
		logging.Ctx(ctx).Info().
			Str("property_id", propertyID).
			Str("voter_id", voterID).
			Str("vote_type", string(vt)).
			Msg("Property eliminated by dispute")
		c.publish(ctx, events.NewRemovedEvent(propertyID, events.ReasonEliminated))
		return out, nil
	}

	c.logCommit(ctx, "add", voterID, vt, out.Property)
	c.publish(ctx, events.NewPropertyEvent(events.PropertyUpdated, out.Property))
	return out, nil
}

// RemoveVote withdraws voterID's vote on propertyID, undoing its effect on
// reliability.
func (c *Coordinator) RemoveVote(ctx context.Context, voterID, propertyID string) (Outcome, error) {
	if err := validateIDs(voterID, propertyID); err != nil {
		metrics.RecordVote("remove", "", outcomeLabel(err, false), 0)
		return Outcome{}, err
	}

	var (
		out     Outcome
		removed models.Vote
	)
	err := c.store.Update(ctx, func(tx store.Tx) error {
		out = Outcome{PropertyID: propertyID}

		p, err := tx.GetProperty(propertyID)
		if err != nil {
			return err
		}
		v, ok := p.DropVote(voterID)
		if !ok {
			return store.ErrVoteNotFound
		}
		removed = v

		next := c.calc.Next(p.Reliability, v.VoteType, true)
		count := len(p.Votes)
		if _, err := tx.RemoveVote(propertyID, voterID); err != nil {
			return err
		}
		if err := tx.SetScore(propertyID, next, count); err != nil {
			return err
		}

		p.Reliability = next
		p.ReviewCount = count
		p.UpdatedAt = c.now()
		p.Votes = nil
		out.Property = p
		return nil
	})
	err = mapStoreError(err)
	metrics.RecordVote("remove", string(removed.VoteType), outcomeLabel(err, false), reliabilityOf(out))
	if err != nil {
		return Outcome{}, err
	}

	c.logCommit(ctx, "remove", voterID, removed.VoteType, out.Property)
	c.publish(ctx, events.NewPropertyEvent(events.PropertyUpdated, out.Property))
	return out, nil
}

// GetUserVote returns voterID's vote on propertyID, or nil when there is none.
// A missing property is ErrNotFound.
func (c *Coordinator) GetUserVote(ctx context.Context, voterID, propertyID string) (*models.Vote, error) {
	if err := validateIDs(voterID, propertyID); err != nil {
		return nil, err
	}
	v, err := c.store.GetVote(ctx, propertyID, voterID)
	if errors.Is(err, store.ErrVoteNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapStoreError(err)
	}
	return &v, nil
}

func (c *Coordinator) logCommit(ctx context.Context, op, voterID string, vt models.VoteType, p *models.Property) {
	logging.Ctx(ctx).Debug().
		Str("operation", op).
		Str("property_id", p.ID).
		Str("voter_id", voterID).
		Str("vote_type", string(vt)).
		Float64("reliability", p.Reliability).
		Int("review_count", p.ReviewCount).
		Msg("Vote committed")
}

// publish never fails the caller: the write is already committed.
func (c *Coordinator) publish(ctx context.Context, e events.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, e); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("event_type", string(e.Type)).
			Str("property_id", e.PropertyID).
			Msg("Failed to publish property event")
	}
}

func reliabilityOf(o Outcome) float64 {
	if o.Property == nil {
		return 0
	}
	return o.Property.Reliability
}
