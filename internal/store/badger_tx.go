// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/pricemap/internal/models"
)

type badgerTx struct {
	txn *badger.Txn
}

// getJSON decodes the value at key into v, returning notFound when the key is absent.
func (t *badgerTx) getJSON(key []byte, v interface{}, notFound error) error {
	item, err := t.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func (t *badgerTx) setJSON(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return t.txn.Set(key, data)
}

func (t *badgerTx) putProperty(p *models.Property) error {
	return t.setJSON(propertyKey(p.ID), newPropertyRecord(p))
}

func (t *badgerTx) GetProperty(id string) (*models.Property, error) {
	var rec propertyRecord
	if err := t.getJSON(propertyKey(id), &rec, ErrPropertyNotFound); err != nil {
		return nil, err
	}
	return rec.model(), nil
}

func (t *badgerTx) FindVote(propertyID, voterID string) (models.Vote, error) {
	p, err := t.GetProperty(propertyID)
	if err != nil {
		return models.Vote{}, err
	}
	v, ok := p.FindVote(voterID)
	if !ok {
		return models.Vote{}, ErrVoteNotFound
	}
	return v, nil
}

func (t *badgerTx) InsertVote(propertyID string, vote models.Vote) error {
	p, err := t.GetProperty(propertyID)
	if err != nil {
		return err
	}
	if !p.AppendVote(vote) {
		return ErrVoteExists
	}
	p.UpdatedAt = vote.VotedAt
	if err := t.putProperty(p); err != nil {
		return err
	}
	return t.setJSON(voterKey(vote.VoterID, propertyID), models.UserVote{
		PropertyID: propertyID,
		VoteType:   vote.VoteType,
		VotedAt:    vote.VotedAt,
	})
}

func (t *badgerTx) RemoveVote(propertyID, voterID string) (models.Vote, error) {
	p, err := t.GetProperty(propertyID)
	if err != nil {
		return models.Vote{}, err
	}
	v, ok := p.DropVote(voterID)
	if !ok {
		return models.Vote{}, ErrVoteNotFound
	}
	if err := t.putProperty(p); err != nil {
		return models.Vote{}, err
	}
	return v, t.txn.Delete(voterKey(voterID, propertyID))
}

func (t *badgerTx) SetScore(propertyID string, reliability float64, reviewCount int) error {
	p, err := t.GetProperty(propertyID)
	if err != nil {
		return err
	}
	p.Reliability = reliability
	p.ReviewCount = reviewCount
	p.UpdatedAt = time.Now().UTC()
	return t.putProperty(p)
}

func (t *badgerTx) DeleteProperty(id string) error {
	p, err := t.GetProperty(id)
	if err != nil {
		return err
	}
	for _, v := range p.Votes {
		if err := t.txn.Delete(voterKey(v.VoterID, id)); err != nil {
			return err
		}
	}
	return t.txn.Delete(propertyKey(id))
}
