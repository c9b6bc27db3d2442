// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package models

import "time"

// UserStatus gates whether a user may act.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserBanned    UserStatus = "banned"
)

// Role names used by the authorization policy.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Currency is the display currency a user prefers.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// MeasurementSystem is the unit system a user prefers.
type MeasurementSystem string

const (
	MeasurementMetric   MeasurementSystem = "metric"
	MeasurementImperial MeasurementSystem = "imperial"
)

// Preferences are per-user display settings.
type Preferences struct {
	Currency          Currency          `json:"currency" bson:"currency" validate:"omitempty,oneof=EUR USD GBP"`
	MeasurementSystem MeasurementSystem `json:"measurementSystem" bson:"measurementSystem" validate:"omitempty,oneof=metric imperial"`
}

// DefaultPreferences are assigned on registration.
func DefaultPreferences() Preferences {
	return Preferences{Currency: CurrencyEUR, MeasurementSystem: MeasurementMetric}
}

// User is a Google-authenticated account.
type User struct {
	ID             string      `json:"id" bson:"_id"`
	GoogleID       string      `json:"-" bson:"googleId,omitempty"`
	Email          string      `json:"email" bson:"email"`
	DisplayName    string      `json:"displayName" bson:"displayName"`
	ProfilePicture string      `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	Role           string      `json:"role" bson:"role"`
	Status         UserStatus  `json:"status" bson:"status"`
	Preferences    Preferences `json:"preferences" bson:"preferences"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
	LastLogin      time.Time   `json:"lastLogin" bson:"lastLogin"`
}

// Active reports whether the user may sign in and vote.
func (u *User) Active() bool {
	return u.Status == "" || u.Status == UserActive
}
