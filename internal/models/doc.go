// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

/*
Package models defines the data structures shared across Pricemap.

Key Components:

  - Property: a listing with its price attributes, map location and the
    crowd reliability attributes (reliability score, review count, votes)
  - Vote / VoteType: one voter's opinion on a listing's price
  - User: identity and preferences of a Google-authenticated user
  - ListingFilter / RoomBucket: the explicit filter consumed by the read model
  - FeatureCollection: GeoJSON projection consumed by the map client

Field names on the wire follow the map client's conventions
(dataReliability, numberOfReviews, pricePerSquareMeter).
*/
package models
