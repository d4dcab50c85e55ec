// Copyright (c) 2026 BookHaven. All rights reserved.

/*
Package account handles reader profile management and reading statistics.

It provides functionality for readers to view and update their private identity
data, upload an avatar, inspect their reading statistics, and manage their
active device sessions.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Storage: Avatars are persisted through the storage.ObjectStore interface.
*/
package account

import (
	"context"
	"time"

	"github.com/bookhaven/bookhaven/internal/users/auth"
)

// # Domain Entities

// ReadingStats aggregates a reader's library activity counters for the
// profile page.
type ReadingStats struct {
	UserID         string `json:"user_id"`
	FavoriteCount  int    `json:"favorite_count"`
	BookmarkCount  int    `json:"bookmark_count"`
	CompletedCount int    `json:"completed_count"`
}

// SessionInfo provides a safety-mapped view of an active reader session.
// It omits sensitive token hashes for transport.
type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// # Repository Contracts

// AccountRepository defines the persistence contract for reader accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a reader record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing reader.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error
}

// StatsRepository defines the aggregation contract for reading statistics.
type StatsRepository interface {
	/*
		CountByUser aggregates favorites, bookmarks, and completed books for a reader.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - *ReadingStats: Zero-valued counters when the reader has no activity
		  - error: Aggregation failures
	*/
	CountByUser(context context.Context, userID string) (*ReadingStats, error)
}

// SessionRepository defines the visibility and revocation contract for reader sessions.
type SessionRepository interface {
	/*
		FindActiveByUserID lists all valid, non-expired sessions for a reader.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []SessionInfo: List of active devices
		  - error: Retrieval errors
	*/
	FindActiveByUserID(context context.Context, userID string) ([]SessionInfo, error)

	/*
		Revoke marks a specific session as revoked, scoped to its owner.

		Parameters:
		  - context: context.Context
		  - userID: string (Security constraint: owner validation)
		  - sessionID: string

		Returns:
		  - error: Revocation failures
	*/
	Revoke(context context.Context, userID, sessionID string) error

	/*
		RevokeAll terminates every session for a reader.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Revocation failures
	*/
	RevokeAll(context context.Context, userID string) error
}
