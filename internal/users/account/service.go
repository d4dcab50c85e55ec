// Copyright (c) 2026 BookHaven. All rights reserved.

package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/bookhaven/bookhaven/internal/storage"
	"github.com/bookhaven/bookhaven/internal/users/auth"
	"github.com/bookhaven/bookhaven/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for reader accounts.
type Service struct {
	accountRepository AccountRepository
	statsRepository   StatsRepository
	sessionRepository SessionRepository
	objectStore       storage.ObjectStore
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	accountRepo AccountRepository,
	statsRepo StatsRepository,
	sessionRepo SessionRepository,
	objectStore storage.ObjectStore,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		statsRepository:   statsRepo,
		sessionRepository: sessionRepo,
		objectStore:       objectStore,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a reader.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated reader profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of reader profile fields.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
}

/*
UpdateProfile applies a partial set of changes to a reader's account metadata.

Description: Fetches the existing state, overrides provided fields, and
synchronizes the change to persistent storage.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated reader profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
UploadAvatar stores a new avatar image and links it to the reader profile.

Description: Streams the image into object storage under a fresh key, then
persists the public URL on the account. The previous avatar object, if any,
is removed on success.

Parameters:
  - context: context.Context
  - userID: string
  - fileName: string (Original upload name, used for the extension)
  - content: io.Reader

Returns:
  - *auth.User: Profile with the refreshed avatar URL
  - error: Storage or persistence failures
*/
func (service *Service) UploadAvatar(context context.Context, userID, fileName string, content io.Reader) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_avatar_lookup_failed: %w", err)
	}

	key := "avatars/" + uuid.New() + path.Ext(fileName)
	if _, err := service.objectStore.Save(context, key, content); err != nil {
		return nil, fmt.Errorf("account_service_avatar_save_failed: %w", err)
	}

	previousURL := user.AvatarURL
	user.AvatarURL = service.objectStore.PublicURL(key)

	if err := service.accountRepository.Update(context, user); err != nil {
		// Roll back the orphaned object
		_ = service.objectStore.Remove(context, key)
		return nil, fmt.Errorf("account_service_avatar_update_failed: %w", err)
	}

	if previousKey, ok := objectKeyFromURL(previousURL); ok {
		_ = service.objectStore.Remove(context, previousKey)
	}

	service.logger.Info("user_avatar_updated", slog.String("user_id", userID))

	return user, nil
}

// objectKeyFromURL recovers the storage key from an avatar URL served by the
// static mount. Non-local URLs are left alone.
func objectKeyFromURL(url string) (string, bool) {
	const marker = "/avatars/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", false
	}
	return url[idx+1:], true
}

/*
DeleteAccount performs an idempotent soft-deletion of a reader account.

Description: Flags the account as deleted and immediately terminates all
active sessions to force a global sign-out.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	if err := service.accountRepository.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	// Force global revocation of sessions for the deleted account
	_ = service.sessionRepository.RevokeAll(context, userID)

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Reading Statistics

/*
GetReadingStats aggregates the reader's library counters for the profile page.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *ReadingStats: Favorite, bookmark, and completed counts
  - error: Aggregation failures
*/
func (service *Service) GetReadingStats(context context.Context, userID string) (*ReadingStats, error) {
	stats, err := service.statsRepository.CountByUser(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_stats_failed: %w", err)
	}
	return stats, nil
}

// # Session Security

/*
ListSessions provides a list of all active device sessions for the reader.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []SessionInfo: List of active devices
  - error: Retrieval failures
*/
func (service *Service) ListSessions(context context.Context, userID string) ([]SessionInfo, error) {
	sessions, err := service.sessionRepository.FindActiveByUserID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_sessions_failed: %w", err)
	}
	return sessions, nil
}

/*
RevokeSession terminates a specific reader session by its ID.

Parameters:
  - context: context.Context
  - userID: string
  - sessionID: string

Returns:
  - error: Revocation failures
*/
func (service *Service) RevokeSession(context context.Context, userID, sessionID string) error {
	if err := service.sessionRepository.Revoke(context, userID, sessionID); err != nil {
		return fmt.Errorf("account_service_revoke_session_failed: %w", err)
	}

	service.logger.Info("user_session_revoked",
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	return nil
}
