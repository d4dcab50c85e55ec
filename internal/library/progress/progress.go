// Copyright (c) 2026 BookHaven. All rights reserved.

/*
Package progress implements each reader's personal library: bookmarks,
reading history, favorites, and the recommendation feed derived from them.

Core Responsibility:

  - Bookmarks: One saved position per (reader, book), upserted by natural key.
  - History: Completion records with optional rating and review.
  - Favorites: A flat set of loved books, idempotent on both add and remove.
  - Recommendations: Category-frequency ranking over history and favorites.

The ranking and percentage calculations are pure functions so their edge
cases stay unit-testable without storage.
*/
package progress

import (
	"math"
	"time"
)

// Ranking parameters for the recommendation feed. Completing a book signals
// taste more strongly than favoriting one.
const (
	historyWeight  = 2
	favoriteWeight = 1

	topCategoryCount    = 3
	recommendationLimit = 8
)

// # Domain Entities

// Bookmark is a reader's saved position in a book. At most one exists per
// (reader, book) pair.
type Bookmark struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	BookID     string    `json:"book_id"`
	PageNumber int       `json:"page_number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HistoryEntry records a reader's relationship with a finished (or rated)
// book. Rating and Review are independent: clearing a rating keeps the row.
type HistoryEntry struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	BookID      string     `json:"book_id"`
	CompletedAt *time.Time `json:"completed_at"`
	Rating      *int       `json:"rating"`
	Review      *string    `json:"review"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Favorite marks a book a reader loves.
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Progress reports how far through a book a reader is.
type Progress struct {
	BookID     string `json:"book_id"`
	PageNumber int    `json:"page_number"`
	PageCount  int    `json:"page_count"`
	Percent    int    `json:"percent"`
}

// # Pure Calculations

/*
ProgressPercent converts a page position into a whole-number percentage.

Description: A non-positive total means the book has no measurable length
(file-based or empty) and always yields 0. Otherwise the ratio is rounded to
the nearest integer and clamped to [0, 100], so an out-of-range position can
never report an impossible percentage.

Parameters:
  - current: int (1-based page position)
  - total: int (page count)

Returns:
  - int: Percentage in [0, 100]
*/
func ProgressPercent(current, total int) int {
	if total <= 0 {
		return 0
	}

	percent := int(math.Round(float64(current) / float64(total) * 100))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

/*
RankPreferredCategories scores categories by how often they appear in a
reader's history and favorites, and returns the top three.

Description: History occurrences count double. Ties break by first
appearance, scanning history before favorites, so the ordering is stable
across runs regardless of score collisions.

Parameters:
  - historyCategories: []string (category IDs from completed books, oldest first)
  - favoriteCategories: []string (category IDs from favorited books, oldest first)

Returns:
  - []string: Up to three category IDs, highest score first
*/
func RankPreferredCategories(historyCategories, favoriteCategories []string) []string {
	scores := make(map[string]int)
	firstSeen := make(map[string]int)
	order := make([]string, 0)

	record := func(categoryID string, weight int) {
		if categoryID == "" {
			return
		}
		if _, seen := firstSeen[categoryID]; !seen {
			firstSeen[categoryID] = len(order)
			order = append(order, categoryID)
		}
		scores[categoryID] += weight
	}

	for _, categoryID := range historyCategories {
		record(categoryID, historyWeight)
	}
	for _, categoryID := range favoriteCategories {
		record(categoryID, favoriteWeight)
	}

	// Insertion sort on a handful of categories, highest score first with
	// first-seen position as the tie-breaker.
	ranked := make([]string, len(order))
	copy(ranked, order)
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0; j-- {
			current, previous := ranked[j], ranked[j-1]
			if scores[current] > scores[previous] {
				ranked[j], ranked[j-1] = previous, current
				continue
			}
			break
		}
	}

	if len(ranked) > topCategoryCount {
		ranked = ranked[:topCategoryCount]
	}
	return ranked
}
