//go:build integration
// +build integration

package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"reviewhub/internal/api/models"
	"reviewhub/internal/config"
	"reviewhub/internal/database"
)

// setupTestDB starts a throwaway Postgres container and connects through
// the regular connection path, so the schema under test is exactly the
// migrated production schema (FK actions and unique indexes included).
func setupTestDB(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("reviewhub_test"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start Postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.Connect(&config.Config{DatabaseURL: connStr}, logger)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Role:      models.RoleUser,
		Confirmed: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTitle(t *testing.T, db *gorm.DB, name string, year int) *models.Title {
	title := &models.Title{Name: name, Year: year}
	require.NoError(t, db.Omit("Genres").Create(title).Error)
	return title
}

func seedReview(t *testing.T, db *gorm.DB, title *models.Title, author *models.User, score int) *models.Review {
	review := &models.Review{TitleID: title.ID, AuthorID: author.ID, Text: "text", Score: score}
	require.NoError(t, db.Create(review).Error)
	return review
}

func TestTitleRepository_RatingAggregation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	titleRepo := NewTitleRepository(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	first := seedTitle(t, db, "Dune", 1965)
	second := seedTitle(t, db, "Solaris", 1961)
	unrated := seedTitle(t, db, "Ubik", 1969)

	seedReview(t, db, first, alice, 5)
	seedReview(t, db, first, bob, 10)
	seedReview(t, db, second, alice, 6)
	seedReview(t, db, second, bob, 9)

	got, err := titleRepo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 7.5, *got.Rating, 1e-9)

	got, err = titleRepo.FindByID(ctx, unrated.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating, "a title with no reviews has no rating, not zero")

	// Both rated titles average 7.5, so the tie breaks on id; the unrated
	// title sorts after every rated one.
	list, total, err := titleRepo.List(ctx, TitleFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 3)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, unrated.ID, list[2].ID)
	assert.Nil(t, list[2].Rating)
}

func TestCategoryRepository_DeleteClearsTitleReference(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	categoryRepo := NewCategoryRepository(db)
	titleRepo := NewTitleRepository(db)

	category := &models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, categoryRepo.Create(ctx, category))

	title := seedTitle(t, db, "Dune", 1965)
	require.NoError(t, db.Model(title).Update("category_id", category.ID).Error)

	require.NoError(t, categoryRepo.DeleteBySlug(ctx, "books"))

	got, err := titleRepo.FindByID(ctx, title.ID)
	require.NoError(t, err, "the title survives its category")
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

func TestGenreRepository_DeleteRemovesJoinRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	genreRepo := NewGenreRepository(db)
	titleRepo := NewTitleRepository(db)

	genre := &models.Genre{Name: "Science Fiction", Slug: "scifi"}
	require.NoError(t, genreRepo.Create(ctx, genre))

	title := seedTitle(t, db, "Dune", 1965)
	require.NoError(t, titleRepo.ReplaceGenres(ctx, title, []models.Genre{*genre}))

	var joinRows int64
	require.NoError(t, db.Model(&models.GenreTitle{}).Where("title_id = ?", title.ID).Count(&joinRows).Error)
	assert.Equal(t, int64(1), joinRows)

	require.NoError(t, genreRepo.DeleteBySlug(ctx, "scifi"))

	require.NoError(t, db.Model(&models.GenreTitle{}).Where("title_id = ?", title.ID).Count(&joinRows).Error)
	assert.Zero(t, joinRows)

	got, err := titleRepo.FindByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Genres)
}

func TestReviewRepository_DuplicateAndCascade(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	reviewRepo := NewReviewRepository(db)
	commentRepo := NewCommentRepository(db)

	alice := seedUser(t, db, "alice")
	title := seedTitle(t, db, "Dune", 1965)

	review := &models.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "great", Score: 9}
	require.NoError(t, reviewRepo.Create(ctx, review))

	// One review per (title, author); the unique index is the arbiter
	dup := &models.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "again", Score: 3}
	err := reviewRepo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	comment := &models.Comment{ReviewID: review.ID, AuthorID: alice.ID, Text: "agreed"}
	require.NoError(t, commentRepo.Create(ctx, comment))

	require.NoError(t, reviewRepo.Delete(ctx, review))

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Where("review_id = ?", review.ID).Count(&comments).Error)
	assert.Zero(t, comments, "comments go with their review")

	_, err = reviewRepo.FindByID(ctx, title.ID, review.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
