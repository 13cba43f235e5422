// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package database

import (
	"errors"
	"testing"

	"github.com/cinescope/cinescope/internal/models"
)

func mustCreateUser(t *testing.T, db *DB, email, name string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		DisplayName:  name,
		PasswordHash: "$2a$10$fakehashfortestingonly",
		Active:       true,
	}
	if err := db.CreateUser(testContext(t), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func mustCreateMovie(t *testing.T, db *DB, title string, year int, genres ...string) *models.Movie {
	t.Helper()
	movie := &models.Movie{
		Title:       title,
		ReleaseYear: year,
		Genres:      genres,
	}
	if err := db.CreateMovie(testContext(t), movie); err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}
	return movie
}

func TestCreateUserAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	created := mustCreateUser(t, db, "alice@example.com", "Alice")
	if created.ID == "" {
		t.Fatal("Expected generated user ID")
	}

	found, err := db.FindUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindUserByID failed: %v", err)
	}
	if found == nil {
		t.Fatal("Expected user, got nil")
	}
	if found.Email != "alice@example.com" || !found.Active {
		t.Errorf("Unexpected user %+v", found)
	}
}

func TestFindUserByIDMissingIsNilNil(t *testing.T) {
	db := setupTestDB(t)

	found, err := db.FindUserByID(testContext(t), "00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("Expected nil error for missing user, got %v", err)
	}
	if found != nil {
		t.Errorf("Expected nil user, got %+v", found)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)

	mustCreateUser(t, db, "alice@example.com", "Alice")

	dup := &models.User{
		Email:        "alice@example.com",
		DisplayName:  "Other Alice",
		PasswordHash: "$2a$10$fakehashfortestingonly",
		Active:       true,
	}
	if err := db.CreateUser(testContext(t), dup); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestSetUserActive(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	user := mustCreateUser(t, db, "alice@example.com", "Alice")

	if err := db.SetUserActive(ctx, user.ID, false); err != nil {
		t.Fatalf("SetUserActive failed: %v", err)
	}
	found, err := db.FindUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindUserByID failed: %v", err)
	}
	if found.Active {
		t.Error("Expected deactivated user")
	}
}

func TestMovieCRUDRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	movie := mustCreateMovie(t, db, "Heat", 1995, "Crime", "Thriller")
	if movie.ID == 0 {
		t.Fatal("Expected generated movie ID")
	}

	got, err := db.GetMovie(ctx, movie.ID)
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if got.Title != "Heat" || got.ReleaseYear != 1995 {
		t.Errorf("Unexpected movie %+v", got)
	}
	if len(got.Genres) != 2 || got.Genres[0] != "Crime" {
		t.Errorf("Expected sorted genres [Crime Thriller], got %v", got.Genres)
	}
	if got.AvgRating != 0 || got.RatingCount != 0 {
		t.Errorf("Expected zero rating aggregate, got %+v", got)
	}

	got.Title = "Heat (Director's Cut)"
	got.Genres = []string{"Crime"}
	if err := db.UpdateMovie(ctx, got); err != nil {
		t.Fatalf("UpdateMovie failed: %v", err)
	}
	updated, err := db.GetMovie(ctx, movie.ID)
	if err != nil {
		t.Fatalf("GetMovie after update failed: %v", err)
	}
	if updated.Title != "Heat (Director's Cut)" || len(updated.Genres) != 1 {
		t.Errorf("Update not applied: %+v", updated)
	}

	if err := db.DeleteMovie(ctx, movie.ID); err != nil {
		t.Fatalf("DeleteMovie failed: %v", err)
	}
	if _, err := db.GetMovie(ctx, movie.ID); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("Expected ErrMovieNotFound after delete, got %v", err)
	}
}

func TestGetMovieNotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetMovie(testContext(t), 9999); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("Expected ErrMovieNotFound, got %v", err)
	}
}

func TestListMoviesGenreFilter(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	mustCreateMovie(t, db, "Heat", 1995, "Crime")
	mustCreateMovie(t, db, "Alien", 1979, "Horror", "SciFi")
	mustCreateMovie(t, db, "Se7en", 1995, "Crime", "Thriller")

	crime, err := db.ListMovies(ctx, MovieFilter{Genre: "crime"})
	if err != nil {
		t.Fatalf("ListMovies failed: %v", err)
	}
	if len(crime) != 2 {
		t.Fatalf("Expected 2 crime movies, got %d", len(crime))
	}

	year, err := db.ListMovies(ctx, MovieFilter{Year: 1995})
	if err != nil {
		t.Fatalf("ListMovies failed: %v", err)
	}
	if len(year) != 2 {
		t.Fatalf("Expected 2 movies from 1995, got %d", len(year))
	}

	paged, err := db.ListMovies(ctx, MovieFilter{Limit: 1, Skip: 1})
	if err != nil {
		t.Fatalf("ListMovies failed: %v", err)
	}
	if len(paged) != 1 {
		t.Fatalf("Expected 1 paged movie, got %d", len(paged))
	}
}

func TestShowCRUDRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	show := &models.Show{
		Title:      "The Wire",
		FirstAired: 2002,
		Seasons:    5,
		Genres:     []string{"Crime", "Drama"},
	}
	if err := db.CreateShow(ctx, show); err != nil {
		t.Fatalf("CreateShow failed: %v", err)
	}

	got, err := db.GetShow(ctx, show.ID)
	if err != nil {
		t.Fatalf("GetShow failed: %v", err)
	}
	if got.Title != "The Wire" || got.Seasons != 5 || len(got.Genres) != 2 {
		t.Errorf("Unexpected show %+v", got)
	}

	got.Seasons = 6
	if err := db.UpdateShow(ctx, got); err != nil {
		t.Fatalf("UpdateShow failed: %v", err)
	}

	if err := db.DeleteShow(ctx, show.ID); err != nil {
		t.Fatalf("DeleteShow failed: %v", err)
	}
	if _, err := db.GetShow(ctx, show.ID); !errors.Is(err, ErrShowNotFound) {
		t.Fatalf("Expected ErrShowNotFound after delete, got %v", err)
	}
}

func TestCelebrityWithCredits(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	movie := mustCreateMovie(t, db, "Heat", 1995, "Crime")

	celeb := &models.Celebrity{Name: "Al Pacino"}
	if err := db.CreateCelebrity(ctx, celeb); err != nil {
		t.Fatalf("CreateCelebrity failed: %v", err)
	}

	credit := &models.Credit{
		CelebrityID: celeb.ID,
		MovieID:     &movie.ID,
		Role:        "cast",
		Character:   "Vincent Hanna",
	}
	if err := db.CreateCredit(ctx, credit); err != nil {
		t.Fatalf("CreateCredit failed: %v", err)
	}

	credits, err := db.ListCreditsForCelebrity(ctx, celeb.ID)
	if err != nil {
		t.Fatalf("ListCreditsForCelebrity failed: %v", err)
	}
	if len(credits) != 1 || credits[0].Character != "Vincent Hanna" {
		t.Errorf("Unexpected credits %+v", credits)
	}

	byMovie, err := db.ListCreditsForMovie(ctx, movie.ID)
	if err != nil {
		t.Fatalf("ListCreditsForMovie failed: %v", err)
	}
	if len(byMovie) != 1 || byMovie[0].CelebrityID != celeb.ID {
		t.Errorf("Unexpected credits %+v", byMovie)
	}
}

func TestUpsertRatingReplacesScore(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	user := mustCreateUser(t, db, "alice@example.com", "Alice")
	movie := mustCreateMovie(t, db, "Heat", 1995, "Crime")

	first := &models.Rating{UserID: user.ID, MovieID: &movie.ID, Score: 6}
	if err := db.UpsertRating(ctx, first); err != nil {
		t.Fatalf("First UpsertRating failed: %v", err)
	}

	second := &models.Rating{UserID: user.ID, MovieID: &movie.ID, Score: 9}
	if err := db.UpsertRating(ctx, second); err != nil {
		t.Fatalf("Second UpsertRating failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected upsert to reuse rating row, got %d vs %d", second.ID, first.ID)
	}

	ratings, err := db.ListRatingsForMovie(ctx, movie.ID)
	if err != nil {
		t.Fatalf("ListRatingsForMovie failed: %v", err)
	}
	if len(ratings) != 1 || ratings[0].Score != 9 {
		t.Errorf("Expected single rating with score 9, got %+v", ratings)
	}

	got, err := db.GetMovie(ctx, movie.ID)
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if got.AvgRating != 9 || got.RatingCount != 1 {
		t.Errorf("Expected aggregate avg=9 count=1, got avg=%v count=%d", got.AvgRating, got.RatingCount)
	}
}

func TestDeleteRatingOwnership(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	alice := mustCreateUser(t, db, "alice@example.com", "Alice")
	bob := mustCreateUser(t, db, "bob@example.com", "Bob")
	movie := mustCreateMovie(t, db, "Heat", 1995, "Crime")

	rating := &models.Rating{UserID: alice.ID, MovieID: &movie.ID, Score: 8}
	if err := db.UpsertRating(ctx, rating); err != nil {
		t.Fatalf("UpsertRating failed: %v", err)
	}

	if err := db.DeleteRating(ctx, rating.ID, bob.ID); !errors.Is(err, ErrRatingNotFound) {
		t.Fatalf("Expected ErrRatingNotFound for foreign rating, got %v", err)
	}
	if err := db.DeleteRating(ctx, rating.ID, alice.ID); err != nil {
		t.Fatalf("DeleteRating failed: %v", err)
	}
}

func TestSearchRanking(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	mustCreateMovie(t, db, "Heat", 1995, "Crime")
	mustCreateMovie(t, db, "Heathers", 1988, "Comedy")
	mustCreateMovie(t, db, "City of Heat", 1984, "Comedy")

	results, err := db.Search(ctx, "heat", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Title != "Heat" {
		t.Errorf("Expected exact match first, got %q", results[0].Title)
	}
	if results[1].Title != "Heathers" {
		t.Errorf("Expected prefix match second, got %q", results[1].Title)
	}
}

func TestSearchEmptyTerm(t *testing.T) {
	db := setupTestDB(t)

	results, err := db.Search(testContext(t), "   ", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results for empty term, got %d", len(results))
	}
}

func TestRecommendMoviesGenreOverlap(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	user := mustCreateUser(t, db, "alice@example.com", "Alice")
	liked := mustCreateMovie(t, db, "Heat", 1995, "Crime", "Thriller")
	overlap2 := mustCreateMovie(t, db, "Se7en", 1995, "Crime", "Thriller")
	overlap1 := mustCreateMovie(t, db, "Fargo", 1996, "Crime", "Comedy")
	mustCreateMovie(t, db, "Amélie", 2001, "Romance")

	rating := &models.Rating{UserID: user.ID, MovieID: &liked.ID, Score: 9}
	if err := db.UpsertRating(ctx, rating); err != nil {
		t.Fatalf("UpsertRating failed: %v", err)
	}

	recs, err := db.RecommendMovies(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("RecommendMovies failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Movie.ID != overlap2.ID {
		t.Errorf("Expected strongest overlap first, got %+v", recs[0].Movie)
	}
	if len(recs[0].SharedGenres) != 2 {
		t.Errorf("Expected 2 shared genres, got %v", recs[0].SharedGenres)
	}
	if recs[1].Movie.ID != overlap1.ID {
		t.Errorf("Expected weaker overlap second, got %+v", recs[1].Movie)
	}
	for _, rec := range recs {
		if rec.Movie.ID == liked.ID {
			t.Error("Already-rated movie must not be recommended")
		}
	}
}

func TestRecommendMoviesNoRatings(t *testing.T) {
	db := setupTestDB(t)

	user := mustCreateUser(t, db, "alice@example.com", "Alice")
	recs, err := db.RecommendMovies(testContext(t), user.ID, 10)
	if err != nil {
		t.Fatalf("RecommendMovies failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Expected no recommendations without ratings, got %d", len(recs))
	}
}
