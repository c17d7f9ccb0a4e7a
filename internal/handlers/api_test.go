package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/arnab42/socialite/backend/internal/auth"
	"github.com/arnab42/socialite/backend/internal/router"
	"github.com/arnab42/socialite/backend/validators"
)

// End-to-end tests over the full HTTP surface. They need a real database:
// set TEST_DATABASE_URL to a disposable Postgres DSN, otherwise they skip.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping end-to-end tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		message := "Internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}
		if !c.Response().Committed {
			_ = c.JSON(code, echo.Map{"error": message})
		}
	}

	tokens := auth.NewTokenService("test-secret", time.Hour)
	if err := router.SetupRoutes(e, db, tokens); err != nil {
		t.Fatalf("setup routes: %v", err)
	}

	// Start every test from an empty store
	for _, table := range []string{"likes", "comments", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return e
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

// toSecond truncates an RFC3339 timestamp value to second precision
func toSecond(v any) string {
	s, _ := v.(string)
	if len(s) >= 19 {
		return s[:19]
	}
	return s
}

func signupBody(email string) string {
	return fmt.Sprintf(`{"first_name":"A","last_name":"B","date_of_birth":"1990-01-01","gender":"male","email":%q,"password":"p"}`, email)
}

// signupAndLogin registers a user and returns a valid bearer token
func signupAndLogin(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/user/signup", "", signupBody(email))
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: status = %d, body %s", email, rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodPost, "/user/login", "", fmt.Sprintf(`{"email":%q,"password":"p"}`, email))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body %s", email, rec.Code, rec.Body.String())
	}
	token, _ := decode(t, rec)["access_token"].(string)
	if token == "" {
		t.Fatal("login returned an empty token")
	}
	return token
}

func createPost(t *testing.T, e *echo.Echo, token, title string) uint {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/post/", token, fmt.Sprintf(`{"title":%q,"content":"some content"}`, title))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: status = %d, body %s", rec.Code, rec.Body.String())
	}
	post := decode(t, rec)["post"].(map[string]any)
	return uint(post["id"].(float64))
}

func TestSignupDuplicateEmail(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/user/signup", "", signupBody("dup@x.com"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first signup: status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Same email with different fields still conflicts
	body := `{"first_name":"Z","last_name":"Q","date_of_birth":"1985-06-15","gender":"Female","email":"dup@x.com","password":"other"}`
	rec = doJSON(e, http.MethodPost, "/user/signup", "", body)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup: status = %d, want 409", rec.Code)
	}
}

func TestSignupRejectsBadInput(t *testing.T) {
	e := newTestServer(t)

	cases := map[string]string{
		"missing fields": `{"email":"a@x.com","password":"p"}`,
		"bad gender":     `{"first_name":"A","last_name":"B","date_of_birth":"1990-01-01","gender":"robot","email":"a@x.com","password":"p"}`,
		"bad date":       `{"first_name":"A","last_name":"B","date_of_birth":"01/01/1990","gender":"Male","email":"a@x.com","password":"p"}`,
		"bad email":      `{"first_name":"A","last_name":"B","date_of_birth":"1990-01-01","gender":"Male","email":"nope","password":"p"}`,
	}
	for name, body := range cases {
		rec := doJSON(e, http.MethodPost, "/user/signup", "", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/user/signup", "", signupBody("login@x.com"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: status = %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/user/login", "", `{"email":"login@x.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", rec.Code)
	}
	if _, hasToken := decode(t, rec)["access_token"]; hasToken {
		t.Error("token issued for wrong password")
	}

	rec = doJSON(e, http.MethodPost, "/user/login", "", `{"email":"ghost@x.com","password":"p"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown email: status = %d, want 401", rec.Code)
	}
}

func TestProfileFlow(t *testing.T) {
	e := newTestServer(t)
	token := signupAndLogin(t, e, "a@x.com")

	rec := doJSON(e, http.MethodGet, "/user/profile", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile: status = %d, body %s", rec.Code, rec.Body.String())
	}
	profile := decode(t, rec)
	if profile["email"] != "a@x.com" {
		t.Errorf("email = %v, want a@x.com", profile["email"])
	}
	if profile["id"] == nil {
		t.Error("profile has no id")
	}
	if profile["gender"] != "Male" {
		t.Errorf("gender = %v, want Male (normalized from 'male')", profile["gender"])
	}
	if profile["date_of_birth"] != "1990-01-01" {
		t.Errorf("date_of_birth = %v, want 1990-01-01", profile["date_of_birth"])
	}

	// PATCH updates only the named field
	rec = doJSON(e, http.MethodPatch, "/user/profile", token, `{"first_name":"Renamed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch profile: status = %d, body %s", rec.Code, rec.Body.String())
	}
	patched := decode(t, rec)["user"].(map[string]any)
	if patched["first_name"] != "Renamed" {
		t.Errorf("first_name = %v, want Renamed", patched["first_name"])
	}
	if patched["last_name"] != "B" || patched["email"] != "a@x.com" {
		t.Errorf("untouched fields changed: %v", patched)
	}

	// PUT requires the full field set
	rec = doJSON(e, http.MethodPut, "/user/profile", token, `{"first_name":"OnlyThis"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("partial PUT: status = %d, want 400", rec.Code)
	}

	rec = doJSON(e, http.MethodDelete, "/user/profile", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete profile: status = %d", rec.Code)
	}
	rec = doJSON(e, http.MethodGet, "/user/profile", token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("profile after delete: status = %d, want 404", rec.Code)
	}
}

func TestProfileEmailConflict(t *testing.T) {
	e := newTestServer(t)
	signupAndLogin(t, e, "first@x.com")
	token := signupAndLogin(t, e, "second@x.com")

	rec := doJSON(e, http.MethodPatch, "/user/profile", token, `{"email":"first@x.com"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("patch to taken email: status = %d, want 409", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newTestServer(t)

	for _, path := range []string{"/user/profile", "/post/", "/post/my-posts"} {
		rec := doJSON(e, http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, rec.Code)
		}
	}
}

func TestPostCRUD(t *testing.T) {
	e := newTestServer(t)
	token := signupAndLogin(t, e, "poster@x.com")

	postID := createPost(t, e, token, "First post")

	rec := doJSON(e, http.MethodGet, fmt.Sprintf("/post/%d", postID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get post: status = %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/post/my-posts", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("my-posts: status = %d", rec.Code)
	}
	var myPosts []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &myPosts); err != nil {
		t.Fatalf("decode my-posts: %v", err)
	}
	if len(myPosts) != 1 {
		t.Errorf("my-posts count = %d, want 1", len(myPosts))
	}

	// PUT replaces, PATCH is partial
	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/post/%d", postID), token, `{"title":"New title","content":"new content"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put post: status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/post/%d", postID), token, `{"title":"No content"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("partial PUT: status = %d, want 400", rec.Code)
	}
	rec = doJSON(e, http.MethodPatch, fmt.Sprintf("/post/%d", postID), token, `{"title":"Patched"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch post: status = %d", rec.Code)
	}
	patched := decode(t, rec)["post"].(map[string]any)
	if patched["title"] != "Patched" || patched["content"] != "new content" {
		t.Errorf("patch result = %v", patched)
	}

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/post/%d", postID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete post: status = %d", rec.Code)
	}
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/post/%d", postID), token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted post: status = %d, want 404", rec.Code)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	e := newTestServer(t)
	ownerToken := signupAndLogin(t, e, "owner@x.com")
	otherToken := signupAndLogin(t, e, "other@x.com")

	postID := createPost(t, e, ownerToken, "Owner's post")

	// A token for user A never authorizes mutation of B's post
	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		body := ""
		if method != http.MethodDelete {
			body = `{"title":"Hijack","content":"hijack"}`
		}
		rec := doJSON(e, method, fmt.Sprintf("/post/%d", postID), otherToken, body)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s by non-owner: status = %d, want 403", method, rec.Code)
		}
	}

	// Missing resources 404 before ownership comes into play
	rec := doJSON(e, http.MethodDelete, "/post/999999", otherToken, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing post: status = %d, want 404", rec.Code)
	}

	// Same for comments
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/comment/post/%d", postID), ownerToken, `{"content":"mine"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment: status = %d", rec.Code)
	}
	commentID := uint(decode(t, rec)["comment"].(map[string]any)["id"].(float64))

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/comment/update/%d", commentID), otherToken, `{"content":"hijack"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("comment update by non-owner: status = %d, want 403", rec.Code)
	}
	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/comment/%d", commentID), otherToken, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("comment delete by non-owner: status = %d, want 403", rec.Code)
	}
}

func TestCommentFlow(t *testing.T) {
	e := newTestServer(t)
	token := signupAndLogin(t, e, "commenter@x.com")
	postID := createPost(t, e, token, "Post to comment on")

	// Commenting on a missing post is a 404
	rec := doJSON(e, http.MethodPost, "/comment/post/999999", token, `{"content":"lost"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("comment on missing post: status = %d, want 404", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/comment/post/%d", postID), token, `{"content":"first"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment: status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode(t, rec)["comment"].(map[string]any)
	commentID := uint(created["id"].(float64))

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/comment/post/%d", postID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list comments: status = %d", rec.Code)
	}
	listing := decode(t, rec)
	if count := listing["comments_count"].(float64); count != 1 {
		t.Errorf("comments_count = %v, want 1", count)
	}

	// Patch semantics: only content changes, updated_at refreshes
	time.Sleep(1100 * time.Millisecond) // ensure updated_at visibly moves
	rec = doJSON(e, http.MethodPatch, fmt.Sprintf("/comment/update/%d", commentID), token, `{"content":"x"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch comment: status = %d, body %s", rec.Code, rec.Body.String())
	}
	patched := decode(t, rec)["comment"].(map[string]any)
	if patched["content"] != "x" {
		t.Errorf("content = %v, want x", patched["content"])
	}
	if patched["user_id"] != created["user_id"] || patched["post_id"] != created["post_id"] {
		t.Errorf("ownership fields changed: %v vs %v", patched, created)
	}
	// Compare to whole-second precision: the DB round-trip truncates
	// sub-microsecond digits.
	if toSecond(patched["created_at"]) != toSecond(created["created_at"]) {
		t.Errorf("created_at changed: %v vs %v", patched["created_at"], created["created_at"])
	}
	if toSecond(patched["updated_at"]) == toSecond(created["updated_at"]) {
		t.Error("updated_at not refreshed by patch")
	}

	// PUT without content is a 400, PATCH without content is fine
	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/comment/update/%d", commentID), token, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("PUT without content: status = %d, want 400", rec.Code)
	}
	rec = doJSON(e, http.MethodPatch, fmt.Sprintf("/comment/update/%d", commentID), token, `{}`)
	if rec.Code != http.StatusOK {
		t.Errorf("PATCH without content: status = %d, want 200", rec.Code)
	}

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/comment/%d", commentID), token, "")
	if rec.Code != http.StatusOK {
		t.Errorf("delete comment: status = %d", rec.Code)
	}
}

func TestLikeFlow(t *testing.T) {
	e := newTestServer(t)
	token := signupAndLogin(t, e, "liker@x.com")
	postID := createPost(t, e, token, "Likeable post")

	// Unliking before liking is a 404
	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/like/post/%d", postID), token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unlike before like: status = %d, want 404", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/like/post/%d", postID), token, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("like: status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Second like by the same user conflicts
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/like/post/%d", postID), token, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("double like: status = %d, want 409", rec.Code)
	}

	// Exactly one like row exists for the pair
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/like/post/%d", postID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list likes: status = %d", rec.Code)
	}
	listing := decode(t, rec)
	if count := listing["likes_count"].(float64); count != 1 {
		t.Errorf("likes_count = %v, want 1", count)
	}

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/like/post/%d", postID), token, "")
	if rec.Code != http.StatusOK {
		t.Errorf("unlike: status = %d", rec.Code)
	}

	// Liking a missing post is a 404
	rec = doJSON(e, http.MethodPost, "/like/post/999999", token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("like missing post: status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("health: status = %d, want 200", rec.Code)
	}
}
