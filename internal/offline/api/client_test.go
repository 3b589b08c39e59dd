package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagebakes/bakebook/internal/offline/store"
	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
	recipedto "github.com/heritagebakes/bakebook/internal/recipe/dto"
	"github.com/heritagebakes/bakebook/pkg/database"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	st, err := store.New(db)
	require.NoError(t, err)
	return st
}

func TestDoSendsBearerToken(t *testing.T) {
	st := newTestStore(t)

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(recipedto.RecipesResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, st)
	_, err := c.ListRecipes(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	st := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Recipe not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, st)
	_, err := c.GetRecipe(context.Background(), "tok", "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Recipe not found")
}

func TestListRefreshesTheLocalCache(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(recipedto.RecipesResponse{
			Recipes: []*recipedomain.Recipe{{ID: "r1", Title: "Sourdough"}},
			Total:   1,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, st)
	recipes, err := c.ListRecipes(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	cached, err := st.LoadRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "Sourdough", cached[0].Title)
}

func TestListFallsBackToCacheWhenServerUnreachable(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveRecipes(ctx, []*recipedomain.Recipe{{ID: "r1", Title: "Bagels"}}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable from here on

	c := NewClient(srv.URL, st)
	recipes, err := c.ListRecipes(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Bagels", recipes[0].Title)
}

func TestGetFallsBackToCachedRecipe(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveRecipes(ctx, []*recipedomain.Recipe{
		{ID: "r1", Title: "Bagels"},
		{ID: "r2", Title: "Rye"},
	}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, st)

	recipe, err := c.GetRecipe(ctx, "tok", "r2")
	require.NoError(t, err)
	assert.Equal(t, "Rye", recipe.Title)

	_, err = c.GetRecipe(ctx, "tok", "not-cached")
	require.Error(t, err)
}

func TestOnline(t *testing.T) {
	st := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok"}`)
	}))

	c := NewClient(srv.URL, st)
	assert.True(t, c.Online(context.Background()))

	srv.Close()
	assert.False(t, c.Online(context.Background()))
}

func TestCreateStripsClientOnlyFields(t *testing.T) {
	st := newTestStore(t)

	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(&recipedomain.Recipe{ID: "srv-1", Title: "Focaccia"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, st)
	created, err := c.CreateRecipe(context.Background(), "tok", &recipedomain.Recipe{
		ID:     "temp_abc",
		UserID: "u1",
		Title:  "Focaccia",
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)

	_, hasID := body["id"]
	assert.False(t, hasID)
	_, hasUser := body["user_id"]
	assert.False(t, hasUser)
	assert.Equal(t, "Focaccia", body["title"])
}

func TestLoginCachesSession(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"acc-1","refresh_token":"ref-1","user":{"id":"u1","email":"marta@example.com","name":"Marta"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, st)
	resp, err := c.Login(ctx, "marta@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", resp.AccessToken)

	token, err := st.LoadToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", token)

	user, err := st.LoadUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Marta", user.Name)
}
