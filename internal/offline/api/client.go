// Package api is the client's HTTP gateway to the recipe server. Reads
// fall back to the local cache when the network is unavailable.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	authdto "github.com/heritagebakes/bakebook/internal/auth/dto"
	"github.com/heritagebakes/bakebook/internal/offline/store"
	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
	recipedto "github.com/heritagebakes/bakebook/internal/recipe/dto"
)

// APIError is a non-2xx response, carrying the status and body text.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Body)
}

// Client issues authenticated calls against the server. No retries, no
// backoff, no timeout policy beyond the transport default.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *store.Store
}

// NewClient creates a Client rooted at baseURL (e.g. http://localhost:8080).
func NewClient(baseURL string, st *store.Store) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		store:      st,
	}
}

// Online probes the health endpoint. Used as the connectivity signal at
// the start of each sync attempt.
func (c *Client) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Register creates an account and caches the session locally.
func (c *Client) Register(ctx context.Context, email, password, name string) (*authdto.TokenResponse, error) {
	var resp authdto.TokenResponse
	req := authdto.RegisterRequest{Email: email, Password: password, Name: name}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", &req, &resp); err != nil {
		return nil, err
	}
	c.cacheSession(ctx, &resp)
	return &resp, nil
}

// Login authenticates and caches the session locally so the app can
// identify itself while offline.
func (c *Client) Login(ctx context.Context, email, password string) (*authdto.TokenResponse, error) {
	var resp authdto.TokenResponse
	req := authdto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", &req, &resp); err != nil {
		return nil, err
	}
	c.cacheSession(ctx, &resp)
	return &resp, nil
}

func (c *Client) cacheSession(ctx context.Context, resp *authdto.TokenResponse) {
	if err := c.store.SaveToken(ctx, resp.AccessToken); err != nil {
		log.Printf("[API] cache token: %v", err)
	}
	if resp.User != nil {
		if err := c.store.SaveUser(ctx, resp.User); err != nil {
			log.Printf("[API] cache user: %v", err)
		}
	}
}

// ListRecipes fetches the user's collection, refreshing the local cache.
// On a transport failure the last cached snapshot is returned instead.
func (c *Client) ListRecipes(ctx context.Context, token string) ([]*recipedomain.Recipe, error) {
	var resp recipedto.RecipesResponse
	if err := c.do(ctx, http.MethodGet, "/api/recipes", token, nil, &resp); err != nil {
		if _, isAPIErr := err.(*APIError); isAPIErr {
			return nil, err
		}
		log.Printf("[API] list failed, serving cache: %v", err)
		return c.store.LoadRecipes(ctx)
	}
	if err := c.store.SaveRecipes(ctx, resp.Recipes); err != nil {
		log.Printf("[API] cache recipes: %v", err)
	}
	return resp.Recipes, nil
}

// GetRecipe fetches one recipe, falling back to the cached snapshot on a
// transport failure.
func (c *Client) GetRecipe(ctx context.Context, token, id string) (*recipedomain.Recipe, error) {
	var recipe recipedomain.Recipe
	if err := c.do(ctx, http.MethodGet, "/api/recipes/"+id, token, nil, &recipe); err != nil {
		if _, isAPIErr := err.(*APIError); isAPIErr {
			return nil, err
		}
		cached, cacheErr := c.store.LoadRecipes(ctx)
		if cacheErr != nil {
			return nil, err
		}
		for _, r := range cached {
			if r.ID == id {
				return r, nil
			}
		}
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe sends a create. Client-only fields (temporary identifier,
// owner) are stripped from the payload.
func (c *Client) CreateRecipe(ctx context.Context, token string, payload *recipedomain.Recipe) (*recipedomain.Recipe, error) {
	var recipe recipedomain.Recipe
	if err := c.do(ctx, http.MethodPost, "/api/recipes", token, toRequest(payload), &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe sends a full-field update for the recipe with the given id.
func (c *Client) UpdateRecipe(ctx context.Context, token, id string, payload *recipedomain.Recipe) (*recipedomain.Recipe, error) {
	var recipe recipedomain.Recipe
	if err := c.do(ctx, http.MethodPut, "/api/recipes/"+id, token, toRequest(payload), &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe sends a delete for the recipe with the given id.
func (c *Client) DeleteRecipe(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/recipes/"+id, token, nil, nil)
}

// ExportCookbook streams the server-rendered PDF cookbook to w.
func (c *Client) ExportCookbook(ctx context.Context, token string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/recipes/export/pdf", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// toRequest strips client-only fields before a payload goes on the wire.
func toRequest(r *recipedomain.Recipe) *recipedto.RecipeRequest {
	return &recipedto.RecipeRequest{
		Title:       r.Title,
		Ingredients: r.Ingredients,
		Directions:  r.Directions,
		Memory:      r.Memory,
		Photo:       r.Photo,
		Tags:        r.Tags,
		CookTime:    r.CookTime,
	}
}
