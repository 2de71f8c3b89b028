// Package client drives the Foodies HTTP API the way the web frontend does:
// bearer token injection, envelope unwrapping and a global 401 hook.
package client

import (
	"Foodies-Backend/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultErrorMessage = "An unexpected error occurred"

type (
	Config struct {
		BaseURL string
		Timeout time.Duration
		// Store supplies the bearer token; nil means anonymous requests.
		Store Store
		// OnUnauthorized runs after a 401 cleared the stored auth data.
		OnUnauthorized func()
		HTTPClient     *http.Client
	}

	Client struct {
		baseURL        string
		httpClient     *http.Client
		store          Store
		onUnauthorized func()
	}

	// APIError is returned for every non-2xx answer and for transport failures.
	APIError struct {
		Status  string `json:"status"`
		Code    int    `json:"code"`
		Message string `json:"message"`
		err     error
	}

	envelope struct {
		Status  string          `json:"status"`
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}

	RecipeQuery struct {
		Category   string
		Area       string
		Ingredient string
		Page       int
		Limit      int
	}
)

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.err
}

// IsStatus reports whether err is an APIError with the given code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     httpClient,
		store:          cfg.Store,
		onUnauthorized: cfg.OnUnauthorized,
	}
}

func (c *Client) token() string {
	if c.store == nil {
		return ""
	}
	auth, err := c.store.Load()
	if err != nil {
		return ""
	}
	return auth.Token
}

func (c *Client) unauthorized() {
	if c.store != nil {
		_ = c.store.Clear()
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// do sends the request and decodes the envelope's data into out when out is
// not nil.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Status: "error", Code: http.StatusInternalServerError, Message: defaultErrorMessage, err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// Non-JSON bodies leave the envelope empty and fall through to the defaults.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.unauthorized()
		}
		message := env.Message
		if message == "" {
			message = defaultErrorMessage
		}
		return &APIError{Status: "error", Code: resp.StatusCode, Message: message}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	var res domain.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var res domain.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Current(ctx context.Context) (*domain.UserResponse, error) {
	var res struct {
		User domain.UserResponse `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/current", nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *Client) User(ctx context.Context, id string) (*domain.PublicUserResponse, error) {
	var res struct {
		User domain.PublicUserResponse `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// UpdateAvatar uploads content as the multipart "avatar" field.
func (c *Client) UpdateAvatar(ctx context.Context, filename string, content io.Reader) (*domain.AvatarResponse, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("avatar", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copy avatar: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	var res struct {
		User domain.AvatarResponse `json:"user"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/users/avatars", body, w.FormDataContentType(), &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *Client) Followers(ctx context.Context) ([]domain.UserSummary, error) {
	var res struct {
		Followers []domain.UserSummary `json:"followers"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/users/followers", nil, &res)
	return res.Followers, err
}

func (c *Client) Following(ctx context.Context) ([]domain.UserSummary, error) {
	var res struct {
		Following []domain.UserSummary `json:"following"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/users/following", nil, &res)
	return res.Following, err
}

func (c *Client) Follow(ctx context.Context, userID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/users/follow/"+url.PathEscape(userID), nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/users/follow/"+url.PathEscape(userID), nil, nil)
}

func (q RecipeQuery) encode() string {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Area != "" {
		v.Set("area", q.Area)
	}
	if q.Ingredient != "" {
		v.Set("ingredient", q.Ingredient)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) Recipes(ctx context.Context, q RecipeQuery) (*domain.RecipeListResponse, error) {
	var res domain.RecipeListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/recipes"+q.encode(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) PopularRecipes(ctx context.Context, limit int) ([]domain.RecipeResponse, error) {
	var res struct {
		Recipes []domain.RecipeResponse `json:"recipes"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/recipes/popular"+RecipeQuery{Limit: limit}.encode(), nil, &res)
	return res.Recipes, err
}

func (c *Client) Recipe(ctx context.Context, id string) (*domain.RecipeResponse, error) {
	return c.recipe(ctx, http.MethodGet, "/api/recipes/"+url.PathEscape(id), nil)
}

// CreateRecipe posts a JSON recipe; images are referenced by URL.
func (c *Client) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest) (*domain.RecipeResponse, error) {
	return c.recipe(ctx, http.MethodPost, "/api/recipes", req)
}

func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/recipes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) OwnRecipes(ctx context.Context, q RecipeQuery) (*domain.RecipeListResponse, error) {
	var res domain.RecipeListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/recipes/own"+q.encode(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) FavoriteRecipes(ctx context.Context, q RecipeQuery) (*domain.RecipeListResponse, error) {
	var res domain.RecipeListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/recipes/favorites"+q.encode(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AddFavorite(ctx context.Context, id string) (*domain.RecipeResponse, error) {
	return c.recipe(ctx, http.MethodPost, "/api/recipes/favorites/"+url.PathEscape(id), nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, id string) (*domain.RecipeResponse, error) {
	return c.recipe(ctx, http.MethodDelete, "/api/recipes/favorites/"+url.PathEscape(id), nil)
}

func (c *Client) recipe(ctx context.Context, method, path string, in any) (*domain.RecipeResponse, error) {
	var res struct {
		Recipe domain.RecipeResponse `json:"recipe"`
	}
	if err := c.doJSON(ctx, method, path, in, &res); err != nil {
		return nil, err
	}
	return &res.Recipe, nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.CategoryResponse, error) {
	var res struct {
		Categories []domain.CategoryResponse `json:"categories"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/categories", nil, &res)
	return res.Categories, err
}

func (c *Client) Areas(ctx context.Context) ([]domain.AreaResponse, error) {
	var res struct {
		Areas []domain.AreaResponse `json:"areas"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/areas", nil, &res)
	return res.Areas, err
}

func (c *Client) Ingredients(ctx context.Context) ([]domain.IngredientResponse, error) {
	var res struct {
		Ingredients []domain.IngredientResponse `json:"ingredients"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/ingredients", nil, &res)
	return res.Ingredients, err
}

func (c *Client) Testimonials(ctx context.Context) ([]domain.TestimonialResponse, error) {
	var res struct {
		Testimonials []domain.TestimonialResponse `json:"testimonials"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/testimonials", nil, &res)
	return res.Testimonials, err
}

func (c *Client) CreateIngredient(ctx context.Context, req domain.IngredientRequest) (*domain.IngredientResponse, error) {
	var res struct {
		Ingredient domain.IngredientResponse `json:"ingredient"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/ingredients", req, &res); err != nil {
		return nil, err
	}
	return &res.Ingredient, nil
}
