package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"social-dashboard/internal/domain"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

// PlaceholderRepo reads users and posts from a JSONPlaceholder-style REST API.
type PlaceholderRepo struct {
	httpClient *http.Client
	baseURL    string
}

func NewPlaceholderRepo(httpClient *http.Client, baseURL string) *PlaceholderRepo {
	if httpClient == nil {
		httpClient = NewHTTPClient(0, nil)
	}
	return &PlaceholderRepo{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

var _ domain.Source = (*PlaceholderRepo)(nil)

// remotePost is the wire shape; the public API names the text "body".
type remotePost struct {
	ID      int    `json:"id"`
	UserID  int    `json:"userId"`
	Content string `json:"content"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

func (p remotePost) toDomain() domain.Post {
	content := p.Content
	if content == "" {
		content = p.Body
	}
	return domain.Post{ID: p.ID, UserID: p.UserID, Content: content}
}

func (r *PlaceholderRepo) ListUsers(ctx context.Context) (users []domain.User, err error) {
	defer func(start time.Time) { observe("users", start, err) }(time.Now())

	if err = r.getJSON(ctx, "/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *PlaceholderRepo) ListPostsPage(ctx context.Context, page, limit int) (posts []domain.Post, err error) {
	defer func(start time.Time) { observe("posts_page", start, err) }(time.Now())

	q := url.Values{}
	q.Set("_page", strconv.Itoa(page))
	q.Set("_limit", strconv.Itoa(limit))
	var wire []remotePost
	if err = r.getJSON(ctx, "/posts", q, &wire); err != nil {
		return nil, fmt.Errorf("list posts page %d: %w", page, err)
	}
	return toPosts(wire), nil
}

func (r *PlaceholderRepo) ListPosts(ctx context.Context) (posts []domain.Post, err error) {
	defer func(start time.Time) { observe("posts_all", start, err) }(time.Now())

	var wire []remotePost
	if err = r.getJSON(ctx, "/posts", nil, &wire); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return toPosts(wire), nil
}

func toPosts(wire []remotePost) []domain.Post {
	out := make([]domain.Post, 0, len(wire))
	for _, p := range wire {
		out = append(out, p.toDomain())
	}
	return out
}

func (r *PlaceholderRepo) getJSON(ctx context.Context, relPath string, query url.Values, out any) error {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return err
	}
	u.Path = path.Join(u.Path, relPath)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: status=%d body=%s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
