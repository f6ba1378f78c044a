package dashboard

import (
	"context"
	"fmt"
	"sync"

	"social-dashboard/internal/domain"
)

// fakeSource serves an in-memory collection. Pages with a gate block until the gate is closed.
type fakeSource struct {
	mu       sync.Mutex
	users    []domain.User
	usersErr error
	posts    []domain.Post
	postsErr error
	gates    map[int]chan struct{}
}

func newFakeSource(n int) *fakeSource {
	posts := make([]domain.Post, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, domain.Post{ID: i, UserID: 1 + i%3, Content: fmt.Sprintf("post %d", i)})
	}
	return &fakeSource{
		users: []domain.User{
			{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz"},
			{ID: 2, Name: "Ervin Howell", Email: "Shanna@melissa.tv"},
		},
		posts: posts,
		gates: map[int]chan struct{}{},
	}
}

func (f *fakeSource) gate(page int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[page] = g
	return g
}

func (f *fakeSource) failPosts(err error) {
	f.mu.Lock()
	f.postsErr = err
	f.mu.Unlock()
}

func (f *fakeSource) ListUsers(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return append([]domain.User(nil), f.users...), nil
}

func (f *fakeSource) ListPostsPage(ctx context.Context, page, limit int) ([]domain.Post, error) {
	f.mu.Lock()
	g := f.gates[page]
	f.mu.Unlock()
	if g != nil {
		select {
		case <-g:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	start := (page - 1) * limit
	if start >= len(f.posts) || start < 0 {
		return []domain.Post{}, nil
	}
	end := min(start+limit, len(f.posts))
	return append([]domain.Post(nil), f.posts[start:end]...), nil
}

func (f *fakeSource) ListPosts(context.Context) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	return append([]domain.Post(nil), f.posts...), nil
}
