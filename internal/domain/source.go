package domain

import "context"

// Source is the read-only remote collaborator the dashboard pulls from.
type Source interface {
	ListUsers(ctx context.Context) ([]User, error)
	// ListPostsPage returns up to limit posts of the 1-based page.
	ListPostsPage(ctx context.Context, page, limit int) ([]Post, error)
	// ListPosts returns the entire post collection.
	ListPosts(ctx context.Context) ([]Post, error)
}
