package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"social-dashboard/internal/core/trace"
	"social-dashboard/internal/domain"
)

// FetchPostsFailed is the only error text a user ever sees.
const FetchPostsFailed = "Failed to fetch posts."

const DefaultPostsPerPage = 5

var ErrPageOutOfRange = errors.New("page out of range")

type Options struct {
	PostsPerPage int
	// DiscardStaleLoads drops a posts load that completes after a newer one was requested.
	// When false the last load to complete wins, even if it is older.
	DiscardStaleLoads bool
	Log               *zap.Logger
}

// View owns the state of one dashboard: users, the current page of posts with
// local edits layered on top, pagination and the draft of a new post.
// All mutation goes through the view's mutex; remote reads run in goroutines.
type View struct {
	src          domain.Source
	log          *zap.Logger
	perPage      int
	discardStale bool

	base      context.Context
	cancel    context.CancelFunc
	mountOnce sync.Once

	mu          sync.Mutex
	users       []domain.User
	posts       []domain.Post
	draft       string
	currentPage int
	totalPosts  int
	status      Status
	loadSeq     uint64
	pending     int
	idle        chan struct{}
}

func NewView(src domain.Source, opt Options) *View {
	if opt.PostsPerPage <= 0 {
		opt.PostsPerPage = DefaultPostsPerPage
	}
	if opt.Log == nil {
		opt.Log = zap.NewNop()
	}
	base, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)
	return &View{
		src:          src,
		log:          opt.Log,
		perPage:      opt.PostsPerPage,
		discardStale: opt.DiscardStaleLoads,
		base:         base,
		cancel:       cancel,
		currentPage:  1,
		status:       Idle(),
		idle:         idle,
	}
}

// Mount starts the user fetch and the first posts load. Only the first call has any effect.
func (v *View) Mount(ctx context.Context) {
	v.mountOnce.Do(func() {
		lctx := trace.Detach(v.base, ctx)
		v.mu.Lock()
		defer v.mu.Unlock()
		v.goLocked(func() { v.Initialize(lctx) })
		page := v.currentPage
		seq := v.beginLoadLocked(page)
		v.goLocked(func() { v.finishLoad(lctx, seq, page) })
	})
}

// Close cancels any in-flight remote reads.
func (v *View) Close() { v.cancel() }

// Initialize reads the full user collection. A failure is logged and leaves users empty.
func (v *View) Initialize(ctx context.Context) {
	users, err := v.src.ListUsers(ctx)
	if err != nil {
		v.log.Warn("fetch users failed", zap.Error(err), zap.String("rid", trace.RequestID(ctx)))
		return
	}
	v.mu.Lock()
	v.users = users
	v.mu.Unlock()
}

// LoadPostsForPage replaces the posts with the given page and refreshes the total count.
// It blocks until both reads finish.
func (v *View) LoadPostsForPage(ctx context.Context, page int) {
	v.mu.Lock()
	seq := v.beginLoadLocked(page)
	v.mu.Unlock()
	v.finishLoad(ctx, seq, page)
}

func (v *View) beginLoadLocked(page int) uint64 {
	v.loadSeq++
	v.status = Loading(page)
	return v.loadSeq
}

func (v *View) finishLoad(ctx context.Context, seq uint64, page int) {
	var paged, all []domain.Post
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		paged, err = v.src.ListPostsPage(gctx, page, v.perPage)
		return err
	})
	g.Go(func() error {
		var err error
		all, err = v.src.ListPosts(gctx)
		return err
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.discardStale && seq != v.loadSeq {
		pageLoads.WithLabelValues("stale").Inc()
		v.log.Debug("discarding stale posts load",
			zap.Int("page", page), zap.Int("current_page", v.currentPage))
		return
	}
	if err != nil {
		pageLoads.WithLabelValues("error").Inc()
		v.log.Warn("fetch posts failed", zap.Int("page", page), zap.Error(err),
			zap.String("rid", trace.RequestID(ctx)))
		v.status = Failed(page, FetchPostsFailed)
		return
	}
	pageLoads.WithLabelValues("ok").Inc()
	v.posts = append(make([]domain.Post, 0, len(paged)), paged...)
	v.totalPosts = len(all)
	v.status = Loaded(page)
}

// goLocked runs fn in the background and tracks it for Settle. Caller holds v.mu.
func (v *View) goLocked(fn func()) {
	if v.pending == 0 {
		v.idle = make(chan struct{})
	}
	v.pending++
	go func() {
		defer v.done()
		fn()
	}()
}

func (v *View) done() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending--
	if v.pending == 0 {
		close(v.idle)
	}
}

// Settle waits until no remote read is in flight or ctx is done.
func (v *View) Settle(ctx context.Context) error {
	v.mu.Lock()
	idle := v.idle
	v.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetDraft stores the text of the not yet submitted post.
func (v *View) SetDraft(text string) {
	v.mu.Lock()
	v.draft = text
	v.mu.Unlock()
}

// AddPost appends a local post built from text. Blank text is ignored and
// leaves the draft as it is; otherwise the draft is cleared.
func (v *View) AddPost(text string) (domain.Post, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.addPostLocked(text)
}

// SubmitDraft is AddPost with the stored draft.
func (v *View) SubmitDraft() (domain.Post, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.addPostLocked(v.draft)
}

func (v *View) addPostLocked(text string) (domain.Post, bool) {
	content := strings.TrimSpace(text)
	if content == "" {
		return domain.Post{}, false
	}
	userID := 1
	if len(v.users) > 0 && v.users[0].ID != 0 {
		userID = v.users[0].ID
	}
	// The id can collide with fetched posts of other pages.
	p := domain.Post{ID: len(v.posts) + 1, UserID: userID, Content: content}
	v.posts = append(v.posts, p)
	v.draft = ""
	return p, true
}

// RemovePost drops every post with the given id and returns how many were removed.
func (v *View) RemovePost(id int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	kept := make([]domain.Post, 0, len(v.posts))
	for _, p := range v.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	removed := len(v.posts) - len(kept)
	v.posts = kept
	return removed
}

// ChangePage moves to target and starts loading it in the background.
// Targets outside [1, TotalPages] return ErrPageOutOfRange and change nothing.
func (v *View) ChangePage(ctx context.Context, target int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !PageInRange(target, v.totalPosts, v.perPage) {
		return ErrPageOutOfRange
	}
	if target == v.currentPage {
		return nil
	}
	v.currentPage = target
	seq := v.beginLoadLocked(target)
	lctx := trace.Detach(v.base, ctx)
	v.goLocked(func() { v.finishLoad(lctx, seq, target) })
	return nil
}

// Snapshot is a copy of the view state, safe to render after the lock is released.
type Snapshot struct {
	Users        []domain.User `json:"users"`
	Posts        []domain.Post `json:"posts"`
	Draft        string        `json:"draft"`
	CurrentPage  int           `json:"currentPage"`
	PostsPerPage int           `json:"postsPerPage"`
	TotalPosts   int           `json:"totalPosts"`
	TotalPages   int           `json:"totalPages"`
	Status       Status        `json:"status"`
	Loading      bool          `json:"loading"`
	Error        string        `json:"error,omitempty"`
	UserCount    int           `json:"userCount"`
	PostCount    int           `json:"postCount"`
	PrevDisabled bool          `json:"prevDisabled"`
	NextDisabled bool          `json:"nextDisabled"`
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	users := append(make([]domain.User, 0, len(v.users)), v.users...)
	posts := append(make([]domain.Post, 0, len(v.posts)), v.posts...)
	return Snapshot{
		Users:        users,
		Posts:        posts,
		Draft:        v.draft,
		CurrentPage:  v.currentPage,
		PostsPerPage: v.perPage,
		TotalPosts:   v.totalPosts,
		TotalPages:   TotalPages(v.totalPosts, v.perPage),
		Status:       v.status,
		Loading:      v.status.IsLoading(),
		Error:        v.status.Err(),
		UserCount:    len(users),
		PostCount:    len(posts),
		PrevDisabled: prevDisabled(v.currentPage),
		NextDisabled: nextDisabled(v.currentPage, v.perPage, v.totalPosts),
	}
}
