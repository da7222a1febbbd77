package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"securesphere/internal/apperr"
	"securesphere/internal/cache"
	"securesphere/internal/catalog"
	"securesphere/internal/model"
	"securesphere/internal/repository"
)

// In-memory doubles for the mongo repositories and redis caches. They mimic
// the sort orders and nil-on-miss conventions of the real implementations so
// the services under test cannot tell the difference.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clock hands out strictly increasing timestamps so createdAt ordering is
// deterministic inside a single test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	seq       int
	clock     *clock
	responses map[string]*model.Response
}

func newFakeResponseRepo(c *clock) *fakeResponseRepo {
	return &fakeResponseRepo{clock: c, responses: make(map[string]*model.Response)}
}

func (r *fakeResponseRepo) Create(ctx context.Context, resp *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	resp.ID = fmt.Sprintf("resp-%d", r.seq)
	now := r.clock.next()
	resp.CreatedAt = now
	resp.UpdatedAt = now
	clone := *resp
	r.responses[resp.ID] = &clone
	return nil
}

func (r *fakeResponseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp, ok := r.responses[id]
	if !ok {
		return nil, nil
	}
	clone := *resp
	return &clone, nil
}

func (r *fakeResponseRepo) list(match func(*model.Response) bool) []*model.Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Response
	for _, resp := range r.responses {
		if match(resp) {
			clone := *resp
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].QuestionIndex < out[j].QuestionIndex
	})
	return out
}

func (r *fakeResponseRepo) ListByProductUser(ctx context.Context, productID, userID string) ([]*model.Response, error) {
	return r.list(func(resp *model.Response) bool {
		return resp.ProductID == productID && resp.UserID == userID
	}), nil
}

func (r *fakeResponseRepo) ListBySection(ctx context.Context, productID, userID, section string) ([]*model.Response, error) {
	return r.list(func(resp *model.Response) bool {
		return resp.ProductID == productID && resp.UserID == userID && resp.Section == section
	}), nil
}

func (r *fakeResponseRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.responses, id)
	}
	return nil
}

func (r *fakeResponseRepo) DeleteByProduct(ctx context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, resp := range r.responses {
		if resp.ProductID == productID {
			delete(r.responses, id)
		}
	}
	return nil
}

func (r *fakeResponseRepo) Update(ctx context.Context, resp *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.responses[resp.ID]; !ok {
		return fmt.Errorf("response %s not found", resp.ID)
	}
	resp.UpdatedAt = r.clock.next()
	clone := *resp
	r.responses[resp.ID] = &clone
	return nil
}

func (r *fakeResponseRepo) CountByProductUser(ctx context.Context, productID, userID string) (int64, error) {
	list, _ := r.ListByProductUser(ctx, productID, userID)
	return int64(len(list)), nil
}

func (r *fakeResponseRepo) CountReviewed(ctx context.Context, productID, userID string) (int64, error) {
	var n int64
	list, _ := r.ListByProductUser(ctx, productID, userID)
	for _, resp := range list {
		if resp.IsReviewed {
			n++
		}
	}
	return n, nil
}

func (r *fakeResponseRepo) CountNeedsClientResponse(ctx context.Context, productID, userID string) (int64, error) {
	var n int64
	list, _ := r.ListByProductUser(ctx, productID, userID)
	for _, resp := range list {
		if resp.NeedsClientResponse {
			n++
		}
	}
	return n, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	clock    *clock
	comments map[string]*model.ReviewComment
}

func newFakeCommentRepo(c *clock) *fakeCommentRepo {
	return &fakeCommentRepo{clock: c, comments: make(map[string]*model.ReviewComment)}
}

func (r *fakeCommentRepo) Create(ctx context.Context, c *model.ReviewComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.ID = fmt.Sprintf("comment-%d", r.seq)
	now := r.clock.next()
	c.CreatedAt = now
	c.UpdatedAt = now
	clone := *c
	r.comments[c.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id string) (*model.ReviewComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCommentRepo) list(match func(*model.ReviewComment) bool) []*model.ReviewComment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ReviewComment
	for _, c := range r.comments {
		if match(c) {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *fakeCommentRepo) ListByResponseIDs(ctx context.Context, responseIDs []string) ([]*model.ReviewComment, error) {
	if len(responseIDs) == 0 {
		return nil, nil
	}
	ids := make(map[string]bool, len(responseIDs))
	for _, id := range responseIDs {
		ids[id] = true
	}
	return r.list(func(c *model.ReviewComment) bool { return ids[c.ResponseID] }), nil
}

func (r *fakeCommentRepo) ListThread(ctx context.Context, rootID string) ([]*model.ReviewComment, error) {
	return r.list(func(c *model.ReviewComment) bool {
		return c.ID == rootID || c.ParentCommentID == rootID
	}), nil
}

func (r *fakeCommentRepo) ListByClient(ctx context.Context, clientID string) ([]*model.ReviewComment, error) {
	return r.list(func(c *model.ReviewComment) bool { return c.ClientID == clientID }), nil
}

func (r *fakeCommentRepo) ListByLeadStatus(ctx context.Context, leadID string, status model.CommentStatus) ([]*model.ReviewComment, error) {
	return r.list(func(c *model.ReviewComment) bool {
		return c.LeadID == leadID && c.Status == status
	}), nil
}

func (r *fakeCommentRepo) FindReply(ctx context.Context, parentID, authorField, authorID string, status model.CommentStatus) (*model.ReviewComment, error) {
	matches := r.list(func(c *model.ReviewComment) bool {
		if c.ParentCommentID != parentID || c.Status != status {
			return false
		}
		if authorField == "clientId" {
			return c.ClientID == authorID
		}
		return c.LeadID == authorID
	})
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (r *fakeCommentRepo) CountUnreadForClient(ctx context.Context, clientID string) (int64, error) {
	visible := make(map[model.CommentStatus]bool)
	for _, s := range model.ClientVisibleStatuses {
		visible[s] = true
	}
	matches := r.list(func(c *model.ReviewComment) bool {
		return c.ClientID == clientID && !c.IsRead && visible[c.Status]
	})
	return int64(len(matches)), nil
}

func (r *fakeCommentRepo) CountUnreadForLead(ctx context.Context, leadID string) (int64, error) {
	matches := r.list(func(c *model.ReviewComment) bool {
		return c.LeadID == leadID && !c.IsRead && c.Status == model.CommentClientReply
	})
	return int64(len(matches)), nil
}

func (r *fakeCommentRepo) MarkRead(ctx context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if c, ok := r.comments[id]; ok && !c.IsRead {
			c.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) DeleteByProduct(ctx context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.ProductID == productID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeStatusRepo struct {
	mu       sync.Mutex
	statuses map[string]*model.ProductStatus
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{statuses: make(map[string]*model.ProductStatus)}
}

func (r *fakeStatusRepo) Upsert(ctx context.Context, status *model.ProductStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	status.ID = status.ProductID + ":" + status.UserID
	clone := *status
	r.statuses[status.ID] = &clone
	return nil
}

func (r *fakeStatusRepo) Get(ctx context.Context, productID, userID string) (*model.ProductStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.statuses[productID+":"+userID]
	if !ok {
		return nil, nil
	}
	clone := *status
	return &clone, nil
}

func (r *fakeStatusRepo) ListByStatus(ctx context.Context, statuses ...model.AssessmentStatus) ([]*model.ProductStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ProductStatus
	for _, st := range r.statuses {
		for _, want := range statuses {
			if st.Status == want {
				clone := *st
				out = append(out, &clone)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeStatusRepo) Delete(ctx context.Context, productID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.statuses, productID+":"+userID)
	return nil
}

type fakeScoreRepo struct {
	mu        sync.Mutex
	snapshots map[string]*model.ScoreSnapshot
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{snapshots: make(map[string]*model.ScoreSnapshot)}
}

func (r *fakeScoreRepo) Replace(ctx context.Context, snapshot *model.ScoreSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot.ID = snapshot.ProductID + ":" + snapshot.UserID + ":" + snapshot.Section
	clone := *snapshot
	r.snapshots[snapshot.ID] = &clone
	return nil
}

func (r *fakeScoreRepo) ListByProductUser(ctx context.Context, productID, userID string) ([]*model.ScoreSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ScoreSnapshot
	for _, s := range r.snapshots {
		if s.ProductID == productID && s.UserID == userID {
			clone := *s
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Section < out[j].Section })
	return out, nil
}

func (r *fakeScoreRepo) DeleteByProductUser(ctx context.Context, productID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.snapshots {
		if s.ProductID == productID && s.UserID == userID {
			delete(r.snapshots, id)
		}
	}
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	seq      int
	products map[string]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*model.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	product.ID = fmt.Sprintf("product-%d", r.seq)
	product.IsActive = true
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Product
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) List(ctx context.Context) ([]*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Product
	for _, p := range r.products {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product %s not found", product.ID)
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %s not found", user.ID)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*model.User, error) {
	return r.ListByRole(ctx, "")
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeInvitationRepo struct {
	mu          sync.Mutex
	seq         int
	clock       *clock
	invitations map[string]*model.Invitation
}

func newFakeInvitationRepo(c *clock) *fakeInvitationRepo {
	return &fakeInvitationRepo{clock: c, invitations: make(map[string]*model.Invitation)}
}

func (r *fakeInvitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	inv.ID = fmt.Sprintf("invitation-%d", r.seq)
	inv.CreatedAt = r.clock.next()
	clone := *inv
	r.invitations[inv.ID] = &clone
	return nil
}

func (r *fakeInvitationRepo) GetByID(ctx context.Context, id string) (*model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invitations[id]
	if !ok {
		return nil, nil
	}
	clone := *inv
	return &clone, nil
}

func (r *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.Token == token && !inv.IsUsed {
			clone := *inv
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeInvitationRepo) GetPendingByEmail(ctx context.Context, email string) (*model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.Email == email && !inv.IsUsed && inv.ExpiresAt.After(time.Now()) {
			clone := *inv
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeInvitationRepo) Update(ctx context.Context, inv *model.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invitations[inv.ID]; !ok {
		return fmt.Errorf("invitation %s not found", inv.ID)
	}
	clone := *inv
	r.invitations[inv.ID] = &clone
	return nil
}

func (r *fakeInvitationRepo) ListPending(ctx context.Context) ([]*model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Invitation
	for _, inv := range r.invitations {
		if !inv.IsUsed && inv.ExpiresAt.After(time.Now()) {
			clone := *inv
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeStatusCache struct {
	mu       sync.Mutex
	statuses map[string]*model.ProductStatus
}

func newFakeStatusCache() *fakeStatusCache {
	return &fakeStatusCache{statuses: make(map[string]*model.ProductStatus)}
}

func (c *fakeStatusCache) Set(ctx context.Context, status *model.ProductStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := *status
	c.statuses[status.ProductID+":"+status.UserID] = &clone
	return nil
}

func (c *fakeStatusCache) Get(ctx context.Context, productID, userID string) (*model.ProductStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.statuses[productID+":"+userID]
	if !ok {
		return nil, nil
	}
	clone := *status
	return &clone, nil
}

func (c *fakeStatusCache) Invalidate(ctx context.Context, productID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.statuses, productID+":"+userID)
	return nil
}

type fakeUnreadCache struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeUnreadCache() *fakeUnreadCache {
	return &fakeUnreadCache{counts: make(map[string]int64)}
}

func (c *fakeUnreadCache) Set(ctx context.Context, userID string, role model.Role, count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID] = count
	return nil
}

func (c *fakeUnreadCache) Get(ctx context.Context, userID string, role model.Role) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count, ok := c.counts[userID]
	return count, ok, nil
}

func (c *fakeUnreadCache) Invalidate(ctx context.Context, userIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.counts, id)
	}
	return nil
}

type fakeRankingCache struct {
	mu     sync.Mutex
	scores map[string]float64
}

func newFakeRankingCache() *fakeRankingCache {
	return &fakeRankingCache{scores: make(map[string]float64)}
}

func (c *fakeRankingCache) Update(ctx context.Context, productID string, maturityScore float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores[productID] = maturityScore
	return nil
}

func (c *fakeRankingCache) Remove(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scores, productID)
	return nil
}

func (c *fakeRankingCache) Top(ctx context.Context, n int64) ([]cache.RankingEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []cache.RankingEntry
	for id, score := range c.scores {
		out = append(out, cache.RankingEntry{ProductID: id, MaturityScore: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaturityScore > out[j].MaturityScore })
	if int64(len(out)) > n {
		out = out[:n]
	}
	return out, nil
}

// fakeFileStore keeps evidence blobs in memory, enforcing the same extension
// allow-list as the disk store.
type fakeFileStore struct {
	mu    sync.Mutex
	seq   int
	blobs map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{blobs: make(map[string][]byte)}
}

func (s *fakeFileStore) Store(data []byte, filename string) (string, error) {
	ext := ""
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			ext = filename[i+1:]
			break
		}
	}
	allowed := map[string]bool{
		"csv": true, "txt": true, "pdf": true, "jpg": true, "jpeg": true,
		"png": true, "doc": true, "docx": true, "xlsx": true, "zip": true,
	}
	if !allowed[ext] {
		return "", apperr.Validation("evidence", fmt.Sprintf("file extension %q is not allowed", ext))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	ref := fmt.Sprintf("blob-%d_%s", s.seq, filename)
	s.blobs[ref] = data
	return ref, nil
}

func (s *fakeFileStore) Open(reference string) (*os.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[reference]; !ok {
		return nil, apperr.NotFound("evidence file", reference)
	}
	return nil, nil
}

// testEnv wires the full service graph over the in-memory doubles, using the
// built-in default catalog and no real transactions.
type testEnv struct {
	responses   *fakeResponseRepo
	comments    *fakeCommentRepo
	statuses    *fakeStatusRepo
	scores      *fakeScoreRepo
	products    *fakeProductRepo
	users       *fakeUserRepo
	statusCache *fakeStatusCache
	unread      *fakeUnreadCache
	ranking     *fakeRankingCache
	files       *fakeFileStore
	cat         *catalog.Catalog

	status   *StatusService
	scoring  *ScoringService
	response *ResponseService
	review   *ReviewService
	product  *ProductService
}

func newTestEnv() *testEnv {
	clk := newClock()
	env := &testEnv{
		responses:   newFakeResponseRepo(clk),
		comments:    newFakeCommentRepo(clk),
		statuses:    newFakeStatusRepo(),
		scores:      newFakeScoreRepo(),
		products:    newFakeProductRepo(),
		users:       newFakeUserRepo(),
		statusCache: newFakeStatusCache(),
		unread:      newFakeUnreadCache(),
		ranking:     newFakeRankingCache(),
		files:       newFakeFileStore(),
		cat:         catalog.Default(),
	}
	log := testLogger()
	txn := repository.NopTxnRunner{}
	env.status = NewStatusService(env.responses, env.comments, env.statuses, env.statusCache, env.cat, log)
	env.scoring = NewScoringService(env.responses, env.scores, env.products, env.ranking, env.cat, log)
	env.response = NewResponseService(env.responses, env.comments, env.products, txn, env.files, env.scoring, env.status, env.cat, log)
	env.review = NewReviewService(env.comments, env.responses, txn, env.files, env.unread, env.scoring, env.status, log)
	env.product = NewProductService(env.products, env.responses, env.comments, env.scores, env.statuses, env.users, env.statusCache, env.ranking, txn, log)
	return env
}

// newProduct creates a product owned by the given client id.
func (e *testEnv) newProduct(ownerID string) *model.Product {
	p := &model.Product{
		Name:                "Example Service",
		ProductURL:          "https://example.test",
		ProgrammingLanguage: "Go",
		CloudPlatform:       "AWS",
		CICDPlatform:        "GitHub Actions",
		OwnerID:             ownerID,
	}
	_ = e.products.Create(context.Background(), p)
	return p
}
