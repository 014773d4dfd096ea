package console

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleRecords() []vendoractivo.Record {
	phone := "+34 600 000 000"
	return []vendoractivo.Record{
		{ID: "a", DisplayName: "Ana", Email: "ana@example.com", Role: vendoractivo.RoleVendor, ContactPhone: &phone, Verified: true, CreatedAt: mustTime("2024-03-12T10:00:00Z")},
		{ID: "b", DisplayName: "Bruno", Email: "bruno@example.com", Role: vendoractivo.RoleUser, CreatedAt: mustTime("2024-04-01T10:00:00Z")},
		{ID: "abc123", DisplayName: "Carla", Email: "carla@example.com", Role: vendoractivo.RoleVendor, IsFrozen: true, CreatedAt: mustTime("2024-05-20T10:00:00Z")},
		{ID: "root", DisplayName: "Admin", Email: "admin@example.com", Role: vendoractivo.RoleAdmin, CreatedAt: mustTime("2023-01-01T10:00:00Z")},
	}
}

// fakeClient is an in-memory RecordClient. Calls can be held open through
// the block channels to observe in-flight behaviour.
type fakeClient struct {
	mu sync.Mutex

	pages      map[int]*vendoractivo.ListResponse
	listErr    error
	mutateErr  error
	frozen     map[string]bool
	listCalls  []int
	freezeIDs  []string
	roleCalls  map[string]vendoractivo.Role
	deleteIDs  []string
	listBlock  map[int]chan struct{}
	mutateHold chan struct{}
	started    chan string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages: map[int]*vendoractivo.ListResponse{
			1: {Success: true, Data: sampleRecords(), Pagination: vendoractivo.Pagination{Page: 1, Limit: 9, Total: 22, Pages: 3}},
			2: {Success: true, Data: []vendoractivo.Record{{ID: "p2", DisplayName: "Page Two", Role: vendoractivo.RoleUser}}, Pagination: vendoractivo.Pagination{Page: 2, Limit: 9, Total: 22, Pages: 3}},
		},
		frozen:    map[string]bool{"abc123": true},
		roleCalls: map[string]vendoractivo.Role{},
		listBlock: map[int]chan struct{}{},
		started:   make(chan string, 16),
	}
}

func (f *fakeClient) List(ctx context.Context, page int) (*vendoractivo.ListResponse, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, page)
	block := f.listBlock[page]
	resp := f.pages[page]
	err := f.listErr
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return &vendoractivo.ListResponse{Success: true, Data: []vendoractivo.Record{}}, nil
	}
	cp := *resp
	cp.Data = append([]vendoractivo.Record(nil), resp.Data...)
	return &cp, nil
}

func (f *fakeClient) hold(id string) error {
	f.mu.Lock()
	hold := f.mutateHold
	err := f.mutateErr
	f.mu.Unlock()

	f.started <- id
	if hold != nil {
		<-hold
	}
	return err
}

func (f *fakeClient) ToggleFreeze(ctx context.Context, id string) (*vendoractivo.FreezeResult, error) {
	f.mu.Lock()
	f.freezeIDs = append(f.freezeIDs, id)
	f.mu.Unlock()

	if err := f.hold(id); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.frozen[id] = !f.frozen[id]
	return &vendoractivo.FreezeResult{IsFrozen: f.frozen[id]}, nil
}

func (f *fakeClient) ChangeRole(ctx context.Context, id string, role vendoractivo.Role) (*vendoractivo.RoleResult, error) {
	f.mu.Lock()
	f.roleCalls[id] = role
	f.mu.Unlock()

	if err := f.hold(id); err != nil {
		return nil, err
	}
	return &vendoractivo.RoleResult{Role: role}, nil
}

func (f *fakeClient) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	f.deleteIDs = append(f.deleteIDs, id)
	f.mu.Unlock()

	if err := f.hold(id); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for page, resp := range f.pages {
		kept := resp.Data[:0:0]
		for _, r := range resp.Data {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		updated := *resp
		updated.Data = kept
		updated.Pagination.Total--
		f.pages[page] = &updated
	}
	return nil
}

func (f *fakeClient) calls() (list []int, freeze []string, deletes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.listCalls...), append([]string(nil), f.freezeIDs...), append([]string(nil), f.deleteIDs...)
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (r *recordingAudit) Append(ctx context.Context, e AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	updated []vendoractivo.Record
	deleted []string
	pages   []Pagination
}

func (n *recordingNotifier) RecordUpdated(rec vendoractivo.Record) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updated = append(n.updated, rec)
}

func (n *recordingNotifier) RecordDeleted(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, id)
}

func (n *recordingNotifier) PageLoaded(p Pagination) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pages = append(n.pages, p)
}

func accept(context.Context, string) bool  { return true }
func decline(context.Context, string) bool { return false }

func loadedConsole(t *testing.T, opts ...Option) (*Console, *fakeClient) {
	t.Helper()
	fc := newFakeClient()
	c := New(fc, opts...)
	require.NoError(t, c.Load(context.Background()))
	return c, fc
}

func rawRecords(v View) map[string]RecordView {
	out := make(map[string]RecordView, len(v.Records))
	for _, r := range v.Records {
		out[r.ID] = r
	}
	return out
}

func TestLoad_PopulatesWorkingSetAndServerPagination(t *testing.T) {
	c, _ := loadedConsole(t)

	v := c.Snapshot()
	assert.False(t, v.Loading)
	assert.Empty(t, v.Banner)
	assert.Len(t, v.Records, 4)
	assert.Equal(t, Pagination{Page: 1, Limit: 9, Total: 22, Pages: 3}, v.Pagination)
	assert.Equal(t, Stats{TotalOnServer: 22, VendorCount: 2, FrozenCount: 1}, v.Stats)
	assert.Equal(t, []int{1, 2, 3}, strip(v.Window))
	assert.False(t, v.HasPrev)
	assert.True(t, v.HasNext)
}

func TestLoad_TotalPagesIsServerReported(t *testing.T) {
	fc := newFakeClient()
	// deliberately inconsistent with ceil(total/limit)
	fc.pages[1].Pagination = vendoractivo.Pagination{Page: 1, Limit: 9, Total: 9, Pages: 5}
	c := New(fc)

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, 5, c.Snapshot().Pagination.Pages)
}

func TestLoad_SinglePageRendersNoWindow(t *testing.T) {
	fc := newFakeClient()
	fc.pages[1].Pagination = vendoractivo.Pagination{Page: 1, Limit: 9, Total: 9, Pages: 1}
	c := New(fc)

	require.NoError(t, c.Load(context.Background()))
	assert.Empty(t, c.Snapshot().Window)
}

func TestLoad_FailureSetsBannerAndClearsLoading(t *testing.T) {
	fc := newFakeClient()
	fc.listErr = &vendoractivo.RequestError{Op: "list", StatusCode: 500, Err: errors.New("boom")}
	c := New(fc)

	err := c.Load(context.Background())
	assert.ErrorIs(t, err, vendoractivo.ErrRequestFailed)

	v := c.Snapshot()
	assert.False(t, v.Loading)
	assert.Contains(t, v.Banner, "failed to load vendors")
}

func TestGoToPage_OutOfRangeIsNoop(t *testing.T) {
	c, fc := loadedConsole(t)
	before := c.Snapshot()

	for _, n := range []int{-1, 0, 4, 100} {
		moved, err := c.GoToPage(context.Background(), n)
		assert.NoError(t, err)
		assert.False(t, moved, "page %d", n)
	}

	list, _, _ := fc.calls()
	assert.Equal(t, []int{1}, list)
	assert.Equal(t, before, c.Snapshot())
}

func TestGoToPage_BeforeFirstLoadIsNoop(t *testing.T) {
	fc := newFakeClient()
	c := New(fc)

	moved, err := c.GoToPage(context.Background(), 1)
	assert.NoError(t, err)
	assert.False(t, moved)

	list, _, _ := fc.calls()
	assert.Empty(t, list)
}

func TestGoToPage_FetchesRequestedPage(t *testing.T) {
	c, fc := loadedConsole(t)

	moved, err := c.GoToPage(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, moved)

	v := c.Snapshot()
	assert.Equal(t, 2, v.Pagination.Page)
	require.Len(t, v.Records, 1)
	assert.Equal(t, "p2", v.Records[0].ID)

	list, _, _ := fc.calls()
	assert.Equal(t, []int{1, 2}, list)
}

func TestNextPrevPage(t *testing.T) {
	c, _ := loadedConsole(t)

	moved, err := c.PrevPage(context.Background())
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = c.NextPage(context.Background())
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, c.Snapshot().Pagination.Page)
}

func TestToggleFreeze_ChangesOnlyIsFrozen(t *testing.T) {
	c, _ := loadedConsole(t)
	before := c.Snapshot()

	require.NoError(t, c.ToggleFreeze(context.Background(), "b"))

	after := c.Snapshot()
	require.Len(t, after.Records, len(before.Records))
	for i := range before.Records {
		want := before.Records[i]
		if want.ID == "b" {
			want.IsFrozen = true
			want.CanListProducts = false
		}
		assert.Equal(t, want, after.Records[i])
	}
	assert.Equal(t, 2, after.Stats.FrozenCount)
}

func TestToggleFreeze_UsesServerConfirmedValue(t *testing.T) {
	c, fc := loadedConsole(t)
	fc.frozen["a"] = true // server already frozen; toggle unfreezes

	require.NoError(t, c.ToggleFreeze(context.Background(), "a"))
	assert.False(t, rawRecords(c.Snapshot())["a"].IsFrozen)
}

func TestToggleFreeze_InFlightRejectsSecondCall(t *testing.T) {
	c, fc := loadedConsole(t)
	fc.mutateHold = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- c.ToggleFreeze(context.Background(), "abc123") }()
	assert.Equal(t, "abc123", <-fc.started)
	assert.True(t, c.Locked("abc123"))
	assert.True(t, rawRecords(c.Snapshot())["abc123"].Locked)

	err := c.ToggleFreeze(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrActionInProgress)
	err = c.ToggleRole(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrActionInProgress)

	close(fc.mutateHold)
	require.NoError(t, <-done)

	_, freeze, _ := fc.calls()
	assert.Equal(t, []string{"abc123"}, freeze)
	assert.False(t, c.Locked("abc123"))
	assert.Empty(t, c.Snapshot().Locked)
}

func TestMutations_DifferentIDsRunConcurrently(t *testing.T) {
	c, fc := loadedConsole(t)
	fc.mutateHold = make(chan struct{})

	done := make(chan error, 2)
	go func() { done <- c.ToggleFreeze(context.Background(), "a") }()
	go func() { done <- c.ToggleFreeze(context.Background(), "b") }()
	<-fc.started
	<-fc.started

	assert.ElementsMatch(t, []string{"a", "b"}, c.Snapshot().Locked)
	close(fc.mutateHold)
	assert.NoError(t, <-done)
	assert.NoError(t, <-done)
}

func TestToggleFreeze_FailureReleasesLockAndKeepsRecord(t *testing.T) {
	audit := &recordingAudit{}
	c, fc := loadedConsole(t, WithAuditSink(audit), WithOperator("ops"))
	fc.mutateErr = &vendoractivo.RequestError{Op: "freeze", StatusCode: 500, Err: errors.New("boom")}
	before := rawRecords(c.Snapshot())["abc123"]

	err := c.ToggleFreeze(context.Background(), "abc123")

	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, ActionFreeze, actionErr.Action)
	assert.Equal(t, "abc123", actionErr.ID)
	assert.Equal(t, "failed to change vendor state", actionErr.Message())
	assert.ErrorIs(t, err, vendoractivo.ErrRequestFailed)

	assert.False(t, c.Locked("abc123"))
	assert.Equal(t, before, rawRecords(c.Snapshot())["abc123"])

	require.Len(t, audit.entries, 1)
	assert.False(t, audit.entries[0].Success)
	assert.Equal(t, "ops", audit.entries[0].Operator)
}

func TestToggleRole(t *testing.T) {
	notifier := &recordingNotifier{}
	c, fc := loadedConsole(t, WithNotifier(notifier))

	require.NoError(t, c.ToggleRole(context.Background(), "a"))
	require.NoError(t, c.ToggleRole(context.Background(), "b"))

	recs := rawRecords(c.Snapshot())
	assert.Equal(t, vendoractivo.RoleUser, recs["a"].Role)
	assert.Equal(t, vendoractivo.RoleVendor, recs["b"].Role)
	assert.Equal(t, vendoractivo.RoleUser, fc.roleCalls["a"])
	assert.Equal(t, vendoractivo.RoleVendor, fc.roleCalls["b"])
	assert.Len(t, notifier.updated, 2)
}

func TestToggleRole_AdminAndMissing(t *testing.T) {
	c, fc := loadedConsole(t)

	assert.ErrorIs(t, c.ToggleRole(context.Background(), "root"), ErrAdminRole)
	assert.ErrorIs(t, c.ToggleRole(context.Background(), "nope"), ErrRecordNotFound)
	assert.ErrorIs(t, c.SetRole(context.Background(), "a", vendoractivo.RoleAdmin), ErrInvalidRole)
	assert.ErrorIs(t, c.SetRole(context.Background(), "root", vendoractivo.RoleUser), ErrAdminRole)
	assert.Empty(t, fc.roleCalls)
}

func TestSetRole_RecordNotOnPageStillCallsRemote(t *testing.T) {
	c, fc := loadedConsole(t)

	require.NoError(t, c.SetRole(context.Background(), "elsewhere", vendoractivo.RoleVendor))
	assert.Equal(t, vendoractivo.RoleVendor, fc.roleCalls["elsewhere"])
	assert.Len(t, c.Snapshot().Records, 4)
}

func TestDelete_DeclinedMakesNoCall(t *testing.T) {
	c, fc := loadedConsole(t)

	var prompt string
	err := c.Delete(context.Background(), "b", ConfirmFunc(func(_ context.Context, msg string) bool {
		prompt = msg
		return false
	}))

	assert.ErrorIs(t, err, ErrConfirmationDeclined)
	assert.Contains(t, prompt, "Bruno")
	_, _, deletes := fc.calls()
	assert.Empty(t, deletes)
	assert.False(t, c.Locked("b"))

	assert.ErrorIs(t, c.Delete(context.Background(), "b", nil), ErrConfirmationDeclined)
}

func TestDelete_RefetchesCurrentPage(t *testing.T) {
	notifier := &recordingNotifier{}
	c, fc := loadedConsole(t, WithNotifier(notifier))

	require.NoError(t, c.Delete(context.Background(), "b", ConfirmFunc(accept)))

	list, _, deletes := fc.calls()
	assert.Equal(t, []string{"b"}, deletes)
	assert.Equal(t, []int{1, 1}, list)

	v := c.Snapshot()
	assert.Len(t, v.Records, 3)
	assert.NotContains(t, rawRecords(v), "b")
	assert.Equal(t, 21, v.Stats.TotalOnServer)
	assert.Equal(t, []string{"b"}, notifier.deleted)
	assert.False(t, c.Locked("b"))
}

func TestDelete_FailureKeepsWorkingSet(t *testing.T) {
	c, fc := loadedConsole(t)
	fc.mutateErr = errors.New("network down")

	err := c.Delete(context.Background(), "b", ConfirmFunc(accept))

	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "failed to delete vendor", actionErr.Message())
	list, _, _ := fc.calls()
	assert.Equal(t, []int{1}, list)
	assert.Contains(t, rawRecords(c.Snapshot()), "b")
	assert.False(t, c.Locked("b"))
}

func TestDelete_DeclineFunc(t *testing.T) {
	c, _ := loadedConsole(t)
	assert.ErrorIs(t, c.Delete(context.Background(), "a", ConfirmFunc(decline)), ErrConfirmationDeclined)
}

// cancellingClient cancels the caller's context as soon as the remote delete
// commits and refuses list calls on a cancelled context.
type cancellingClient struct {
	*fakeClient
	cancel context.CancelFunc
}

func (c *cancellingClient) List(ctx context.Context, page int) (*vendoractivo.ListResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.fakeClient.List(ctx, page)
}

func (c *cancellingClient) Delete(ctx context.Context, id string) error {
	if err := c.fakeClient.Delete(ctx, id); err != nil {
		return err
	}
	c.cancel()
	return nil
}

// ctxAudit records whether the context handed to Append was still live.
type ctxAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
	ctxErrs []error
}

func (a *ctxAudit) Append(ctx context.Context, e AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
	a.ctxErrs = append(a.ctxErrs, ctx.Err())
	return nil
}

func TestDelete_CallerCancelAfterCommitStillRefetchesAndAudits(t *testing.T) {
	audit := &ctxAudit{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cc := &cancellingClient{fakeClient: newFakeClient(), cancel: cancel}
	c := New(cc, WithAuditSink(audit), WithOperator("ops"))
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.Delete(ctx, "b", ConfirmFunc(accept)))
	require.Error(t, ctx.Err())

	v := c.Snapshot()
	assert.NotContains(t, rawRecords(v), "b")
	assert.Len(t, v.Records, 3)
	assert.Empty(t, v.Banner)
	assert.False(t, c.Locked("b"))

	audit.mu.Lock()
	defer audit.mu.Unlock()
	require.Len(t, audit.entries, 1)
	assert.True(t, audit.entries[0].Success)
	assert.Equal(t, "b", audit.entries[0].RecordID)
	assert.NoError(t, audit.ctxErrs[0])
}

func TestFetch_StaleResponseIsDiscarded(t *testing.T) {
	c, fc := loadedConsole(t)

	slow := make(chan struct{})
	fc.mu.Lock()
	fc.listBlock[2] = slow
	fc.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := c.GoToPage(context.Background(), 2)
		done <- err
	}()

	require.Eventually(t, func() bool {
		list, _, _ := fc.calls()
		return len(list) == 2
	}, time.Second, 5*time.Millisecond)

	// a newer fetch of page 1 completes first
	moved, err := c.GoToPage(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, moved)
	close(slow)
	require.NoError(t, <-done)

	v := c.Snapshot()
	assert.False(t, v.Loading)
	assert.Len(t, v.Records, 4)
	assert.NotContains(t, rawRecords(v), "p2")
	assert.Equal(t, 1, v.Pagination.Page)
}

func TestSnapshot_RecordViewDerivedFields(t *testing.T) {
	c, _ := loadedConsole(t)

	recs := rawRecords(c.Snapshot())
	assert.Equal(t, "12 mar 2024", recs["a"].MemberSince)
	assert.True(t, recs["a"].CanListProducts)
	assert.False(t, recs["abc123"].CanListProducts)
	require.NotNil(t, recs["a"].ContactPhone)
}

func TestNotifier_PageLoaded(t *testing.T) {
	notifier := &recordingNotifier{}
	_, _ = loadedConsole(t, WithNotifier(notifier))

	require.Len(t, notifier.pages, 1)
	assert.Equal(t, 3, notifier.pages[0].Pages)
}
