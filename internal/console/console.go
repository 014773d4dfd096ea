package console

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/vendor_console/internal/metrics"
	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

// RecordClient is the remote API surface the console drives.
type RecordClient interface {
	List(ctx context.Context, page int) (*vendoractivo.ListResponse, error)
	ToggleFreeze(ctx context.Context, id string) (*vendoractivo.FreezeResult, error)
	ChangeRole(ctx context.Context, id string, role vendoractivo.Role) (*vendoractivo.RoleResult, error)
	Delete(ctx context.Context, id string) error
}

// Option configures a Console.
type Option func(*Console)

func WithNotifier(n Notifier) Option {
	return func(c *Console) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithAuditSink(a AuditSink) Option {
	return func(c *Console) {
		if a != nil {
			c.audit = a
		}
	}
}

// WithOperator sets the name recorded in audit entries.
func WithOperator(name string) Option {
	return func(c *Console) { c.operator = name }
}

// Console is the vendor management screen state: the working set of the
// displayed page, its pagination, per-record action locks and the list
// error banner. The state mutex is never held across a remote call.
type Console struct {
	client   RecordClient
	notifier Notifier
	audit    AuditSink
	operator string
	locks    *LockRegistry

	mu      sync.Mutex
	set     WorkingSet
	page    Pagination
	loading bool
	banner  string
	seq     uint64
}

// New builds a console on page 1. Call Load to fetch it.
func New(client RecordClient, opts ...Option) *Console {
	c := &Console{
		client:   client,
		notifier: NopNotifier{},
		audit:    nopAuditSink{},
		locks:    NewLockRegistry(),
		page:     initialPagination(),
		loading:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the current page. It is the console's mount step.
func (c *Console) Load(ctx context.Context) error {
	return c.fetch(ctx, c.currentPage())
}

// Refresh re-fetches the current page.
func (c *Console) Refresh(ctx context.Context) error {
	return c.fetch(ctx, c.currentPage())
}

// GoToPage navigates to page n and fetches it. Out-of-range pages are a
// no-op and report false.
func (c *Console) GoToPage(ctx context.Context, n int) (bool, error) {
	c.mu.Lock()
	if !c.page.InRange(n) {
		c.mu.Unlock()
		return false, nil
	}
	c.page.Page = n
	c.mu.Unlock()

	return true, c.fetch(ctx, n)
}

func (c *Console) NextPage(ctx context.Context) (bool, error) {
	return c.GoToPage(ctx, c.currentPage()+1)
}

func (c *Console) PrevPage(ctx context.Context) (bool, error) {
	return c.GoToPage(ctx, c.currentPage()-1)
}

func (c *Console) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.Page
}

// fetch loads page into the working set. Each call takes a sequence number;
// a response that arrives after a newer fetch was started is dropped.
func (c *Console) fetch(ctx context.Context, page int) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = true
	c.banner = ""
	c.mu.Unlock()

	resp, err := c.client.List(ctx, page)

	c.mu.Lock()
	if seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		metrics.IncStaleFetch()
		log.Debug().
			Int("page", page).
			Uint64("seq", seq).
			Uint64("latest_seq", latest).
			Msg("Discarding stale vendor list response")
		return nil
	}

	c.loading = false
	metrics.IncFetch(err)
	if err != nil {
		c.banner = fmt.Sprintf("failed to load vendors: %v", err)
		c.mu.Unlock()
		log.Error().Err(err).Int("page", page).Msg("Failed to load vendors")
		return err
	}

	c.set.ReplaceAll(resp.Data)
	c.page = c.page.apply(page, resp.Pagination)
	loaded := c.page
	c.mu.Unlock()

	log.Debug().
		Int("page", loaded.Page).
		Int("pages", loaded.Pages).
		Int("total", loaded.Total).
		Int("records", len(resp.Data)).
		Msg("Vendor page loaded")
	c.notifier.PageLoaded(loaded)
	return nil
}

// ToggleFreeze flips the frozen flag of id and reflects the confirmed value
// in the working set.
func (c *Console) ToggleFreeze(ctx context.Context, id string) error {
	return c.mutate(ctx, ActionFreeze, id, func(ctx context.Context) (string, error) {
		res, err := c.client.ToggleFreeze(ctx, id)
		if err != nil {
			return "", err
		}
		frozen := res.IsFrozen
		c.patch(id, RecordPatch{IsFrozen: &frozen})
		return "isFrozen=" + strconv.FormatBool(frozen), nil
	})
}

// ToggleRole switches id between vendor and user based on the role held in
// the working set.
func (c *Console) ToggleRole(ctx context.Context, id string) error {
	rec, ok := c.find(id)
	if !ok {
		return ErrRecordNotFound
	}
	if rec.Role == vendoractivo.RoleAdmin {
		return ErrAdminRole
	}
	return c.SetRole(ctx, id, rec.Role.Toggled())
}

// SetRole assigns role to id. Only vendor and user can be assigned and admin
// records are never changed.
func (c *Console) SetRole(ctx context.Context, id string, role vendoractivo.Role) error {
	if !role.Assignable() {
		return ErrInvalidRole
	}
	if rec, ok := c.find(id); ok && rec.Role == vendoractivo.RoleAdmin {
		return ErrAdminRole
	}
	return c.mutate(ctx, ActionRole, id, func(ctx context.Context) (string, error) {
		res, err := c.client.ChangeRole(ctx, id, role)
		if err != nil {
			return "", err
		}
		confirmed := res.Role
		c.patch(id, RecordPatch{Role: &confirmed})
		return "role=" + string(confirmed), nil
	})
}

// Delete removes id after the operator confirms, then re-fetches the
// current page while the record's lock is still held.
func (c *Console) Delete(ctx context.Context, id string, confirm Confirmer) error {
	name := id
	if rec, ok := c.find(id); ok && rec.DisplayName != "" {
		name = rec.DisplayName
	}
	if confirm == nil || !confirm.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete %s?", name)) {
		log.Debug().Str("record_id", id).Msg("Delete declined by operator")
		return ErrConfirmationDeclined
	}

	return c.mutate(ctx, ActionDelete, id, func(ctx context.Context) (string, error) {
		if err := c.client.Delete(ctx, id); err != nil {
			return "", err
		}
		c.notifier.RecordDeleted(id)
		// The remote delete is committed; the reload must not die with the caller.
		if err := c.fetch(context.WithoutCancel(ctx), c.currentPage()); err != nil {
			log.Warn().Err(err).Str("record_id", id).Msg("Vendor deleted but page reload failed")
		}
		return "deleted " + name, nil
	})
}

// mutate runs call under the record's action lock. The lock is released on
// every exit path; a held lock aborts before any remote call.
func (c *Console) mutate(ctx context.Context, action Action, id string, call func(ctx context.Context) (string, error)) error {
	if !c.locks.Begin(id) {
		metrics.IncLockRejection(string(action))
		log.Warn().Str("action", string(action)).Str("record_id", id).Msg("Action already in progress")
		return ErrActionInProgress
	}
	defer c.locks.End(id)

	detail, err := call(ctx)
	metrics.IncMutation(string(action), err)
	c.record(ctx, action, id, detail, err)

	if err != nil {
		log.Error().Err(err).Str("action", string(action)).Str("record_id", id).Msg("Vendor action failed")
		return &ActionError{Action: action, ID: id, Err: err}
	}
	log.Info().Str("action", string(action)).Str("record_id", id).Str("detail", detail).Msg("Vendor action completed")
	return nil
}

func (c *Console) record(ctx context.Context, action Action, id, detail string, err error) {
	entry := AuditEntry{
		Operator: c.operator,
		Action:   action,
		RecordID: id,
		Success:  err == nil,
		Detail:   detail,
		At:       time.Now().UTC(),
	}
	if err != nil {
		entry.Detail = err.Error()
	}
	if aerr := c.audit.Append(context.WithoutCancel(ctx), entry); aerr != nil {
		log.Warn().Err(aerr).Str("action", string(action)).Str("record_id", id).Msg("Failed to write audit entry")
	}
}

func (c *Console) patch(id string, p RecordPatch) {
	c.mu.Lock()
	ok := c.set.PatchOne(id, p)
	rec, _ := c.set.Find(id)
	c.mu.Unlock()

	if !ok {
		log.Debug().Str("record_id", id).Msg("Patched record no longer in working set")
		return
	}
	c.notifier.RecordUpdated(rec)
}

func (c *Console) find(id string) (vendoractivo.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set.Find(id)
}

// Locked reports whether a mutation is in flight for id.
func (c *Console) Locked(id string) bool { return c.locks.Locked(id) }

// Snapshot renders the current state. Stats and the page window are derived
// on every call.
func (c *Console) Snapshot() View {
	c.mu.Lock()
	records := c.set.Records()
	page := c.page
	loading := c.loading
	banner := c.banner
	c.mu.Unlock()

	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, newRecordView(r, c.locks.Locked(r.ID)))
	}

	return View{
		Records:    views,
		Pagination: page,
		Stats:      ComputeStats(records, page),
		Window:     PageWindow(page.Page, page.Pages),
		HasPrev:    page.HasPrev(),
		HasNext:    page.HasNext(),
		Loading:    loading,
		Banner:     banner,
		Locked:     c.locks.Held(),
	}
}
