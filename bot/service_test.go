package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"vetflow/access"
	"vetflow/session"
	"vetflow/vetting"
)

const (
	testRetailPassword   = "retail-test"
	testSecurityPassword = "security-test"
)

type sentMessage struct {
	key  string
	text string
	opts SendOptions
}

// fakeSender records every outgoing message for assertions.
type fakeSender struct {
	mu       sync.Mutex
	messages []sentMessage
}

func (f *fakeSender) Send(_ context.Context, key, text string, opts SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{key: key, text: text, opts: opts})
	return nil
}

func (f *fakeSender) last(t *testing.T) sentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		t.Fatal("no messages sent")
	}
	return f.messages[len(f.messages)-1]
}

func (f *fakeSender) contains(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if strings.Contains(m.text, text) {
			return true
		}
	}
	return false
}

type testHarness struct {
	svc      *Service
	sender   *fakeSender
	sessions *session.Store
	retail   *vetting.MemoryStore
	security *vetting.MemoryStore
}

// testClock pins submitted dates to Wednesday 10.07.24.
func testClock() time.Time {
	return time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	verifier, err := access.NewVerifier(map[vetting.Role]access.Secret{
		vetting.RoleRetail:   {Plain: testRetailPassword},
		vetting.RoleSecurity: {Plain: testSecurityPassword},
	})
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	h := &testHarness{
		sender:   &fakeSender{},
		sessions: session.NewStore(0),
		retail:   vetting.NewMemoryStore(),
		security: vetting.NewMemoryStore(),
	}
	h.svc = NewService(h.sender, h.sessions, verifier, map[vetting.Role]vetting.Store{
		vetting.RoleRetail:   h.retail,
		vetting.RoleSecurity: h.security,
	}, nil).WithClock(testClock)
	return h
}

func (h *testHarness) drive(key string, inputs ...string) {
	for _, in := range inputs {
		h.svc.HandleMessage(context.Background(), key, in)
	}
}

func (h *testHarness) state(key string) session.State {
	return h.sessions.GetOrCreate(key).State
}

func (h *testHarness) authRetail(t *testing.T, key string) {
	t.Helper()
	h.svc.Start(context.Background(), key)
	h.drive(key, labelRetail, testRetailPassword)
	if got := h.state(key); got != session.StateChoosing {
		t.Fatalf("expected hub after login, got %s", got)
	}
}

func TestSubmissionFlow(t *testing.T) {
	h := newHarness(t)
	h.authRetail(t, "chat-1")

	h.drive("chat-1", labelAddEmployee, "петренко іван олегович", "1234567890")

	if got := h.sender.last(t).text; got != msgEmployeeAdded {
		t.Fatalf("expected confirmation, got %q", got)
	}
	if got := h.state("chat-1"); got != session.StateChoosing {
		t.Fatalf("expected return to hub, got %s", got)
	}

	records, err := h.retail.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.FullName != "Петренко Іван Олегович" {
		t.Errorf("unexpected name %q", rec.FullName)
	}
	if rec.TaxID != "1234567890" {
		t.Errorf("unexpected tax id %q", rec.TaxID)
	}
	if rec.BirthDate != "19.10.1933" {
		t.Errorf("unexpected birth date %q", rec.BirthDate)
	}
	if rec.Status != vetting.StatusPendingLabel {
		t.Errorf("unexpected status %q", rec.Status)
	}
	if rec.SubmittedDate != "10.07.24" {
		t.Errorf("unexpected submitted date %q", rec.SubmittedDate)
	}
	if rec.Company != "" {
		t.Errorf("retail record must not carry a company, got %q", rec.Company)
	}
}

func TestSubmissionFlow_Duplicate(t *testing.T) {
	h := newHarness(t)
	h.authRetail(t, "chat-1")
	h.drive("chat-1", labelAddEmployee, "петренко іван олегович", "1234567890")

	// Same identifier with surrounding junk still collides after
	// normalization.
	h.drive("chat-1", labelAddEmployee, "шевченко тарас григорович", " 1234567890 ")

	if got := h.sender.last(t).text; got != msgAlreadyExists {
		t.Fatalf("expected duplicate refusal, got %q", got)
	}
	if got := h.state("chat-1"); got != session.StateChoosing {
		t.Fatalf("expected return to hub, got %s", got)
	}
	if h.retail.Len() != 1 {
		t.Fatalf("duplicate must not append, store has %d records", h.retail.Len())
	}
}

func TestSubmissionFlow_NameValidation(t *testing.T) {
	h := newHarness(t)
	h.authRetail(t, "chat-1")
	h.drive("chat-1", labelAddEmployee)

	h.drive("chat-1", "Іван")
	if got := h.sender.last(t).text; got != msgNameFormat {
		t.Fatalf("expected format re-prompt, got %q", got)
	}
	if got := h.state("chat-1"); got != session.StateEnterName {
		t.Fatalf("rejected name must not advance, got %s", got)
	}

	h.drive("chat-1", "Петренко Іван")
	if got := h.state("chat-1"); got != session.StateEnterTaxID {
		t.Fatalf("two tokens must pass by default, got %s", got)
	}
}

func TestSubmissionFlow_StrictNames(t *testing.T) {
	h := newHarness(t)
	h.svc.WithStrictNames(true)
	h.authRetail(t, "chat-1")
	h.drive("chat-1", labelAddEmployee)

	h.drive("chat-1", "Петренко Іван")
	if got := h.state("chat-1"); got != session.StateEnterName {
		t.Fatalf("two tokens must fail in strict mode, got %s", got)
	}

	h.drive("chat-1", "Петренко Іван Олегович")
	if got := h.state("chat-1"); got != session.StateEnterTaxID {
		t.Fatalf("three tokens must pass in strict mode, got %s", got)
	}
}

func TestSubmissionFlow_InvalidTaxID(t *testing.T) {
	h := newHarness(t)
	h.authRetail(t, "chat-1")
	h.drive("chat-1", labelAddEmployee, "петренко іван олегович", "12345")

	if got := h.sender.last(t).text; got != msgInvalidTaxID {
		t.Fatalf("expected re-prompt, got %q", got)
	}
	if got := h.state("chat-1"); got != session.StateEnterTaxID {
		t.Fatalf("bad identifier must not advance, got %s", got)
	}
	if h.retail.Len() != 0 {
		t.Fatal("bad identifier must not touch the store")
	}
}

func TestSecurityFlow_CompanyRequired(t *testing.T) {
	h := newHarness(t)
	h.svc.Start(context.Background(), "chat-1")
	h.drive("chat-1", labelSecurity, testSecurityPassword)

	if got := h.state("chat-1"); got != session.StateAskCompany {
		t.Fatalf("expected company prompt, got %s", got)
	}

	h.drive("chat-1", "А")
	if got := h.sender.last(t).text; got != msgCompanyTooShort {
		t.Fatalf("expected length re-prompt, got %q", got)
	}
	if got := h.state("chat-1"); got != session.StateAskCompany {
		t.Fatalf("short company must not advance, got %s", got)
	}

	h.drive("chat-1", "ОХОРОНА")
	if got := h.state("chat-1"); got != session.StateChoosing {
		t.Fatalf("expected hub after company, got %s", got)
	}

	h.drive("chat-1", labelAddEmployee, "коваль олена ігорівна", "0987654321")
	records, err := h.security.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Company != "ОХОРОНА" {
		t.Fatalf("security record must carry the company, got %+v", records)
	}
	if h.retail.Len() != 0 {
		t.Fatal("security submissions must not land in the retail table")
	}
}

func TestWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.svc.Start(context.Background(), "chat-1")
	h.drive("chat-1", labelRetail, "wrong")

	if got := h.sender.last(t).text; got != msgWrongPassword {
		t.Fatalf("expected re-prompt, got %q", got)
	}
	if got := h.state("chat-1"); got != session.StateAskPassword {
		t.Fatalf("wrong password must not advance, got %s", got)
	}

	h.drive("chat-1", testRetailPassword)
	if got := h.state("chat-1"); got != session.StateChoosing {
		t.Fatalf("retry must succeed, got %s", got)
	}
}

func TestCancel(t *testing.T) {
	t.Run("before authentication", func(t *testing.T) {
		h := newHarness(t)
		h.svc.Start(context.Background(), "chat-1")
		h.drive("chat-1", labelRetail, labelCancel)

		if got := h.sender.last(t).text; got != msgCancelledNoRole {
			t.Fatalf("expected direction restart, got %q", got)
		}
		if got := h.state("chat-1"); got != session.StateSelectDirection {
			t.Fatalf("expected direction selection, got %s", got)
		}
	})

	t.Run("inside a flow", func(t *testing.T) {
		h := newHarness(t)
		h.authRetail(t, "chat-1")
		h.drive("chat-1", labelAddEmployee, "петренко іван олегович")

		// Plain word form works too, any case.
		h.drive("chat-1", "скасувати")

		if got := h.sender.last(t).text; got != msgCancelled {
			t.Fatalf("expected cancellation, got %q", got)
		}
		if got := h.state("chat-1"); got != session.StateChoosing {
			t.Fatalf("expected hub, got %s", got)
		}
		if sess := h.sessions.GetOrCreate("chat-1"); sess.FullName != "" {
			t.Fatalf("form buffer must be cleared, got %q", sess.FullName)
		}
	})
}

func TestCheckStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if err := h.retail.Append(ctx, vetting.Record{
		FullName: "Петренко Іван", TaxID: "1234567890", Status: vetting.StatusApprovedLabel,
	}); err != nil {
		t.Fatal(err)
	}
	h.authRetail(t, "chat-1")

	h.drive("chat-1", labelCheckStatus, "1234567890 9999999999")

	got := h.sender.last(t).text
	want := "1234567890 – Петренко Іван – " + vetting.StatusApprovedLabel + "\n" +
		"9999999999 – " + msgNotFound
	if got != want {
		t.Fatalf("unexpected reply:\n%q\nwant:\n%q", got, want)
	}
	if h.state("chat-1") != session.StateChoosing {
		t.Fatal("expected return to hub after lookup")
	}
}

func TestCheckStatus_AnyBadTokenRejectsLine(t *testing.T) {
	h := newHarness(t)
	h.authRetail(t, "chat-1")

	h.drive("chat-1", labelCheckStatus, "1234567890 12345")

	if got := h.sender.last(t).text; got != msgInvalidTaxID {
		t.Fatalf("expected whole-line re-prompt, got %q", got)
	}
	if got := h.state("chat-1"); got != session.StateCheckStatus {
		t.Fatalf("rejected line must not advance, got %s", got)
	}
}

// failingStore simulates an unreachable backing table.
type failingStore struct{ err error }

func (f failingStore) List(context.Context) ([]vetting.Record, error) { return nil, f.err }
func (f failingStore) Append(context.Context, vetting.Record) error  { return f.err }

func TestStoreFailure(t *testing.T) {
	h := newHarness(t)
	h.svc.stores[vetting.RoleRetail] = failingStore{err: context.DeadlineExceeded}
	h.authRetail(t, "chat-1")

	h.drive("chat-1", labelAddEmployee, "петренко іван олегович", "1234567890")

	if got := h.sender.last(t).text; got != msgStoreError {
		t.Fatalf("expected apology, got %q", got)
	}
	if got := h.state("chat-1"); got != session.StateChoosing {
		t.Fatalf("expected return to hub, got %s", got)
	}
}

func TestNotUnderstoodInHub(t *testing.T) {
	h := newHarness(t)
	h.authRetail(t, "chat-1")

	h.drive("chat-1", "щось випадкове")

	last := h.sender.last(t)
	if last.text != msgNotUnderstood {
		t.Fatalf("expected fallback reply, got %q", last.text)
	}
	if len(last.opts.Keyboard) == 0 {
		t.Fatal("fallback reply must re-show the menu")
	}
}

// blockingStore holds every List until the test releases it, so two
// submissions can be forced through the duplicate check side by side.
type blockingStore struct {
	vetting.Store
	arrived chan struct{}
	release chan struct{}
}

func (b *blockingStore) List(ctx context.Context) ([]vetting.Record, error) {
	recs, err := b.Store.List(ctx)
	b.arrived <- struct{}{}
	<-b.release
	return recs, err
}

func TestDuplicateCheckNotAtomic(t *testing.T) {
	h := newHarness(t)
	mem := h.retail
	gate := &blockingStore{
		Store:   mem,
		arrived: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	h.svc.stores[vetting.RoleRetail] = gate

	h.authRetail(t, "chat-1")
	h.authRetail(t, "chat-2")
	h.drive("chat-1", labelAddEmployee, "петренко іван олегович")
	h.drive("chat-2", labelAddEmployee, "шевченко тарас григорович")

	var wg sync.WaitGroup
	for _, key := range []string{"chat-1", "chat-2"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			h.svc.HandleMessage(context.Background(), key, "1234567890")
		}(key)
	}

	// Both scans start before either append happens, so neither sees the
	// other's row.
	<-gate.arrived
	<-gate.arrived
	close(gate.release)
	wg.Wait()

	if mem.Len() != 2 {
		t.Fatalf("expected both submissions to land, got %d records", mem.Len())
	}

	// A later submission sees both rows and is refused.
	h.svc.stores[vetting.RoleRetail] = mem
	h.authRetail(t, "chat-3")
	h.drive("chat-3", labelAddEmployee, "коваль олена ігорівна", "1234567890")
	if got := h.sender.last(t).text; got != msgAlreadyExists {
		t.Fatalf("expected refusal, got %q", got)
	}
	if mem.Len() != 2 {
		t.Fatalf("sequential duplicate must not append, got %d records", mem.Len())
	}
}
