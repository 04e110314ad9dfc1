package bot

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"vetflow/access"
	"vetflow/analytics"
	"vetflow/metrics"
	"vetflow/session"
	"vetflow/vetting"
)

// Service drives the conversational state machine. One call to HandleMessage
// processes one incoming message; the transport guarantees messages for a
// single chat key arrive one at a time.
type Service struct {
	sender   Sender
	sessions *session.Store
	verifier *access.Verifier
	stores   map[vetting.Role]vetting.Store
	engine   *analytics.Engine
	metrics  *metrics.Metrics

	now func() time.Time

	// strictNames requires exactly three name tokens instead of at least two.
	strictNames bool
}

// NewService wires the state machine. metrics may be nil.
func NewService(sender Sender, sessions *session.Store, verifier *access.Verifier, stores map[vetting.Role]vetting.Store, m *metrics.Metrics) *Service {
	return &Service{
		sender:   sender,
		sessions: sessions,
		verifier: verifier,
		stores:   stores,
		engine:   analytics.NewEngine(),
		metrics:  m,
		now:      time.Now,
	}
}

// WithClock overrides the time source for submitted dates and the standard
// snapshot, mainly for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.engine = s.engine.WithClock(now)
	return s
}

// WithStrictNames switches the name prompt to the three-token variant.
func (s *Service) WithStrictNames(strict bool) *Service {
	s.strictNames = strict
	return s
}

// Start handles the entry command: the session restarts from scratch and the
// user is greeted and asked for a direction.
func (s *Service) Start(ctx context.Context, key string) {
	sess := s.sessions.Reset(key)
	s.send(ctx, key, msgWelcome, SendOptions{Markdown: true})
	s.send(ctx, key, msgChooseDirection, SendOptions{Keyboard: directionKeyboard})
	sess.State = session.StateSelectDirection
}

// HandleMessage routes one message through the transition table. Malformed
// input never advances state or touches the store; store failures degrade to
// an apology and return the session to the hub. Nothing here is fatal.
func (s *Service) HandleMessage(ctx context.Context, key, text string) {
	sess := s.sessions.GetOrCreate(key)
	if s.metrics != nil {
		s.metrics.MessagesHandled.WithLabelValues(sess.State.String()).Inc()
	}

	input := strings.TrimSpace(text)
	if isCancel(input) {
		s.cancel(ctx, sess)
		return
	}

	spec := transitions[sess.State]
	if h, ok := spec.labels[input]; ok {
		s.runHandler(ctx, sess, input, h)
		return
	}
	if spec.text != nil {
		s.runHandler(ctx, sess, input, spec.text)
		return
	}
	s.notUnderstood(ctx, sess)
}

func (s *Service) runHandler(ctx context.Context, sess *session.Session, input string, h handler) {
	if err := h(s, ctx, sess, input); err != nil {
		// Handlers surface their own user-facing messages; whatever reaches
		// here is an infrastructure failure already reported to the user.
		log.Printf("bot: state %s: %v", sess.State, err)
	}
}

// cancel is the global interrupt: back to the hub when a direction is
// established, otherwise back to direction selection.
func (s *Service) cancel(ctx context.Context, sess *session.Session) {
	sess.ClearForm()
	if sess.Established() {
		sess.State = session.StateChoosing
		s.send(ctx, sess.Key, msgCancelled, SendOptions{Keyboard: mainKeyboard})
		return
	}
	sess.State = session.StateSelectDirection
	s.send(ctx, sess.Key, msgCancelledNoRole, SendOptions{Keyboard: directionKeyboard})
}

func (s *Service) notUnderstood(ctx context.Context, sess *session.Session) {
	kb := directionKeyboard
	if sess.Established() {
		kb = mainKeyboard
	}
	s.send(ctx, sess.Key, msgNotUnderstood, SendOptions{Keyboard: kb})
}

// selectDirection classifies free text into a direction by substring so both
// the button label and a typed word work.
func (s *Service) selectDirection(ctx context.Context, sess *session.Session, input string) error {
	switch {
	case strings.Contains(input, "Магазин"):
		sess.RequestedRole = vetting.RoleRetail
	case strings.Contains(input, "Охорона"):
		sess.RequestedRole = vetting.RoleSecurity
	default:
		s.send(ctx, sess.Key, msgWrongChoice, SendOptions{})
		return nil
	}

	sess.State = session.StateAskPassword
	s.send(ctx, sess.Key, msgAskPassword, SendOptions{Keyboard: cancelKeyboard})
	return nil
}

func (s *Service) checkPassword(ctx context.Context, sess *session.Session, input string) error {
	role := sess.RequestedRole
	if err := s.verifier.Verify(role, input); err != nil {
		s.send(ctx, sess.Key, msgWrongPassword, SendOptions{Keyboard: cancelKeyboard})
		return nil
	}

	sess.Role = role
	if role == vetting.RoleSecurity && sess.Company == "" {
		sess.State = session.StateAskCompany
		s.send(ctx, sess.Key, msgAskCompany, SendOptions{Keyboard: cancelKeyboard, Markdown: true})
		return nil
	}

	sess.State = session.StateChoosing
	s.send(ctx, sess.Key, "✅ Доступ надано: "+directionName(role), SendOptions{Keyboard: mainKeyboard})
	return nil
}

func (s *Service) saveCompany(ctx context.Context, sess *session.Session, input string) error {
	if utf8.RuneCountInString(input) < 2 {
		s.send(ctx, sess.Key, msgCompanyTooShort, SendOptions{})
		return nil
	}

	sess.Company = input
	sess.State = session.StateChoosing
	s.send(ctx, sess.Key, "✅ Компанію збережено: *"+input+"*", SendOptions{Keyboard: mainKeyboard, Markdown: true})
	return nil
}

// changeDirection re-enters direction selection. The established role and
// company stay until a new password succeeds.
func (s *Service) changeDirection(ctx context.Context, sess *session.Session, _ string) error {
	sess.State = session.StateSelectDirection
	s.send(ctx, sess.Key, msgChangeDirection, SendOptions{Keyboard: directionKeyboard})
	return nil
}

// sessionRole is the effective direction; unauthenticated sessions default to
// retail, matching the store default.
func sessionRole(sess *session.Session) vetting.Role {
	if sess.Role != "" {
		return sess.Role
	}
	return vetting.RoleRetail
}

func (s *Service) storeFor(role vetting.Role) vetting.Store {
	if st, ok := s.stores[role]; ok {
		return st
	}
	return s.stores[vetting.RoleRetail]
}

// toHub clears flow buffers and returns the session to the main menu.
func (s *Service) toHub(sess *session.Session) {
	sess.ClearForm()
	sess.State = session.StateChoosing
}

// storeFailed reports a store read/write failure: one apology line, counter
// bump, session back to the hub. The original error propagates for logging.
func (s *Service) storeFailed(ctx context.Context, sess *session.Session, err error) error {
	if s.metrics != nil {
		s.metrics.StoreErrors.Inc()
	}
	s.toHub(sess)
	s.send(ctx, sess.Key, msgStoreError, SendOptions{Keyboard: mainKeyboard})
	return err
}

func (s *Service) send(ctx context.Context, key, text string, opts SendOptions) {
	if err := s.sender.Send(ctx, key, text, opts); err != nil {
		log.Printf("bot: send to %s: %v", key, err)
	}
}
