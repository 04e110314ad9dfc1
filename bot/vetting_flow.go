package bot

import (
	"context"
	"strings"

	"vetflow/session"
	"vetflow/vetting"
)

func (s *Service) startAdd(ctx context.Context, sess *session.Session, _ string) error {
	sess.State = session.StateEnterName
	s.send(ctx, sess.Key, msgAskName, SendOptions{Keyboard: cancelKeyboard})
	return nil
}

func (s *Service) enterName(ctx context.Context, sess *session.Session, input string) error {
	tokens := strings.Fields(input)
	ok := len(tokens) >= 2
	if s.strictNames {
		ok = len(tokens) == 3
	}
	if !ok {
		s.send(ctx, sess.Key, msgNameFormat, SendOptions{})
		return nil
	}

	sess.FullName = vetting.TitleCaseName(input)
	sess.State = session.StateEnterTaxID
	s.send(ctx, sess.Key, msgAskTaxID, SendOptions{Keyboard: cancelKeyboard})
	return nil
}

// enterTaxID finishes the data-entry flow: format check, duplicate check over
// a full scan, then a single append. The check and the append are not atomic;
// two concurrent submissions of the same identifier can both pass the check.
func (s *Service) enterTaxID(ctx context.Context, sess *session.Session, input string) error {
	if !vetting.IsValidTaxID(input) {
		s.send(ctx, sess.Key, msgInvalidTaxID, SendOptions{})
		return nil
	}

	role := sessionRole(sess)
	store := s.storeFor(role)

	records, err := store.List(ctx)
	if err != nil {
		return s.storeFailed(ctx, sess, err)
	}

	norm := vetting.NormalizeTaxID(input)
	for _, rec := range records {
		if vetting.NormalizeTaxID(rec.TaxID) == norm {
			if s.metrics != nil {
				s.metrics.Duplicates.Inc()
			}
			s.toHub(sess)
			s.send(ctx, sess.Key, msgAlreadyExists, SendOptions{Keyboard: mainKeyboard})
			return nil
		}
	}

	rec := vetting.Record{
		SubmittedDate: s.now().Format(vetting.DateLayout),
		FullName:      sess.FullName,
		BirthDate:     vetting.DeriveBirthDate(input),
		TaxID:         input,
		Status:        vetting.StatusPendingLabel,
	}
	if role == vetting.RoleSecurity {
		rec.Company = sess.Company
	}

	if err := store.Append(ctx, rec); err != nil {
		return s.storeFailed(ctx, sess, err)
	}

	if s.metrics != nil {
		s.metrics.RecordsSubmitted.Inc()
	}
	s.toHub(sess)
	s.send(ctx, sess.Key, msgEmployeeAdded, SendOptions{Keyboard: mainKeyboard})
	return nil
}

func (s *Service) startCheck(ctx context.Context, sess *session.Session, _ string) error {
	sess.State = session.StateCheckStatus
	s.send(ctx, sess.Key, msgAskCheckIDs, SendOptions{Keyboard: cancelKeyboard})
	return nil
}

// checkStatus answers one or more whitespace-separated tax IDs in one
// message. Every token must be well-formed or the whole line is re-prompted;
// results come back in input order.
func (s *Service) checkStatus(ctx context.Context, sess *session.Session, input string) error {
	ids := strings.Fields(input)
	if len(ids) == 0 {
		s.send(ctx, sess.Key, msgInvalidTaxID, SendOptions{})
		return nil
	}
	for _, id := range ids {
		if !vetting.IsValidTaxID(id) {
			s.send(ctx, sess.Key, msgInvalidTaxID, SendOptions{})
			return nil
		}
	}

	records, err := s.storeFor(sessionRole(sess)).List(ctx)
	if err != nil {
		return s.storeFailed(ctx, sess, err)
	}

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		norm := vetting.NormalizeTaxID(id)
		found := false
		for _, rec := range records {
			if vetting.NormalizeTaxID(rec.TaxID) == norm {
				lines = append(lines, id+" – "+rec.FullName+" – "+rec.Status)
				found = true
				break
			}
		}
		if !found {
			lines = append(lines, id+" – "+msgNotFound)
		}
	}

	s.toHub(sess)
	s.send(ctx, sess.Key, strings.Join(lines, "\n"), SendOptions{Keyboard: mainKeyboard})
	return nil
}
