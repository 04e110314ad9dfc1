package bot

import (
	"context"
	"fmt"
	"strings"

	"vetflow/analytics"
	"vetflow/session"
	"vetflow/vetting"
)

// The analytics sub-machine is entered from the hub and fails closed: any
// store error during a scan becomes a single user-facing line and the
// sub-machine returns to its menu state instead of propagating.

func (s *Service) showAnalyticsMenu(ctx context.Context, sess *session.Session, _ string) error {
	sess.State = session.StateAnalyticsMenu
	s.send(ctx, sess.Key, msgAnalyticsMenu, SendOptions{Keyboard: analyticsKeyboard, Markdown: true})
	return nil
}

func (s *Service) askAnalyticsDate(ctx context.Context, sess *session.Session, _ string) error {
	sess.State = session.StateAnalyticsDate
	s.send(ctx, sess.Key, msgAskAnalyticsDate, SendOptions{})
	return nil
}

// showByDate lists every record submitted on the requested date. The date is
// parsed strictly; a bad date re-prompts in place while the scan itself
// reports and returns to the hub.
func (s *Service) showByDate(ctx context.Context, sess *session.Session, input string) error {
	if isBack(input) {
		return s.analyticsBack(ctx, sess, input)
	}

	day, err := vetting.ParseDate(input)
	if err != nil {
		s.send(ctx, sess.Key, msgInvalidDate, SendOptions{})
		return nil
	}

	records, err := s.storeFor(sessionRole(sess)).List(ctx)
	if err != nil {
		return s.storeFailed(ctx, sess, err)
	}

	entries := s.engine.ByDate(records, day)
	if len(entries) == 0 {
		s.send(ctx, sess.Key, msgNoneFoundByDate, SendOptions{})
	} else {
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = "👤 " + e.FullName + " – *" + e.Status + "*"
		}
		s.send(ctx, sess.Key, strings.Join(lines, "\n"), SendOptions{Markdown: true})
	}
	return s.analyticsBack(ctx, sess, input)
}

func (s *Service) askStatisticsType(ctx context.Context, sess *session.Session, _ string) error {
	sess.State = session.StateStatisticsMenu
	s.send(ctx, sess.Key, msgChooseStatistics, SendOptions{Keyboard: statisticsKeyboard})
	return nil
}

func (s *Service) askPeriodStart(ctx context.Context, sess *session.Session, _ string) error {
	sess.State = session.StatePeriodStart
	s.send(ctx, sess.Key, msgAskPeriodStart, SendOptions{})
	return nil
}

func (s *Service) enterPeriodStart(ctx context.Context, sess *session.Session, input string) error {
	start, err := vetting.ParseDate(input)
	if err != nil {
		s.send(ctx, sess.Key, msgInvalidPeriodDate, SendOptions{})
		return nil
	}

	sess.PeriodStart = start
	sess.State = session.StatePeriodEnd
	s.send(ctx, sess.Key, msgAskPeriodEnd, SendOptions{})
	return nil
}

// enterPeriodEnd closes the range and reports it. There is no check that the
// end is after the start: an inverted range simply counts nothing. A bad end
// date drops back to the statistics menu rather than re-prompting.
func (s *Service) enterPeriodEnd(ctx context.Context, sess *session.Session, input string) error {
	end, err := vetting.ParseDate(input)
	if err != nil || sess.PeriodStart.IsZero() {
		sess.State = session.StateStatisticsMenu
		s.send(ctx, sess.Key, msgPeriodError, SendOptions{Keyboard: statisticsKeyboard})
		return nil
	}
	start := sess.PeriodStart

	records, err := s.storeFor(sessionRole(sess)).List(ctx)
	if err != nil {
		sess.State = session.StateStatisticsMenu
		if s.metrics != nil {
			s.metrics.StoreErrors.Inc()
		}
		s.send(ctx, sess.Key, msgStoreError, SendOptions{Keyboard: statisticsKeyboard})
		return err
	}

	stats := s.engine.Period(records, start, end)
	text := fmt.Sprintf(
		"📊 *Статистика з %s по %s*\n\n"+
			"🔹 Подано: *%d*\n"+
			"🔸 Перевірено: *%d*\n"+
			"✅ Позитивних: *%d*\n"+
			"❌ Негативних: *%d*",
		start.Format(vetting.DateLayout), end.Format(vetting.DateLayout),
		stats.Submitted, stats.Checked, stats.Positive, stats.Negative,
	)
	s.send(ctx, sess.Key, text, SendOptions{Markdown: true})
	return s.analyticsBack(ctx, sess, input)
}

// showStandardStatistics reports today against the last business day and the
// global pending backlog, then stays in the statistics menu.
func (s *Service) showStandardStatistics(ctx context.Context, sess *session.Session, _ string) error {
	records, err := s.storeFor(sessionRole(sess)).List(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.StoreErrors.Inc()
		}
		s.send(ctx, sess.Key, msgStoreError, SendOptions{Keyboard: statisticsKeyboard})
		return err
	}

	stats := s.engine.Snapshot(records)
	text := fmt.Sprintf(
		"📆 *Сьогодні* (%s):\n%s\n\n📅 *Вчора* (%s):\n%s\n\n⏳ *Очікує погодження:* %d",
		stats.Today.Date, formatDay(stats.Today),
		stats.LastBusinessDay.Date, formatDay(stats.LastBusinessDay),
		stats.Pending,
	)
	s.send(ctx, sess.Key, text, SendOptions{Markdown: true})
	return nil
}

func formatDay(d analytics.DayStats) string {
	return fmt.Sprintf(
		"• Подано: %d\n• Перевірено: %d\n• ✅ Погоджено: %d\n• ❌ Не погоджено: %d",
		d.Submitted, d.Checked, d.Approved, d.Rejected,
	)
}

// showOverallStatistics reports the unscoped totals and stays in the
// statistics menu.
func (s *Service) showOverallStatistics(ctx context.Context, sess *session.Session, _ string) error {
	records, err := s.storeFor(sessionRole(sess)).List(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.StoreErrors.Inc()
		}
		s.send(ctx, sess.Key, msgStoreError, SendOptions{Keyboard: statisticsKeyboard})
		return err
	}

	stats := s.engine.Overall(records)
	text := fmt.Sprintf(
		"📈 *Загальна статистика*\n\n"+
			"🔹 Подано: *%d*\n"+
			"🔸 Перевірено: *%d*\n"+
			"✅ Погоджено: *%d*\n"+
			"❌ Не погоджено: *%d*",
		stats.Submitted, stats.Checked, stats.Approved, stats.Rejected,
	)
	s.send(ctx, sess.Key, text, SendOptions{Markdown: true})
	return nil
}

// analyticsBack leaves the analytics sub-machine for the hub.
func (s *Service) analyticsBack(ctx context.Context, sess *session.Session, _ string) error {
	s.toHub(sess)
	s.send(ctx, sess.Key, msgGoingBack, SendOptions{Keyboard: mainKeyboard})
	return nil
}
