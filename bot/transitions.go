package bot

import (
	"context"

	"vetflow/session"
)

// handler advances one session in response to classified input.
type handler func(s *Service, ctx context.Context, sess *session.Session, input string) error

// stateSpec is one row of the transition table: known-label inputs dispatch
// through labels, anything else falls to text. The cancellation interrupt is
// handled before the table ever applies, so no state lists it.
type stateSpec struct {
	labels map[string]handler
	text   handler
}

// transitions decouples menu strings from control flow: each state declares
// the labels it reacts to and whether free text means anything to it. States
// with neither mapping for an input fall through to the not-understood reply.
var transitions = map[session.State]stateSpec{
	session.StateSelectDirection: {
		text: (*Service).selectDirection,
	},
	session.StateAskPassword: {
		text: (*Service).checkPassword,
	},
	session.StateAskCompany: {
		text: (*Service).saveCompany,
	},
	session.StateChoosing: {
		labels: map[string]handler{
			labelAddEmployee:     (*Service).startAdd,
			labelCheckStatus:     (*Service).startCheck,
			labelAnalytics:       (*Service).showAnalyticsMenu,
			labelChangeDirection: (*Service).changeDirection,
		},
	},
	session.StateEnterName: {
		text: (*Service).enterName,
	},
	session.StateEnterTaxID: {
		text: (*Service).enterTaxID,
	},
	session.StateCheckStatus: {
		text: (*Service).checkStatus,
	},
	session.StateAnalyticsMenu: {
		labels: map[string]handler{
			labelByDate:     (*Service).askAnalyticsDate,
			labelStatistics: (*Service).askStatisticsType,
			labelBack:       (*Service).analyticsBack,
		},
	},
	session.StateAnalyticsDate: {
		text: (*Service).showByDate,
	},
	session.StateStatisticsMenu: {
		labels: map[string]handler{
			labelPeriod:   (*Service).askPeriodStart,
			labelStandard: (*Service).showStandardStatistics,
			labelOverall:  (*Service).showOverallStatistics,
			labelBack:     (*Service).analyticsBack,
		},
	},
	session.StatePeriodStart: {
		text: (*Service).enterPeriodStart,
	},
	session.StatePeriodEnd: {
		text: (*Service).enterPeriodEnd,
	},
}
