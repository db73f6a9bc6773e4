package settlement

import (
	"github.com/omarsaleh/divvy/internal/money"
	"github.com/omarsaleh/divvy/internal/split"
)

// =============================================================================
// SETTLEMENT RECONCILER
// Status is re-derived on every read from the participant rows and the
// payment event stream; nothing here writes. Per-participant paid
// determination runs in priority order: the local record (status paid or any
// recorded amount) is authoritative, then the first payment event matching
// the participant's identity hints. A split settles when every ower row is
// determined paid.
// =============================================================================

// ParticipantPaid decides whether one participant is paid, given the split's
// payment events. The returned event is the match that decided it, nil when
// the local record decided or the participant is unpaid.
func ParticipantPaid(p *split.Participant, events []PaymentEvent) (bool, *PaymentEvent) {
	if p.Status == split.ParticipantPaid || p.AmountPaid > 0 {
		return true, nil
	}

	identity := Identity{Email: p.EmailAddress(), Name: p.DisplayName()}
	for i := range events {
		payer := Identity{}
		if events[i].PayerEmail != nil {
			payer.Email = *events[i].PayerEmail
		}
		if events[i].PayerName != nil {
			payer.Name = *events[i].PayerName
		}
		if Matches(identity, payer) {
			return true, &events[i]
		}
	}
	return false, nil
}

// Reconcile derives the settlement summary for a split. Collected counts
// local amount_paid plus matched event amounts for rows not yet marked paid
// locally. Outstanding never goes negative: an event can assert more than
// the participant's nominal share.
func Reconcile(sp *split.Split, participants []*split.Participant, events []PaymentEvent) *Summary {
	summary := &Summary{
		SplitID:      sp.ID,
		Participants: make([]ParticipantStatus, len(participants)),
	}

	var totalOwed, collected float64
	allOwersPaid := true
	for i, p := range participants {
		paid, event := ParticipantPaid(p, events)

		status := ParticipantStatus{
			ParticipantID: p.ID,
			Name:          p.DisplayName(),
			AmountOwed:    p.AmountOwed,
			AmountPaid:    p.AmountPaid,
			Paid:          paid,
		}
		if event != nil {
			status.MatchedEventID = event.ID
			status.AmountPaid = event.Amount
		}
		summary.Participants[i] = status

		totalOwed += p.AmountOwed
		collected += status.AmountPaid
		if p.Role == split.RoleOwer && !paid {
			allOwersPaid = false
		}
	}

	summary.TotalOwed = money.Round2(totalOwed)
	summary.Collected = money.Round2(collected)
	outstanding := summary.TotalOwed
	if summary.Collected > outstanding {
		outstanding = summary.Collected
	}
	summary.Outstanding = money.Round2(outstanding - summary.Collected)
	summary.Settled = sp.Status == split.StatusSettled || allOwersPaid
	return summary
}
