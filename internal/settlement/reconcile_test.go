package settlement

import (
	"math"
	"testing"
	"time"

	"github.com/omarsaleh/divvy/internal/split"
)

func strp(s string) *string { return &s }

func activeSplit() *split.Split {
	return &split.Split{ID: "split-1", CreatorID: 1, Status: split.StatusActive}
}

func ower(id, name, email string, owed float64) *split.Participant {
	p := &split.Participant{
		ID:         id,
		SplitID:    "split-1",
		Role:       split.RoleOwer,
		AmountOwed: owed,
		Status:     split.ParticipantPending,
	}
	if name != "" {
		p.ExternalName = &name
	}
	if email != "" {
		p.ExternalEmail = &email
	}
	return p
}

func event(id string, name, email *string, amount float64) PaymentEvent {
	return PaymentEvent{
		ID:         id,
		SplitID:    "split-1",
		PayerName:  name,
		PayerEmail: email,
		Amount:     amount,
		OccurredAt: time.Now(),
	}
}

func TestSettledRequiresEveryOwerPaid(t *testing.T) {
	creator := &split.Participant{ID: "p-creator", SplitID: "split-1", Role: split.RoleCreator}
	alice := ower("p-alice", "Alice", "alice@example.com", 10.00)
	bob := ower("p-bob", "Bob", "bob@example.com", 15.00)
	participants := []*split.Participant{creator, alice, bob}

	// Nobody paid.
	summary := Reconcile(activeSplit(), participants, nil)
	if summary.Settled {
		t.Fatal("settled with no payments at all")
	}
	if math.Abs(summary.Outstanding-25.00) > 1e-9 {
		t.Errorf("outstanding %v, want 25.00", summary.Outstanding)
	}

	// One ower paid locally.
	alice.Status = split.ParticipantPaid
	alice.AmountPaid = 10.00
	summary = Reconcile(activeSplit(), participants, nil)
	if summary.Settled {
		t.Fatal("settled with one ower still unpaid")
	}
	if math.Abs(summary.Collected-10.00) > 1e-9 {
		t.Errorf("collected %v, want 10.00", summary.Collected)
	}

	// The other ower paid via a matching event by email.
	events := []PaymentEvent{event("ev-1", nil, strp("BOB@example.com"), 15.00)}
	summary = Reconcile(activeSplit(), participants, events)
	if !summary.Settled {
		t.Fatal("not settled after every ower determined paid")
	}
	if math.Abs(summary.Collected-25.00) > 1e-9 {
		t.Errorf("collected %v, want 25.00", summary.Collected)
	}
	if math.Abs(summary.Outstanding) > 1e-9 {
		t.Errorf("outstanding %v, want 0", summary.Outstanding)
	}

	var bobStatus ParticipantStatus
	for _, ps := range summary.Participants {
		if ps.ParticipantID == "p-bob" {
			bobStatus = ps
		}
	}
	if bobStatus.MatchedEventID != "ev-1" {
		t.Errorf("bob matched event %q, want ev-1", bobStatus.MatchedEventID)
	}
}

func TestLocalRecordTakesPriorityOverEvents(t *testing.T) {
	alice := ower("p-alice", "Alice", "alice@example.com", 10.00)
	alice.Status = split.ParticipantPaid
	alice.AmountPaid = 10.00

	// An event for the same person must not double-count into collected.
	events := []PaymentEvent{event("ev-1", nil, strp("alice@example.com"), 10.00)}
	summary := Reconcile(activeSplit(), []*split.Participant{alice}, events)

	if math.Abs(summary.Collected-10.00) > 1e-9 {
		t.Errorf("collected %v, want 10.00", summary.Collected)
	}
	if summary.Participants[0].MatchedEventID != "" {
		t.Error("event matched despite authoritative local record")
	}
}

func TestOverpaymentNeverGoesNegative(t *testing.T) {
	alice := ower("p-alice", "Alice", "alice@example.com", 10.00)
	events := []PaymentEvent{event("ev-1", nil, strp("alice@example.com"), 25.00)}

	summary := Reconcile(activeSplit(), []*split.Participant{alice}, events)
	if summary.Outstanding < 0 {
		t.Errorf("outstanding %v, must not go negative", summary.Outstanding)
	}
	if math.Abs(summary.Collected-25.00) > 1e-9 {
		t.Errorf("collected %v, want 25.00", summary.Collected)
	}
}

func TestNameFallbackOnlyWithoutEmails(t *testing.T) {
	// No emails anywhere: the loose name rule decides.
	jon := ower("p-jon", "Jon", "", 5.00)
	events := []PaymentEvent{event("ev-1", strp("Jon Smith"), nil, 5.00)}

	summary := Reconcile(activeSplit(), []*split.Participant{jon}, events)
	if !summary.Participants[0].Paid {
		t.Error("token-containment name fallback did not match Jon to Jon Smith")
	}

	// A longer unrelated-token name stays unmatched.
	events = []PaymentEvent{event("ev-2", strp("Jonathan Smith-Jones"), nil, 5.00)}
	summary = Reconcile(activeSplit(), []*split.Participant{jon}, events)
	if summary.Participants[0].Paid {
		t.Error("prefix-similar payer name matched under the whole-token rule")
	}
}

func TestAlreadySettledSplitStaysSettled(t *testing.T) {
	sp := activeSplit()
	sp.Status = split.StatusSettled

	unpaid := ower("p-alice", "Alice", "", 10.00)
	summary := Reconcile(sp, []*split.Participant{unpaid}, nil)
	if !summary.Settled {
		t.Error("stored settled status not reflected in summary")
	}
}
