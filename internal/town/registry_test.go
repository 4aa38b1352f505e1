package town

import (
	"fmt"
	"testing"

	"github.com/pixil98/go-testutil"
)

func newTestRegistry(opts ...RegistryOpt) *TownRegistry {
	return NewTownRegistry(okBroker, opts...)
}

func TestTownRegistry_CreateTown(t *testing.T) {
	r := newTestRegistry()

	ctl, password, err := r.CreateTown("my town", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "friendly name", ctl.FriendlyName(), "my town")
	testutil.AssertEqual(t, "public", ctl.IsPubliclyListed(), true)
	testutil.AssertEqual(t, "password length", len(password), 21)
	testutil.AssertEqual(t, "lookup", r.GetControllerForTown(ctl.CoveyTownID()), ctl)
}

func TestTownRegistry_CreateTown_EmptyName(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.CreateTown("", true)
	if err == nil {
		t.Fatal("expected error for empty friendly name")
	}
}

func TestTownRegistry_CreateTown_UniqueIDs(t *testing.T) {
	r := newTestRegistry()

	ids := map[string]bool{}
	for i := 0; i < 20; i++ {
		ctl, _, err := r.CreateTown(fmt.Sprintf("town %d", i), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ids[ctl.CoveyTownID()] {
			t.Fatalf("duplicate town id %s", ctl.CoveyTownID())
		}
		ids[ctl.CoveyTownID()] = true
	}
}

func TestTownRegistry_GetControllerForTown_Miss(t *testing.T) {
	r := newTestRegistry()
	if r.GetControllerForTown("no-such-town") != nil {
		t.Error("expected nil controller for unknown town")
	}
}

func TestTownRegistry_ListTowns(t *testing.T) {
	r := newTestRegistry()

	public, _, _ := r.CreateTown("public town", true)
	r.CreateTown("private town", false)
	addTestPlayer(t, public, "p1")

	listings := r.ListTowns()
	testutil.AssertEqual(t, "listing count", len(listings), 1)
	testutil.AssertEqual(t, "listing id", listings[0].CoveyTownID, public.CoveyTownID())
	testutil.AssertEqual(t, "listing name", listings[0].FriendlyName, "public town")
	testutil.AssertEqual(t, "listing occupancy", listings[0].CurrentOccupancy, 1)
	testutil.AssertEqual(t, "listing capacity", listings[0].MaximumOccupancy, DefaultCapacity)
}

func TestTownRegistry_UpdateTown(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	boolPtr := func(b bool) *bool { return &b }

	tests := map[string]struct {
		password     func(actual string) string
		friendlyName *string
		public       *bool
		expOK        bool
		expName      string
		expPublic    bool
	}{
		"wrong password": {
			password:  func(string) string { return "nope" },
			expOK:     false,
			expName:   "before",
			expPublic: true,
		},
		"rename": {
			password:     func(actual string) string { return actual },
			friendlyName: strPtr("after"),
			expOK:        true,
			expName:      "after",
			expPublic:    true,
		},
		"empty name rejected": {
			password:     func(actual string) string { return actual },
			friendlyName: strPtr(""),
			expOK:        false,
			expName:      "before",
			expPublic:    true,
		},
		"unlist": {
			password:  func(actual string) string { return actual },
			public:    boolPtr(false),
			expOK:     true,
			expName:   "before",
			expPublic: false,
		},
		"nil fields leave town untouched": {
			password:  func(actual string) string { return actual },
			expOK:     true,
			expName:   "before",
			expPublic: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := newTestRegistry()
			ctl, password, err := r.CreateTown("before", true)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			ok := r.UpdateTown(ctl.CoveyTownID(), tc.password(password), tc.friendlyName, tc.public)

			testutil.AssertEqual(t, "result", ok, tc.expOK)
			testutil.AssertEqual(t, "friendly name", ctl.FriendlyName(), tc.expName)
			testutil.AssertEqual(t, "public", ctl.IsPubliclyListed(), tc.expPublic)
		})
	}
}

func TestTownRegistry_UpdateTown_UnknownTown(t *testing.T) {
	r := newTestRegistry()
	testutil.AssertEqual(t, "result", r.UpdateTown("no-such-town", "pw", nil, nil), false)
}

func TestTownRegistry_DeleteTown(t *testing.T) {
	r := newTestRegistry()
	ctl, password, err := r.CreateTown("doomed", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addTestPlayer(t, ctl, "p1")

	listener := &recordingListener{}
	ctl.AddTownListener(listener)

	testutil.AssertEqual(t, "wrong password", r.DeleteTown(ctl.CoveyTownID(), "nope"), false)
	if r.GetControllerForTown(ctl.CoveyTownID()) == nil {
		t.Fatal("town should survive a failed delete")
	}

	testutil.AssertEqual(t, "delete", r.DeleteTown(ctl.CoveyTownID(), password), true)
	if r.GetControllerForTown(ctl.CoveyTownID()) != nil {
		t.Error("town should be gone after delete")
	}
	// Creation and deletion are observable only as the teardown event.
	testutil.AssertEqual(t, "events", fmt.Sprint(listener.events), "[townDestroyed]")
}

func TestTownRegistry_ListenerFactory(t *testing.T) {
	attached := &recordingListener{}
	var factoryTownID string
	r := newTestRegistry(WithListenerFactory(func(coveyTownID string) TownListener {
		factoryTownID = coveyTownID
		return attached
	}))

	ctl, _, err := r.CreateTown("wired", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addTestPlayer(t, ctl, "p1")

	testutil.AssertEqual(t, "factory town id", factoryTownID, ctl.CoveyTownID())
	testutil.AssertEqual(t, "events", fmt.Sprint(attached.events), "[joined:p1]")
}
