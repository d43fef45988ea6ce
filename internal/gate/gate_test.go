package gate

import (
	"testing"
	"time"
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		candidate string
		want      bool
	}{
		{"exact match", "xyz", "xyz", true},
		{"case sensitive", "xyz", "XYZ", false},
		{"wrong value", "xyz", "abc", false},
		{"no whitespace trimming", "xyz", " xyz", false},
		{"empty secret never verifies", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Verify(tt.secret, tt.candidate); got != tt.want {
				t.Errorf("Verify(%q, %q) = %v, want %v", tt.secret, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestArmStates(t *testing.T) {
	g := New(nil)

	g.Arm("s3cret")
	if got := g.State(); got != Locked {
		t.Fatalf("armed with secret: state = %v, want %v", got, Locked)
	}

	g.Arm("")
	if got := g.State(); got != Unlocked {
		t.Fatalf("armed without secret: state = %v, want %v", got, Unlocked)
	}
}

func TestSubmitCorrectPassword(t *testing.T) {
	g := New(nil)
	g.Arm("s3cret")

	if got := g.Submit("s3cret"); got != Unlocked {
		t.Fatalf("Submit = %v, want %v", got, Unlocked)
	}
	// Unlocked is terminal: further attempts do not change anything.
	if got := g.Submit("wrong"); got != Unlocked {
		t.Errorf("Submit after unlock = %v, want %v", got, Unlocked)
	}
}

func TestSubmitWrongPasswordReverts(t *testing.T) {
	reverted := make(chan State, 1)
	g := New(func(s State) { reverted <- s })
	g.SetRevertAfter(10 * time.Millisecond)
	g.Arm("s3cret")

	if got := g.Submit("wrong"); got != AuthFailed {
		t.Fatalf("Submit = %v, want %v", got, AuthFailed)
	}

	select {
	case s := <-reverted:
		if s != Locked {
			t.Fatalf("revert callback got %v, want %v", s, Locked)
		}
	case <-time.After(time.Second):
		t.Fatal("revert callback never fired")
	}
	if got := g.State(); got != Locked {
		t.Errorf("state after revert = %v, want %v", got, Locked)
	}

	// A correct attempt after the revert still unlocks.
	if got := g.Submit("s3cret"); got != Unlocked {
		t.Errorf("Submit after revert = %v, want %v", got, Unlocked)
	}
}

func TestCorrectSubmitBeatsPendingRevert(t *testing.T) {
	g := New(func(State) { t.Error("revert fired after unlock") })
	g.SetRevertAfter(20 * time.Millisecond)
	g.Arm("s3cret")

	g.Submit("wrong")
	if got := g.Submit("s3cret"); got != Unlocked {
		t.Fatalf("Submit = %v, want %v", got, Unlocked)
	}

	time.Sleep(60 * time.Millisecond)
	if got := g.State(); got != Unlocked {
		t.Errorf("state = %v, want %v", got, Unlocked)
	}
}

func TestArmCancelsPendingRevert(t *testing.T) {
	g := New(func(State) { t.Error("revert fired for a stale selection") })
	g.SetRevertAfter(20 * time.Millisecond)
	g.Arm("s3cret")

	g.Submit("wrong")
	// Selection changes before the revert lands.
	g.Arm("other")
	if got := g.State(); got != Locked {
		t.Fatalf("state after re-arm = %v, want %v", got, Locked)
	}

	time.Sleep(60 * time.Millisecond)
	if got := g.State(); got != Locked {
		t.Errorf("state = %v, want %v", got, Locked)
	}
}
