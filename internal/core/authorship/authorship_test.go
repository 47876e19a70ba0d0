package authorship

import (
	"testing"
	"time"

	"repocred/internal/core/vcs"
)

func commit(email, handle string) vcs.Commit {
	return vcs.Commit{
		SHA:          "deadbeef",
		AuthorEmail:  email,
		AuthorHandle: handle,
		AuthoredAt:   time.Unix(1700000000, 0),
	}
}

func TestClassify_EmailCaseInsensitive(t *testing.T) {
	t.Parallel()

	cl := New(nil)
	id := vcs.OwnerIdentity{ClaimedEmail: "alice@example.com"}

	owned, ratio := cl.Classify([]vcs.Commit{
		commit("ALICE@Example.COM", ""),
		commit("bob@example.com", ""),
	}, id)

	if len(owned) != 1 || ratio != 0.5 {
		t.Fatalf("owned=%d ratio=%v", len(owned), ratio)
	}
}

func TestClassify_HandleMatchesLocalPart(t *testing.T) {
	t.Parallel()

	cl := New(nil)
	id := vcs.OwnerIdentity{ClaimedEmail: "alice@example.com"}

	owned, ratio := cl.Classify([]vcs.Commit{
		commit("noreply@github.com", "alice"),
		commit("noreply@github.com", "mallory"),
	}, id)

	if len(owned) != 1 || ratio != 0.5 {
		t.Fatalf("owned=%d ratio=%v", len(owned), ratio)
	}
}

func TestClassify_ClaimedHandleWins(t *testing.T) {
	t.Parallel()

	cl := New(nil)
	id := vcs.OwnerIdentity{ClaimedEmail: "alice@example.com", ClaimedHandle: "al1ce"}

	owned, _ := cl.Classify([]vcs.Commit{
		commit("noreply@github.com", "al1ce"),
	}, id)
	if len(owned) != 1 {
		t.Fatalf("claimed handle did not match")
	}
}

func TestClassify_EmptySampleRatioExactlyZero(t *testing.T) {
	t.Parallel()

	cl := New(nil)
	owned, ratio := cl.Classify(nil, vcs.OwnerIdentity{ClaimedEmail: "a@b.c"})
	if owned != nil {
		t.Fatalf("expected nil owned, got %v", owned)
	}
	if ratio != 0 {
		t.Fatalf("ratio = %v, want exactly 0", ratio)
	}
}

func TestClassify_AllOwnedRatioOne(t *testing.T) {
	t.Parallel()

	cl := New(nil)
	id := vcs.OwnerIdentity{ClaimedEmail: "alice@example.com"}
	sample := []vcs.Commit{
		commit("alice@example.com", ""),
		commit("Alice@example.com", "alice"),
		commit("noreply@github.com", "alice"),
	}
	owned, ratio := cl.Classify(sample, id)
	if len(owned) != len(sample) || ratio != 1.0 {
		t.Fatalf("owned=%d ratio=%v", len(owned), ratio)
	}
}

type denyAll struct{}

func (denyAll) Owns(vcs.Commit, vcs.OwnerIdentity) bool { return false }

func TestClassify_PluggableResolver(t *testing.T) {
	t.Parallel()

	cl := New(denyAll{})
	owned, ratio := cl.Classify([]vcs.Commit{commit("alice@example.com", "alice")}, vcs.OwnerIdentity{ClaimedEmail: "alice@example.com"})
	if len(owned) != 0 || ratio != 0 {
		t.Fatalf("resolver not honored: owned=%d ratio=%v", len(owned), ratio)
	}
}
