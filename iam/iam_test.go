package iam

import "testing"

func TestAnonymousIsAlwaysDenied(t *testing.T) {
	if !Anonymous.IsAnon() {
		t.Fatal("expected the Anonymous principal to report IsAnon")
	}
	kind := ResourceKind{Name: "table"}
	if err := Anonymous.IsAllowed(View, kind.OnRoot()); err == nil {
		t.Error("expected the anonymous principal to be denied View at root")
	}
}

func TestResourceKindResolvesLevels(t *testing.T) {
	kind := ResourceKind{Name: "table"}
	if got := kind.OnRoot().Level; got != LevelRoot {
		t.Errorf("expected LevelRoot, got %v", got)
	}
	if got := kind.OnDB("n", "d").Level; got != LevelDB {
		t.Errorf("expected LevelDB, got %v", got)
	}
}

func TestLevelContainsNesting(t *testing.T) {
	root := Resource{Level: LevelRoot}
	ns := Resource{Level: LevelNS, NS: "n"}
	db := Resource{Level: LevelDB, NS: "n", DB: "d"}

	if !levelContains(root, db) {
		t.Error("expected Root to cover any db")
	}
	if !levelContains(ns, db) {
		t.Error("expected a matching NS to cover its own db")
	}
	if levelContains(ns, Resource{Level: LevelDB, NS: "other", DB: "d"}) {
		t.Error("expected a mismatched NS not to cover another namespace's db")
	}
}
