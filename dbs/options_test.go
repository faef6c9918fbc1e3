package dbs

import (
	"testing"

	"github.com/driftdb/core/iam"
)

func strPtr(s string) *string { return &s }

func TestNewDefaults(t *testing.T) {
	o := New()
	if !o.Perms || !o.Fields || !o.Events || !o.Tables || !o.Indexes {
		t.Fatal("expected perms/fields/events/tables/indexes on by default")
	}
	if o.Live || o.Force || o.Strict || o.Futures || o.Projections {
		t.Fatal("expected live/force/strict/futures/projections off by default")
	}
	if !o.AuthEnabled() {
		t.Fatal("expected auth enabled by default")
	}
	if !o.Auth().IsAnon() {
		t.Fatal("expected the default principal to be anonymous")
	}
}

func TestSelectedBase(t *testing.T) {
	root := New()
	base, err := root.SelectedBase()
	if err != nil || base.Kind != BaseRoot {
		t.Fatalf("expected Root, got %+v err=%v", base, err)
	}

	ns := root.WithNS(strPtr("demo"))
	base, err = ns.SelectedBase()
	if err != nil || base.Kind != BaseNS {
		t.Fatalf("expected NS, got %+v err=%v", base, err)
	}

	db := ns.WithDB(strPtr("main"))
	base, err = db.SelectedBase()
	if err != nil || base.Kind != BaseDB {
		t.Fatalf("expected DB, got %+v err=%v", base, err)
	}

	illegal := root.WithDB(strPtr("main"))
	if _, err := illegal.SelectedBase(); err == nil {
		t.Fatal("expected db-without-ns to error")
	}
}

func TestDiveExceedingBudgetErrors(t *testing.T) {
	o := New()
	var err error
	for i := 0; i < 10; i++ {
		o, err = o.Dive(20)
		if err != nil {
			break
		}
	}
	if err == nil {
		t.Fatal("expected the recursion budget to eventually be exceeded")
	}
}

func TestRealtimeRequiresLive(t *testing.T) {
	o := New()
	if err := o.Realtime(); err == nil {
		t.Fatal("expected Realtime to error when Live is false")
	}
	if err := o.WithLive(true).Realtime(); err != nil {
		t.Fatalf("expected Realtime to succeed when Live is true: %v", err)
	}
}

func TestValidForDBRequiresBothNSAndDB(t *testing.T) {
	o := New()
	if err := o.ValidForDB(); err == nil {
		t.Fatal("expected ValidForDB to fail with nothing selected")
	}
	if err := o.WithNS(strPtr("demo")).ValidForDB(); err == nil {
		t.Fatal("expected ValidForDB to fail with only a namespace selected")
	}
	if err := o.WithNS(strPtr("demo")).WithDB(strPtr("main")).ValidForDB(); err != nil {
		t.Fatalf("expected ValidForDB to succeed: %v", err)
	}
}

func TestIsAllowedShortCircuitsWhenAuthDisabledAndAnonymous(t *testing.T) {
	o := New().WithAuthEnabled(false)
	kind := iam.ResourceKind{Name: "table"}
	if err := o.IsAllowed(iam.Edit, kind, Base{Kind: BaseRoot}); err != nil {
		t.Fatalf("expected allowed: %v", err)
	}
}

func TestIsAllowedDeniesAnonymousWhenAuthEnabled(t *testing.T) {
	o := New()
	kind := iam.ResourceKind{Name: "table"}
	if err := o.IsAllowed(iam.Edit, kind, Base{Kind: BaseRoot}); err == nil {
		t.Fatal("expected the anonymous principal to be denied")
	}
}

func TestCheckPermsFastPathWithoutPerms(t *testing.T) {
	o := New().WithPerms(false)
	if o.CheckPerms(iam.View) {
		t.Fatal("expected CheckPerms to short-circuit false when Perms is off")
	}
}

func TestWithImportDisablesFieldsEventsTables(t *testing.T) {
	o := New().WithImport(true)
	if o.Fields || o.Events || o.Tables {
		t.Fatal("expected WithImport(true) to disable fields/events/tables")
	}
}

// fakeAuth is a minimal iam.Auth double for exercising CheckPerms
// across distinct principals bound to the same ns/db.
type fakeAuth struct {
	roles map[iam.Role]bool
	level iam.Resource
}

func (f fakeAuth) IsAnon() bool                 { return false }
func (f fakeAuth) IsRoot() bool                 { return f.level.Level == iam.LevelRoot }
func (f fakeAuth) IsNS() bool                   { return f.level.Level == iam.LevelNS }
func (f fakeAuth) IsDB() bool                   { return f.level.Level == iam.LevelDB }
func (f fakeAuth) Level() iam.Resource          { return f.level }
func (f fakeAuth) HasRole(r iam.Role) bool      { return f.roles[r] }
func (f fakeAuth) IsAllowed(iam.Action, iam.Resource) error { return nil }

func TestCheckPermsCacheDoesNotLeakAcrossPrincipals(t *testing.T) {
	ns, db := "demo", "main"
	level := iam.Resource{Level: iam.LevelDB, NS: ns, DB: db}

	viewer := fakeAuth{roles: map[iam.Role]bool{iam.Viewer: true}, level: level}
	stranger := fakeAuth{roles: map[iam.Role]bool{}, level: level}

	base := New().WithNS(&ns).WithDB(&db)

	viewerOpts := base.WithAuth(viewer)
	if viewerOpts.CheckPerms(iam.View) {
		t.Fatal("expected the viewer principal's View check to already be satisfied")
	}

	strangerOpts := base.WithAuth(stranger)
	if !strangerOpts.CheckPerms(iam.View) {
		t.Fatal("expected a principal without the Viewer role to still require a check, not inherit the viewer's cached result")
	}
}
