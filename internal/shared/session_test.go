package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "test_session", "secret", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.Authenticated() {
		t.Fatal("fresh session must be anonymous")
	}

	sess.Authenticate(7, 1, RoleManager)
	rec := httptest.NewRecorder()
	if err := sm.Commit(ctx, rec, req, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookies[0])
	reloaded, err := sm.Load(ctx, second)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Authenticated() {
		t.Fatal("reloaded session must be authenticated")
	}
	tenant := reloaded.Tenant()
	if tenant.UserID != 7 || tenant.OrgID != 1 || tenant.Role != RoleManager {
		t.Errorf("tenant = %+v", tenant)
	}
}

func TestSessionCookieTamperRejected(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.Authenticate(7, 1, RoleManager)
	rec := httptest.NewRecorder()
	if err := sm.Commit(ctx, rec, req, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cookie := rec.Result().Cookies()[0]

	forged := NewSessionManager(sm.client, "test_session", "other-secret", time.Hour, false)
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	reloaded, err := forged.Load(ctx, second)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Authenticated() {
		t.Fatal("cookie signed with a different secret must not authenticate")
	}

	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	bare.AddCookie(&http.Cookie{Name: "test_session", Value: sess.ID})
	reloaded, err = sm.Load(ctx, bare)
	if err != nil {
		t.Fatalf("reload bare id: %v", err)
	}
	if reloaded.Authenticated() {
		t.Fatal("unsigned session id must not authenticate")
	}
}

func TestSessionDestroy(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.Authenticate(7, 1, RoleRep)
	rec := httptest.NewRecorder()
	if err := sm.Commit(ctx, rec, req, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cookie := rec.Result().Cookies()[0]

	sm.Destroy(sess)
	rec = httptest.NewRecorder()
	if err := sm.Commit(ctx, rec, req, sess); err != nil {
		t.Fatalf("destroy commit: %v", err)
	}
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Fatalf("destroy must clear the cookie: %+v", cleared)
	}

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	reloaded, err := sm.Load(ctx, second)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Authenticated() {
		t.Fatal("destroyed session must not authenticate")
	}
}

func TestRolePermissions(t *testing.T) {
	if !RoleManager.SeesWholeTeam() {
		t.Error("manager must see the whole team")
	}
	if RoleRep.SeesWholeTeam() || RoleSetter.SeesWholeTeam() {
		t.Error("rep and setter must be pinned to their own records")
	}
	if RoleManager.Has(PermReportSubmit) {
		t.Error("managers do not submit daily reports")
	}
	if !RoleRep.Has(PermMetricsExport) {
		t.Error("reps may export their own metrics")
	}
	if RoleSetter.Has(PermMetricsExport) {
		t.Error("setters may not export")
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole(" Manager "); !ok || role != RoleManager {
		t.Errorf("ParseRole manager = %q %v", role, ok)
	}
	if _, ok := ParseRole("admin"); ok {
		t.Error("unknown role must not parse")
	}
}
