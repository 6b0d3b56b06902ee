package apidocs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/torna-mcp/internal/domain"
	"github.com/kailas-cloud/torna-mcp/internal/domain/doctree"
	"github.com/kailas-cloud/torna-mcp/internal/domain/module"
	"github.com/kailas-cloud/torna-mcp/internal/logger"
)

// --- Mocks ---

type mockUpstream struct {
	modules    []module.Module
	modulesErr error
	docs       map[string][]doctree.Node
	docsErr    map[string]error
	detail     *doctree.Node
	detailErr  error
	project    json.RawMessage

	modulesCalls []string
	docsCalls    []string
	detailCalls  int
	projectCalls []string
}

func (m *mockUpstream) ListModules(_ context.Context, projectID string) ([]module.Module, error) {
	m.modulesCalls = append(m.modulesCalls, projectID)
	return m.modules, m.modulesErr
}

func (m *mockUpstream) ListDocs(_ context.Context, moduleID string) ([]doctree.Node, error) {
	m.docsCalls = append(m.docsCalls, moduleID)
	if err := m.docsErr[moduleID]; err != nil {
		return nil, err
	}
	return m.docs[moduleID], nil
}

func (m *mockUpstream) DocDetail(_ context.Context, _ string) (*doctree.Node, error) {
	m.detailCalls++
	return m.detail, m.detailErr
}

func (m *mockUpstream) ProjectInfo(_ context.Context, projectID string) (json.RawMessage, error) {
	m.projectCalls = append(m.projectCalls, projectID)
	return m.project, nil
}

// --- Helpers ---

func leaf(id, name, moduleID string) doctree.Node {
	return doctree.Node{ID: id, Name: name, ModuleID: moduleID, URL: "/" + strings.ToLower(name)}
}

func threeModules() *mockUpstream {
	return &mockUpstream{
		modules: []module.Module{
			module.New("m1", "Users"),
			module.New("m2", "Orders"),
			module.New("m3", "Billing"),
		},
		docs: map[string][]doctree.Node{
			"m1": {
				{ID: "f1", Name: "Auth", IsFolder: true},
				{ID: "d1", Name: "UserLogin", ModuleID: "m1"},
				{ID: "d2", Name: "UserLogout", ModuleID: "m1"},
			},
			"m2": {leaf("d3", "CreateOrder", "m2")},
			"m3": {leaf("d4", "PayInvoice", "m3")},
		},
	}
}

func newService(up Upstream) *Service {
	return New(up, Config{DefaultProjectID: "p-default"}, zap.NewNop())
}

// --- Search ---

func TestSearch_KeywordCaseInsensitive(t *testing.T) {
	svc := newService(threeModules())

	res, err := svc.Search(context.Background(), "LOGIN", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	doc, ok := res.Document()
	if !ok {
		t.Fatalf("expected single match, got message %q with %d apis", res.Message(), len(res.APIs()))
	}
	if doc.Name != "UserLogin" {
		t.Errorf("expected UserLogin, got %q", doc.Name)
	}
}

func TestSearch_BlankKeywordReturnsAll(t *testing.T) {
	svc := newService(threeModules())

	for _, kw := range []string{"", "   "} {
		res, err := svc.Search(context.Background(), kw, "p1")
		if err != nil {
			t.Fatalf("Search(%q): %v", kw, err)
		}
		if len(res.APIs()) != 4 {
			t.Errorf("Search(%q): expected 4 apis, got %d", kw, len(res.APIs()))
		}
		if !strings.Contains(res.Message(), "4") {
			t.Errorf("message %q should mention 4", res.Message())
		}
	}
}

func TestSearch_FolderChildrenFollowTreeWalk(t *testing.T) {
	up := &mockUpstream{
		modules: []module.Module{module.New("m1", "Users")},
		docs: map[string][]doctree.Node{
			"m1": {
				{ID: "f1", Name: "Auth", IsFolder: true},
				{ID: "d1", Name: "UserLogin", ParentID: "f1"},
				{ID: "d2", Name: "Health"},
			},
		},
	}

	res, err := newService(up).Search(context.Background(), "login", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// d1 is emitted where f1 expands and again at its own position.
	if len(res.APIs()) != 2 || res.APIs()[0].Name != "UserLogin" || res.APIs()[1].Name != "UserLogin" {
		t.Fatalf("expected UserLogin twice, got message %q with %d apis", res.Message(), len(res.APIs()))
	}
}

func TestSearch_NoMatch(t *testing.T) {
	svc := newService(threeModules())

	res, err := svc.Search(context.Background(), "nothing-like-this", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, ok := res.Document(); ok {
		t.Fatal("expected list variant")
	}
	if res.APIs() == nil || len(res.APIs()) != 0 {
		t.Errorf("expected empty apis, got %v", res.APIs())
	}
}

func TestSearch_NoModules(t *testing.T) {
	up := &mockUpstream{}
	svc := newService(up)

	res, err := svc.Search(context.Background(), "user", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Message() != "no modules found" {
		t.Errorf("message = %q", res.Message())
	}
	if len(up.docsCalls) != 0 {
		t.Errorf("expected no doc fetches, got %v", up.docsCalls)
	}
}

func TestSearch_DefaultProject(t *testing.T) {
	up := threeModules()
	svc := newService(up)

	if _, err := svc.Search(context.Background(), "", ""); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := svc.Search(context.Background(), "", "p-explicit"); err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []string{"p-default", "p-explicit"}
	for i, p := range want {
		if up.modulesCalls[i] != p {
			t.Errorf("call %d: projectId = %q, want %q", i, up.modulesCalls[i], p)
		}
	}
}

func TestSearch_NoProjectConfigured(t *testing.T) {
	up := threeModules()
	svc := New(up, Config{}, nil)

	_, err := svc.Search(context.Background(), "", "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(up.modulesCalls) != 0 {
		t.Error("expected no upstream call")
	}
}

func TestSearch_OneModuleFailureIsSkipped(t *testing.T) {
	up := threeModules()
	up.docsErr = map[string]error{"m2": errors.New("connection reset")}

	core, logs := observer.New(zapcore.ErrorLevel)
	svc := New(up, Config{DefaultProjectID: "p1"}, zap.New(core))

	res, err := svc.Search(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.APIs()) != 3 {
		t.Fatalf("expected 3 apis from the other two modules, got %d", len(res.APIs()))
	}
	for _, d := range res.APIs() {
		if d.Name == "CreateOrder" {
			t.Error("failed module contributed documents")
		}
	}
	if logs.FilterMessage("fetch module docs failed, skipping").Len() != 1 {
		t.Error("expected the failed module to be logged")
	}
}

func TestSearch_ModuleWithoutIDIsSkipped(t *testing.T) {
	up := threeModules()
	up.modules = append(up.modules, module.New("", "Broken"))
	svc := newService(up)

	if _, err := svc.Search(context.Background(), "", ""); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(up.docsCalls) != 3 {
		t.Errorf("expected 3 doc fetches, got %v", up.docsCalls)
	}
}

func TestSearch_AllModulesFail(t *testing.T) {
	up := threeModules()
	up.docsErr = map[string]error{
		"m1": errors.New("boom"),
		"m2": errors.New("boom"),
		"m3": errors.New("boom"),
	}
	svc := newService(up)

	_, err := svc.Search(context.Background(), "", "")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestSearch_ModulesError(t *testing.T) {
	up := &mockUpstream{modulesErr: domain.NewUpstreamError("1", "bad token")}
	svc := newService(up)

	_, err := svc.Search(context.Background(), "x", "")
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.Message != "bad token" {
		t.Fatalf("expected upstream error carrying message, got %v", err)
	}
}

func TestSearch_PrefersContextLogger(t *testing.T) {
	up := &mockUpstream{}
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.WithRequest(context.Background(), zap.New(core), "req-1")

	if _, err := newService(up).Search(ctx, "", ""); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if logs.FilterMessage("project has no modules").Len() != 1 {
		t.Error("expected the request-scoped logger to be used")
	}
}

// --- ListAll ---

func TestListAll_TagsModuleNames(t *testing.T) {
	up := threeModules()
	up.docs["m3"] = []doctree.Node{
		{ID: "d4", Name: "PayInvoice"},
		{ID: "d5", Name: "Foreign", ModuleID: "m-unknown", Deprecated: "$true$"},
	}
	svc := newService(up)

	got, err := svc.ListAll(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 summaries, got %d", len(got))
	}

	byID := map[string]string{}
	for _, s := range got {
		byID[s.ID] = s.ModuleName
	}
	if byID["d1"] != "Users" || byID["d3"] != "Orders" {
		t.Errorf("module names: %v", byID)
	}
	if byID["d4"] != "Billing" {
		t.Errorf("leaf without moduleId should use owning module, got %q", byID["d4"])
	}
	if byID["d5"] != "" {
		t.Errorf("unknown module id should map to empty name, got %q", byID["d5"])
	}
	if !got[4].Deprecated || got[0].Deprecated {
		t.Error("deprecated flag mapped wrong")
	}
	if got[0].HTTPMethod != "GET" {
		t.Errorf("method default = %q", got[0].HTTPMethod)
	}
}

func TestListAll_Limit(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		limit int
		want  int
	}{
		{"explicit", Config{DefaultProjectID: "p"}, 2, 2},
		{"zero falls back", Config{DefaultProjectID: "p", DefaultLimit: 3}, 0, 3},
		{"negative falls back", Config{DefaultProjectID: "p"}, -5, 4},
		{"larger than total", Config{DefaultProjectID: "p"}, 50, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(threeModules(), tc.cfg, nil)
			got, err := svc.ListAll(context.Background(), "", tc.limit)
			if err != nil {
				t.Fatalf("ListAll: %v", err)
			}
			if len(got) != tc.want {
				t.Errorf("expected %d, got %d", tc.want, len(got))
			}
		})
	}
}

func TestListAll_OrderAcrossModules(t *testing.T) {
	svc := newService(threeModules())

	got, err := svc.ListAll(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	want := []string{"d1", "d2", "d3", "d4"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestListAll_NoModules(t *testing.T) {
	got, err := newService(&mockUpstream{}).ListAll(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %v", got)
	}
}

func TestListAll_OneOfThreeFails(t *testing.T) {
	up := threeModules()
	up.docsErr = map[string]error{"m1": errors.New("timeout")}

	got, err := newService(up).ListAll(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
}

// --- Detail ---

func TestDetail_EmptyIDFailsWithoutCall(t *testing.T) {
	up := &mockUpstream{}
	svc := newService(up)

	for _, id := range []string{"", "  "} {
		_, err := svc.Detail(context.Background(), id)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Detail(%q): expected ErrValidation, got %v", id, err)
		}
	}
	if up.detailCalls != 0 {
		t.Errorf("expected no upstream call, got %d", up.detailCalls)
	}
}

func TestDetail_Normalizes(t *testing.T) {
	up := &mockUpstream{detail: &doctree.Node{
		ID: "d1", Name: "Login", HTTPMethod: "POST", URL: "/login",
		ResponseParams: []doctree.Param{
			{ID: "1", Name: "data", Type: "object"},
			{ID: "2", ParentID: "1", Name: "token"},
		},
	}}

	doc, err := newService(up).Detail(context.Background(), "d1")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if doc.Method != "POST" || doc.ContentType != "application/json" {
		t.Errorf("unexpected doc: %+v", doc)
	}
	if len(doc.Response.Params) != 1 || len(doc.Response.Params[0].Children) != 1 {
		t.Fatalf("response tree not rebuilt: %+v", doc.Response.Params)
	}
}

func TestDetail_NullDocument(t *testing.T) {
	doc, err := newService(&mockUpstream{}).Detail(context.Background(), "d1")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if doc.Message == "" || doc.Method != "GET" {
		t.Errorf("expected defaulted document with message, got %+v", doc)
	}
}

func TestDetail_UpstreamError(t *testing.T) {
	up := &mockUpstream{detailErr: domain.NewUpstreamError("404", "doc not found")}

	_, err := newService(up).Detail(context.Background(), "d1")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if !strings.Contains(err.Error(), "doc not found") {
		t.Errorf("error should carry upstream message: %v", err)
	}
}

// --- ProjectInfo ---

func TestProjectInfo_DefaultProject(t *testing.T) {
	up := &mockUpstream{project: json.RawMessage(`{"name":"Shop"}`)}

	info, err := newService(up).ProjectInfo(context.Background(), "")
	if err != nil {
		t.Fatalf("ProjectInfo: %v", err)
	}
	if string(info) != `{"name":"Shop"}` {
		t.Errorf("info = %s", info)
	}
	if len(up.projectCalls) != 1 || up.projectCalls[0] != "p-default" {
		t.Errorf("project calls = %v", up.projectCalls)
	}
}

// --- Modules ---

func TestModules(t *testing.T) {
	up := threeModules()

	mods, err := newService(up).Modules(context.Background(), "p7")
	if err != nil {
		t.Fatalf("Modules: %v", err)
	}
	if len(mods) != 3 || mods[1].Name() != "Orders" {
		t.Errorf("unexpected modules: %+v", mods)
	}
	if len(up.modulesCalls) != 1 || up.modulesCalls[0] != "p7" {
		t.Errorf("modules calls = %v", up.modulesCalls)
	}
	if len(up.docsCalls) != 0 {
		t.Errorf("docs should not be fetched, got %v", up.docsCalls)
	}
}

func TestModules_Error(t *testing.T) {
	up := &mockUpstream{modulesErr: domain.NewUpstreamError("500", "boom")}

	_, err := newService(up).Modules(context.Background(), "")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
