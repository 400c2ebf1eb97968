package server

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/funvibe/jsmm/internal/store"
)

func startServer(t *testing.T, st *store.Store) *Client {
	t.Helper()
	return serve(t, New(st, nil))
}

func serve(t *testing.T, srv *Server) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Serve: %v", err)
		}
	})
	return NewClient(conn)
}

func memoryStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRun(t *testing.T) {
	client := startServer(t, memoryStore(t))
	ctx := context.Background()

	resp, err := client.Run(ctx, map[string]interface{}{
		"code":     "var a = 2;\nconsole.log(a * 3);",
		"strategy": "step",
	})
	if err != nil {
		t.Fatal(err)
	}
	f := resp.GetFields()
	if got := f["output"].GetStringValue(); got != "6\n" {
		t.Errorf("output = %q", got)
	}
	if _, isNull := f["error"].GetKind().(*structpb.Value_NullValue); !isNull {
		t.Errorf("error = %v", f["error"])
	}
	if len(f["steps"].GetListValue().GetValues()) == 0 {
		t.Error("stepped run returned no steps")
	}
	if f["run_id"].GetStringValue() == "" {
		t.Error("run was not recorded")
	}
}

func TestRunError(t *testing.T) {
	client := startServer(t, nil)

	tests := []struct {
		name  string
		req   map[string]interface{}
		class string
	}{
		{"runtime", map[string]interface{}{"code": "console.log(1 / 0);"}, "ValueError"},
		{"syntax", map[string]interface{}{"code": "var a = ;"}, "SyntaxError"},
		{"policy", map[string]interface{}{"code": "var i = 0;\nwhile (i < 2) {\n  i++;\n}", "deny": []interface{}{"while"}}, "PolicyError"},
		{"budget", map[string]interface{}{"code": "while (true) {\n}", "steps": 10}, "LimitError"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Run(context.Background(), tt.req)
			if err != nil {
				t.Fatal(err)
			}
			e := resp.GetFields()["error"].GetStructValue()
			if e == nil {
				t.Fatal("no error in response")
			}
			if got := e.GetFields()["class"].GetStringValue(); got != tt.class {
				t.Errorf("class = %q, want %q", got, tt.class)
			}
			if _, ok := resp.GetFields()["run_id"]; ok {
				t.Error("run_id without a store")
			}
		})
	}
}

func TestInvalidArgument(t *testing.T) {
	client := startServer(t, nil)

	tests := []struct {
		name string
		req  map[string]interface{}
	}{
		{"code not a string", map[string]interface{}{"code": 5}},
		{"unknown strategy", map[string]interface{}{"code": "", "strategy": "turbo"}},
		{"commands not a list", map[string]interface{}{"code": "", "commands": "jsmm"}},
		{"command not a string", map[string]interface{}{"code": "", "commands": []interface{}{1}}},
		{"negative steps", map[string]interface{}{"code": "", "steps": -1}},
		{"raw strategy", map[string]interface{}{"code": "console.log(1);", "strategy": "raw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Run(context.Background(), tt.req)
			if status.Code(err) != codes.InvalidArgument {
				t.Errorf("code = %v, want InvalidArgument (err %v)", status.Code(err), err)
			}
		})
	}
}

func TestAllowRaw(t *testing.T) {
	srv := New(nil, nil)
	srv.AllowRaw = true
	client := serve(t, srv)

	resp, err := client.Run(context.Background(), map[string]interface{}{
		"code":     "if (1) {\n  console.log(\"yes\");\n}",
		"strategy": "raw",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.GetFields()["output"].GetStringValue(); got != "yes\n" {
		t.Errorf("output = %q", got)
	}
}

func TestCheck(t *testing.T) {
	client := startServer(t, nil)

	resp, err := client.Check(context.Background(), "console.log(1 / 0);")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.GetFields()["ok"].GetBoolValue() {
		t.Error("valid program reported as broken")
	}

	resp, err = client.Check(context.Background(), "var a = ;")
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetFields()["ok"].GetBoolValue() {
		t.Error("broken program reported as valid")
	}
	e := resp.GetFields()["error"].GetStructValue().GetFields()
	if e["line"].GetNumberValue() != 1 || e["message"].GetStringValue() == "" {
		t.Errorf("error = %v", e)
	}
}

func TestHistory(t *testing.T) {
	client := startServer(t, memoryStore(t))
	ctx := context.Background()

	for _, code := range []string{"console.log(1);", "console.log(2);", "console.log(3);"} {
		if _, err := client.Run(ctx, map[string]interface{}{"code": code}); err != nil {
			t.Fatal(err)
		}
	}
	resp, err := client.History(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	runs := resp.GetFields()["runs"].GetListValue().GetValues()
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	for _, r := range runs {
		if r.GetStructValue().GetFields()["strategy"].GetStringValue() != "safe" {
			t.Errorf("run = %v", r)
		}
	}
}

func TestHistoryDisabled(t *testing.T) {
	client := startServer(t, nil)
	_, err := client.History(context.Background(), 1)
	if status.Code(err) != codes.Unimplemented {
		t.Errorf("code = %v, want Unimplemented", status.Code(err))
	}
}
