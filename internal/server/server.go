// Package server exposes program execution as the gRPC service
// jsmm.Runner. Requests and responses are google.protobuf.Struct messages,
// so the service needs no generated code.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/funvibe/jsmm/internal/backend"
	"github.com/funvibe/jsmm/internal/config"
	"github.com/funvibe/jsmm/internal/diagnostics"
	"github.com/funvibe/jsmm/internal/evaluator"
	"github.com/funvibe/jsmm/internal/exercise"
	"github.com/funvibe/jsmm/internal/message"
	"github.com/funvibe/jsmm/internal/parser"
	"github.com/funvibe/jsmm/internal/store"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "jsmm.Runner"

// DefaultTimeout bounds a single run when the request sets none.
const DefaultTimeout = 5 * time.Second

// RunnerServer is the service implementation.
type RunnerServer interface {
	Run(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Check(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// Server implements RunnerServer. Runs are recorded when a store is set.
// The raw strategy enforces no command restrictions, so Run rejects it
// unless AllowRaw is set.
type Server struct {
	store    *store.Store
	logger   *slog.Logger
	Timeout  time.Duration
	AllowRaw bool
}

// New creates a server. st may be nil, which disables History.
func New(st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: st, logger: logger, Timeout: DefaultTimeout}
}

type unaryMethod func(RunnerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RunnerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(RunnerServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// ServiceDesc describes jsmm.Runner for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RunnerServer)(nil),
	Methods: []grpc.MethodDesc{
		handler("Run", RunnerServer.Run),
		handler("Check", RunnerServer.Check),
		handler("History", RunnerServer.History),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jsmm/runner",
}

// Register adds the service to g.
func (s *Server) Register(g *grpc.Server) {
	g.RegisterService(&ServiceDesc, s)
}

// Serve runs a gRPC server on lis until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	g := grpc.NewServer(grpc.UnaryInterceptor(s.logCalls))
	s.Register(g)

	go func() {
		<-ctx.Done()
		g.GracefulStop()
	}()

	s.logger.Info("serving", "service", ServiceName, "addr", lis.Addr().String())
	if err := g.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *Server) logCalls(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := next(ctx, req)
	if err != nil {
		s.logger.Error("call failed", "method", info.FullMethod, "code", status.Code(err).String(), "error", err)
	} else {
		s.logger.Debug("call", "method", info.FullMethod, "duration", time.Since(start))
	}
	return resp, err
}

// Run executes a program. Request fields: code, strategy, commands, deny,
// steps (statement budget). The response carries output, error, steps,
// commands and, when runs are recorded, run_id.
func (s *Server) Run(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	code, err := stringField(fields, "code")
	if err != nil {
		return nil, err
	}
	strategy, err := stringField(fields, "strategy")
	if err != nil {
		return nil, err
	}
	commands, err := stringsField(fields, "commands")
	if err != nil {
		return nil, err
	}
	deny, err := stringsField(fields, "deny")
	if err != nil {
		return nil, err
	}
	budget, err := intField(fields, "steps")
	if err != nil {
		return nil, err
	}

	cfg, err := exercise.New("request", strategy, commands, deny)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if cfg.Strategy == config.StrategyRaw && !s.AllowRaw {
		return nil, status.Error(codes.InvalidArgument, "the raw strategy is disabled on this server")
	}
	if budget > 0 {
		cfg.Limits.Steps = budget
	}
	b, err := backend.ForStrategy(cfg.Strategy)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	runCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	out, err := backend.Execute(b, backend.Request{
		Context: runCtx,
		Path:    "request.js",
		Source:  code,
		Options: cfg.Options(),
		Hosts:   cfg.Hosts,
	})
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp := map[string]interface{}{
		"output":   out.Console.Output(),
		"error":    errorValue(out),
		"steps":    []interface{}{},
		"commands": []interface{}{},
	}
	if out.Result != nil {
		resp["steps"] = stepsValue(out.Result.Steps)
		resp["commands"] = commandsValue(out.Result.Commands)
		resp["statements"] = out.Result.Statements
	}

	if s.store != nil {
		run := store.FromOutcome(b.Name(), code, out)
		var steps []evaluator.Step
		if out.Result != nil {
			steps = out.Result.Steps
		}
		if err := s.store.Save(ctx, run, steps); err != nil {
			s.logger.Error("saving run failed", "error", err)
			return nil, status.Error(codes.Internal, err.Error())
		}
		resp["run_id"] = run.ID
	}

	return structpb.NewStruct(resp)
}

// Check parses code without running it. The response has ok and, for
// programs that do not parse, error.
func (s *Server) Check(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	code, err := stringField(req.GetFields(), "code")
	if err != nil {
		return nil, err
	}
	resp := map[string]interface{}{"ok": true}
	if _, err := parser.Parse("request.js", code); err != nil {
		resp["ok"] = false
		var d *diagnostics.DiagnosticError
		if !errors.As(err, &d) {
			return nil, status.Error(codes.Internal, err.Error())
		}
		resp["error"] = syntaxValue(d)
	}
	return structpb.NewStruct(resp)
}

// History lists recorded runs, newest first. Request field: limit.
func (s *Server) History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.store == nil {
		return nil, status.Error(codes.Unimplemented, "run history is disabled")
	}
	limit, err := intField(req.GetFields(), "limit")
	if err != nil {
		return nil, err
	}
	runs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	list := make([]interface{}, 0, len(runs))
	for _, r := range runs {
		list = append(list, map[string]interface{}{
			"id":            r.ID,
			"strategy":      r.Strategy,
			"source":        r.Source,
			"output":        r.Output,
			"error_class":   r.ErrorClass,
			"error_message": r.ErrorMessage,
			"statements":    r.Statements,
			"created_at":    r.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return structpb.NewStruct(map[string]interface{}{"runs": list})
}

func errorValue(out *backend.Outcome) interface{} {
	if d := out.SyntaxError(); d != nil {
		return syntaxValue(d)
	}
	e := out.Err()
	if e == nil {
		return nil
	}
	return map[string]interface{}{
		"class":   string(e.Class),
		"message": message.Plain(e.Message),
		"html":    e.HTML(),
		"node":    int(e.NodeID),
		"line":    e.Line,
		"column":  e.Column,
	}
}

func syntaxValue(d *diagnostics.DiagnosticError) map[string]interface{} {
	return map[string]interface{}{
		"class":   store.SyntaxErrorClass,
		"message": message.Plain(d.Message),
		"line":    d.Token.Line,
		"column":  d.Token.Column,
	}
}

func stepsValue(steps []evaluator.Step) []interface{} {
	list := make([]interface{}, 0, len(steps))
	for _, st := range steps {
		fragments := make([]interface{}, 0, len(st.Fragments))
		for _, f := range st.Fragments {
			fragments = append(fragments, map[string]interface{}{
				"node":     int(f.NodeID),
				"category": string(f.Category),
				"message":  message.Plain(f.Message),
			})
		}
		stack := make([]interface{}, 0, len(st.Stack))
		for _, label := range st.Stack {
			stack = append(stack, label)
		}
		list = append(list, map[string]interface{}{"fragments": fragments, "stack": stack})
	}
	return list
}

func commandsValue(cmds []evaluator.Command) []interface{} {
	list := make([]interface{}, 0, len(cmds))
	for _, c := range cmds {
		list = append(list, map[string]interface{}{"node": int(c.NodeID), "tag": c.Tag})
	}
	return list
}

func stringField(fields map[string]*structpb.Value, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return "", nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", key)
	}
	return sv.StringValue, nil
}

func stringsField(fields map[string]*structpb.Value, key string) ([]string, error) {
	v, ok := fields[key]
	if !ok {
		return nil, nil
	}
	lv, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "%s must be a list of strings", key)
	}
	out := make([]string, 0, len(lv.ListValue.GetValues()))
	for i, item := range lv.ListValue.GetValues() {
		sv, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "%s[%d] must be a string", key, i)
		}
		out = append(out, sv.StringValue)
	}
	return out, nil
}

func intField(fields map[string]*structpb.Value, key string) (int, error) {
	v, ok := fields[key]
	if !ok {
		return 0, nil
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", key)
	}
	n := nv.NumberValue
	if n < 0 || n != float64(int(n)) {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a non-negative integer", key)
	}
	return int(n), nil
}

// Client calls a remote jsmm.Runner.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]interface{}) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Run calls Runner.Run.
func (c *Client) Run(ctx context.Context, req map[string]interface{}) (*structpb.Struct, error) {
	return c.invoke(ctx, "Run", req)
}

// Check calls Runner.Check.
func (c *Client) Check(ctx context.Context, code string) (*structpb.Struct, error) {
	return c.invoke(ctx, "Check", map[string]interface{}{"code": code})
}

// History calls Runner.History.
func (c *Client) History(ctx context.Context, limit int) (*structpb.Struct, error) {
	return c.invoke(ctx, "History", map[string]interface{}{"limit": limit})
}
