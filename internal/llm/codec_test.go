package llm

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region mock
type fakeCodecServer struct {
	text string
	err  error
	last *structpb.Struct
}

func (f *fakeCodecServer) Complete(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return structpb.NewStruct(map[string]any{"text": f.text})
}

type mockConn struct {
	grpc.ClientConnInterface
	err error
}

func (m *mockConn) Invoke(_ context.Context, _ string, _, _ any, _ ...grpc.CallOption) error {
	return m.err
}

func startCodecServer(t *testing.T, srv CodecServer) *CodecClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterCodecServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewCodecClientWithConn(conn, "local-model")
}

// #endregion mock

// #region constructor-tests
func TestNewCodecClient_LazyDial(t *testing.T) {
	client, err := NewCodecClient("localhost:0", "m")
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestCodecClientWithConn_CloseIsNoop(t *testing.T) {
	c := NewCodecClientWithConn(&mockConn{}, "m")
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

// #endregion constructor-tests

// #region complete-tests
func TestCodecComplete_Success(t *testing.T) {
	srv := &fakeCodecServer{text: "support_request"}
	c := startCodecServer(t, srv)

	got, err := c.Complete(context.Background(), Request{System: "sys", User: "classify this", Temperature: 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "support_request" {
		t.Errorf("expected 'support_request', got %q", got)
	}

	fields := srv.last.GetFields()
	if fields["model"].GetStringValue() != "local-model" {
		t.Errorf("model not forwarded: %v", fields["model"])
	}
	if fields["system"].GetStringValue() != "sys" {
		t.Errorf("system not forwarded: %v", fields["system"])
	}
	if fields["prompt"].GetStringValue() != "classify this" {
		t.Errorf("prompt not forwarded: %v", fields["prompt"])
	}
	if fields["temperature"].GetNumberValue() != 0.5 {
		t.Errorf("temperature not forwarded: %v", fields["temperature"])
	}
}

func TestCodecComplete_ServerError(t *testing.T) {
	c := startCodecServer(t, &fakeCodecServer{err: status.Error(codes.Unavailable, "model loading")})

	_, err := c.Complete(context.Background(), Request{User: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if status.Code(errors.Unwrap(err)) != codes.Unavailable {
		t.Errorf("expected Unavailable, got %v", err)
	}
}

func TestCodecComplete_EmptyText(t *testing.T) {
	c := startCodecServer(t, &fakeCodecServer{text: ""})

	_, err := c.Complete(context.Background(), Request{User: "x"})
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestCodecComplete_InvokeError(t *testing.T) {
	mock := &mockConn{err: errors.New("rpc failed")}
	c := NewCodecClientWithConn(mock, "m")

	_, err := c.Complete(context.Background(), Request{User: "x"})
	if !errors.Is(err, mock.err) {
		t.Errorf("expected wrapped rpc error, got: %v", err)
	}
}

// #endregion complete-tests
