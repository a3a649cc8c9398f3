package llm

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region wire
// The codec service exchanges google.protobuf.Struct messages so that any
// inference server can implement it without sharing generated stubs.
const (
	codecServiceName    = "triage.v1.CodecService"
	codecCompleteMethod = "/" + codecServiceName + "/Complete"
)

// #endregion wire

// #region client-struct
// CodecClient wraps the gRPC connection to a self-hosted inference service.
type CodecClient struct {
	conn  *grpc.ClientConn
	cc    grpc.ClientConnInterface
	model string
}

// #endregion client-struct

// #region constructor
// NewCodecClient connects to the inference gRPC server.
func NewCodecClient(addr, model string) (*CodecClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &CodecClient{conn: conn, cc: conn, model: model}, nil
}

// NewCodecClientWithConn creates a CodecClient over an existing connection.
// The caller keeps ownership of cc.
func NewCodecClientWithConn(cc grpc.ClientConnInterface, model string) *CodecClient {
	return &CodecClient{cc: cc, model: model}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection if the client owns one.
func (c *CodecClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region complete
// Complete sends the prompt pair to the inference service.
func (c *CodecClient) Complete(ctx context.Context, req Request) (string, error) {
	in, err := structpb.NewStruct(map[string]any{
		"model":       c.model,
		"system":      req.System,
		"prompt":      req.User,
		"temperature": req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode complete request: %w", err)
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, codecCompleteMethod, in, out); err != nil {
		return "", fmt.Errorf("complete rpc: %w", err)
	}

	text := out.GetFields()["text"].GetStringValue()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// #endregion complete

// #region server
// CodecServer is implemented by inference services that serve Complete.
type CodecServer interface {
	Complete(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterCodecServer exposes srv on s under the codec service name.
func RegisterCodecServer(s grpc.ServiceRegistrar, srv CodecServer) {
	s.RegisterService(&codecServiceDesc, srv)
}

var codecServiceDesc = grpc.ServiceDesc{
	ServiceName: codecServiceName,
	HandlerType: (*CodecServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Complete", Handler: codecCompleteHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "triage/v1/codec.proto",
}

func codecCompleteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CodecServer).Complete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: codecCompleteMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CodecServer).Complete(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion server
