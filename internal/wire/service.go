package wire

import (
	"context"

	"google.golang.org/grpc"
)

// serviceName is the gRPC full method prefix, standing in for the
// package.Service name a .proto file would declare.
const serviceName = "packetstream.StreamService"

// StreamServiceClient is the client half of the stream service, shaped the
// way protoc-gen-go-grpc would emit it from a StreamService proto service.
type StreamServiceClient interface {
	SendOnePacket(ctx context.Context, in *SendOnePacketRequest, opts ...grpc.CallOption) (*SendOnePacketResponse, error)
	SendPackets(ctx context.Context, opts ...grpc.CallOption) (StreamService_SendPacketsClient, error)
	ReceiveOnePacket(ctx context.Context, in *ReceiveOnePacketRequest, opts ...grpc.CallOption) (*ReceiveOnePacketResponse, error)
	ReceivePackets(ctx context.Context, in *ReceivePacketsRequest, opts ...grpc.CallOption) (StreamService_ReceivePacketsClient, error)
	ReplayStream(ctx context.Context, in *ReplayStreamRequest, opts ...grpc.CallOption) (StreamService_ReplayStreamClient, error)
}

type streamServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewStreamServiceClient wraps a dialed connection with typed stream
// service calls, each pinned to this package's JSON content-subtype.
func NewStreamServiceClient(cc grpc.ClientConnInterface) StreamServiceClient {
	return &streamServiceClient{cc: cc}
}

func callOpts(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *streamServiceClient) SendOnePacket(ctx context.Context, in *SendOnePacketRequest, opts ...grpc.CallOption) (*SendOnePacketResponse, error) {
	out := new(SendOnePacketResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/SendOnePacket", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *streamServiceClient) SendPackets(ctx context.Context, opts ...grpc.CallOption) (StreamService_SendPacketsClient, error) {
	stream, err := c.cc.NewStream(ctx, &streamServiceSendPacketsDesc, "/"+serviceName+"/SendPackets", callOpts(opts)...)
	if err != nil {
		return nil, err
	}
	return &streamServiceSendPacketsClient{stream}, nil
}

func (c *streamServiceClient) ReceiveOnePacket(ctx context.Context, in *ReceiveOnePacketRequest, opts ...grpc.CallOption) (*ReceiveOnePacketResponse, error) {
	out := new(ReceiveOnePacketResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/ReceiveOnePacket", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *streamServiceClient) ReceivePackets(ctx context.Context, in *ReceivePacketsRequest, opts ...grpc.CallOption) (StreamService_ReceivePacketsClient, error) {
	stream, err := c.cc.NewStream(ctx, &streamServiceReceivePacketsDesc, "/"+serviceName+"/ReceivePackets", callOpts(opts)...)
	if err != nil {
		return nil, err
	}
	x := &streamServiceReceivePacketsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *streamServiceClient) ReplayStream(ctx context.Context, in *ReplayStreamRequest, opts ...grpc.CallOption) (StreamService_ReplayStreamClient, error) {
	stream, err := c.cc.NewStream(ctx, &streamServiceReplayStreamDesc, "/"+serviceName+"/ReplayStream", callOpts(opts)...)
	if err != nil {
		return nil, err
	}
	x := &streamServiceReplayStreamClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// StreamService_SendPacketsClient is the client-streaming handle for
// SendPackets: the caller sends any number of requests then closes the
// stream to receive the final ack.
type StreamService_SendPacketsClient interface {
	Send(*SendPacketsRequest) error
	CloseAndRecv() (*SendPacketsResponse, error)
	grpc.ClientStream
}

type streamServiceSendPacketsClient struct {
	grpc.ClientStream
}

func (x *streamServiceSendPacketsClient) Send(m *SendPacketsRequest) error {
	return x.ClientStream.SendMsg(m)
}

func (x *streamServiceSendPacketsClient) CloseAndRecv() (*SendPacketsResponse, error) {
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	m := new(SendPacketsResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// StreamService_ReceivePacketsClient is the server-streaming handle for
// ReceivePackets.
type StreamService_ReceivePacketsClient interface {
	Recv() (*ReceivePacketsResponse, error)
	grpc.ClientStream
}

type streamServiceReceivePacketsClient struct {
	grpc.ClientStream
}

func (x *streamServiceReceivePacketsClient) Recv() (*ReceivePacketsResponse, error) {
	m := new(ReceivePacketsResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// StreamService_ReplayStreamClient is the server-streaming handle for
// ReplayStream.
type StreamService_ReplayStreamClient interface {
	Recv() (*ReplayStreamResponse, error)
	grpc.ClientStream
}

type streamServiceReplayStreamClient struct {
	grpc.ClientStream
}

func (x *streamServiceReplayStreamClient) Recv() (*ReplayStreamResponse, error) {
	m := new(ReplayStreamResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// StreamServiceServer is the server half of the stream service.
type StreamServiceServer interface {
	SendOnePacket(context.Context, *SendOnePacketRequest) (*SendOnePacketResponse, error)
	SendPackets(StreamService_SendPacketsServer) error
	ReceiveOnePacket(context.Context, *ReceiveOnePacketRequest) (*ReceiveOnePacketResponse, error)
	ReceivePackets(*ReceivePacketsRequest, StreamService_ReceivePacketsServer) error
	ReplayStream(*ReplayStreamRequest, StreamService_ReplayStreamServer) error
}

// StreamService_SendPacketsServer is the server side of the client-streaming
// SendPackets RPC.
type StreamService_SendPacketsServer interface {
	SendAndClose(*SendPacketsResponse) error
	Recv() (*SendPacketsRequest, error)
	grpc.ServerStream
}

type streamServiceSendPacketsServer struct {
	grpc.ServerStream
}

func (x *streamServiceSendPacketsServer) SendAndClose(m *SendPacketsResponse) error {
	return x.ServerStream.SendMsg(m)
}

func (x *streamServiceSendPacketsServer) Recv() (*SendPacketsRequest, error) {
	m := new(SendPacketsRequest)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// StreamService_ReceivePacketsServer is the server side of the
// server-streaming ReceivePackets RPC.
type StreamService_ReceivePacketsServer interface {
	Send(*ReceivePacketsResponse) error
	grpc.ServerStream
}

type streamServiceReceivePacketsServer struct {
	grpc.ServerStream
}

func (x *streamServiceReceivePacketsServer) Send(m *ReceivePacketsResponse) error {
	return x.ServerStream.SendMsg(m)
}

// StreamService_ReplayStreamServer is the server side of the
// server-streaming ReplayStream RPC.
type StreamService_ReplayStreamServer interface {
	Send(*ReplayStreamResponse) error
	grpc.ServerStream
}

type streamServiceReplayStreamServer struct {
	grpc.ServerStream
}

func (x *streamServiceReplayStreamServer) Send(m *ReplayStreamResponse) error {
	return x.ServerStream.SendMsg(m)
}

func streamServiceSendOnePacketHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SendOnePacketRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StreamServiceServer).SendOnePacket(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/SendOnePacket"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StreamServiceServer).SendOnePacket(ctx, req.(*SendOnePacketRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func streamServiceReceiveOnePacketHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReceiveOnePacketRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StreamServiceServer).ReceiveOnePacket(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/ReceiveOnePacket"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StreamServiceServer).ReceiveOnePacket(ctx, req.(*ReceiveOnePacketRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func streamServiceSendPacketsHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(StreamServiceServer).SendPackets(&streamServiceSendPacketsServer{stream})
}

func streamServiceReceivePacketsHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(ReceivePacketsRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(StreamServiceServer).ReceivePackets(in, &streamServiceReceivePacketsServer{stream})
}

func streamServiceReplayStreamHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(ReplayStreamRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(StreamServiceServer).ReplayStream(in, &streamServiceReplayStreamServer{stream})
}

var streamServiceSendPacketsDesc = grpc.StreamDesc{
	StreamName:    "SendPackets",
	Handler:       streamServiceSendPacketsHandler,
	ClientStreams: true,
}

var streamServiceReceivePacketsDesc = grpc.StreamDesc{
	StreamName:    "ReceivePackets",
	Handler:       streamServiceReceivePacketsHandler,
	ServerStreams: true,
}

var streamServiceReplayStreamDesc = grpc.StreamDesc{
	StreamName:    "ReplayStream",
	Handler:       streamServiceReplayStreamHandler,
	ServerStreams: true,
}

// ServiceDesc is the grpc.ServiceDesc a hand-rolled equivalent of
// protoc-gen-go-grpc's generated _ServiceDesc for StreamService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*StreamServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendOnePacket", Handler: streamServiceSendOnePacketHandler},
		{MethodName: "ReceiveOnePacket", Handler: streamServiceReceiveOnePacketHandler},
	},
	Streams: []grpc.StreamDesc{
		streamServiceSendPacketsDesc,
		streamServiceReceivePacketsDesc,
		streamServiceReplayStreamDesc,
	},
}

// RegisterStreamServiceServer registers srv's implementation with s.
func RegisterStreamServiceServer(s grpc.ServiceRegistrar, srv StreamServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
