package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "moodkeeper.v1.RemoteStore"

// Full method names, as seen by interceptors.
const (
	MethodPing           = "/" + ServiceName + "/Ping"
	MethodRegister       = "/" + ServiceName + "/Register"
	MethodLogin          = "/" + ServiceName + "/Login"
	MethodRefreshToken   = "/" + ServiceName + "/RefreshToken"
	MethodLogout         = "/" + ServiceName + "/Logout"
	MethodCreateDocument = "/" + ServiceName + "/CreateDocument"
	MethodListDocuments  = "/" + ServiceName + "/ListDocuments"
	MethodDeleteDocument = "/" + ServiceName + "/DeleteDocument"
	MethodCreateUpload   = "/" + ServiceName + "/CreateUpload"
	MethodCompleteUpload = "/" + ServiceName + "/CompleteUpload"
	MethodGetDownloadURL = "/" + ServiceName + "/GetDownloadURL"
)

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	MethodPing:         true,
	MethodRegister:     true,
	MethodLogin:        true,
	MethodRefreshToken: true,
}

// RemoteStoreServer is the server-side API of the remote store.
type RemoteStoreServer interface {
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Register(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Logout(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	CreateDocument(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	ListDocuments(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteDocument(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	CreateUpload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompleteUpload(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	GetDownloadURL(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
}

// unary adapts a typed server method to grpc.MethodHandler, the same way
// protoc-gen-go-grpc does for every generated method.
func unary[Req, Resp any](fullMethod string, call func(RemoteStoreServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(RemoteStoreServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the RemoteStore service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RemoteStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, RemoteStoreServer.Ping)},
		{MethodName: "Register", Handler: unary(MethodRegister, RemoteStoreServer.Register)},
		{MethodName: "Login", Handler: unary(MethodLogin, RemoteStoreServer.Login)},
		{MethodName: "RefreshToken", Handler: unary(MethodRefreshToken, RemoteStoreServer.RefreshToken)},
		{MethodName: "Logout", Handler: unary(MethodLogout, RemoteStoreServer.Logout)},
		{MethodName: "CreateDocument", Handler: unary(MethodCreateDocument, RemoteStoreServer.CreateDocument)},
		{MethodName: "ListDocuments", Handler: unary(MethodListDocuments, RemoteStoreServer.ListDocuments)},
		{MethodName: "DeleteDocument", Handler: unary(MethodDeleteDocument, RemoteStoreServer.DeleteDocument)},
		{MethodName: "CreateUpload", Handler: unary(MethodCreateUpload, RemoteStoreServer.CreateUpload)},
		{MethodName: "CompleteUpload", Handler: unary(MethodCompleteUpload, RemoteStoreServer.CompleteUpload)},
		{MethodName: "GetDownloadURL", Handler: unary(MethodGetDownloadURL, RemoteStoreServer.GetDownloadURL)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "moodkeeper/v1/remote_store.proto",
}

// RegisterRemoteStoreServer registers srv on s.
func RegisterRemoteStoreServer(s grpc.ServiceRegistrar, srv RemoteStoreServer) {
	s.RegisterService(&ServiceDesc, srv)
}
