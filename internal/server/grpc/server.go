// Package grpc exposes the remote store over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/dmitrijs2005/moodkeeper/internal/rpc"
	"github.com/dmitrijs2005/moodkeeper/internal/server/models"
	"github.com/dmitrijs2005/moodkeeper/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID, refreshToken string) error
}

type DocumentService interface {
	Create(ctx context.Context, userID, collection string, data map[string]any) (*models.Document, error)
	List(ctx context.Context, userID, collection, pageToken string, pageSize int) ([]*models.Document, string, error)
	Delete(ctx context.Context, userID, collection, id string) error
}

type FileService interface {
	CreateUpload(ctx context.Context, userID, bucket, filename, contentType string, size int64) (*models.File, string, error)
	CompleteUpload(ctx context.Context, userID, fileID string) error
	GetDownloadURL(ctx context.Context, userID, bucket, fileID string) (string, error)
}

// GRPCServer implements rpc.RemoteStoreServer.
type GRPCServer struct {
	address   string
	users     UserService
	documents DocumentService
	files     FileService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(address string, l logging.Logger, us UserService, ds DocumentService, fs FileService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		documents: ds,
		files:     fs,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterRemoteStoreServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())
	return srv.Serve(lis)
}
