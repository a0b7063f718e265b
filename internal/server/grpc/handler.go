package grpc

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/moodkeeper/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func decode(in *structpb.Struct, v any) error {
	if err := rpc.Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	out, err := rpc.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func (s *GRPCServer) mustUser(ctx context.Context) (string, error) {
	id, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthorized")
	}
	return id, nil
}

func (s *GRPCServer) Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	var req rpc.Credentials
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	user, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Warn(ctx, "registration failed", "username", req.Username, "error", err)
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "username", user.UserName, "user_id", user.ID)
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req rpc.Credentials
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	pair, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return encode(rpc.Tokens{
		UserID:       pair.UserID,
		Username:     req.Username,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	})
}

func (s *GRPCServer) RefreshToken(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	pair, err := s.users.RefreshToken(ctx, in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	return encode(rpc.Tokens{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	})
}

func (s *GRPCServer) Logout(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	userID, err := s.mustUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.Logout(ctx, userID, in.GetValue()); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) CreateDocument(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	userID, err := s.mustUser(ctx)
	if err != nil {
		return nil, err
	}
	var req rpc.CreateDocument
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	doc, err := s.documents.Create(ctx, userID, req.Collection, req.Data)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(doc.ID), nil
}

func (s *GRPCServer) ListDocuments(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.mustUser(ctx)
	if err != nil {
		return nil, err
	}
	var req rpc.ListDocuments
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	docs, next, err := s.documents.List(ctx, userID, req.Collection, req.PageToken, req.PageSize)
	if err != nil {
		return nil, toStatus(err)
	}

	page := rpc.DocumentPage{Documents: make([]rpc.Document, 0, len(docs)), NextPageToken: next}
	for _, d := range docs {
		var data map[string]any
		if err := json.Unmarshal(d.Data, &data); err != nil {
			s.logger.Error(ctx, "stored document is not a JSON object", "id", d.ID, "error", err)
			return nil, status.Error(codes.DataLoss, "corrupt document")
		}
		page.Documents = append(page.Documents, rpc.Document{
			ID:         d.ID,
			Collection: d.Collection,
			Data:       data,
			CreatedAt:  d.CreatedAt,
		})
	}
	return encode(page)
}

func (s *GRPCServer) DeleteDocument(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	userID, err := s.mustUser(ctx)
	if err != nil {
		return nil, err
	}
	var req rpc.DocumentRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	if err := s.documents.Delete(ctx, userID, req.Collection, req.ID); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) CreateUpload(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.mustUser(ctx)
	if err != nil {
		return nil, err
	}
	var req rpc.UploadRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	f, url, err := s.files.CreateUpload(ctx, userID, req.Bucket, req.Filename, req.ContentType, req.Size)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(rpc.UploadTicket{FileID: f.ID, URL: url})
}

func (s *GRPCServer) CompleteUpload(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	userID, err := s.mustUser(ctx)
	if err != nil {
		return nil, err
	}
	var req rpc.FileRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	if err := s.files.CompleteUpload(ctx, userID, req.FileID); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) GetDownloadURL(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	userID, err := s.mustUser(ctx)
	if err != nil {
		return nil, err
	}
	var req rpc.FileRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	url, err := s.files.GetDownloadURL(ctx, userID, req.Bucket, req.FileID)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(url), nil
}
