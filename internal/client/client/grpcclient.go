package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/netx"
	"github.com/dmitrijs2005/moodkeeper/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Option configures a GRPCClient.
type Option func(*GRPCClient)

// WithHTTPClient sets the client used for presigned transfers.
func WithHTTPClient(c netx.HTTPClient) Option {
	return func(s *GRPCClient) { s.http = c }
}

// WithDialOptions appends gRPC dial options.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(s *GRPCClient) { s.dialOpts = append(s.dialOpts, opts...) }
}

// WithSessionHook registers fn to be called every time the session changes:
// login, token refresh, logout or invalidation. fn receives nil when the
// session is dropped.
func WithSessionHook(fn func(*Session)) Option {
	return func(s *GRPCClient) { s.onSessionChange = fn }
}

// GRPCClient implements RemoteStore over gRPC. It is safe for concurrent use.
type GRPCClient struct {
	endpointURL string
	dialOpts    []grpc.DialOption
	http        netx.HTTPClient
	conn        *grpc.ClientConn
	client      *rpc.RemoteStoreClient

	mu              sync.RWMutex
	session         *Session
	refreshMu       sync.Mutex
	onSessionChange func(*Session)
}

var _ RemoteStore = (*GRPCClient)(nil)

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, http: netx.DefaultClient}
	for _, o := range opts {
		o(c)
	}
	if err := c.initGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewRemoteStoreClient(conn)
	return nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the current access token. When the server
// reports it as expired, the token pair is refreshed once and the call is
// retried with the new access token.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if rpc.PublicMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	sess, ok := s.CurrentSession()
	if !ok {
		return ErrNoSession
	}

	err := invoker(withAccessToken(ctx, sess.AccessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	fresh, rerr := s.refresh(ctx, sess.AccessToken)
	if rerr != nil {
		return rerr
	}

	return invoker(withAccessToken(ctx, fresh.AccessToken), method, req, reply, cc, opts...)
}

// refresh rotates the token pair unless another call already did so after
// staleAccess was issued.
func (s *GRPCClient) refresh(ctx context.Context, staleAccess string) (*Session, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	sess, ok := s.CurrentSession()
	if !ok {
		return nil, ErrNoSession
	}
	if sess.AccessToken != staleAccess {
		return sess, nil
	}

	resp, err := s.client.RefreshToken(ctx, wrapperspb.String(sess.RefreshToken))
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			s.setSession(nil)
		}
		return nil, err
	}

	var tokens rpc.Tokens
	if err := rpc.Decode(resp, &tokens); err != nil {
		return nil, err
	}

	fresh := sessionFromTokens(tokens)
	if fresh.Username == "" {
		fresh.Username = sess.Username
	}
	s.setSession(fresh)
	return fresh, nil
}

func sessionFromTokens(t rpc.Tokens) *Session {
	return &Session{
		UserID:       t.UserID,
		Username:     t.Username,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
	}
}

func (s *GRPCClient) setSession(sess *Session) {
	s.mu.Lock()
	s.session = sess
	hook := s.onSessionChange
	s.mu.Unlock()

	if hook == nil {
		return
	}
	if sess == nil {
		hook(nil)
		return
	}
	cp := *sess
	hook(&cp)
}

// CurrentSession returns a copy of the active session.
func (s *GRPCClient) CurrentSession() (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, false
	}
	cp := *s.session
	return &cp, true
}

// RestoreSession installs a previously persisted session without talking
// to the server. The session hook is not called.
func (s *GRPCClient) RestoreSession(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess == nil {
		s.session = nil
		return
	}
	cp := *sess
	s.session = &cp
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	if _, err := s.client.Ping(ctx, &emptypb.Empty{}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, creds Credentials) error {
	req, err := rpc.Encode(rpc.Credentials{Username: creds.Username, Password: creds.Password})
	if err != nil {
		return err
	}

	if _, err := s.client.Register(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Login(ctx context.Context, creds Credentials) (*Session, error) {
	req, err := rpc.Encode(rpc.Credentials{Username: creds.Username, Password: creds.Password})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	var tokens rpc.Tokens
	if err := rpc.Decode(resp, &tokens); err != nil {
		return nil, err
	}

	sess := sessionFromTokens(tokens)
	if sess.Username == "" {
		sess.Username = creds.Username
	}
	s.setSession(sess)

	cp := *sess
	return &cp, nil
}

// Logout revokes the refresh token on the server and drops the local
// session. The local session is dropped even when the server call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	sess, ok := s.CurrentSession()
	if !ok {
		return nil
	}

	_, err := s.client.Logout(ctx, wrapperspb.String(sess.RefreshToken))
	s.setSession(nil)

	if err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) CreateDocument(ctx context.Context, collection string, data map[string]any) (string, error) {
	req, err := rpc.Encode(rpc.CreateDocument{Collection: collection, Data: data})
	if err != nil {
		return "", err
	}

	resp, err := s.client.CreateDocument(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.GetValue(), nil
}

func (s *GRPCClient) ListDocuments(ctx context.Context, collection, pageToken string) ([]Document, string, error) {
	req, err := rpc.Encode(rpc.ListDocuments{Collection: collection, PageToken: pageToken})
	if err != nil {
		return nil, "", err
	}

	resp, err := s.client.ListDocuments(ctx, req)
	if err != nil {
		return nil, "", s.mapError(err)
	}

	var page rpc.DocumentPage
	if err := rpc.Decode(resp, &page); err != nil {
		return nil, "", err
	}

	docs := make([]Document, 0, len(page.Documents))
	for _, d := range page.Documents {
		docs = append(docs, Document{ID: d.ID, Collection: d.Collection, Data: d.Data, CreatedAt: d.CreatedAt})
	}
	return docs, page.NextPageToken, nil
}

func (s *GRPCClient) DeleteDocument(ctx context.Context, collection, id string) error {
	req, err := rpc.Encode(rpc.DocumentRef{Collection: collection, ID: id})
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteDocument(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

// UploadFile reserves an upload slot, PUTs data to the presigned URL and
// confirms the upload. It returns the file id.
func (s *GRPCClient) UploadFile(ctx context.Context, bucket string, data []byte, filename, mime string) (string, error) {
	req, err := rpc.Encode(rpc.UploadRequest{Bucket: bucket, Filename: filename, ContentType: mime, Size: int64(len(data))})
	if err != nil {
		return "", err
	}

	resp, err := s.client.CreateUpload(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}

	var ticket rpc.UploadTicket
	if err := rpc.Decode(resp, &ticket); err != nil {
		return "", err
	}

	if err := netx.PutPresigned(ctx, s.http, ticket.URL, data, mime); err != nil {
		return "", fmt.Errorf("upload %s: %w", ticket.FileID, err)
	}

	ref, err := rpc.Encode(rpc.FileRef{Bucket: bucket, FileID: ticket.FileID})
	if err != nil {
		return "", err
	}
	if _, err := s.client.CompleteUpload(ctx, ref); err != nil {
		return "", s.mapError(err)
	}

	return ticket.FileID, nil
}

func (s *GRPCClient) DownloadFile(ctx context.Context, bucket, fileID string) ([]byte, error) {
	ref, err := rpc.Encode(rpc.FileRef{Bucket: bucket, FileID: fileID})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.GetDownloadURL(ctx, ref)
	if err != nil {
		return nil, s.mapError(err)
	}

	data, err := netx.GetPresigned(ctx, s.http, resp.GetValue())
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	return data, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNoSession) {
		return err
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.AlreadyExists:
		return common.ErrorAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, strings.TrimPrefix(st.Message(), common.ErrorValidation.Error()+": "))
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
