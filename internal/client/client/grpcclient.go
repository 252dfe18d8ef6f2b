package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCClient implements Client over the gophnotes gRPC service.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.NoteServiceClient
	accessToken string
	timeout     time.Duration
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazily connected client. Every call is bounded by
// timeout. Extra dial options are appended after the defaults.
func NewGRPCClient(endpointURL, accessToken string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewNoteServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) FetchAll(ctx context.Context, folderID string) ([]*models.Note, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ListNotes(ctx, &rpc.ListNotesRequest{FolderID: folderID})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]*models.Note, 0, len(resp.Notes))
	for _, n := range resp.Notes {
		out = append(out, n.ToModel())
	}
	return out, nil
}

func (s *GRPCClient) Get(ctx context.Context, id string) (*models.Note, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetNote(ctx, &rpc.GetNoteRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Note.ToModel(), nil
}

func (s *GRPCClient) Create(ctx context.Context, body, folderID string) (*models.Note, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.CreateNote(ctx, &rpc.CreateNoteRequest{Body: body, FolderID: folderID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Note.ToModel(), nil
}

func (s *GRPCClient) Update(ctx context.Context, id, body string, revision int64) (models.UpdateResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.UpdateNote(ctx, &rpc.UpdateNoteRequest{ID: id, Body: body, Revision: revision})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.NotFound(), nil
		}
		return models.UpdateResult{}, s.mapError(err)
	}

	switch resp.Outcome {
	case rpc.OutcomeCommitted:
		return models.Committed(resp.Note.ToModel()), nil
	case rpc.OutcomeConflict:
		return models.Conflict(resp.Note.ToModel()), nil
	default:
		return models.UpdateResult{}, fmt.Errorf("unexpected update outcome %q", resp.Outcome)
	}
}

func (s *GRPCClient) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.DeleteNote(ctx, &rpc.DeleteNoteRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrUnavailable
		}
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
