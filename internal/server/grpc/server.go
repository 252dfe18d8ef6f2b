// Package grpc exposes NoteService over gRPC: handlers translating between
// wire messages and the service layer, an access-token interceptor, and a
// Run loop that stops gracefully on context cancellation.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/rpc"
	"google.golang.org/grpc"
)

// noteService is the subset of services.NoteService used by the handlers.
type noteService interface {
	Create(ctx context.Context, userID, body, folderID string) (*models.Note, error)
	List(ctx context.Context, userID, folderID string) ([]*models.Note, error)
	Get(ctx context.Context, userID, id string) (*models.Note, error)
	Update(ctx context.Context, userID, id, body string, revision int64) (models.UpdateResult, error)
	Delete(ctx context.Context, userID, id string) error
}

type GRPCServer struct {
	rpc.UnimplementedNoteServiceServer
	address   string
	notes     noteService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, ns noteService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		notes:     ns,
		jwtSecret: []byte(secretKey),
	}
}

// register builds a grpc.Server with the interceptor chain and the note service.
func (s *GRPCServer) register() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterNoteServiceServer(srv, s)
	return srv
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.register()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}
