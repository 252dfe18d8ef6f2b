package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "note not found")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) ListNotes(ctx context.Context, req *rpc.ListNotesRequest) (*rpc.ListNotesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.notes.List(ctx, userID, req.FolderID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*rpc.Note, 0, len(list))
	for _, n := range list {
		out = append(out, rpc.NoteFromModel(n))
	}
	return &rpc.ListNotesResponse{Notes: out}, nil
}

func (s *GRPCServer) GetNote(ctx context.Context, req *rpc.GetNoteRequest) (*rpc.GetNoteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.notes.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.GetNoteResponse{Note: rpc.NoteFromModel(n)}, nil
}

func (s *GRPCServer) CreateNote(ctx context.Context, req *rpc.CreateNoteRequest) (*rpc.CreateNoteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.notes.Create(ctx, userID, req.Body, req.FolderID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "note created", "id", n.ID)
	return &rpc.CreateNoteResponse{Note: rpc.NoteFromModel(n)}, nil
}

// UpdateNote reports a stale revision in-band with the current note so the
// client can adopt it; a missing note is a NotFound status.
func (s *GRPCServer) UpdateNote(ctx context.Context, req *rpc.UpdateNoteRequest) (*rpc.UpdateNoteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.notes.Update(ctx, userID, req.ID, req.Body, req.Revision)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	switch res.Outcome {
	case models.UpdateCommitted:
		return &rpc.UpdateNoteResponse{Outcome: rpc.OutcomeCommitted, Note: rpc.NoteFromModel(res.Note)}, nil
	case models.UpdateConflict:
		s.logger.Info(ctx, "revision conflict", "id", req.ID, "sent", req.Revision, "current", res.Note.Revision)
		return &rpc.UpdateNoteResponse{Outcome: rpc.OutcomeConflict, Note: rpc.NoteFromModel(res.Note)}, nil
	default:
		return nil, status.Error(codes.NotFound, "note not found")
	}
}

func (s *GRPCServer) DeleteNote(ctx context.Context, req *rpc.DeleteNoteRequest) (*rpc.DeleteNoteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.notes.Delete(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.DeleteNoteResponse{}, nil
}
