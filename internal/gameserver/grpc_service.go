package gameserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/storage"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "delve.v1.TurnService"

const (
	methodNewGame = "/" + ServiceName + "/NewGame"
	methodTurn    = "/" + ServiceName + "/Turn"
	methodState   = "/" + ServiceName + "/State"
)

// TurnServiceServer is the server API of TurnService. Requests and responses
// are structpb.Struct documents:
//
//	NewGame {player_id, name, class, seed}  -> {entry, state}
//	Turn    {player_id, input}              -> {entry, state}
//	State   {player_id}                     -> {state}
type TurnServiceServer interface {
	NewGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Turn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	State(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// TurnServiceDesc describes TurnService for grpc.Server.RegisterService.
var TurnServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TurnServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "NewGame", Handler: unaryHandler(methodNewGame, TurnServiceServer.NewGame)},
		{MethodName: "Turn", Handler: unaryHandler(methodTurn, TurnServiceServer.Turn)},
		{MethodName: "State", Handler: unaryHandler(methodState, TurnServiceServer.State)},
	},
	Streams: []grpc.StreamDesc{},
}

type unaryMethod func(TurnServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TurnServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TurnServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegisterTurnServiceServer registers srv on s.
func RegisterTurnServiceServer(s grpc.ServiceRegistrar, srv TurnServiceServer) {
	s.RegisterService(&TurnServiceDesc, srv)
}

// TurnServiceClient is the client API of TurnService.
type TurnServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTurnServiceClient creates a client over cc.
func NewTurnServiceClient(cc grpc.ClientConnInterface) *TurnServiceClient {
	return &TurnServiceClient{cc: cc}
}

// NewGame calls TurnService.NewGame.
func (c *TurnServiceClient) NewGame(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodNewGame, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Turn calls TurnService.Turn.
func (c *TurnServiceClient) Turn(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodTurn, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// State calls TurnService.State.
func (c *TurnServiceClient) State(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodState, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GRPCServer adapts a Service to TurnServiceServer.
type GRPCServer struct {
	svc    *Service
	logger *zap.Logger
}

// NewGRPCServer creates a GRPCServer.
//
// Precondition: svc and logger must be non-nil.
func NewGRPCServer(svc *Service, logger *zap.Logger) *GRPCServer {
	return &GRPCServer{svc: svc, logger: logger}
}

// NewGame implements TurnServiceServer.
func (g *GRPCServer) NewGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()
	seed := int64(f["seed"].GetNumberValue())
	gs, entry, err := g.svc.NewGame(ctx,
		f["player_id"].GetStringValue(),
		f["name"].GetStringValue(),
		f["class"].GetStringValue(),
		seed,
	)
	if err != nil {
		return nil, g.toStatus(methodNewGame, err)
	}
	return reply(&entry, gs)
}

// Turn implements TurnServiceServer.
func (g *GRPCServer) Turn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()
	gs, entry, err := g.svc.Turn(ctx, f["player_id"].GetStringValue(), f["input"].GetStringValue())
	if err != nil {
		return nil, g.toStatus(methodTurn, err)
	}
	return reply(&entry, gs)
}

// State implements TurnServiceServer.
func (g *GRPCServer) State(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	gs, err := g.svc.State(ctx, req.GetFields()["player_id"].GetStringValue())
	if err != nil {
		return nil, g.toStatus(methodState, err)
	}
	return reply(nil, gs)
}

// toStatus maps domain errors to gRPC status codes.
func (g *GRPCServer) toStatus(method string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, character.ErrUnknownClass):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, state.ErrIncompatibleSave):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	g.logger.Error("internal error", zap.String("method", method), zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

func reply(entry *state.LogEntry, gs *state.GameState) (*structpb.Struct, error) {
	out := &structpb.Struct{Fields: map[string]*structpb.Value{}}
	if entry != nil {
		v, err := toStruct(entry)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		out.Fields["entry"] = structpb.NewStructValue(v)
	}
	v, err := toStruct(gs)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out.Fields["state"] = structpb.NewStructValue(v)
	return out, nil
}

// toStruct converts a JSON-tagged value into a structpb.Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	s := &structpb.Struct{}
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return s, nil
}
