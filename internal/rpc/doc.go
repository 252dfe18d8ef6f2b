// Package rpc describes the gophnotes gRPC service without generated code:
// plain Go request/response structs carried by a JSON codec, a hand-written
// grpc.ServiceDesc, and a typed client stub.
//
// The codec is registered under the "json" content-subtype on import; the
// client stub always requests it, so both sides agree without protobuf.
package rpc
