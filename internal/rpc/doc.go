// Package rpc defines the MoodKeeper remote-store gRPC contract shared by the
// server and the client.
//
// The service is described by hand (ServiceDesc) instead of generated code.
// Every message is a protobuf well-known type: structured payloads travel as
// google.protobuf.Struct, scalar ids as StringValue, and empty replies as
// Empty. Typed Go request/response structs in this package are converted to
// and from Struct with Encode/Decode, which go through protojson so field
// names match the JSON tags. int64 fields carry the ",string" tag option,
// because a Struct number is a double. The same contract is written out in
// api/moodkeeper/v1/remote_store.proto.
//
// Methods
//
//	Ping            Empty          -> Empty          (public)
//	Register        Credentials    -> Empty          (public)
//	Login           Credentials    -> Tokens         (public)
//	RefreshToken    StringValue    -> Tokens         (public)
//	Logout          StringValue    -> Empty
//	CreateDocument  CreateDocument -> StringValue
//	ListDocuments   ListDocuments  -> DocumentPage
//	DeleteDocument  DocumentRef    -> Empty
//	CreateUpload    UploadRequest  -> UploadTicket
//	CompleteUpload  FileRef        -> Empty
//	GetDownloadURL  FileRef        -> StringValue
//
// Authenticated methods expect the access token in the "access_token"
// metadata key (see common.AccessTokenHeaderName).
package rpc
