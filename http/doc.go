// Package http provides the REST API of the upload gateway.
//
// # Endpoints
//
//   - POST /api/upload        multipart model-file upload (auth required)
//   - POST /api/upload-video  multipart video upload (auth required)
//   - POST /api/download      signed download URL for a storage path (auth required)
//   - GET  /health            health check
//   - GET  /                  service descriptor
//   - GET  /api/test          connectivity check
//
// All responses are JSON. Failures use the envelope
// {"success": false, "error": "<message>"} with an optional "details"
// field on internal errors.
//
// # Authentication
//
// The three /api write/read endpoints require an Authorization header of
// the form "Bearer <token>". The token is delegated to an
// identity.Verifier; on success the caller identity is bound to the
// request context for the handlers.
//
// # Upload gating
//
// File-type validation runs against the multipart part headers before the
// file body is buffered, and per-route body-size ceilings are enforced
// with http.MaxBytesReader, so oversized or mistyped uploads never reach
// the pipeline.
package http
