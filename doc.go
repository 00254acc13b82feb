// Package uploadgate implements the core of a small upload gateway that
// authenticates callers against an external identity provider, forwards
// uploaded files (3D model files and videos) to an external object store,
// and issues time-limited signed URLs for retrieval.
//
// The gateway owns no storage of its own: the object store is the sole
// source of truth for object existence. The reusable pieces live here in
// the root package:
//
//   - GatewayService: upload and download pipelines (validation, naming,
//     path construction, signed-URL issuance)
//   - ObjectStore: interface for the external object store (see the
//     supabase package for the production implementation)
//   - File-type validation and filename sanitization helpers
//
// # Storage paths
//
// Every stored object lives under a per-caller prefix:
//
//	uploads/{userID}/{projectID}/{token}_{name}                 (model files)
//	uploads/{userID}/gallery_videos/{contextID}/{token}_{name}  (videos)
//
// where token is a random UUID, so two uploads of the same filename never
// collide and an upload can never silently replace existing data.
//
// See the http package for the REST API, the identity package for token
// verification, and the config package for configuration loading.
package uploadgate
