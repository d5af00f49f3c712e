// Package audit records who changed what.
//
// A Logger fills the actor, tenant, request id and client address of each
// event from the request context through configurable extractors, stamps it
// with a UUIDv7 and passes it to a Storage. Storage is an interface; the
// tenant directory ships a PostgreSQL implementation.
//
//	trail := audit.NewLogger(store,
//		audit.WithActorExtractor(rbac.GetRoleFromContext),
//		audit.WithRequestIDExtractor(requestIDFromContext),
//	)
//	_ = trail.Log(ctx, "tenant.create", audit.WithResource("tenant", "42"))
package audit
