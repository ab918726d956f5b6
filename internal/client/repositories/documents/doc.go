// Package documents keeps the last file listing fetched from the backend for
// each owner, so the dashboard can still show documents while the backend
// is unreachable.
//
// The cache is a plain copy of the server's answer: ReplaceOwner swaps the
// whole listing for one owner in a single transaction, and DeleteFilename
// mirrors an optimistic deletion. Nothing here assigns versions; that stays
// the backend's job.
//
//	repo := documents.NewSQLiteRepository(db)
//	_ = repo.ReplaceOwner(ctx, ownerID, records)
//	cached, at, _ := repo.ListByOwner(ctx, ownerID)
package documents
