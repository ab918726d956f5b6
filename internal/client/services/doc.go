// Package services holds the view-level logic of the DocuDefense client:
// the paginated user directory and the per-user document dashboard. Both
// keep the state a screen would show and talk to the backend through small
// interfaces so they can be driven by fakes in tests.
package services
