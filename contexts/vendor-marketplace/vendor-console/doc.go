// Package vendorconsole is the operator console for the vendor marketplace.
//
// It holds the two client-side components of the admin vendor page:
// - mutator.DealForm validates a typed deal value and writes it to one vendor
// record, then notifies, clears the input and asks the caller to refresh.
// - permission.AdminResolver derives admin access from the signed-in identity
// through the remote has_role procedure, failing closed.
//
// Both apply asynchronous results only while they are still current.
package vendorconsole
