// Package inference derives typed field descriptors from fragment columns
// and assembles them into schemas.
//
// Inference is advisory: every field carries a confidence score so that
// consumers can treat low-confidence or ambiguous types as provisional.
package inference
