// Package bootstrap turns a resolved configuration into a ready
// analyzer, recovering from the failures that are recoverable.
//
// Analyzer construction fails with a typed classification. Two of the
// classes offer a consent-gated recovery: an unusable configuration can
// be replaced by the computed default, and missing packages can be
// installed. Each recovery runs at most once per invocation, so the
// loop is bounded: the same failure class seen a second time is final.
package bootstrap
