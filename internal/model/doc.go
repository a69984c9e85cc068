// Package model defines the data structures shared across urlscope.
// The central type is Analysis, the output record produced for each
// input URL. It combines the structural URL components with the
// suffix-based host classification.
package model
