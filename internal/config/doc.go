// Package config provides configuration structures and utilities for urlscope.
// It defines the main configuration options for URL analysis, output format
// selection, and history persistence preferences.
package config
