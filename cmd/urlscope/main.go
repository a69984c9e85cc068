// Package main provides the entry point for the urlscope CLI.
//
// urlscope decomposes URL strings into their structural components and
// classifies hostnames against the public suffix list.
//
// Usage:
//
//	urlscope analyze <url>...
//	cat urls.txt | urlscope analyze
//
// See --help for all available options.
package main

// main is the entry point for urlscope.
func main() {
	Execute()
}
