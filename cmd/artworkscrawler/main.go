// Package main provides the entry point for the artworks crawler CLI.
//
// The crawler walks a list of Behance profiles, extracts project covers and
// exports them as one JSON artifact to a file, an S3-compatible bucket, or a
// SQL table.
//
// Usage:
//
//	artworkscrawler
//	artworkscrawler --sink s3
//	artworkscrawler --handles beeple,ignasi -o out/artworks.json
package main

func main() {
	Execute()
}
