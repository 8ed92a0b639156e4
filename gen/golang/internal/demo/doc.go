// Package demo is the Go output for schema/testdata/demo.yaml. Its tests
// hold the generated codecs to the same bytes as the dynamic codec.
package demo

//go:generate go run ../../../../cmd/bytebridge gen -s ../../../../schema/testdata/demo.yaml --go-package demo --go-out .
