//go:build generate

// This program generates tables.go from the Hanyang PUA mapping in table.txt.
//
//go:generate go run gen_table.go

package main

import (
	"bytes"
	"fmt"
	"go/format"
	"log"
	"os"

	"github.com/jusunglee/hypua/internal/dataset"
)

const (
	inputFile  = "table.txt"
	outputFile = "tables.go"
)

func main() {
	log.SetPrefix("gen_table: ")
	log.SetFlags(0)

	f, err := os.Open(inputFile)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	log.Printf("Parsing %s", inputFile)
	entries, err := dataset.Parse(f)
	if err != nil {
		log.Fatal(err)
	}
	if err := dataset.Validate(entries); err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	buf.WriteString(`// Code generated via go generate from gen_table.go. DO NOT EDIT.

package hypua

// ipfTable maps Hanyang PUA codes to conjoining jamo in IPF order.
var ipfTable = map[rune]string{
`)
	for _, e := range entries {
		fmt.Fprintf(&buf, "\t0x%04X: %+q,\n", e.Code, e.String())
	}
	buf.WriteString("}\n")

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		log.Fatal("gofmt:", err)
	}

	log.Printf("Writing %d entries to %s", len(entries), outputFile)
	if err := os.WriteFile(outputFile, formatted, 0644); err != nil {
		log.Fatal(err)
	}
}
