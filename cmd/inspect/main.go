package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Offline viewer for the document store. Scans a key prefix and
// renders the decoded documents as a table.
func main() {
	dbPath := flag.String("db", "/tmp/giveboard/badger", "Path to badger DB")
	prefix := flag.String("prefix", "doc/chats/", "Key prefix to scan")
	deep := flag.Bool("deep", false, "Include subcollection documents")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Bold.Printf("Scanning %s (prefix %q)\n", *dbPath, *prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Document ID", "Fields"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			id := strings.TrimPrefix(rawKey, *prefix)
			if !*deep && strings.Contains(id, "/") {
				continue
			}

			err := item.Value(func(v []byte) error {
				var fields map[string]any
				if err := json.Unmarshal(v, &fields); err != nil {
					fmt.Printf("Error decoding key %s: %v\n", rawKey, err)
					return nil
				}
				table.Append([]string{rawKey, id, summarize(fields)})
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	if count == 0 {
		color.Yellow.Println("No documents under this prefix")
	} else {
		color.Green.Printf("%d document(s)\n", count)
	}
}

// summarize renders fields as "k=v" pairs, truncating long values so
// one document stays on one line.
func summarize(fields map[string]any) string {
	parts := make([]string, 0, len(fields))
	for k, v := range fields {
		raw := fmt.Sprintf("%v", v)
		if len(raw) > 40 {
			raw = raw[:37] + "..."
		}
		parts = append(parts, fmt.Sprintf("%s=%s", k, raw))
	}
	return strings.Join(parts, " ")
}
