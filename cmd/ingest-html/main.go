// Command ingest-html turns HTML pages into a CSV dataset that
// cmd/textgrain can filter. Each argument is a URL or a local file;
// each page becomes one row with its extracted text and source.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"
)

func main() {
	var (
		outPath = flag.String("o", "docs.csv", "output CSV path")
		timeout = flag.Duration("timeout", 30*time.Second, "HTTP timeout per page")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: ingest-html [flags] <url-or-file>...")
	}

	outFile, err := os.Create(*outPath)
	if err != nil {
		log.Fatal("create output file: ", err)
	}
	defer outFile.Close()

	w := csv.NewWriter(outFile)
	if err := w.Write([]string{"text", "source"}); err != nil {
		log.Fatal("write header: ", err)
	}

	client := &http.Client{Timeout: *timeout}
	written := 0
	for _, src := range flag.Args() {
		text, err := extract(client, src)
		if err != nil {
			log.Printf("skip %s: %v", src, err)
			continue
		}
		if text == "" {
			log.Printf("skip %s: no text content", src)
			continue
		}
		if err := w.Write([]string{text, src}); err != nil {
			log.Fatal("write row: ", err)
		}
		written++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal("flush output: ", err)
	}
	log.Printf("wrote %d documents to %s", written, *outPath)
}

func extract(client *http.Client, src string) (string, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		resp, err := client.Get(src)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		doc, err := html.Parse(resp.Body)
		if err != nil {
			return "", err
		}
		return pageText(doc), nil
	}

	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()
	doc, err := html.Parse(f)
	if err != nil {
		return "", err
	}
	return pageText(doc), nil
}

// pageText walks the parse tree collecting text nodes, skipping
// script and style subtrees.
func pageText(doc *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				if buf.Len() > 0 {
					buf.WriteByte(' ')
				}
				buf.WriteString(trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return buf.String()
}
