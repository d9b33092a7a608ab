// Package source reads ingestion input from disk: plain text, JSONL
// article dumps and HTML pages.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/wordctx/pkg/wordctx/internalerr"
)

// Kinds of input
const (
	KindText  = "text"
	KindJSONL = "jsonl"
	KindHTML  = "html"
)

// Document is the text extracted from one input file
type Document struct {
	Path string
	Kind string
	Text string
	// Skipped counts malformed JSONL lines
	Skipped int
}

// Item is one JSONL record. Title and Body each end a sentence.
type Item struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"text"`
}

// KindOf picks the reader for path by extension
func KindOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return KindJSONL
	case ".html", ".htm":
		return KindHTML
	default:
		return KindText
	}
}

// Load reads path and extracts its text
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read file %s: %w: %w", path, internalerr.ErrInvalidInput, err)
	}

	doc := Document{Path: path, Kind: KindOf(path)}
	switch doc.Kind {
	case KindJSONL:
		doc.Text, doc.Skipped, err = fromJSONL(data)
		if err != nil {
			return Document{}, fmt.Errorf("%s: %w", path, err)
		}
	case KindHTML:
		doc.Text, err = fromHTML(data)
		if err != nil {
			return Document{}, fmt.Errorf("parse html %s: %w: %v", path, internalerr.ErrInvalidInput, err)
		}
	default:
		doc.Text = string(data)
	}
	return doc, nil
}

func fromJSONL(data []byte) (string, int, error) {
	var (
		parts   []string
		skipped int
		valid   int
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			skipped++
			continue
		}
		valid++
		for _, s := range []string{item.Title, item.Body} {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", skipped, err
	}
	if valid == 0 {
		return "", skipped, fmt.Errorf("no valid items: %w", internalerr.ErrInvalidInput)
	}
	return strings.Join(parts, ". "), skipped, nil
}

// blockElements end a sentence in extracted HTML text
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "br": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"title": true, "blockquote": true, "pre": true,
}

func fromHTML(data []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString(". ")
		}
	}
	extractText(root)

	return strings.TrimSpace(buf.String()), nil
}
