// Package docparse 从上传文档中提取纯文本，支持 PDF、PPTX 和文本/Markdown。
package docparse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat 不支持的文件格式
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmptyDocument 文档为空或没有可提取的文本
	ErrEmptyDocument = errors.New("empty document")
)

// SupportedExts 支持的扩展名
var SupportedExts = []string{".pdf", ".pptx", ".txt", ".md"}

// Supported 判断文件名是否为支持的格式
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExts {
		if e == ext {
			return true
		}
	}
	return false
}

// Parse 按文件扩展名提取文本
func Parse(name string, data []byte) (string, error) {
	if !Supported(name) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is zero bytes", ErrEmptyDocument, name)
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		text, err = parsePDF(data)
	case ".pptx":
		text, err = parsePPTX(data)
	default:
		text = string(data)
	}
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: no text in %s", ErrEmptyDocument, name)
	}
	return text, nil
}

func parsePDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

type slideFile struct {
	index int
	file  *zip.File
}

func parsePPTX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var slides []slideFile
	for _, f := range zr.File {
		name := f.Name
		if !strings.HasPrefix(name, "ppt/slides/slide") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml"))
		if err != nil {
			continue
		}
		slides = append(slides, slideFile{index: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].index < slides[j].index })

	var sb strings.Builder
	for _, s := range slides {
		text, err := slideText(s.file)
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", s.index, err)
		}
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "Slide %d:\n%s\n\n", s.index, text)
	}
	return sb.String(), nil
}

// slideText 收集幻灯片中的 a:t 文本，每个段落 a:p 一行
func slideText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var (
		lines []string
		para  strings.Builder
		inT   bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inT = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inT = false
			case "p":
				if line := strings.TrimSpace(para.String()); line != "" {
					lines = append(lines, line)
				}
				para.Reset()
			}
		case xml.CharData:
			if inT {
				para.Write(t)
			}
		}
	}
	if line := strings.TrimSpace(para.String()); line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
