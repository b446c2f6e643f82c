package filemanager

import (
	"context"
	"fmt"
	"strings"
)

// FileType is the lowercased extension of a file name.
type FileType string

const (
	TXT  FileType = "txt"
	HTML FileType = "html"
	CSV  FileType = "csv"
	PDF  FileType = "pdf"
	DOCX FileType = "docx"
)

// FileTypeOf returns everything after the last '.' in name, lowercased. A
// name without a dot is its own type.
func FileTypeOf(name string) FileType {
	return FileType(strings.ToLower(name[strings.LastIndex(name, ".")+1:]))
}

// SaveFileByType writes content to path using the writer for name's
// extension. Text types take a string or []byte, csv takes [][]string rows
// or [][][]string groups.
// Unknown extensions yield *UnsupportedFileTypeError.
func (fm *FileManager) SaveFileByType(ctx context.Context, name, path string, content any) error {
	switch ft := FileTypeOf(name); ft {
	case TXT, HTML:
		text, err := textContent(content)
		if err != nil {
			return err
		}
		return fm.writeText(ctx, name, path, text)
	case CSV:
		switch c := content.(type) {
		case [][][]string:
			return fm.writeCSV(ctx, name, path, c)
		case [][]string:
			return fm.writeCSV(ctx, name, path, [][][]string{c})
		default:
			return fmt.Errorf("csv content must be [][]string or [][][]string, got %T", content)
		}
	case PDF:
		return fm.WritePDFFile(ctx, name, path, content)
	case DOCX:
		return fm.WriteDOCXFile(ctx, name, path, content)
	default:
		return &UnsupportedFileTypeError{Type: string(ft)}
	}
}

func textContent(content any) (string, error) {
	switch c := content.(type) {
	case string:
		return c, nil
	case []byte:
		return string(c), nil
	default:
		return "", fmt.Errorf("text content must be a string or []byte, got %T", content)
	}
}

// typeLabel keeps metric labels to the known file types.
func typeLabel(ft FileType) string {
	switch ft {
	case TXT, HTML, CSV, PDF, DOCX:
		return string(ft)
	default:
		return "other"
	}
}
