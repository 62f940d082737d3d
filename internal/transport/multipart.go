package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"

	"github.com/volunteerhub/dashboard/internal/core/ports"
)

// FormField is one text part of a multipart body. Order is preserved.
type FormField struct {
	Name  string
	Value string
}

// FilePart is one file part of a multipart body.
type FilePart struct {
	Field    string
	FileName string
	Content  []byte
}

// Multipart encodes fields and files as multipart/form-data. The result is
// tagged binary, which pins the request to the direct transport.
func Multipart(fields []FormField, files []FilePart) (*ports.BinaryBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("multipart field %s: %w", f.Name, err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("multipart file %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("multipart file %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("multipart close: %w", err)
	}
	return &ports.BinaryBody{ContentType: w.FormDataContentType(), Body: buf.Bytes()}, nil
}
