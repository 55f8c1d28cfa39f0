package requester

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
)

const (
	contentTypeJSON = "application/json"
	acceptDefault   = "application/json"
)

// JSONBody marshals v into a JSON request body.
func JSONBody(v any) (*Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return &Body{Data: data, ContentType: contentTypeJSON}, nil
}

// RawBody wraps an already serialized payload.
func RawBody(data []byte, contentType string) *Body {
	return &Body{Data: data, ContentType: contentType}
}

// MultipartBody builds a multipart/form-data payload from form fields and files.
// Fields are written in name order so the payload is reproducible.
func MultipartBody(fields map[string]string, files []FileUpload) (*Body, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, file := range files {
		name := file.FileName
		if name == "" {
			name = "file"
		}
		part, err := writer.CreateFormFile(file.FieldName, name)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, fmt.Errorf("failed to copy file: %w", err)
		}
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writer.WriteField(name, fields[name]); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &Body{Data: body.Bytes(), ContentType: writer.FormDataContentType()}, nil
}

// BuildRequest turns a descriptor into a transport request: path resolution,
// query construction, header assembly and body attachment. It performs no I/O
// and fails only with a malformed-request *ErrorDetail.
func BuildRequest(desc *Descriptor) (*Request, error) {
	if desc == nil {
		return nil, Malformed("descriptor is nil")
	}
	method := strings.ToUpper(desc.Method)
	if !allowedMethods[method] {
		return nil, Malformed("unsupported method %q", desc.Method)
	}
	if desc.Path == "" {
		return nil, Malformed("path is empty")
	}

	path, err := resolvePath(desc.Path, desc.PathParams)
	if err != nil {
		return nil, err
	}

	rawQuery, err := encodeQuery(desc)
	if err != nil {
		return nil, err
	}
	target := path
	if rawQuery != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		target = path + sep + rawQuery
	}

	headers := make(http.Header)
	headers.Set("Accept", acceptDefault)

	var payload []byte
	if desc.Body != nil {
		payload = desc.Body.Data
		if desc.Body.ContentType != "" {
			headers.Set("Content-Type", desc.Body.ContentType)
		}
	}

	for key, value := range desc.Headers {
		headers.Set(key, value)
	}

	return &Request{
		Method:  method,
		URL:     target,
		Headers: headers,
		Body:    payload,
	}, nil
}
