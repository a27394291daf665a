package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

// Params holds the request parameters as strings, merged from the query
// string and the body. Body values win over query values.
type Params map[string]string

func (p Params) Get(key string) string {
	return strings.TrimSpace(p[key])
}

// First returns the first non-empty value among keys.
func (p Params) First(keys ...string) string {
	for _, k := range keys {
		if v := p.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// ParseParams accepts JSON, urlencoded and multipart bodies. Non-string JSON
// values are kept as their JSON text so nested objects can be decoded later.
func ParseParams(r *http.Request) (Params, error) {
	p := Params{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}

	if r.Body == nil || r.Method == http.MethodGet {
		return p, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json", "":
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return p, nil
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		for k, raw := range fields {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				p[k] = s
				continue
			}
			if string(raw) == "null" {
				continue
			}
			p[k] = string(raw)
		}
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				p[k] = v[0]
			}
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				p[k] = v[0]
			}
		}
	}
	return p, nil
}
