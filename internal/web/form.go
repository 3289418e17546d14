package web

import (
	"net/http"
	"strconv"
	"strings"
)

// Form field helpers. r.ParseForm must have been called (FormValue does it).

func FormString(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// OptString is nil for a blank field.
func OptString(r *http.Request, key string) *string {
	v := FormString(r, key)
	if v == "" {
		return nil
	}
	return &v
}

func FormInt64(r *http.Request, key string) (int64, error) {
	v := FormString(r, key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: key, Message: fieldLabel(key) + "必須是整數"}
	}
	return n, nil
}

// OptInt64 is nil for a blank field.
func OptInt64(r *http.Request, key string) (*int64, error) {
	if FormString(r, key) == "" {
		return nil, nil
	}
	n, err := FormInt64(r, key)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func FormInt(r *http.Request, key string) (int, error) {
	n, err := FormInt64(r, key)
	return int(n), err
}

func FormBool(r *http.Request, key string) bool {
	switch FormString(r, key) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// FormList returns the non-blank values of a repeated field.
func FormList(r *http.Request, key string) []string {
	_ = r.ParseForm()
	out := []string{}
	for _, v := range r.Form[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
