package console

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/studiowebux/itemconsole/internal/types"
)

// ErrConfig marks failures detected before any request is sent
var ErrConfig = errors.New("configuration error")

var (
	ErrBaseURLMissing = fmt.Errorf("%w: base URL is required", ErrConfig)
	ErrBaseURLInvalid = fmt.Errorf("%w: base URL must start with http:// or https://", ErrConfig)
	ErrIDMissing      = fmt.Errorf("%w: item id is required", ErrConfig)
)

// ItemsPath is the collection endpoint relative to the base URL
const ItemsPath = "/items"

// NormalizeBaseURL trims whitespace, checks the scheme and strips one trailing slash
func NormalizeBaseURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrBaseURLMissing
	}

	lower := strings.ToLower(s)
	var rest string
	switch {
	case strings.HasPrefix(lower, "http://"):
		rest = s[len("http://"):]
	case strings.HasPrefix(lower, "https://"):
		rest = s[len("https://"):]
	default:
		return "", ErrBaseURLInvalid
	}
	if strings.Trim(rest, "/") == "" {
		return "", ErrBaseURLInvalid
	}

	return strings.TrimSuffix(s, "/"), nil
}

// ItemPath returns the path of one item, escaping the id
func ItemPath(id string) string {
	return ItemsPath + "/" + url.PathEscape(id)
}

// BuildPayload keeps the non-empty text fields and a numeric priority
func BuildPayload(form types.ItemForm) types.Payload {
	payload := types.Payload{}

	fields := []struct {
		key   string
		value string
	}{
		{"name", form.Name},
		{"owner", form.Owner},
		{"category", form.Category},
		{"notes", form.Notes},
	}
	for _, f := range fields {
		if v := strings.TrimSpace(f.value); v != "" {
			payload[f.key] = v
		}
	}

	if priority, ok := parsePriority(form.Priority); ok {
		payload["priority"] = priority
	}

	return payload
}

// parsePriority accepts any finite number; whole numbers come back as int64
func parsePriority(raw string) (any, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, false
	}

	if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
		return int64(n), true
	}
	return n, true
}
